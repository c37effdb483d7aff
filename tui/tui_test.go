package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/apitest"
	"github.com/harperreed/adda/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv  *apitest.Server
	sess *session.Manager
	m    Model
}

func newHarness(t *testing.T, loggedIn bool, opts ...Option) *harness {
	t.Helper()
	srv := apitest.New(t)
	logger := log.New(io.Discard)
	sess := session.NewManager(session.NewMemoryStore(), logger)
	ctx := context.Background()
	if loggedIn {
		require.NoError(t, sess.SaveAuthData(ctx, srv.Token(apitest.BrokerAsha), apitest.PhoneAsha, apitest.BrokerAsha))
	}
	client := api.NewClient(sess, api.WithBaseURL(srv.URL), api.WithLogger(logger))

	h := &harness{srv: srv, sess: sess, m: NewModel(ctx, client, opts...)}
	t.Cleanup(h.m.Close)
	return h
}

// update feeds msg to the model and returns the follow-up command.
func (h *harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// run executes cmd and feeds its message back, returning the next command.
func (h *harness) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	return h.update(cmd())
}

func (h *harness) key(k string) tea.Cmd {
	switch k {
	case "enter":
		return h.update(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.update(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		return h.update(tea.KeyMsg{Type: tea.KeyTab})
	case "down":
		return h.update(tea.KeyMsg{Type: tea.KeyDown})
	case "ctrl+l":
		return h.update(tea.KeyMsg{Type: tea.KeyCtrlL})
	}
	return h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestStartsOnLoginWithoutSession(t *testing.T) {
	h := newHarness(t, false)
	assert.Equal(t, ViewLogin, h.m.current())
	assert.Contains(t, h.m.View(), "Enter: Send OTP")
}

func TestStartsOnLeadsWithSession(t *testing.T) {
	h := newHarness(t, true)
	assert.Equal(t, ViewLeads, h.m.current())
	assert.True(t, h.m.loading)

	h.run(t, h.m.loadLeads())
	assert.False(t, h.m.loading)
	require.Len(t, h.m.leads, 2)
	assert.Contains(t, h.m.View(), "Priya Nair")
}

func TestLoginFlow(t *testing.T) {
	h := newHarness(t, false)
	h.typeText(apitest.PhoneAsha)

	send := h.key("enter")
	require.NotNil(t, send)
	assert.True(t, h.m.submitting)
	assert.Nil(t, h.key("enter"), "submit is disabled while a request is in flight")

	h.run(t, send)
	assert.Equal(t, stepOTP, h.m.loginStep)
	assert.False(t, h.m.submitting)
	assert.Equal(t, "✓ OTP sent successfully", h.m.toast)

	h.typeText("000000")
	h.run(t, h.key("enter"))
	assert.Equal(t, ViewLogin, h.m.current())
	assert.True(t, h.m.toastErr)
	assert.Equal(t, "Invalid OTP", h.m.toast)

	h.m.otpInput.SetValue(apitest.DefaultOTP)
	load := h.run(t, h.key("enter"))
	assert.Equal(t, ViewLeads, h.m.current())

	h.run(t, load)
	assert.Len(t, h.m.leads, 2)

	token, _ := h.sess.GetToken(context.Background())
	assert.NotEmpty(t, token)
}

func TestInvalidPhoneShowsValidationToast(t *testing.T) {
	h := newHarness(t, false)
	h.typeText("12345")
	h.run(t, h.key("enter"))

	assert.Equal(t, stepPhone, h.m.loginStep)
	assert.Equal(t, "Please enter a valid 10-digit phone number", h.m.toast)
	assert.Empty(t, h.srv.Requests())
}

func TestSessionExpiryResetsToLogin(t *testing.T) {
	h := newHarness(t, true)
	h.run(t, h.m.loadLeads())
	h.key("enter")
	require.Equal(t, ViewLeadDetail, h.m.current())

	h.srv.RevokeTokens()
	h.run(t, h.m.loadLead(apitest.LeadJohn))
	assert.True(t, h.m.toastErr)

	// The expiry event arrives on the session subscription.
	h.run(t, waitForSession(h.m.events))
	assert.Equal(t, []ViewMode{ViewLogin}, h.m.stack)
	assert.Nil(t, h.m.leads)
	assert.Equal(t, api.MsgUnauthorized, h.m.toast)

	token, _ := h.sess.GetToken(context.Background())
	assert.Empty(t, token)
}

func TestDebouncedSearch(t *testing.T) {
	h := newHarness(t, true, WithSearchDelay(20*time.Millisecond))
	h.run(t, h.m.loadLeads())

	h.key("/")
	require.True(t, h.m.searching)
	h.typeText("Pri")

	h.run(t, waitForSearch(h.m.searcher.Results()))
	require.Len(t, h.m.leads, 1)
	assert.Equal(t, "Priya Nair", h.m.leads[0].CustomerName)

	// Only the final query reached the backend.
	var searches []string
	for _, r := range h.srv.RequestsTo("/api/leads") {
		if q := r.Query.Get("search"); q != "" {
			searches = append(searches, q)
		}
	}
	assert.Equal(t, []string{"Pri"}, searches)

	h.key("esc")
	assert.False(t, h.m.searching)
	assert.Empty(t, h.m.searchInput.Value())
}

func TestShareLead(t *testing.T) {
	h := newHarness(t, true)
	h.run(t, h.m.loadLeads())
	h.key("down")
	h.run(t, h.key("enter"))
	require.Equal(t, "John Mathew", h.m.lead.CustomerName)

	h.key("s")
	require.Equal(t, ViewShare, h.m.current())

	h.run(t, h.key("enter"))
	assert.Equal(t, ViewShare, h.m.current())
	assert.Equal(t, "Brokers is required", h.m.toast)
	assert.False(t, h.m.submitting)

	h.typeText(apitest.BrokerMeera)
	share := h.key("enter")
	assert.True(t, h.m.submitting)
	assert.Nil(t, h.key("enter"))
	assert.Contains(t, h.m.View(), "Sharing…")

	h.run(t, share)
	assert.Equal(t, ViewLeadDetail, h.m.current())
	assert.Equal(t, "✓ Lead shared", h.m.toast)
	assert.Len(t, h.m.lead.Transfers, 2)
	assert.Contains(t, h.m.View(), "Meera Iyer")
}

func TestNotifications(t *testing.T) {
	h := newHarness(t, true)
	h.run(t, h.key("n"))
	assert.Equal(t, ViewNotifications, h.m.current())
	assert.Equal(t, 1, h.m.unread)
	assert.Contains(t, h.m.View(), "NOTIFICATIONS (1 unread)")

	h.run(t, h.key("a"))
	assert.Equal(t, 0, h.m.unread)

	h.key("esc")
	assert.Equal(t, ViewLeads, h.m.current())
}

func TestPropertiesView(t *testing.T) {
	h := newHarness(t, true)
	h.run(t, h.key("p"))
	assert.Equal(t, ViewProperties, h.m.current())
	require.Len(t, h.m.properties, 2)
	assert.Contains(t, h.m.View(), "₹1.5 Cr")
}

func TestLegalView(t *testing.T) {
	h := newHarness(t, false)
	h.key("ctrl+l")
	require.Equal(t, ViewLegal, h.m.current())
	assert.Contains(t, h.m.View(), "TERMS OF SERVICE")

	h.key("tab")
	assert.Contains(t, h.m.View(), "PRIVACY POLICY")

	h.key("esc")
	assert.Equal(t, ViewLogin, h.m.current())
}

func TestPopKeepsRoot(t *testing.T) {
	h := newHarness(t, true)
	h.m.pop()
	assert.Equal(t, []ViewMode{ViewLeads}, h.m.stack)
}
