// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Navigation stack, async API commands, session expiry handling and the status toast
package tui

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
	"github.com/harperreed/adda/search"
	"github.com/harperreed/adda/session"
)

// ViewMode represents a screen on the navigation stack
type ViewMode int

const (
	ViewLogin ViewMode = iota
	ViewLeads
	ViewLeadDetail
	ViewShare
	ViewProperties
	ViewNotifications
	ViewLegal
)

// leadTab selects which leads the list shows
type leadTab int32

const (
	TabMine leadTab = iota
	TabShared
)

const listPageSize = 50

// Model is the main bubbletea model
type Model struct {
	ctx    context.Context
	client *api.Client
	events <-chan session.Event

	stack []ViewMode

	// Login
	loginStep  int
	phoneInput textinput.Model
	otpInput   textinput.Model

	// Leads list
	tab         *atomic.Int32
	leads       []models.Lead
	selectedRow int
	searching   bool
	searchInput textinput.Model
	searcher    *search.Debouncer[*models.Page[models.Lead]]

	// Lead detail and share
	lead        *models.Lead
	shareType   string
	shareInputs []textinput.Model
	shareFocus  int

	properties    []models.Property
	notifications []models.Notification
	unread        int

	legalDoc string
	legal    viewport.Model

	submitting bool
	loading    bool
	toast      string
	toastErr   bool

	width  int
	height int
}

// Messages produced by commands.
type (
	otpSentMsg struct{ resp *api.OTPResponse }
	loggedInMsg struct {
		session *models.Session
		user    *models.User
	}
	leadsMsg struct {
		tab  leadTab
		page *models.Page[models.Lead]
	}
	searchMsg        search.Result[*models.Page[models.Lead]]
	leadMsg          struct{ lead *models.Lead }
	sharedMsg        struct{ lead *models.Lead }
	propertiesMsg    struct{ page *models.Page[models.Property] }
	notificationsMsg struct {
		page   *models.Page[models.Notification]
		unread int
	}
	readAllMsg struct{}
	sessionMsg session.Event
	errMsg     struct{ err error }
)

type options struct {
	searchDelay time.Duration
}

type Option func(*options)

// WithSearchDelay sets the lead search debounce window.
func WithSearchDelay(d time.Duration) Option {
	return func(o *options) { o.searchDelay = d }
}

// NewModel creates a new TUI model. It starts on the login screen unless a
// session is already stored.
func NewModel(ctx context.Context, client *api.Client, opts ...Option) Model {
	o := options{searchDelay: search.DefaultDelay}
	for _, opt := range opts {
		opt(&o)
	}

	tab := &atomic.Int32{}
	m := Model{
		ctx:         ctx,
		client:      client,
		events:      client.Session().Subscribe(),
		tab:         tab,
		phoneInput:  newInput("10-digit mobile number", 14),
		otpInput:    newInput("6-digit OTP", 6),
		searchInput: newInput("Search by name or phone", 50),
		shareType:   models.ShareIndividual,
		legal:       viewport.New(80, 20),
		width:       80,
		height:      24,
	}
	m.otpInput.EchoMode = textinput.EchoPassword

	m.searcher = search.New(ctx, func(ctx context.Context, q string) (*models.Page[models.Lead], error) {
		return listLeads(ctx, client, leadTab(tab.Load()), q)
	}, search.WithDelay(o.searchDelay))

	token, _ := client.Session().GetToken(ctx)
	if token == "" {
		m.reset(ViewLogin)
		m.phoneInput.Focus()
	} else {
		m.reset(ViewLeads)
		m.loading = true
	}
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForSession(m.events), waitForSearch(m.searcher.Results())}
	if m.current() == ViewLeads {
		cmds = append(cmds, m.loadLeads())
	}
	return tea.Batch(cmds...)
}

// Close releases the session subscription and the search debouncer.
func (m Model) Close() {
	m.searcher.Close()
	m.client.Session().Unsubscribe(m.events)
}

func (m Model) current() ViewMode {
	return m.stack[len(m.stack)-1]
}

func (m *Model) push(v ViewMode) {
	m.stack = append(m.stack, v)
}

// pop returns to the previous screen; the root screen stays.
func (m *Model) pop() {
	if len(m.stack) > 1 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

func (m *Model) reset(v ViewMode) {
	m.stack = []ViewMode{v}
}

func (m *Model) showError(err error) {
	m.toast = api.Normalize(err).Message
	m.toastErr = true
}

func (m *Model) showInfo(text string) {
	m.toast = text
	m.toastErr = false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.legal.Width = msg.Width
		m.legal.Height = max(msg.Height-6, 5)
		return m, nil

	case sessionMsg:
		if msg.Kind == session.Expired || msg.Kind == session.LoggedOut {
			m.toLogin()
			if msg.Kind == session.Expired {
				m.showError(&api.Error{Kind: api.KindUnauthorized, Message: api.MsgUnauthorized})
			}
		}
		return m, waitForSession(m.events)

	case errMsg:
		m.submitting = false
		m.loading = false
		m.showError(msg.err)
		return m, nil

	case searchMsg:
		if msg.Err != nil {
			m.showError(msg.Err)
		} else if msg.Query == strings.TrimSpace(m.searchInput.Value()) && msg.Value != nil {
			m.leads = msg.Value.Items
			m.selectedRow = 0
		}
		return m, waitForSearch(m.searcher.Results())

	case otpSentMsg, loggedInMsg:
		return m.handleLoginMsg(msg)

	case leadsMsg:
		m.loading = false
		if msg.tab == leadTab(m.tab.Load()) {
			m.leads = msg.page.Items
			m.selectedRow = min(m.selectedRow, max(len(m.leads)-1, 0))
		}
		return m, nil

	case leadMsg:
		m.loading = false
		m.lead = msg.lead
		return m, nil

	case sharedMsg:
		m.submitting = false
		m.lead = msg.lead
		m.pop()
		m.showInfo("✓ Lead shared")
		return m, nil

	case propertiesMsg:
		m.loading = false
		m.properties = msg.page.Items
		return m, nil

	case notificationsMsg:
		m.loading = false
		m.notifications = msg.page.Items
		m.unread = msg.unread
		return m, nil

	case readAllMsg:
		for i := range m.notifications {
			m.notifications[i].IsRead = true
		}
		m.unread = 0
		m.showInfo("✓ All notifications marked read")
		return m, nil
	}
	return m, nil
}

// toLogin drops every screen and clears per-user state.
func (m *Model) toLogin() {
	m.reset(ViewLogin)
	m.loginStep = 0
	m.submitting = false
	m.loading = false
	m.searching = false
	m.leads = nil
	m.lead = nil
	m.properties = nil
	m.notifications = nil
	m.unread = 0
	m.searcher.Cancel()
	m.searchInput.SetValue("")
	m.otpInput.SetValue("")
	m.phoneInput.Focus()
}

func (m Model) View() string {
	var body string
	switch m.current() {
	case ViewLogin:
		body = m.renderLoginView()
	case ViewLeads:
		body = m.renderListView()
	case ViewLeadDetail:
		body = m.renderDetailView()
	case ViewShare:
		body = m.renderShareView()
	case ViewProperties:
		body = m.renderPropertiesView()
	case ViewNotifications:
		body = m.renderNotificationsView()
	case ViewLegal:
		body = m.renderLegalView()
	}
	return body + "\n" + m.renderStatus()
}

func (m Model) renderStatus() string {
	switch {
	case m.toast != "" && m.toastErr:
		return errorStyle.Render(m.toast)
	case m.toast != "":
		return okStyle.Render(m.toast)
	case m.submitting:
		return helpStyle.Render("Submitting…")
	case m.loading:
		return helpStyle.Render("Loading…")
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.toast = ""

	switch m.current() {
	case ViewLogin:
		return m.handleLoginKeys(msg)
	case ViewLeads:
		return m.handleListKeys(msg)
	case ViewLeadDetail:
		return m.handleDetailKeys(msg)
	case ViewShare:
		return m.handleShareKeys(msg)
	case ViewProperties:
		return m.handlePropertiesKeys(msg)
	case ViewNotifications:
		return m.handleNotificationsKeys(msg)
	case ViewLegal:
		return m.handleLegalKeys(msg)
	}
	return m, nil
}

func waitForSession(ch <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return sessionMsg(ev)
	}
}

func waitForSearch(ch <-chan search.Result[*models.Page[models.Lead]]) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return searchMsg(r)
	}
}

// Run starts the full-screen program and blocks until it exits.
func Run(ctx context.Context, client *api.Client, opts ...Option) error {
	m := NewModel(ctx, client, opts...)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(14)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))
)
