package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
)

const (
	shareBrokers = iota
	shareRegion
	shareNotes
)

var shareTypes = []string{models.ShareIndividual, models.ShareRegion, models.ShareAll}

func (m *Model) openShare() {
	m.shareType = models.ShareIndividual
	m.shareInputs = []textinput.Model{
		newInput("Broker IDs, comma separated", 200),
		newInput("Region ID", 50),
		newInput("Notes for the receiving brokers", 500),
	}
	m.shareFocus = shareBrokers
	m.updateShareFocus()
	m.push(ViewShare)
}

func (m *Model) updateShareFocus() {
	for i := range m.shareInputs {
		if i == m.shareFocus {
			m.shareInputs[i].Focus()
		} else {
			m.shareInputs[i].Blur()
		}
	}
}

// visibleShareFields lists the inputs the current share type uses.
func (m Model) visibleShareFields() []int {
	switch m.shareType {
	case models.ShareRegion:
		return []int{shareRegion, shareNotes}
	case models.ShareAll:
		return []int{shareNotes}
	}
	return []int{shareBrokers, shareNotes}
}

func (m Model) renderShareView() string {
	var s strings.Builder

	title := "SHARE LEAD"
	if m.lead != nil {
		title = "SHARE " + strings.ToUpper(m.lead.CustomerName)
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	var types []string
	for _, t := range shareTypes {
		if t == m.shareType {
			types = append(types, tabActiveStyle.Render(t))
		} else {
			types = append(types, tabInactiveStyle.Render(t))
		}
	}
	s.WriteString(strings.Join(types, " "))
	s.WriteString("\n\n")

	labels := map[int]string{shareBrokers: "Brokers", shareRegion: "Region", shareNotes: "Notes"}
	for _, i := range m.visibleShareFields() {
		if i == m.shareFocus {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(labelStyle.Render(labels[i]))
		s.WriteString(m.shareInputs[i].View())
		s.WriteString("\n")
	}

	help := []string{"Ctrl+T: Share type", "Tab: Next field", "Enter: Share", "Esc: Cancel"}
	if m.submitting {
		help = []string{"Sharing…"}
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleShareKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !m.submitting {
			m.pop()
		}
		return m, nil

	case "ctrl+t":
		for i, t := range shareTypes {
			if t == m.shareType {
				m.shareType = shareTypes[(i+1)%len(shareTypes)]
				break
			}
		}
		m.shareFocus = m.visibleShareFields()[0]
		m.updateShareFocus()
		return m, nil

	case "tab", "shift+tab":
		fields := m.visibleShareFields()
		step := 1
		if msg.String() == "shift+tab" {
			step = len(fields) - 1
		}
		for i, f := range fields {
			if f == m.shareFocus {
				m.shareFocus = fields[(i+step)%len(fields)]
				break
			}
		}
		m.updateShareFocus()
		return m, nil

	case "enter":
		if m.submitting || m.lead == nil {
			return m, nil
		}
		m.submitting = true
		return m, m.shareLead()
	}

	var cmd tea.Cmd
	m.shareInputs[m.shareFocus], cmd = m.shareInputs[m.shareFocus].Update(msg)
	return m, cmd
}

func (m Model) shareLead() tea.Cmd {
	req := api.ShareRequest{
		ShareType: m.shareType,
		Notes:     strings.TrimSpace(m.shareInputs[shareNotes].Value()),
	}
	switch m.shareType {
	case models.ShareIndividual:
		for _, id := range strings.Split(m.shareInputs[shareBrokers].Value(), ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.ToBrokers = append(req.ToBrokers, id)
			}
		}
	case models.ShareRegion:
		req.RegionID = strings.TrimSpace(m.shareInputs[shareRegion].Value())
	}

	ctx, client, id := m.ctx, m.client, m.lead.ID
	return func() tea.Msg {
		lead, err := client.Leads.Share(ctx, id, req)
		if err != nil {
			return errMsg{err}
		}
		return sharedMsg{lead}
	}
}
