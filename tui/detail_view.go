package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	if m.lead == nil {
		return titleStyle.Render("LEAD") + "\n\nLoading…\n"
	}
	l := m.lead

	s.WriteString(titleStyle.Render(strings.ToUpper(l.CustomerName)))
	s.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		s.WriteString(labelStyle.Render(label))
		s.WriteString(value)
		s.WriteString("\n")
	}
	row("Phone", l.CustomerPhone)
	row("Email", l.CustomerEmail)
	row("Requirement", l.Requirement+" "+l.PropertyType)
	row("Budget", l.BudgetLabel())
	row("Regions", l.RegionLabel())
	row("Status", l.Status)
	row("Created by", l.CreatedBy.Label())
	row("Notes", l.Notes)

	if len(l.Transfers) > 0 {
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("Transfers"))
		s.WriteString("\n")
		for _, t := range l.Transfers {
			to := "all brokers"
			switch {
			case t.ToBroker != nil:
				to = t.ToBroker.Label()
			case t.Region != nil:
				to = "region " + t.Region.Label()
			}
			line := fmt.Sprintf("  %s → %s", t.FromBroker.Label(), to)
			if !t.CreatedAt.IsZero() {
				line = fmt.Sprintf("  %s  %s → %s", t.CreatedAt.Format("Jan 02"), t.FromBroker.Label(), to)
			}
			if t.Notes != "" {
				line += "  \"" + t.Notes + "\""
			}
			s.WriteString(line + "\n")
		}
	}

	s.WriteString(m.renderDetailHelp())
	return s.String()
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"s: Share",
		"r: Refresh",
		"Esc: Back",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.pop()
	case "q":
		return m, tea.Quit
	case "s":
		if m.lead != nil {
			m.openShare()
		}
	case "r":
		if m.lead != nil {
			m.loading = true
			return m, m.loadLead(m.lead.ID)
		}
	}
	return m, nil
}

func (m Model) loadLead(id string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		lead, err := client.Leads.Get(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return leadMsg{lead}
	}
}
