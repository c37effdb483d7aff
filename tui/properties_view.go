package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/adda/api"
)

func (m Model) renderPropertiesView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PROPERTIES"))
	s.WriteString("\n\n")

	if len(m.properties) == 0 && !m.loading {
		s.WriteString("No properties found\n")
	} else {
		columns := []table.Column{
			{Title: "Title", Width: 28},
			{Title: "Price", Width: 10},
			{Title: "Type", Width: 14},
			{Title: "Size", Width: 12},
			{Title: "Location", Width: 24},
			{Title: "Broker", Width: 16},
		}

		var rows []table.Row
		for i := range m.properties {
			v := m.properties[i].Display()
			rows = append(rows, table.Row{v.Title, v.Price, v.Type, v.Size, v.Location, v.Broker})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithHeight(max(m.height-10, 3)),
		)
		s.WriteString(t.View())
	}
	s.WriteString("\n")

	help := []string{"r: Refresh", "Esc: Back"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handlePropertiesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.pop()
	case "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		return m, m.loadProperties()
	}
	return m, nil
}

func (m Model) loadProperties() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		page, err := client.Properties.List(ctx, api.PropertyFilter{Paging: api.Paging{Limit: listPageSize}})
		if err != nil {
			return errMsg{err}
		}
		return propertiesMsg{page}
	}
}
