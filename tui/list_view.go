package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/models"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("BROKER ADDA"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching || m.searchInput.Value() != "" {
		s.WriteString("/ ")
		s.WriteString(m.searchInput.View())
		s.WriteString("\n\n")
	}

	if len(m.leads) == 0 && !m.loading {
		s.WriteString("No leads found\n")
	} else {
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n")

	s.WriteString(m.renderListHelp())
	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"My Leads", "Shared With Me"}
	var rendered []string

	for i, tab := range tabs {
		if leadTab(i) == leadTab(m.tab.Load()) {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	if m.unread > 0 {
		rendered = append(rendered, tabInactiveStyle.Render("🔔 "+strconv.Itoa(m.unread)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	columns := []table.Column{
		{Title: "Customer", Width: 22},
		{Title: "Need", Width: 6},
		{Title: "Type", Width: 12},
		{Title: "Budget", Width: 10},
		{Title: "Region", Width: 18},
		{Title: "Status", Width: 12},
	}

	var rows []table.Row
	for i := range m.leads {
		l := &m.leads[i]
		rows = append(rows, table.Row{
			l.CustomerName,
			l.Requirement,
			l.PropertyType,
			l.BudgetLabel(),
			l.RegionLabel(),
			l.Status,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(!m.searching),
		table.WithHeight(max(m.height-12, 3)),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View lead",
		"/: Search",
		"p: Properties",
		"n: Notifications",
		"l: Legal",
		"r: Refresh",
		"o: Log out",
		"q: Quit",
	}
	if m.searching {
		help = []string{"Type to search", "Enter: Done", "Esc: Clear"}
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.leads)-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab.Store(int32((leadTab(m.tab.Load()) + 1) % 2))
		m.selectedRow = 0
		m.leads = nil
		m.searcher.Cancel()
		m.loading = true
		return m, m.loadLeads()
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case "enter":
		if m.selectedRow < len(m.leads) {
			lead := m.leads[m.selectedRow]
			m.lead = &lead
			m.push(ViewLeadDetail)
			m.loading = true
			return m, m.loadLead(lead.ID)
		}
	case "r":
		m.loading = true
		return m, m.loadLeads()
	case "p":
		m.push(ViewProperties)
		m.loading = true
		return m, m.loadProperties()
	case "l":
		return m.openLegal()
	case "n":
		m.push(ViewNotifications)
		m.loading = true
		return m, m.loadNotifications()
	case "o":
		client, ctx := m.client, m.ctx
		return m, func() tea.Msg {
			if err := client.Auth.Logout(ctx); err != nil {
				return errMsg{err}
			}
			return nil
		}
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searcher.Cancel()
		m.loading = true
		return m, m.loadLeads()
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		m.searcher.Input(m.searchInput.Value())
	}
	return m, cmd
}

func (m Model) loadLeads() tea.Cmd {
	ctx, client, tab, query := m.ctx, m.client, leadTab(m.tab.Load()), m.searchInput.Value()
	return func() tea.Msg {
		page, err := listLeads(ctx, client, tab, query)
		if err != nil {
			return errMsg{err}
		}
		return leadsMsg{tab: tab, page: page}
	}
}

func listLeads(ctx context.Context, client *api.Client, tab leadTab, query string) (*models.Page[models.Lead], error) {
	filter := api.LeadFilter{Paging: api.Paging{Limit: listPageSize}, Search: strings.TrimSpace(query)}
	if tab == TabShared {
		return client.Leads.Transferred(ctx, filter)
	}

	id, err := client.Session().GetBrokerID(ctx)
	if err != nil {
		return nil, err
	}
	filter.CreatedBy = id
	return client.Leads.List(ctx, filter)
}
