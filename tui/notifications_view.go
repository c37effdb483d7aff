package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/adda/api"
)

func (m Model) renderNotificationsView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("NOTIFICATIONS (%d unread)", m.unread)))
	s.WriteString("\n\n")

	if len(m.notifications) == 0 && !m.loading {
		s.WriteString("No notifications\n")
	}
	for _, n := range m.notifications {
		mark := "  "
		if !n.IsRead {
			mark = "● "
		}
		s.WriteString(fmt.Sprintf("%s%s  %s\n", mark, n.CreatedAt.Format("Jan 02"), n.Title))
		if n.Message != "" {
			s.WriteString("            " + n.Message + "\n")
		}
	}

	help := []string{"a: Mark all read", "r: Refresh", "Esc: Back"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleNotificationsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.pop()
	case "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		return m, m.loadNotifications()
	case "a":
		ctx, client := m.ctx, m.client
		return m, func() tea.Msg {
			if err := client.Notifications.MarkAllRead(ctx); err != nil {
				return errMsg{err}
			}
			return readAllMsg{}
		}
	}
	return m, nil
}

func (m Model) loadNotifications() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		page, err := client.Notifications.List(ctx, api.NotificationFilter{Paging: api.Paging{Limit: listPageSize}})
		if err != nil {
			return errMsg{err}
		}
		unread, err := client.Notifications.UnreadCount(ctx)
		if err != nil {
			return errMsg{err}
		}
		return notificationsMsg{page: page, unread: unread}
	}
}
