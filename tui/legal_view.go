package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/adda/legal"
)

func (m Model) openLegal() (tea.Model, tea.Cmd) {
	m.legalDoc = legal.Terms
	m.setLegalContent()
	m.push(ViewLegal)
	return m, nil
}

func (m *Model) setLegalContent() {
	text, err := legal.Text(m.legalDoc)
	if err != nil {
		m.showError(err)
		return
	}
	m.legal.SetContent(text)
	m.legal.GotoTop()
}

func (m Model) renderLegalView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(strings.ToUpper(legal.Title(m.legalDoc))))
	s.WriteString("\n")
	s.WriteString(m.legal.View())
	s.WriteString("\n")

	help := []string{"↑/↓: Scroll", "Tab: Terms/Privacy", "Esc: Back"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleLegalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.pop()
		return m, nil
	case "tab":
		if m.legalDoc == legal.Terms {
			m.legalDoc = legal.Privacy
		} else {
			m.legalDoc = legal.Terms
		}
		m.setLegalContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.legal, cmd = m.legal.Update(msg)
	return m, cmd
}
