package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	stepPhone = iota
	stepOTP
)

func (m Model) renderLoginView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("BROKER ADDA"))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Phone"))
	s.WriteString(m.phoneInput.View())
	s.WriteString("\n")

	if m.loginStep == stepOTP {
		s.WriteString(labelStyle.Render("OTP"))
		s.WriteString(m.otpInput.View())
		s.WriteString("\n")
	}

	help := []string{"Enter: Send OTP", "Ctrl+L: Terms", "Esc: Quit"}
	if m.loginStep == stepOTP {
		help = []string{"Enter: Verify", "Ctrl+R: Resend OTP", "Esc: Change number"}
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.loginStep == stepOTP {
			m.loginStep = stepPhone
			m.otpInput.Blur()
			m.otpInput.SetValue("")
			m.phoneInput.Focus()
			return m, nil
		}
		return m, tea.Quit

	case "ctrl+l":
		return m.openLegal()

	case "ctrl+r":
		if m.loginStep != stepOTP || m.submitting {
			return m, nil
		}
		m.submitting = true
		return m, m.sendOTP(true)

	case "enter":
		// Enter is ignored while a request is in flight.
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		if m.loginStep == stepPhone {
			return m, m.sendOTP(false)
		}
		return m, m.verifyOTP()
	}

	var cmd tea.Cmd
	if m.loginStep == stepPhone {
		m.phoneInput, cmd = m.phoneInput.Update(msg)
	} else {
		m.otpInput, cmd = m.otpInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleLoginMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case otpSentMsg:
		m.submitting = false
		m.loginStep = stepOTP
		m.phoneInput.Blur()
		m.otpInput.Focus()
		text := "✓ OTP sent"
		if msg.resp != nil && msg.resp.Message != "" {
			text = "✓ " + msg.resp.Message
		}
		m.showInfo(text)
		return m, nil

	case loggedInMsg:
		m.submitting = false
		m.loginStep = stepPhone
		m.otpInput.Blur()
		m.otpInput.SetValue("")
		m.reset(ViewLeads)
		if msg.user != nil && !msg.user.IsProfileComplete {
			m.showInfo("Welcome! Finish your profile with 'adda profile complete'.")
		}
		m.loading = true
		return m, m.loadLeads()
	}
	return m, nil
}

func (m Model) sendOTP(resend bool) tea.Cmd {
	ctx, client, phone := m.ctx, m.client, m.phoneInput.Value()
	return func() tea.Msg {
		send := client.Auth.SendOTP
		if resend {
			send = client.Auth.ResendOTP
		}
		resp, err := send(ctx, phone)
		if err != nil {
			return errMsg{err}
		}
		return otpSentMsg{resp}
	}
}

func (m Model) verifyOTP() tea.Cmd {
	ctx, client, phone, otp := m.ctx, m.client, m.phoneInput.Value(), m.otpInput.Value()
	return func() tea.Msg {
		sess, user, err := client.Auth.VerifyOTP(ctx, phone, otp)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{session: sess, user: user}
	}
}
