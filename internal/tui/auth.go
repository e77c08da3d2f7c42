package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0lar1s/kolichka/internal/session"
)

type authField int

const (
	afEmail authField = iota
	afPassword
	afName
	numAuthFields
)

// authDoneMsg carries the result of a login or register attempt.
type authDoneMsg struct {
	err error
}

type authModel struct {
	auth       *session.Manager
	register   bool
	fields     [numAuthFields]string
	focus      authField
	submitting bool
	statusMsg  string
	width      int
	height     int
}

func newAuthModel(auth *session.Manager) authModel {
	return authModel{auth: auth}
}

func (m authModel) Init() tea.Cmd {
	return nil
}

func (m authModel) fieldCount() authField {
	if m.register {
		return numAuthFields
	}
	return numAuthFields - 1 // name is register-only
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			var authErr *session.AuthError
			if errors.As(msg.err, &authErr) {
				m.statusMsg = authErr.Message
			} else {
				m.statusMsg = msg.err.Error()
			}
			return m, nil
		}
		m.fields = [numAuthFields]string{}
		m.focus = afEmail
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	m.statusMsg = ""
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % m.fieldCount()
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + m.fieldCount()) % m.fieldCount()
	case "ctrl+r":
		m.register = !m.register
		m.focus = afEmail
	case "enter":
		if m.focus == m.fieldCount()-1 {
			return m.submit()
		}
		m.focus++
	case "ctrl+s":
		return m.submit()
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m authModel) submit() (authModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	auth := m.auth
	email := m.fields[afEmail]
	password := m.fields[afPassword]
	name := m.fields[afName]
	register := m.register
	return m, func() tea.Msg {
		if register {
			return authDoneMsg{err: auth.Register(context.Background(), email, password, name)}
		}
		return authDoneMsg{err: auth.Login(context.Background(), email, password)}
	}
}

func (m authModel) View() string {
	var b strings.Builder

	title := "SIGN IN"
	if m.register {
		title = "CREATE ACCOUNT"
	}
	b.WriteString(" " + metaStyle.Render(title) + "\n\n")

	labels := [numAuthFields]string{"email", "password", "name"}
	for i := authField(0); i < m.fieldCount(); i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == afPassword {
			value = strings.Repeat("•", len([]rune(value)))
		}
		if i == m.focus {
			value += "█"
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(labels[i]), value)
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	} else if m.statusMsg != "" {
		b.WriteString(" " + errStyle.Render(m.statusMsg) + "\n")
	}

	toggle := "create an account instead"
	if m.register {
		toggle = "sign in instead"
	}
	b.WriteString("\n " + helpEntry("enter", "next/submit") + "  " + helpEntry("ctrl+r", toggle) + "  " + helpEntry("esc", "back") + "\n")

	return truncateToHeight(b.String(), m.height)
}
