package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskmaster/internal/auth"
)

type authMode int

const (
	authSignIn authMode = iota
	authSignUp
	authRecover
)

const (
	fieldUsername = iota
	fieldPassword
	fieldSecret
)

// authState cycles one shared input through the credential fields, the same
// way the task form does.
type authState struct {
	mode     authMode
	username string
	password string
	secret   string
	index    int
}

type authDelayMsg struct{}

// order maps visible field positions to credential slots. Recovery asks for
// the secret word before the new password.
func (as authState) order() []int {
	switch as.mode {
	case authSignUp:
		return []int{fieldUsername, fieldPassword, fieldSecret}
	case authRecover:
		return []int{fieldUsername, fieldSecret, fieldPassword}
	default:
		return []int{fieldUsername, fieldPassword}
	}
}

func (as authState) labels() []string {
	switch as.mode {
	case authSignUp:
		return []string{"username", "password", "secret word (for recovery)"}
	case authRecover:
		return []string{"username", "secret word", "new password"}
	default:
		return []string{"username", "password"}
	}
}

func (as authState) title() string {
	switch as.mode {
	case authSignUp:
		return "Create Account"
	case authRecover:
		return "Account Recovery"
	default:
		return "Welcome Back"
	}
}

func (as authState) value(slot int) string {
	switch slot {
	case fieldUsername:
		return as.username
	case fieldPassword:
		return as.password
	default:
		return as.secret
	}
}

func (as authState) currentValue() string {
	return as.value(as.order()[as.index])
}

func (as *authState) setCurrentValue(v string) {
	switch as.order()[as.index] {
	case fieldUsername:
		as.username = v
	case fieldPassword:
		as.password = v
	default:
		as.secret = v
	}
}

// masked reports whether the field at position i holds a password.
func (as authState) masked(i int) bool {
	return as.order()[i] == fieldPassword
}

func (m Model) updateAuth(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authPending {
		return m, nil
	}
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.authState.mode == authSignUp {
			m.switchAuthMode(authSignIn)
		} else {
			m.switchAuthMode(authSignUp)
		}
		return m, nil
	case "ctrl+r":
		m.switchAuthMode(authRecover)
		return m, nil
	case m.cfg.Keys.Cancel:
		m.switchAuthMode(authSignIn)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.authState.setCurrentValue(m.input.Value())
		if m.authState.index < len(m.authState.labels())-1 {
			m.authState.index++
			m.syncAuthInput()
			return m, nil
		}
		return m.submitAuth()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) switchAuthMode(mode authMode) {
	m.authState = &authState{mode: mode}
	m.syncAuthInput()
}

func (m *Model) syncAuthInput() {
	m.input.SetValue(m.authState.currentValue())
	m.input.Placeholder = m.authState.labels()[m.authState.index]
	if m.authState.masked(m.authState.index) {
		m.input.EchoMode = textinput.EchoPassword
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
	m.input.CursorEnd()
	m.input.Focus()
}

// submitAuth runs the cheap validations up front, then defers the registry
// call behind the configured artificial delay (sign-in/sign-up only).
func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	as := m.authState
	user := strings.TrimSpace(as.username)
	if as.mode != authRecover {
		if len(user) < auth.MinUsernameLen || len(as.password) < auth.MinPasswordLen {
			return m, showToast(fmt.Sprintf("Username (%d+) and Password (%d+) required", auth.MinUsernameLen, auth.MinPasswordLen), toastError)
		}
	}
	if as.mode == authRecover {
		return m.finishAuth()
	}

	m.authPending = true
	m.status = "Processing..."
	delay := time.Duration(m.cfg.LoginDelayMS) * time.Millisecond
	if delay <= 0 {
		return m.finishAuth()
	}
	return m, tea.Tick(delay, func(time.Time) tea.Msg { return authDelayMsg{} })
}

func (m Model) finishAuth() (tea.Model, tea.Cmd) {
	as := m.authState
	m.authPending = false
	m.status = ""
	user := strings.TrimSpace(as.username)

	switch as.mode {
	case authSignUp:
		if err := m.registry.Register(user, as.password, as.secret); err != nil {
			return m, showToast(signupError(err), toastError)
		}
		cmd := showToast("Account created!", toastSuccess)
		next, loginCmd := m.performLogin(user)
		return next, tea.Batch(cmd, loginCmd)
	case authRecover:
		if err := m.registry.ResetPassword(user, as.secret, as.password); err != nil {
			return m, showToast(recoverError(err), toastError)
		}
		cmd := showToast("Password reset! Signing you in...", toastSuccess)
		next, loginCmd := m.performLogin(user)
		return next, tea.Batch(cmd, loginCmd)
	default:
		if err := m.registry.Authenticate(user, as.password); err != nil {
			return m, showToast("Invalid credentials", toastError)
		}
		return m.performLogin(user)
	}
}

func signupError(err error) string {
	var ve *auth.ValidationError
	switch {
	case errors.Is(err, auth.ErrAlreadyExists):
		return "User already exists"
	case errors.As(err, &ve):
		return "Sign up: " + ve.Error()
	default:
		return "Sign up failed: " + err.Error()
	}
}

func recoverError(err error) string {
	var ve *auth.ValidationError
	switch {
	case errors.Is(err, auth.ErrNotFound):
		return "No such user"
	case errors.Is(err, auth.ErrWrongSecret):
		return "Incorrect secret word"
	case errors.As(err, &ve):
		return "Recovery: " + ve.Error()
	default:
		return "Recovery failed: " + err.Error()
	}
}

func (m Model) viewAuth() string {
	var b strings.Builder
	as := m.authState

	b.WriteString(m.styles.title.Render("Task Master"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.panel.Render(as.title()))
	b.WriteString("\n\n")

	for i, label := range as.labels() {
		prefix := " "
		display := as.value(as.order()[i])
		switch {
		case i == as.index:
			prefix = ">"
			display = m.input.View()
		case display == "":
			display = m.styles.dim.Render("(empty)")
		case as.masked(i):
			display = strings.Repeat("*", len(display))
		}
		b.WriteString(fmt.Sprintf("%s %-28s %s\n", prefix, label+":", display))
	}

	b.WriteString("\n")
	if m.authPending {
		b.WriteString(m.styles.dim.Render("Processing..."))
		b.WriteString("\n")
	}
	b.WriteString(m.renderToasts())
	b.WriteString(m.styles.dim.Render("enter next/submit • tab sign-in/sign-up • ctrl+r recover • ctrl+c quit"))
	return b.String()
}
