// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/auth"
)

// =============================================================================
// LOGIN MODEL
// =============================================================================

// loginModel is the sign-in form: username, password, submit.
type loginModel struct {
	ctx *Ctx

	username textinput.Model
	password textinput.Model
	focus    int

	submitting bool
	errText    string
	note       string
}

func newLoginModel(ctx *Ctx) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return loginModel{
		ctx:      ctx,
		username: username,
		password: password,
	}
}

// reset clears the form for a fresh sign-in, keeping an informational note.
func (m *loginModel) reset(note string) {
	m.username.SetValue("")
	m.password.SetValue("")
	m.username.Focus()
	m.password.Blur()
	m.focus = 0
	m.submitting = false
	m.errText = ""
	m.note = note
}

// setUsername pre-fills the username (after registration).
func (m *loginModel) setUsername(username string) {
	m.username.SetValue(username)
}

// handleResult applies a LoginResultMsg.
func (m loginModel) handleResult(msg LoginResultMsg) (loginModel, tea.Cmd) {
	m.submitting = false
	if msg.Err != nil {
		m.password.SetValue("")
		switch {
		case errors.Is(msg.Err, auth.ErrInvalidCredentials):
			m.errText = "Invalid username or password."
		case errors.Is(msg.Err, auth.ErrSuperseded):
			m.errText = ""
		default:
			m.errText = "Could not sign in: " + msg.Err.Error()
		}
		return m, nil
	}
	m.errText = ""
	m.note = ""
	return m, nil
}

func (m loginModel) update(msg tea.Msg) (loginModel, View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % 2)
			return m, ViewLogin, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + 1) % 2)
			return m, ViewLogin, nil
		case "enter":
			return m.submit()
		case "ctrl+r":
			return m, ViewRegister, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, ViewLogin, cmd
}

func (m *loginModel) setFocus(focus int) {
	m.focus = focus
	if focus == 0 {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
}

func (m loginModel) submit() (loginModel, View, tea.Cmd) {
	if m.submitting {
		return m, ViewLogin, nil
	}
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.errText = "Username and password are required."
		return m, ViewLogin, nil
	}
	m.submitting = true
	m.errText = ""
	return m, ViewLogin, loginCmd(m.ctx, username, password)
}

func (m loginModel) view() string {
	t := m.ctx.Theme
	var b strings.Builder

	b.WriteString(t.FormTitle.Render("Sign in"))
	b.WriteString("\n\n")
	if m.note != "" {
		b.WriteString(t.FormNote.Render(m.note))
		b.WriteString("\n\n")
	}
	b.WriteString(t.FormLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString(t.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(t.ThinkingText.Render("Signing in..."))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(t.FormError.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("ctrl+r"))
	b.WriteString(t.ShortcutDesc.Render(" create an account"))

	return t.FormBox.Render(b.String())
}

// =============================================================================
// REGISTER MODEL
// =============================================================================

// registerModel is the account creation form. Success never signs the user
// in; the app routes back to the login form.
type registerModel struct {
	ctx *Ctx

	username textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int

	submitting bool
	errText    string
	note       string
}

func newRegisterModel(ctx *Ctx) registerModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return registerModel{
		ctx:      ctx,
		username: username,
		email:    email,
		password: password,
	}
}

func (m *registerModel) reset(note string) {
	m.username.SetValue("")
	m.email.SetValue("")
	m.password.SetValue("")
	m.focus = 0
	m.username.Focus()
	m.email.Blur()
	m.password.Blur()
	m.submitting = false
	m.errText = ""
	m.note = note
}

// handleResult applies a RegisterResultMsg. The success path is handled by
// the app (route to login); this only renders failures.
func (m registerModel) handleResult(msg RegisterResultMsg) (registerModel, tea.Cmd) {
	m.submitting = false
	if msg.Err != nil {
		if errors.Is(msg.Err, auth.ErrAlreadyExists) {
			m.errText = "That username or email is already taken."
		} else {
			m.errText = "Could not create the account: " + msg.Err.Error()
		}
	}
	return m, nil
}

func (m registerModel) update(msg tea.Msg) (registerModel, View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % 3)
			return m, ViewRegister, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + 2) % 3)
			return m, ViewRegister, nil
		case "enter":
			return m.submit()
		case "esc":
			return m, ViewLogin, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case 0:
		m.username, cmd = m.username.Update(msg)
	case 1:
		m.email, cmd = m.email.Update(msg)
	default:
		m.password, cmd = m.password.Update(msg)
	}
	return m, ViewRegister, cmd
}

func (m *registerModel) setFocus(focus int) {
	m.focus = focus
	m.username.Blur()
	m.email.Blur()
	m.password.Blur()
	switch focus {
	case 0:
		m.username.Focus()
	case 1:
		m.email.Focus()
	default:
		m.password.Focus()
	}
}

func (m registerModel) submit() (registerModel, View, tea.Cmd) {
	if m.submitting {
		return m, ViewRegister, nil
	}
	username := strings.TrimSpace(m.username.Value())
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if username == "" || email == "" || password == "" {
		m.errText = "All fields are required."
		return m, ViewRegister, nil
	}
	if !strings.Contains(email, "@") {
		m.errText = "That doesn't look like an email address."
		return m, ViewRegister, nil
	}
	m.submitting = true
	m.errText = ""
	return m, ViewRegister, registerCmd(m.ctx, username, email, password)
}

func (m registerModel) view() string {
	t := m.ctx.Theme
	var b strings.Builder

	b.WriteString(t.FormTitle.Render("Create account"))
	b.WriteString("\n\n")
	if m.note != "" {
		b.WriteString(t.FormNote.Render(m.note))
		b.WriteString("\n\n")
	}
	b.WriteString(t.FormLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString(t.FormLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")
	b.WriteString(t.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(t.ThinkingText.Render("Creating account..."))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(t.FormError.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("esc"))
	b.WriteString(t.ShortcutDesc.Render(" back to sign in"))

	return t.FormBox.Render(b.String())
}
