// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/api"
)

// =============================================================================
// ADMIN MODEL
// =============================================================================

// adminForm identifies which form the admin view shows.
type adminForm int

const (
	adminMenu adminForm = iota
	adminCreateCourse
	adminAddContent
)

// adminModel hosts the course management forms: create a catalog entry and
// attach content to an existing course.
type adminModel struct {
	ctx *Ctx

	form   adminForm
	fields []textinput.Model
	focus  int

	submitting bool
	errText    string
	note       string
}

func newAdminModel(ctx *Ctx) adminModel {
	return adminModel{ctx: ctx}
}

// editing reports whether a form owns tab/esc.
func (m adminModel) editing() bool {
	return m.form != adminMenu
}

func (m adminModel) update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case CourseCreatedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errText = "Could not create the course: " + msg.Err.Error()
			return m, nil
		}
		m.form = adminMenu
		m.note = "Course created: " + msg.Course.Title
		m.errText = ""
		return m, nil

	case ContentAddedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errText = "Could not add the content: " + msg.Err.Error()
			return m, nil
		}
		m.form = adminMenu
		m.note = "Content added: " + msg.Item.Title
		m.errText = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.form != adminMenu {
		return m.updateFocused(msg)
	}
	return m, nil
}

func (m adminModel) handleKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	if m.form == adminMenu {
		switch msg.String() {
		case "c":
			return m.openForm(adminCreateCourse), textinput.Blink
		case "t":
			return m.openForm(adminAddContent), textinput.Blink
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.form = adminMenu
		m.errText = ""
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % len(m.fields))
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + len(m.fields) - 1) % len(m.fields))
		return m, nil
	case "enter":
		if m.focus == len(m.fields)-1 {
			return m.submit()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	}
	return m.updateFocused(msg)
}

// openForm builds the input fields for a form.
func (m adminModel) openForm(form adminForm) adminModel {
	m.form = form
	m.focus = 0
	m.submitting = false
	m.errText = ""
	m.note = ""

	var labels []string
	switch form {
	case adminCreateCourse:
		labels = []string{"title", "description", "price in cents", "image url (optional)"}
	case adminAddContent:
		labels = []string{"course id", "title", "type (video, text, quiz)", "data"}
	}

	m.fields = make([]textinput.Model, len(labels))
	for i, label := range labels {
		input := textinput.New()
		input.Placeholder = label
		input.CharLimit = 500
		m.fields[i] = input
	}
	m.fields[0].Focus()
	return m
}

func (m *adminModel) setFocus(focus int) {
	m.focus = focus
	for i := range m.fields {
		if i == focus {
			m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
}

func (m adminModel) updateFocused(msg tea.Msg) (adminModel, tea.Cmd) {
	if m.focus >= len(m.fields) {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m adminModel) submit() (adminModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	switch m.form {
	case adminCreateCourse:
		title := strings.TrimSpace(m.fields[0].Value())
		description := strings.TrimSpace(m.fields[1].Value())
		priceText := strings.TrimSpace(m.fields[2].Value())
		imageURL := strings.TrimSpace(m.fields[3].Value())
		if title == "" || description == "" || priceText == "" {
			m.errText = "Title, description and price are required."
			return m, nil
		}
		price, err := strconv.ParseInt(priceText, 10, 64)
		if err != nil || price < 0 {
			m.errText = "Price must be a whole number of cents."
			return m, nil
		}
		m.submitting = true
		m.errText = ""
		return m, createCourseCmd(m.ctx, api.CourseRequest{
			Title:       title,
			Description: description,
			Price:       price,
			ImageURL:    imageURL,
		})

	case adminAddContent:
		idText := strings.TrimSpace(m.fields[0].Value())
		title := strings.TrimSpace(m.fields[1].Value())
		typ := strings.TrimSpace(m.fields[2].Value())
		data := m.fields[3].Value()
		if idText == "" || title == "" || typ == "" {
			m.errText = "Course id, title and type are required."
			return m, nil
		}
		courseID, err := strconv.ParseInt(idText, 10, 64)
		if err != nil || courseID <= 0 {
			m.errText = "Course id must be a positive number."
			return m, nil
		}
		m.submitting = true
		m.errText = ""
		return m, addContentCmd(m.ctx, courseID, api.ContentRequest{
			Title: title,
			Type:  typ,
			Data:  data,
		})
	}
	return m, nil
}

func (m adminModel) view() string {
	t := m.ctx.Theme
	var b strings.Builder

	switch m.form {
	case adminMenu:
		b.WriteString(t.FormTitle.Render("Course management"))
		b.WriteString("\n\n")
		if m.note != "" {
			b.WriteString(t.FormNote.Render(m.note))
			b.WriteString("\n\n")
		}
		b.WriteString(t.ListItem.Render("c  Create a course"))
		b.WriteString("\n")
		b.WriteString(t.ListItem.Render("t  Add course content"))
		b.WriteString("\n")
		if m.errText != "" {
			b.WriteString("\n")
			b.WriteString(t.FormError.Render(m.errText))
		}
		return t.Container.Render(b.String())

	case adminCreateCourse:
		b.WriteString(t.FormTitle.Render("Create course"))
	case adminAddContent:
		b.WriteString(t.FormTitle.Render("Add course content"))
	}
	b.WriteString("\n")

	for _, field := range m.fields {
		b.WriteString("\n")
		b.WriteString(field.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(t.ThinkingText.Render("Submitting..."))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(t.FormError.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("enter"))
	b.WriteString(t.ShortcutDesc.Render(" next / submit  "))
	b.WriteString(t.ShortcutKey.Render("esc"))
	b.WriteString(t.ShortcutDesc.Render(" back"))

	return t.FormBox.Render(b.String())
}
