// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// COURSES MODEL
// =============================================================================

// coursesModel lists the catalog with ownership markers. Enter on an
// unowned course enrolls optimistically; enter on an owned course opens
// its content.
type coursesModel struct {
	ctx *Ctx

	courses []model.Course
	cursor  int
	loading bool
	errText string

	// Content browsing for an owned course.
	viewing  *model.Course
	content  []model.CourseContent
	contentC int
}

func newCoursesModel(ctx *Ctx) coursesModel {
	return coursesModel{ctx: ctx, loading: true}
}

func (m coursesModel) update(msg tea.Msg) (coursesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case CoursesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = "Could not load courses: " + msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.courses = msg.Courses
		if m.cursor >= len(m.courses) {
			m.cursor = 0
		}
		return m, nil

	case CourseBoughtMsg:
		return m.applyPurchase(msg), nil

	case ContentLoadedMsg:
		if msg.Err != nil {
			m.viewing = nil
			m.errText = "Could not load course content: " + msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.content = msg.Items
		m.contentC = 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// applyPurchase reconciles or rolls back the optimistic entry created when
// the purchase started.
func (m coursesModel) applyPurchase(msg CourseBoughtMsg) coursesModel {
	for i := range m.courses {
		if m.courses[i].ProvisionalID != msg.ProvisionalID || msg.ProvisionalID == "" {
			continue
		}
		m.courses[i].ProvisionalID = ""
		if msg.Err != nil {
			m.courses[i].Owned = false
			m.errText = "Purchase failed: " + msg.Err.Error()
		} else {
			m.errText = ""
		}
		return m
	}
	return m
}

func (m coursesModel) handleKey(msg tea.KeyMsg) (coursesModel, tea.Cmd) {
	if m.viewing != nil {
		return m.handleContentKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.courses)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		m.errText = ""
		return m, loadCoursesCmd(m.ctx)
	case "enter":
		return m.selectCourse()
	}
	return m, nil
}

func (m coursesModel) handleContentKey(msg tea.KeyMsg) (coursesModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.contentC > 0 {
			m.contentC--
		}
	case "down", "j":
		if m.contentC < len(m.content)-1 {
			m.contentC++
		}
	case "b", "left":
		m.viewing = nil
		m.content = nil
	}
	return m, nil
}

// selectCourse enrolls in an unowned course or opens an owned one.
func (m coursesModel) selectCourse() (coursesModel, tea.Cmd) {
	if m.cursor >= len(m.courses) {
		return m, nil
	}
	course := m.courses[m.cursor]

	if course.ProvisionalID != "" {
		// Purchase already in flight.
		return m, nil
	}

	if course.Owned {
		m.viewing = &course
		m.content = nil
		return m, loadContentCmd(m.ctx, course.ID)
	}

	// Mark owned locally before the server confirms. CourseBoughtMsg
	// reconciles or rolls back by provisional id.
	provisionalID := uuid.New().String()
	m.courses[m.cursor] = provisionalCourse(course, provisionalID)
	m.errText = ""
	return m, buyCourseCmd(m.ctx, provisionalID, course.ID)
}

func (m coursesModel) view() string {
	t := m.ctx.Theme
	var b strings.Builder

	if m.viewing != nil {
		return m.contentView()
	}

	b.WriteString(t.FormTitle.Render("Courses"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(t.ThinkingText.Render("Loading courses..."))
	case len(m.courses) == 0:
		b.WriteString(t.ListMeta.Render("No courses in the catalog yet."))
	default:
		for i, course := range m.courses {
			b.WriteString(m.courseLine(i, course))
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(t.FormError.Render(m.errText))
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("enter"))
	b.WriteString(t.ShortcutDesc.Render(" buy / open  "))
	b.WriteString(t.ShortcutKey.Render("r"))
	b.WriteString(t.ShortcutDesc.Render(" refresh"))

	return t.Container.Render(b.String())
}

// courseLine renders one catalog row.
func (m coursesModel) courseLine(i int, course model.Course) string {
	t := m.ctx.Theme

	label := course.Title
	meta := fmt.Sprintf("$%d.%02d", course.Price/100, course.Price%100)
	switch {
	case course.ProvisionalID != "":
		meta = "buying..."
	case course.Owned:
		meta = "owned"
	}
	line := label + "  " + t.ListMeta.Render(meta)

	switch {
	case i == m.cursor:
		return t.ListItemSelected.Render("> " + line)
	case course.ProvisionalID != "":
		return t.ListItemPending.Render("  " + line)
	case course.Owned:
		return t.ListItemOwned.Render("  " + line)
	default:
		return t.ListItem.Render("  " + line)
	}
}

// contentView renders the items of the opened course.
func (m coursesModel) contentView() string {
	t := m.ctx.Theme
	var b strings.Builder

	b.WriteString(t.FormTitle.Render(m.viewing.Title))
	b.WriteString("\n\n")

	if m.content == nil {
		b.WriteString(t.ThinkingText.Render("Loading content..."))
	} else if len(m.content) == 0 {
		b.WriteString(t.ListMeta.Render("This course has no content yet."))
	} else {
		for i, item := range m.content {
			line := item.Title + "  " + t.ListMeta.Render(item.Type)
			if i == m.contentC {
				b.WriteString(t.ListItemSelected.Render("> " + line))
			} else {
				b.WriteString(t.ListItem.Render("  " + line))
			}
			b.WriteString("\n")
			if i == m.contentC && item.Data != "" {
				b.WriteString(t.ListMeta.Render("  " + item.Data))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("b"))
	b.WriteString(t.ShortcutDesc.Render(" back to courses"))

	return t.Container.Render(b.String())
}
