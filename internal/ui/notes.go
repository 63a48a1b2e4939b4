// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// NOTES MODEL
// =============================================================================

// notesModel lists personal notes and edits them in place. Creates are
// optimistic; the provisional entry is replaced by the server row or
// removed on failure.
type notesModel struct {
	ctx *Ctx

	notes   []model.Note
	cursor  int
	loading bool
	errText string

	// Editor state. editingID is zero for a new note; provisional entries
	// cannot be edited until the server confirms them.
	editorOpen bool
	editingID  int64
	title      textinput.Model
	content    textarea.Model
	focusTitle bool
}

func newNotesModel(ctx *Ctx) notesModel {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write your note..."
	content.CharLimit = 10000
	content.SetHeight(8)

	return notesModel{
		ctx:     ctx,
		loading: true,
		title:   title,
		content: content,
	}
}

// editing reports whether the editor owns tab/esc.
func (m notesModel) editing() bool {
	return m.editorOpen
}

func (m notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case NotesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = "Could not load notes: " + msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.notes = msg.Notes
		if m.cursor >= len(m.notes) {
			m.cursor = 0
		}
		return m, nil

	case NoteSavedMsg:
		return m.applySave(msg), nil

	case NoteDeletedMsg:
		if msg.Err != nil {
			m.errText = "Could not delete the note: " + msg.Err.Error()
			return m, loadNotesCmd(m.ctx)
		}
		return m, nil

	case tea.KeyMsg:
		if m.editorOpen {
			return m.handleEditorKey(msg)
		}
		return m.handleListKey(msg)
	}

	if m.editorOpen {
		return m.updateEditor(msg)
	}
	return m, nil
}

// applySave reconciles an optimistic create or applies an update result.
func (m notesModel) applySave(msg NoteSavedMsg) notesModel {
	if msg.ProvisionalID != "" {
		for i := range m.notes {
			if m.notes[i].ProvisionalID != msg.ProvisionalID {
				continue
			}
			if msg.Err != nil {
				m.notes = append(m.notes[:i], m.notes[i+1:]...)
				m.errText = "Could not save the note: " + msg.Err.Error()
				if m.cursor >= len(m.notes) && m.cursor > 0 {
					m.cursor--
				}
			} else {
				m.notes[i] = *msg.Note
				m.errText = ""
			}
			return m
		}
		return m
	}

	if msg.Err != nil {
		m.errText = "Could not save the note: " + msg.Err.Error()
		return m
	}
	for i := range m.notes {
		if m.notes[i].ID == msg.Note.ID {
			m.notes[i] = *msg.Note
			break
		}
	}
	m.errText = ""
	return m
}

func (m notesModel) handleListKey(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.notes)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		m.errText = ""
		return m, loadNotesCmd(m.ctx)
	case "n":
		return m.openEditor(nil), textinput.Blink
	case "e", "enter":
		if m.cursor < len(m.notes) && m.notes[m.cursor].ProvisionalID == "" {
			return m.openEditor(&m.notes[m.cursor]), textinput.Blink
		}
	case "d":
		if m.cursor < len(m.notes) && m.notes[m.cursor].ProvisionalID == "" {
			note := m.notes[m.cursor]
			m.notes = append(m.notes[:m.cursor], m.notes[m.cursor+1:]...)
			if m.cursor >= len(m.notes) && m.cursor > 0 {
				m.cursor--
			}
			return m, deleteNoteCmd(m.ctx, note.ID)
		}
	}
	return m, nil
}

// openEditor prepares the editor for a new note (nil) or an existing one.
func (m notesModel) openEditor(note *model.Note) notesModel {
	m.editorOpen = true
	m.focusTitle = true
	m.errText = ""
	if note == nil {
		m.editingID = 0
		m.title.SetValue("")
		m.content.SetValue("")
	} else {
		m.editingID = note.ID
		m.title.SetValue(note.Title)
		m.content.SetValue(note.Content)
	}
	m.title.Focus()
	m.content.Blur()
	return m
}

func (m notesModel) handleEditorKey(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editorOpen = false
		return m, nil
	case "tab":
		m.focusTitle = !m.focusTitle
		if m.focusTitle {
			m.title.Focus()
			m.content.Blur()
		} else {
			m.title.Blur()
			m.content.Focus()
		}
		return m, nil
	case "ctrl+s":
		return m.save()
	case "enter":
		// Enter in the title moves to the body; the body keeps it as a
		// newline.
		if m.focusTitle {
			m.focusTitle = false
			m.title.Blur()
			m.content.Focus()
			return m, nil
		}
	}
	return m.updateEditor(msg)
}

func (m notesModel) updateEditor(msg tea.Msg) (notesModel, tea.Cmd) {
	var cmd tea.Cmd
	if m.focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

// save submits the editor. New notes appear in the list immediately with a
// provisional id; NoteSavedMsg swaps in the server row or removes them.
func (m notesModel) save() (notesModel, tea.Cmd) {
	title := strings.TrimSpace(m.title.Value())
	content := m.content.Value()
	if title == "" {
		m.errText = "A title is required."
		return m, nil
	}

	m.editorOpen = false
	m.errText = ""

	if m.editingID != 0 {
		return m, updateNoteCmd(m.ctx, m.editingID, title, content)
	}

	provisionalID := uuid.New().String()
	m.notes = append([]model.Note{{
		Title:         title,
		Content:       content,
		ProvisionalID: provisionalID,
	}}, m.notes...)
	m.cursor = 0
	return m, createNoteCmd(m.ctx, provisionalID, title, content)
}

func (m notesModel) view() string {
	if m.editorOpen {
		return m.editorView()
	}

	t := m.ctx.Theme
	var b strings.Builder

	b.WriteString(t.FormTitle.Render("Notes"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(t.ThinkingText.Render("Loading notes..."))
	case len(m.notes) == 0:
		b.WriteString(t.ListMeta.Render("No notes yet. Press n to write one."))
	default:
		for i, note := range m.notes {
			b.WriteString(m.noteLine(i, note))
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(t.FormError.Render(m.errText))
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("n"))
	b.WriteString(t.ShortcutDesc.Render(" new  "))
	b.WriteString(t.ShortcutKey.Render("enter"))
	b.WriteString(t.ShortcutDesc.Render(" edit  "))
	b.WriteString(t.ShortcutKey.Render("d"))
	b.WriteString(t.ShortcutDesc.Render(" delete  "))
	b.WriteString(t.ShortcutKey.Render("r"))
	b.WriteString(t.ShortcutDesc.Render(" refresh"))

	return t.Container.Render(b.String())
}

// noteLine renders one list row.
func (m notesModel) noteLine(i int, note model.Note) string {
	t := m.ctx.Theme

	line := note.Title
	if preview := util.FirstLine(note.Content); preview != "" {
		line += "  " + t.ListMeta.Render(util.TruncateRunes(preview, 40))
	}
	if note.ProvisionalID != "" {
		line += "  " + t.ListMeta.Render("saving...")
	}

	switch {
	case i == m.cursor:
		return t.ListItemSelected.Render("> " + line)
	case note.ProvisionalID != "":
		return t.ListItemPending.Render("  " + line)
	default:
		return t.ListItem.Render("  " + line)
	}
}

func (m notesModel) editorView() string {
	t := m.ctx.Theme
	var b strings.Builder

	heading := "New note"
	if m.editingID != 0 {
		heading = "Edit note"
	}
	b.WriteString(t.FormTitle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(t.FormLabel.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(t.FormLabel.Render("Content"))
	b.WriteString("\n")
	b.WriteString(m.content.View())
	b.WriteString("\n\n")

	if m.errText != "" {
		b.WriteString(t.FormError.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString(t.ShortcutKey.Render("ctrl+s"))
	b.WriteString(t.ShortcutDesc.Render(" save  "))
	b.WriteString(t.ShortcutKey.Render("tab"))
	b.WriteString(t.ShortcutDesc.Render(" switch field  "))
	b.WriteString(t.ShortcutKey.Render("esc"))
	b.WriteString(t.ShortcutDesc.Render(" cancel"))

	return t.FormBox.Render(b.String())
}
