// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/studyhall-tui/internal/chat"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// chatModel is the study-assistant conversation view.
type chatModel struct {
	ctx *Ctx

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	width  int
	height int
	ready  bool
}

func newChatModel(ctx *Ctx) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask the study assistant..."
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ctx.Theme.Spinner

	return chatModel{
		ctx:     ctx,
		input:   input,
		spinner: sp,
	}
}

// editing reports whether the view owns tab/esc. The single-line input
// never needs them, so global navigation stays available.
func (m chatModel) editing() bool {
	return false
}

// setSize lays out the viewport and rebuilds the markdown renderer for the
// new wrap width.
func (m *chatModel) setSize(width, height int) {
	m.width = width
	m.height = height

	// Header, input and status bar take up vertical space.
	vpHeight := height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 6

	wrap := width - 8
	if wrap > 80 {
		wrap = 80
	}
	if wrap < 20 {
		wrap = 20
	}
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = renderer
	}

	m.refresh()
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChatReplyMsg:
		// Stale replies (conversation cleared mid-flight) are dropped by
		// the session; nothing to render for them.
		if err := m.ctx.Chat.Resolve(msg.Epoch, msg.Reply); err == nil {
			m.refresh()
		}
		return m, nil

	case ChatFailedMsg:
		if err := m.ctx.Chat.Fail(msg.Epoch); err == nil {
			m.refresh()
		}
		return m, nil

	case ArchiveDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m chatModel) handleKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.send()
	case "ctrl+l":
		// Archive the transcript, then reset. The epoch bump discards any
		// reply still in flight.
		archive := archiveCmd(m.ctx)
		m.ctx.Chat.Clear()
		m.refresh()
		return m, archive
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// Input is disabled while a turn is awaiting its reply.
	if m.ctx.Chat.Pending() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) send() (chatModel, tea.Cmd) {
	epoch, req, err := m.ctx.Chat.Begin(m.input.Value())
	if err != nil {
		// Empty input and an in-flight turn are both silent no-ops.
		if errors.Is(err, chat.ErrEmptyMessage) || errors.Is(err, chat.ErrBusy) {
			return m, nil
		}
		return m, nil
	}

	m.input.SetValue("")
	m.refresh()
	return m, tea.Batch(chatCmd(m.ctx, epoch, req), m.spinner.Tick)
}

// refresh re-renders the transcript into the viewport and scrolls to the
// bottom.
func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTurns())
	m.viewport.GotoBottom()
}

// renderTurns renders the turn log.
func (m *chatModel) renderTurns() string {
	t := m.ctx.Theme
	turns := m.ctx.Chat.Turns()

	if len(turns) == 0 {
		var b strings.Builder
		b.WriteString(t.ThinkingText.Render("Start a conversation with the study assistant."))
		if prompts := m.ctx.Cfg.UI.SuggestedPrompts; len(prompts) > 0 {
			b.WriteString("\n\n")
			b.WriteString(t.ListMeta.Render("Try:"))
			for _, p := range prompts {
				b.WriteString("\n")
				b.WriteString(t.ListItem.Render("- " + p))
			}
		}
		return b.String()
	}

	bubbleWidth := m.width - 10
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTurn(turn, bubbleWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTurn renders one turn bubble.
func (m *chatModel) renderTurn(turn *model.Turn, width int) string {
	t := m.ctx.Theme

	if turn.Notice {
		return t.NoticeBubble.MaxWidth(width).Render(turn.Content)
	}

	switch turn.Role {
	case model.TurnUser:
		return t.UserBubble.MaxWidth(width).Render(turn.Content)
	case model.TurnAssistant:
		content := turn.Content
		if m.ctx.Cfg.UI.RenderMarkdown && m.renderer != nil {
			if rendered, err := m.renderer.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}
		return t.AssistantBubble.MaxWidth(width).Render(content)
	default:
		return t.ListItem.Render(turn.Content)
	}
}

func (m chatModel) view() string {
	t := m.ctx.Theme
	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.ctx.Chat.Pending() {
		b.WriteString(t.InputContainer.Render(
			m.spinner.View() + " " + t.ThinkingText.Render("Thinking...")))
	} else {
		b.WriteString(t.InputContainer.Render(
			t.InputPrompt.Render("> ") + m.input.View()))
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("ctrl+l"))
	b.WriteString(t.ShortcutDesc.Render(" clear chat"))
	return b.String()
}
