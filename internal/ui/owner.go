// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// OWNER MODEL
// =============================================================================

// ownerModel shows the platform analytics summary.
type ownerModel struct {
	ctx *Ctx

	stats   *model.DashboardStats
	loading bool
	errText string
}

func newOwnerModel(ctx *Ctx) ownerModel {
	return ownerModel{ctx: ctx, loading: true}
}

func (m ownerModel) update(msg tea.Msg) (ownerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case StatsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = "Could not load analytics: " + msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.stats = msg.Stats
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			m.errText = ""
			return m, loadStatsCmd(m.ctx)
		}
	}
	return m, nil
}

func (m ownerModel) view() string {
	t := m.ctx.Theme
	var b strings.Builder

	b.WriteString(t.FormTitle.Render("Analytics"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(t.ThinkingText.Render("Loading analytics..."))
	case m.stats == nil:
		b.WriteString(t.ListMeta.Render("No analytics available."))
	default:
		b.WriteString(m.statLine("Users", fmt.Sprintf("%d", m.stats.TotalUsers)))
		b.WriteString("\n")
		b.WriteString(m.statLine("Courses", fmt.Sprintf("%d", m.stats.TotalCourses)))
		b.WriteString("\n")
		b.WriteString(m.statLine("Enrollments", fmt.Sprintf("%d", m.stats.TotalEnrollments)))
		b.WriteString("\n")
		b.WriteString(m.statLine("Revenue", fmt.Sprintf("$%d.%02d",
			m.stats.TotalRevenue/100, m.stats.TotalRevenue%100)))
		b.WriteString("\n")
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(t.FormError.Render(m.errText))
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("r"))
	b.WriteString(t.ShortcutDesc.Render(" refresh"))

	return t.Container.Render(b.String())
}

// statLine renders one label/value row.
func (m ownerModel) statLine(label, value string) string {
	t := m.ctx.Theme
	return t.StatsLabel.Render(util.PadRight(label, 14)) + t.StatsValue.Render(value)
}
