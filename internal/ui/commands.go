// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/api"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// COMMANDS
//
// Every network call runs inside a tea.Cmd and reports back with one of
// the message types in messages.go. Commands never touch the models
// directly; all state changes happen in Update.
// =============================================================================

// bootstrapCmd resolves the stored token into an identity session state.
func bootstrapCmd(ctx *Ctx) tea.Cmd {
	return func() tea.Msg {
		state := ctx.Auth.Bootstrap(context.Background())
		return BootstrapDoneMsg{State: state}
	}
}

// loginCmd exchanges credentials for an authenticated session.
func loginCmd(ctx *Ctx, username, password string) tea.Cmd {
	return func() tea.Msg {
		identity, err := ctx.Auth.Login(context.Background(), username, password)
		return LoginResultMsg{Identity: identity, Err: err}
	}
}

// registerCmd creates an account without authenticating.
func registerCmd(ctx *Ctx, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		err := ctx.Auth.Register(context.Background(), username, email, password)
		return RegisterResultMsg{Username: username, Err: err}
	}
}

// chatCmd performs the network half of a send begun with chat.Session.Begin.
func chatCmd(ctx *Ctx, epoch uint64, req api.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		reply, err := ctx.Chat.Gateway().Chat(context.Background(), req)
		if err != nil {
			return ChatFailedMsg{Epoch: epoch, Err: err}
		}
		return ChatReplyMsg{Epoch: epoch, Reply: reply}
	}
}

// loadCoursesCmd fetches the catalog and the user's enrollments and merges
// ownership into one list.
func loadCoursesCmd(ctx *Ctx) tea.Cmd {
	return func() tea.Msg {
		bg := context.Background()
		catalog, err := ctx.API.Courses(bg)
		if err != nil {
			return CoursesLoadedMsg{Err: err}
		}
		mine, err := ctx.API.MyCourses(bg)
		if err != nil {
			return CoursesLoadedMsg{Err: err}
		}

		owned := make(map[int64]bool, len(mine))
		for _, c := range mine {
			owned[c.ID] = true
		}
		for i := range catalog {
			catalog[i].Owned = owned[catalog[i].ID]
		}
		return CoursesLoadedMsg{Courses: catalog}
	}
}

// buyCourseCmd enrolls in a course. The provisional id ties the result back
// to the optimistic entry created by the courses view.
func buyCourseCmd(ctx *Ctx, provisionalID string, courseID int64) tea.Cmd {
	return func() tea.Msg {
		err := ctx.API.BuyCourse(context.Background(), courseID)
		return CourseBoughtMsg{ProvisionalID: provisionalID, CourseID: courseID, Err: err}
	}
}

// loadContentCmd fetches the content of an owned course.
func loadContentCmd(ctx *Ctx, courseID int64) tea.Cmd {
	return func() tea.Msg {
		items, err := ctx.API.CourseContent(context.Background(), courseID)
		return ContentLoadedMsg{CourseID: courseID, Items: items, Err: err}
	}
}

// loadNotesCmd fetches the user's notes.
func loadNotesCmd(ctx *Ctx) tea.Cmd {
	return func() tea.Msg {
		notes, err := ctx.API.Notes(context.Background())
		return NotesLoadedMsg{Notes: notes, Err: err}
	}
}

// createNoteCmd creates a note. The provisional id ties the server row back
// to the optimistic entry.
func createNoteCmd(ctx *Ctx, provisionalID, title, content string) tea.Cmd {
	return func() tea.Msg {
		note, err := ctx.API.CreateNote(context.Background(), title, content)
		return NoteSavedMsg{ProvisionalID: provisionalID, Note: note, Err: err}
	}
}

// updateNoteCmd replaces a note's title and content.
func updateNoteCmd(ctx *Ctx, id int64, title, content string) tea.Cmd {
	return func() tea.Msg {
		note, err := ctx.API.UpdateNote(context.Background(), id, title, content)
		return NoteSavedMsg{Note: note, Err: err}
	}
}

// deleteNoteCmd removes a note.
func deleteNoteCmd(ctx *Ctx, id int64) tea.Cmd {
	return func() tea.Msg {
		err := ctx.API.DeleteNote(context.Background(), id)
		return NoteDeletedMsg{ID: id, Err: err}
	}
}

// createCourseCmd creates a catalog entry (admin).
func createCourseCmd(ctx *Ctx, req api.CourseRequest) tea.Cmd {
	return func() tea.Msg {
		course, err := ctx.API.CreateCourse(context.Background(), req)
		return CourseCreatedMsg{Course: course, Err: err}
	}
}

// addContentCmd attaches content to a course (admin).
func addContentCmd(ctx *Ctx, courseID int64, req api.ContentRequest) tea.Cmd {
	return func() tea.Msg {
		item, err := ctx.API.AddCourseContent(context.Background(), courseID, req)
		return ContentAddedMsg{Item: item, Err: err}
	}
}

// loadStatsCmd fetches the owner analytics summary.
func loadStatsCmd(ctx *Ctx) tea.Cmd {
	return func() tea.Msg {
		stats, err := ctx.API.DashboardStats(context.Background())
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// archiveCmd snapshots the current conversation into the history store.
// A nil store (archiving disabled) is a silent no-op.
func archiveCmd(ctx *Ctx) tea.Cmd {
	if ctx.History == nil {
		return nil
	}
	snapshot := ctx.Chat.Archive()
	return func() tea.Msg {
		err := ctx.History.Save(context.Background(), snapshot)
		return ArchiveDoneMsg{Err: err}
	}
}

// provisionalCourse builds the optimistic local state for a purchase.
func provisionalCourse(c model.Course, provisionalID string) model.Course {
	c.Owned = true
	c.ProvisionalID = provisionalID
	return c
}
