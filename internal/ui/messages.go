// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the Bubble Tea terminal interface for studyhall.
package ui

import (
	"github.com/jeranaias/studyhall-tui/internal/api"
	"github.com/jeranaias/studyhall-tui/internal/auth"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// MESSAGE TYPES
//
// One message type per asynchronous event. Result messages carry their
// error instead of using a separate error message so the handler has the
// full context of what failed.
// =============================================================================

// BootstrapDoneMsg reports the resolved identity session state at startup.
type BootstrapDoneMsg struct {
	State auth.State
}

// LoginResultMsg reports the outcome of a login attempt.
type LoginResultMsg struct {
	Identity *model.Identity
	Err      error
}

// RegisterResultMsg reports the outcome of an account registration.
// Registration never authenticates; success routes back to the login form.
type RegisterResultMsg struct {
	Username string
	Err      error
}

// ChatReplyMsg carries an assistant reply for the send begun at Epoch.
type ChatReplyMsg struct {
	Epoch uint64
	Reply *api.ChatReply
}

// ChatFailedMsg reports a failed send for the send begun at Epoch.
type ChatFailedMsg struct {
	Epoch uint64
	Err   error
}

// CoursesLoadedMsg carries the merged course catalog (catalog + ownership).
type CoursesLoadedMsg struct {
	Courses []model.Course
	Err     error
}

// CourseBoughtMsg reports the outcome of an enrollment. ProvisionalID
// identifies the optimistic local entry to reconcile or roll back.
type CourseBoughtMsg struct {
	ProvisionalID string
	CourseID      int64
	Err           error
}

// ContentLoadedMsg carries the content items of an owned course.
type ContentLoadedMsg struct {
	CourseID int64
	Items    []model.CourseContent
	Err      error
}

// NotesLoadedMsg carries the user's notes.
type NotesLoadedMsg struct {
	Notes []model.Note
	Err   error
}

// NoteSavedMsg reports a note create/update. ProvisionalID identifies the
// optimistic local entry to replace (empty for updates).
type NoteSavedMsg struct {
	ProvisionalID string
	Note          *model.Note
	Err           error
}

// NoteDeletedMsg reports a note deletion.
type NoteDeletedMsg struct {
	ID  int64
	Err error
}

// CourseCreatedMsg reports an admin course creation.
type CourseCreatedMsg struct {
	Course *model.Course
	Err    error
}

// ContentAddedMsg reports an admin content attachment.
type ContentAddedMsg struct {
	Item *model.CourseContent
	Err  error
}

// StatsLoadedMsg carries the owner analytics summary.
type StatsLoadedMsg struct {
	Stats *model.DashboardStats
	Err   error
}

// ArchiveDoneMsg reports a history archive write.
type ArchiveDoneMsg struct {
	Err error
}
