// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// PLATFORM RESOURCES
// =============================================================================

// Course is a catalog entry on the study platform.
type Course struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`

	// Owned marks courses the current user is enrolled in. Client-side
	// only; populated by merging /courses with /courses/my.
	Owned bool `json:"-"`

	// ProvisionalID is set on optimistic local entries that have not been
	// confirmed by the server yet.
	ProvisionalID string `json:"-"`
}

// CourseContent is one content item inside an owned course.
type CourseContent struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Data     string `json:"data"`
}

// Note is a personal study note.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ProvisionalID marks an optimistic local entry awaiting the server
	// row. Reconciled (success) or rolled back (failure) by the notes view.
	ProvisionalID string `json:"-"`
}

// DashboardStats is the owner analytics summary.
type DashboardStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalCourses     int64 `json:"total_courses"`
	TotalEnrollments int64 `json:"total_enrollments"`
	TotalRevenue     int64 `json:"total_revenue"`
}
