// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// WireID is an opaque identifier that tolerates both string and numeric
// JSON encodings. The platform emits numeric session ids; the client treats
// them as opaque strings everywhere.
type WireID string

// UnmarshalJSON accepts "abc", 42 and null.
func (w *WireID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*w = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*w = WireID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	*w = WireID(n.String())
	return nil
}

// String returns the identifier as an opaque string.
func (w WireID) String() string {
	return string(w)
}

// tokenResponse is the body of POST /auth/token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// registerRequest is the body of POST /auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChatRequest is the body of POST /llm/chat. SessionID is omitted on the
// first turn of a conversation; the server opens a session and returns its
// id in the reply.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Topic     string `json:"topic,omitempty"`
}

// ChatReply is the assistant turn returned by POST /llm/chat.
type ChatReply struct {
	ID        WireID `json:"id"`
	SessionID WireID `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// noteRequest is the body of note create/update calls.
type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CourseRequest is the body of the admin course creation call.
type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ContentRequest is the body of the admin course content creation call.
type ContentRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Data  string `json:"data"`
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Token exchanges credentials for an access token via the OAuth2 password
// flow. Returns ErrUnauthorized for bad credentials. The token is returned
// to the caller, never stored here.
func (c *Client) Token(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp tokenResponse
	if err := c.doForm(ctx, "/auth/token", form, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return resp.AccessToken, nil
}

// Register creates a new account. It does not authenticate: the caller
// still has to log in afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := registerRequest{Username: username, Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}

// Me fetches the identity bound to the stored credential.
func (c *Client) Me(ctx context.Context) (*model.Identity, error) {
	var id model.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &id); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	id.FetchedAt = time.Now()
	return &id, nil
}

// =============================================================================
// CHAT ENDPOINT
// =============================================================================

// Chat sends one study-chat message and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	var reply ChatReply
	if err := c.do(ctx, http.MethodPost, "/llm/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// =============================================================================
// COURSE ENDPOINTS
// =============================================================================

// Courses returns the full course catalog.
func (c *Client) Courses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// MyCourses returns the courses the current user is enrolled in.
func (c *Client) MyCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := c.do(ctx, http.MethodGet, "/courses/my", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// BuyCourse enrolls the current user in a course.
func (c *Client) BuyCourse(ctx context.Context, courseID int64) error {
	path := fmt.Sprintf("/courses/%d/buy", courseID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// CourseContent returns the content items of an owned course.
func (c *Client) CourseContent(ctx context.Context, courseID int64) ([]model.CourseContent, error) {
	var items []model.CourseContent
	path := fmt.Sprintf("/courses/%d/content", courseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// =============================================================================
// NOTE ENDPOINTS
// =============================================================================

// Notes returns the current user's notes.
func (c *Client) Notes(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote creates a note and returns the server row.
func (c *Client) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	var note model.Note
	req := noteRequest{Title: title, Content: content}
	if err := c.do(ctx, http.MethodPost, "/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote replaces a note's title and content.
func (c *Client) UpdateNote(ctx context.Context, id int64, title, content string) (*model.Note, error) {
	var note model.Note
	req := noteRequest{Title: title, Content: content}
	path := fmt.Sprintf("/notes/%d", id)
	if err := c.do(ctx, http.MethodPut, path, req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/notes/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// =============================================================================
// ADMIN AND ANALYTICS ENDPOINTS
// =============================================================================

// CreateCourse creates a catalog entry. Requires the admin or owner role
// server-side.
func (c *Client) CreateCourse(ctx context.Context, req CourseRequest) (*model.Course, error) {
	var course model.Course
	if err := c.do(ctx, http.MethodPost, "/admin/courses", req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// AddCourseContent attaches a content item to a course. Admin or owner.
func (c *Client) AddCourseContent(ctx context.Context, courseID int64, req ContentRequest) (*model.CourseContent, error) {
	var item model.CourseContent
	path := fmt.Sprintf("/admin/courses/%d/content", courseID)
	if err := c.do(ctx, http.MethodPost, path, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DashboardStats returns the owner analytics summary.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/analytics/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
