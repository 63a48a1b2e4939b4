// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for identities, conversations
// and platform resources.
//
// # Key Types
//
//   - Identity: The authenticated user with a closed role enumeration
//   - Conversation: Append-only study-chat turn log with its server session
//   - Turn: Single turn with role, content and timestamp
//   - Course, CourseContent, Note, DashboardStats: platform resources
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation()
//	conv.AddUserTurn("What is photosynthesis?")
//
// Validate a wire-format role:
//
//	role, err := model.ParseRole("student")
package model
