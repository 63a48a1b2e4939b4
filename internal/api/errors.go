// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error variables for common gateway failures.
var (
	// ErrUnauthorized indicates the server rejected the credential (401).
	// Consumers observing this from any call should invalidate the local
	// session; the client itself never touches the token store.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork wraps transport-level failures (DNS, refused connection,
	// timeout) where no HTTP response was received.
	ErrNetwork = errors.New("network error")
)

// RequestError is a non-401 4xx response: the request itself was rejected
// (validation failure, conflict, missing resource). Never retried.
type RequestError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request rejected (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request rejected (HTTP %d)", e.Status)
}

// ServerError is a 5xx response. Retryable.
type ServerError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// detailResponse is the error body shape the platform API emits.
type detailResponse struct {
	Detail string `json:"detail"`
}

// classifyStatus converts a non-2xx HTTP response into the gateway error
// taxonomy.
func classifyStatus(statusCode int, body []byte) error {
	var dr detailResponse
	detail := ""
	if err := json.Unmarshal(body, &dr); err == nil {
		detail = dr.Detail
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
		}
		return ErrUnauthorized
	case statusCode >= 500:
		return &ServerError{Status: statusCode, Detail: detail}
	default:
		if detail == "" {
			detail = string(body)
		}
		return &RequestError{Status: statusCode, Detail: detail}
	}
}

// IsUnauthorized reports whether err is (or wraps) a credential rejection.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsConflict reports whether err is a 409 conflict response.
func IsConflict(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusConflict
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}
