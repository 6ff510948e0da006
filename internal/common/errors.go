// Package common defines shared constants and sentinel errors used across
// the studyport client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors.
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTokenExpired      = errors.New("token expired")
	ErrSessionTerminated = errors.New("session terminated, login required")

	// View-session lifecycle errors.
	ErrSessionLimit   = errors.New("concurrent view session limit reached")
	ErrSessionExpired = errors.New("view session expired")
)
