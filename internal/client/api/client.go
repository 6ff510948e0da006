// Package api implements the HTTP/JSON client for the learning-portal
// backend. The backend owns all business logic; this package only shapes
// requests, decodes envelopes and performs the transparent refresh-and-retry
// dance on expired access tokens.
package api

import (
	"context"
	"time"

	"github.com/mpetrenko/studyport/internal/client/models"
)

// Client is the remote API surface consumed by services and the viewer.
// Tests substitute a hand-written fake.
type Client interface {
	Close() error

	// Ping checks server liveness.
	Ping(ctx context.Context) error

	// Login exchanges credentials for an access/refresh token pair and
	// persists them in the token store.
	Login(ctx context.Context, email, password string) error

	// Profile fetches the authenticated user's snapshot (subscription and
	// entitlement grants included).
	Profile(ctx context.Context) (*models.Profile, error)

	// Subjects and Notes browse the catalog. An empty subjectID lists all notes.
	Subjects(ctx context.Context) ([]models.Subject, error)
	Notes(ctx context.Context, subjectID string) ([]models.Note, error)

	// CreateViewSession issues a time-boxed view session for one note.
	CreateViewSession(ctx context.Context, noteID string) (*models.ViewSession, error)

	// ResetViewSessions revokes the user's other sessions for the note.
	// Offered as recovery when CreateViewSession fails with ErrSessionLimit.
	ResetViewSessions(ctx context.Context, noteID string) error

	// Watermark fetches the personalization payload for an active view token.
	Watermark(ctx context.Context, noteID, viewToken string) (*models.Watermark, error)

	// Content downloads the note's document bytes under the view token and
	// returns them with the reported content type.
	Content(ctx context.Context, noteID, viewToken string) ([]byte, string, error)

	// ReportProgress persists the reading position for a note.
	ReportProgress(ctx context.Context, noteID string, lastPage int, completionPercent float64) error

	// SendNoteEvent delivers a viewer telemetry event. Callers treat this as
	// best-effort and swallow failures.
	SendNoteEvent(ctx context.Context, ev NoteEvent) error
}

// NoteEventType classifies viewer telemetry.
type NoteEventType string

const (
	NoteEventOpen      NoteEventType = "open"
	NoteEventHeartbeat NoteEventType = "heartbeat"
	NoteEventClose     NoteEventType = "close"
)

// NoteEvent is one viewer telemetry record.
type NoteEvent struct {
	ID        string        `json:"id"`
	Type      NoteEventType `json:"type"`
	NoteID    string        `json:"noteId"`
	SessionID string        `json:"sessionId,omitempty"`
	Page      int           `json:"page,omitempty"`
	PageCount int           `json:"pageCount,omitempty"`
	ClientID  string        `json:"clientId,omitempty"`
	At        time.Time     `json:"at"`
}

// TokenStore persists the access/refresh token pair between runs. It is the
// client-side analogue of browser local storage with fixed keys; the store
// has an explicit lifecycle (initialized at startup, cleared on logout).
type TokenStore interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetRefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, access, refresh string) error
	ClearTokens(ctx context.Context) error
}
