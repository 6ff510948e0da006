// Package progress caches per-note reading positions locally so they survive
// restarts and can be flushed to the server when it is reachable.
package progress

import (
	"context"

	"github.com/mpetrenko/studyport/internal/client/models"
)

// Repository stores one Progress row per note.
type Repository interface {
	// Upsert inserts or replaces the row for p.NoteID.
	Upsert(ctx context.Context, p *models.Progress) error

	// GetByNoteID returns the cached position, or common.ErrNotFound.
	GetByNoteID(ctx context.Context, noteID string) (*models.Progress, error)

	// GetDirty returns rows not yet flushed to the server.
	GetDirty(ctx context.Context) ([]*models.Progress, error)

	// MarkSynced clears the dirty flag after a successful flush.
	MarkSynced(ctx context.Context, noteID string) error
}
