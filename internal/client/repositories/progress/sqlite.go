package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrenko/studyport/internal/client/models"
	"github.com/mpetrenko/studyport/internal/common"
	"github.com/mpetrenko/studyport/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Progress) error {
	query := `INSERT INTO progress (note_id, last_page, page_count, completion_percent, updated_at, dirty)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(note_id) DO UPDATE SET
				last_page=excluded.last_page,
				page_count=excluded.page_count,
				completion_percent=excluded.completion_percent,
				updated_at=excluded.updated_at,
				dirty=excluded.dirty`
	_, err := r.db.ExecContext(ctx, query,
		p.NoteID, p.LastPage, p.PageCount, p.CompletionPercent, p.UpdatedAt, boolToInt(p.Dirty))
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByNoteID(ctx context.Context, noteID string) (*models.Progress, error) {
	query := `SELECT note_id, last_page, page_count, completion_percent, updated_at, dirty
			FROM progress WHERE note_id=?`
	row := r.db.QueryRowContext(ctx, query, noteID)

	p, err := scanProgress(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetDirty(ctx context.Context) ([]*models.Progress, error) {
	query := `SELECT note_id, last_page, page_count, completion_percent, updated_at, dirty
			FROM progress WHERE dirty=1`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select dirty progress: %w", err)
	}
	defer rows.Close()

	result := []*models.Progress{}
	for rows.Next() {
		p, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, noteID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE progress SET dirty=0 WHERE note_id=?`, noteID)
	if err != nil {
		return fmt.Errorf("failed to mark progress synced: %w", err)
	}
	return nil
}

func scanProgress(scan func(dest ...any) error) (*models.Progress, error) {
	p := &models.Progress{}
	var dirty int
	if err := scan(&p.NoteID, &p.LastPage, &p.PageCount, &p.CompletionPercent, &p.UpdatedAt, &dirty); err != nil {
		return nil, err
	}
	p.Dirty = dirty != 0
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
