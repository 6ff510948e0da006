package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/studyport/internal/client/repositories/progress"
	"github.com/mpetrenko/studyport/internal/common"
	"github.com/mpetrenko/studyport/internal/logging"

	_ "modernc.org/sqlite"
)

func setupProgressRepo(t *testing.T) progress.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:progsvc_"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE progress (
  note_id            TEXT PRIMARY KEY,
  last_page          INTEGER NOT NULL DEFAULT 0,
  page_count         INTEGER NOT NULL DEFAULT 0,
  completion_percent REAL NOT NULL DEFAULT 0,
  updated_at         TIMESTAMP NOT NULL,
  dirty              INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return progress.NewSQLiteRepository(db)
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProgressService_RecordAndResume(t *testing.T) {
	fc := &fakeClient{}
	// Debounce far in the future so the flush never fires during the test.
	svc := NewProgressService(fc, setupProgressRepo(t), time.Hour, discardLogger())
	t.Cleanup(svc.Close)
	ctx := context.Background()

	require.Equal(t, 0, svc.Resume(ctx, "n1"), "unknown note resumes at zero")

	svc.Record(ctx, "n1", 4, 10)
	require.Equal(t, 4, svc.Resume(ctx, "n1"))

	// A later page wins.
	svc.Record(ctx, "n1", 5, 10)
	require.Equal(t, 5, svc.Resume(ctx, "n1"))

	// Nothing flushed yet.
	require.Empty(t, fc.ProgressCalls)
}

func TestProgressService_FlushPostsDirtyRows(t *testing.T) {
	fc := &fakeClient{}
	svc := NewProgressService(fc, setupProgressRepo(t), time.Hour, discardLogger())
	t.Cleanup(svc.Close)
	ctx := context.Background()

	svc.Record(ctx, "n1", 5, 10)
	svc.Record(ctx, "n2", 10, 10)

	require.NoError(t, svc.Flush(ctx))
	require.Len(t, fc.ProgressCalls, 2)

	byNote := map[string]progressCall{}
	for _, c := range fc.ProgressCalls {
		byNote[c.NoteID] = c
	}
	require.Equal(t, 5, byNote["n1"].LastPage)
	require.InDelta(t, 50, byNote["n1"].Completion, 0.01)
	require.InDelta(t, 100, byNote["n2"].Completion, 0.01)

	// Flushing again is a no-op: rows were marked synced.
	require.NoError(t, svc.Flush(ctx))
	require.Len(t, fc.ProgressCalls, 2)
}

func TestProgressService_FlushKeepsRowsDirtyOnFailure(t *testing.T) {
	fc := &fakeClient{ProgressErr: common.ErrUnavailable}
	repo := setupProgressRepo(t)
	svc := NewProgressService(fc, repo, time.Hour, discardLogger())
	t.Cleanup(svc.Close)
	ctx := context.Background()

	svc.Record(ctx, "n1", 2, 4)
	require.ErrorIs(t, svc.Flush(ctx), common.ErrUnavailable)

	dirty, err := repo.GetDirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 1, "failed rows stay dirty for the next flush")

	// Server back up: flush drains the backlog.
	fc.ProgressErr = nil
	require.NoError(t, svc.Flush(ctx))
	require.Len(t, fc.ProgressCalls, 1)
}

func TestProgressService_DebouncedFlushFires(t *testing.T) {
	fc := &fakeClient{}
	svc := NewProgressService(fc, setupProgressRepo(t), 20*time.Millisecond, discardLogger())
	t.Cleanup(svc.Close)
	ctx := context.Background()

	// Rapid page flips: only the final position must be posted.
	svc.Record(ctx, "n1", 1, 10)
	svc.Record(ctx, "n1", 2, 10)
	svc.Record(ctx, "n1", 3, 10)

	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return len(fc.ProgressCalls) == 1 && fc.ProgressCalls[0].LastPage == 3
	}, time.Second, 10*time.Millisecond)
}
