package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mpetrenko/studyport/internal/client/api"
	"github.com/mpetrenko/studyport/internal/client/models"
	"github.com/mpetrenko/studyport/internal/client/repositories/progress"
	"github.com/mpetrenko/studyport/internal/common"
	"github.com/mpetrenko/studyport/internal/logging"
)

// ProgressService records reading positions locally and flushes them to the
// server with debouncing, so rapid page flips collapse into one POST.
type ProgressService interface {
	// Record notes that lastPage of pageCount was just rendered. Local write
	// is immediate; the server flush is debounced.
	Record(ctx context.Context, noteID string, lastPage, pageCount int)

	// Resume returns the cached last page for a note, or 0 when unknown.
	Resume(ctx context.Context, noteID string) int

	// Flush pushes all dirty rows to the server, retrying transient failures
	// with exponential backoff.
	Flush(ctx context.Context) error

	// Close cancels any pending debounced flush.
	Close()
}

type progressService struct {
	client   api.Client
	repo     progress.Repository
	log      logging.Logger
	debounce time.Duration
	now      func() time.Time

	mu    sync.Mutex
	timer *time.Timer
}

func NewProgressService(client api.Client, repo progress.Repository, debounce time.Duration, log logging.Logger) ProgressService {
	return &progressService{
		client:   client,
		repo:     repo,
		log:      log,
		debounce: debounce,
		now:      time.Now,
	}
}

func (s *progressService) Record(ctx context.Context, noteID string, lastPage, pageCount int) {
	p := &models.Progress{
		NoteID:            noteID,
		LastPage:          lastPage,
		PageCount:         pageCount,
		CompletionPercent: models.Completion(lastPage, pageCount),
		UpdatedAt:         s.now().UTC(),
		Dirty:             true,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		s.log.Warn(ctx, "caching progress failed", "note_id", noteID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Flush(ctx); err != nil {
			s.log.Debug(ctx, "progress flush failed, rows stay dirty", "error", err)
		}
	})
}

func (s *progressService) Resume(ctx context.Context, noteID string) int {
	p, err := s.repo.GetByNoteID(ctx, noteID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "reading cached progress failed", "note_id", noteID, "error", err)
		}
		return 0
	}
	return p.LastPage
}

func (s *progressService) Flush(ctx context.Context) error {
	dirty, err := s.repo.GetDirty(ctx)
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(300*time.Millisecond))

	for _, p := range dirty {
		p := p
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			err := s.client.ReportProgress(ctx, p.NoteID, p.LastPage, p.CompletionPercent)
			if errors.Is(err, common.ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		})
		if err != nil {
			return err
		}
		if err := s.repo.MarkSynced(ctx, p.NoteID); err != nil {
			return err
		}
	}
	return nil
}

func (s *progressService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
