package services

import (
	"context"
	"sync"

	"github.com/mpetrenko/studyport/internal/client/api"
	"github.com/mpetrenko/studyport/internal/client/models"
)

// fakeClient implements api.Client for service unit tests.
type fakeClient struct {
	mu sync.Mutex

	CloseErr error
	PingErr  error

	LoginErr  error
	LastLogin string

	ProfileRet   *models.Profile
	ProfileErr   error
	ProfileCalls int

	SubjectsRet []models.Subject
	SubjectsErr error

	NotesRet []models.Note
	NotesErr error

	SessionRet *models.ViewSession
	SessionErr error

	ResetErr error

	WatermarkRet *models.Watermark
	WatermarkErr error

	ContentRet  []byte
	ContentType string
	ContentErr  error

	ProgressErr   error
	ProgressCalls []progressCall

	EventErr error
	Events   []api.NoteEvent
}

type progressCall struct {
	NoteID     string
	LastPage   int
	Completion float64
}

func (f *fakeClient) Close() error                   { return f.CloseErr }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Login(ctx context.Context, email, password string) error {
	f.LastLogin = email
	return f.LoginErr
}

func (f *fakeClient) Profile(ctx context.Context) (*models.Profile, error) {
	f.mu.Lock()
	f.ProfileCalls++
	f.mu.Unlock()
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) Subjects(ctx context.Context) ([]models.Subject, error) {
	return f.SubjectsRet, f.SubjectsErr
}

func (f *fakeClient) Notes(ctx context.Context, subjectID string) ([]models.Note, error) {
	return f.NotesRet, f.NotesErr
}

func (f *fakeClient) CreateViewSession(ctx context.Context, noteID string) (*models.ViewSession, error) {
	return f.SessionRet, f.SessionErr
}

func (f *fakeClient) ResetViewSessions(ctx context.Context, noteID string) error {
	return f.ResetErr
}

func (f *fakeClient) Watermark(ctx context.Context, noteID, viewToken string) (*models.Watermark, error) {
	return f.WatermarkRet, f.WatermarkErr
}

func (f *fakeClient) Content(ctx context.Context, noteID, viewToken string) ([]byte, string, error) {
	return f.ContentRet, f.ContentType, f.ContentErr
}

func (f *fakeClient) ReportProgress(ctx context.Context, noteID string, lastPage int, completionPercent float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ProgressErr != nil {
		return f.ProgressErr
	}
	f.ProgressCalls = append(f.ProgressCalls, progressCall{noteID, lastPage, completionPercent})
	return nil
}

func (f *fakeClient) SendNoteEvent(ctx context.Context, ev api.NoteEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EventErr != nil {
		return f.EventErr
	}
	f.Events = append(f.Events, ev)
	return nil
}
