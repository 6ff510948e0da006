// Package telemetry delivers best-effort viewer events (open, heartbeat,
// close) to the analytics endpoint. Failures are logged at debug level and
// otherwise swallowed; nothing here may block or break the viewing flow.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mpetrenko/studyport/internal/client/api"
	"github.com/mpetrenko/studyport/internal/logging"
)

// Sender is the slice of api.Client the reporter needs.
type Sender interface {
	SendNoteEvent(ctx context.Context, ev api.NoteEvent) error
}

// Reporter tags events with a stable per-installation client id and sends
// them fire-and-forget.
type Reporter struct {
	sender   Sender
	clientID string
	log      logging.Logger
	timeout  time.Duration
	now      func() time.Time
}

func NewReporter(sender Sender, clientID string, log logging.Logger) *Reporter {
	return &Reporter{
		sender:   sender,
		clientID: clientID,
		log:      log,
		timeout:  3 * time.Second,
		now:      time.Now,
	}
}

// NoteOpened fires once per successful view-session acquisition.
func (r *Reporter) NoteOpened(noteID, sessionID string) {
	r.send(api.NoteEvent{Type: api.NoteEventOpen, NoteID: noteID, SessionID: sessionID})
}

// Heartbeat fires periodically while a note stays active.
func (r *Reporter) Heartbeat(noteID, sessionID string, page, pageCount int) {
	r.send(api.NoteEvent{Type: api.NoteEventHeartbeat, NoteID: noteID, SessionID: sessionID, Page: page, PageCount: pageCount})
}

// NoteClosed fires on viewer teardown with the last known position. It must
// never block teardown, hence the detached context inside send.
func (r *Reporter) NoteClosed(noteID, sessionID string, lastPage, pageCount int) {
	r.send(api.NoteEvent{Type: api.NoteEventClose, NoteID: noteID, SessionID: sessionID, Page: lastPage, PageCount: pageCount})
}

func (r *Reporter) send(ev api.NoteEvent) {
	ev.ID = uuid.NewString()
	ev.ClientID = r.clientID
	ev.At = r.now().UTC()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.sender.SendNoteEvent(ctx, ev); err != nil {
			r.log.Debug(ctx, "telemetry event dropped", "type", ev.Type, "note_id", ev.NoteID, "error", err)
		}
	}()
}
