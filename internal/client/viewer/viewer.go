// Package viewer orchestrates the lifecycle of viewing one note: the
// entitlement gate, acquisition of a time-boxed view session, page-by-page
// rendering with a watermark overlay, progress reporting and teardown.
//
// One Viewer instance owns one note view. The view token and session
// metadata never leave the instance that acquired them.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mpetrenko/studyport/internal/access"
	"github.com/mpetrenko/studyport/internal/client/api"
	"github.com/mpetrenko/studyport/internal/client/doc"
	"github.com/mpetrenko/studyport/internal/client/models"
	"github.com/mpetrenko/studyport/internal/client/viewer/watermark"
	"github.com/mpetrenko/studyport/internal/common"
	"github.com/mpetrenko/studyport/internal/logging"
)

// State is the viewer lifecycle position.
type State string

const (
	// StateIdle: constructed, Open not called yet.
	StateIdle State = "idle"
	// StatePaywalled: entitlement check failed; terminal for this view.
	StatePaywalled State = "paywalled"
	// StateAcquiring: view-session request in flight.
	StateAcquiring State = "acquiring"
	// StateActive: session live, document loaded, pages render.
	StateActive State = "active"
	// StateSessionError: acquisition or document load failed; Refresh (or
	// ResetSessions when offered) recovers.
	StateSessionError State = "session_error"
	// StateExpired: wall clock passed the session expiry; rendering is
	// blocked until Refresh re-acquires.
	StateExpired State = "expired"
	// StateClosed: torn down.
	StateClosed State = "closed"
)

// Config tunes the viewer. Zero values fall back to defaults.
type Config struct {
	HeartbeatInterval time.Duration // telemetry heartbeat period while Active
	ExpirySkew        time.Duration // grace added to ExpiresAt for clock drift
	MinZoom           float64
	MaxZoom           float64
	BaseWidth         int     // surface columns that map to scale 1.0
	MaxBaseScale      float64 // fit-to-width clamp for very wide surfaces
}

func (c Config) withDefaults() Config {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 15 * time.Second
	}
	if c.ExpirySkew <= 0 {
		c.ExpirySkew = 2 * time.Second
	}
	if c.MinZoom <= 0 {
		c.MinZoom = 0.8
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = 1.6
	}
	if c.BaseWidth <= 0 {
		c.BaseWidth = 80
	}
	if c.MaxBaseScale <= 0 {
		c.MaxBaseScale = 2.0
	}
	return c
}

// SnapshotSource supplies the read-only entitlement state for the gate.
// Implemented by services.AuthService.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (access.Snapshot, error)
}

// ProgressSink receives page-change notifications. Implemented by
// services.ProgressService.
type ProgressSink interface {
	Record(ctx context.Context, noteID string, lastPage, pageCount int)
	Resume(ctx context.Context, noteID string) int
}

// Telemetry receives best-effort lifecycle events. Implemented by
// telemetry.Reporter.
type Telemetry interface {
	NoteOpened(noteID, sessionID string)
	Heartbeat(noteID, sessionID string, page, pageCount int)
	NoteClosed(noteID, sessionID string, lastPage, pageCount int)
}

// Deps are the collaborators a Viewer needs.
type Deps struct {
	Client    api.Client
	Snapshots SnapshotSource
	Opener    doc.Opener
	Renderer  doc.Renderer
	Progress  ProgressSink
	Events    Telemetry
	Log       logging.Logger
}

// Viewer drives one note view. All methods are safe for use from the UI
// goroutine plus the internal heartbeat goroutine; a mutex serializes state,
// and superseded renders are dropped via a generation counter.
type Viewer struct {
	cfg  Config
	deps Deps
	now  func() time.Time

	mu           sync.Mutex
	note         models.Note
	state        State
	message      string
	resettable   bool
	sess         *models.ViewSession
	document     doc.Document
	stamp        string
	page         int
	pageCount    int
	zoom         float64
	surfaceWidth int

	renderGen    uint64
	renderCancel context.CancelFunc
	hbCancel     context.CancelFunc
}

func New(note models.Note, deps Deps, cfg Config) *Viewer {
	c := cfg.withDefaults()
	return &Viewer{
		cfg:          c,
		deps:         deps,
		now:          time.Now,
		note:         note,
		state:        StateIdle,
		zoom:         1.0,
		surfaceWidth: c.BaseWidth,
	}
}

// State, Message, Page, PageCount, Zoom and CanResetSessions expose the
// current view for the UI layer.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Viewer) Message() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

func (v *Viewer) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

func (v *Viewer) PageCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageCount
}

func (v *Viewer) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

func (v *Viewer) CanResetSessions() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state == StateSessionError && v.resettable
}

// Open runs the entitlement gate and, if it passes, acquires a session and
// renders the first (or resumed) page. Free notes skip the gate entirely.
func (v *Viewer) Open(ctx context.Context) error {
	v.mu.Lock()
	if v.state != StateIdle {
		v.mu.Unlock()
		return fmt.Errorf("viewer already opened (state %s)", v.state)
	}
	v.mu.Unlock()

	if v.note.IsPremium {
		snap, err := v.deps.Snapshots.Snapshot(ctx)
		if err != nil {
			v.fail(StateSessionError, err)
			return err
		}
		if d := access.CanAccessNote(snap, v.note, v.now()); !d.Allowed {
			v.mu.Lock()
			v.state = StatePaywalled
			v.message = paywallMessage(access.PaywallReason(snap, d, v.now()))
			v.mu.Unlock()
			v.deps.Log.Info(ctx, "note paywalled", "note_id", v.note.ID, "reason", d.Reason)
			return nil
		}
	}

	return v.acquire(ctx)
}

// Refresh re-acquires a session after an error or expiry (or proactively
// while active). The reading position is kept.
func (v *Viewer) Refresh(ctx context.Context) error {
	v.mu.Lock()
	switch v.state {
	case StateActive, StateExpired, StateSessionError:
	default:
		st := v.state
		v.mu.Unlock()
		return fmt.Errorf("cannot refresh session in state %s", st)
	}
	v.teardownSessionLocked()
	v.mu.Unlock()

	return v.acquire(ctx)
}

// ResetSessions revokes the user's other view sessions for this note and
// retries acquisition. Only valid while the session-limit recovery is
// offered.
func (v *Viewer) ResetSessions(ctx context.Context) error {
	if !v.CanResetSessions() {
		return errors.New("session reset not available")
	}
	if err := v.deps.Client.ResetViewSessions(ctx, v.note.ID); err != nil {
		v.fail(StateSessionError, err)
		return err
	}
	return v.acquire(ctx)
}

// Next renders the following page. On the last page it is a no-op.
func (v *Viewer) Next(ctx context.Context) error {
	return v.navigate(ctx, +1)
}

// Prev renders the preceding page. On page 1 it is a no-op.
func (v *Viewer) Prev(ctx context.Context) error {
	return v.navigate(ctx, -1)
}

func (v *Viewer) navigate(ctx context.Context, delta int) error {
	v.mu.Lock()
	if err := v.ensureRenderableLocked(); err != nil {
		v.mu.Unlock()
		return err
	}
	target := clampInt(v.page+delta, 1, v.pageCount)
	if target == v.page {
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	return v.render(ctx, target)
}

// SetZoom clamps and applies a zoom factor, re-rendering the current page
// when it changes.
func (v *Viewer) SetZoom(ctx context.Context, zoom float64) error {
	v.mu.Lock()
	if err := v.ensureRenderableLocked(); err != nil {
		v.mu.Unlock()
		return err
	}
	clamped := clampFloat(zoom, v.cfg.MinZoom, v.cfg.MaxZoom)
	if clamped == v.zoom {
		v.mu.Unlock()
		return nil
	}
	v.zoom = clamped
	page := v.page
	v.mu.Unlock()

	return v.render(ctx, page)
}

// SetSurfaceWidth reports a resized surface; the fit-to-width base scale is
// recomputed and the current page re-rendered. An in-flight render is
// superseded, mirroring the resize-cancels-render rule.
func (v *Viewer) SetSurfaceWidth(ctx context.Context, cols int) error {
	v.mu.Lock()
	if cols > 0 {
		v.surfaceWidth = cols
	}
	if v.state != StateActive {
		v.mu.Unlock()
		return nil
	}
	if err := v.ensureRenderableLocked(); err != nil {
		v.mu.Unlock()
		return err
	}
	page := v.page
	v.mu.Unlock()

	return v.render(ctx, page)
}

// Close tears the viewer down: cancels in-flight work, destroys the loaded
// document, stops the heartbeat and fires the best-effort close event.
// Idempotent; never blocks on the network.
func (v *Viewer) Close() {
	v.mu.Lock()
	if v.state == StateClosed {
		v.mu.Unlock()
		return
	}
	lastPage, pageCount := v.page, v.pageCount
	var sessionID string
	if v.sess != nil {
		sessionID = v.sess.SessionID
	}
	hadSession := v.sess != nil
	v.teardownSessionLocked()
	v.state = StateClosed
	v.mu.Unlock()

	if hadSession {
		v.deps.Events.NoteClosed(v.note.ID, sessionID, lastPage, pageCount)
	}
}

// acquire transitions through AcquiringSession: create the session, download
// and open the document, fetch the watermark, start the heartbeat and render
// the resumed page.
func (v *Viewer) acquire(ctx context.Context) error {
	v.mu.Lock()
	if v.state == StateAcquiring || v.state == StateClosed {
		st := v.state
		v.mu.Unlock()
		return fmt.Errorf("cannot acquire session in state %s", st)
	}
	v.state = StateAcquiring
	v.message = ""
	v.resettable = false
	v.mu.Unlock()

	sess, err := v.deps.Client.CreateViewSession(ctx, v.note.ID)
	if err != nil {
		v.mu.Lock()
		if v.state == StateAcquiring {
			v.state = StateSessionError
			v.message = readableMessage(err)
			v.resettable = errors.Is(err, common.ErrSessionLimit)
		}
		v.mu.Unlock()
		v.deps.Log.Warn(ctx, "view session acquisition failed", "note_id", v.note.ID, "error", err)
		return err
	}

	data, contentType, err := v.deps.Client.Content(ctx, v.note.ID, sess.ViewToken)
	if err != nil {
		v.fail(StateSessionError, err)
		return err
	}

	document, err := v.deps.Opener.Open(ctx, contentType, data)
	if err != nil {
		v.fail(StateSessionError, err)
		return err
	}

	// Watermark is additive: a failure never blocks viewing.
	stamp := ""
	if wm, err := v.deps.Client.Watermark(ctx, v.note.ID, sess.ViewToken); err != nil {
		v.deps.Log.Debug(ctx, "watermark fetch failed", "note_id", v.note.ID, "error", err)
	} else {
		stamp = watermark.Stamp(*wm)
	}

	hbCtx, hbCancel := context.WithCancel(context.Background())

	v.mu.Lock()
	// Close may have run while the acquisition was in flight; it wins. Commit
	// nothing, release what was just acquired and leave the state alone.
	if v.state != StateAcquiring {
		v.mu.Unlock()
		hbCancel()
		_ = document.Close()
		v.deps.Log.Debug(ctx, "session acquisition abandoned", "note_id", v.note.ID)
		return nil
	}
	v.sess = sess
	v.document = document
	v.stamp = stamp
	v.pageCount = document.PageCount()
	v.state = StateActive
	v.hbCancel = hbCancel
	v.mu.Unlock()

	v.deps.Events.NoteOpened(v.note.ID, sess.SessionID)
	go v.heartbeatLoop(hbCtx)

	resume := clampInt(v.deps.Progress.Resume(ctx, v.note.ID), 1, document.PageCount())
	return v.render(ctx, resume)
}

// render draws one page. A new call cancels the in-flight one; results of a
// superseded render are discarded via the generation counter, so out-of-order
// completions can never paint a stale page.
func (v *Viewer) render(ctx context.Context, page int) error {
	v.mu.Lock()
	if err := v.ensureRenderableLocked(); err != nil {
		v.mu.Unlock()
		return err
	}
	if v.renderCancel != nil {
		v.renderCancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	v.renderCancel = cancel
	v.renderGen++
	gen := v.renderGen
	document := v.document
	frame := doc.Frame{
		NoteID:    v.note.ID,
		PageCount: v.pageCount,
		Scale:     v.scaleLocked(),
	}
	stamp := v.stamp
	v.mu.Unlock()

	pg, err := document.Page(rctx, page)
	if err != nil {
		return v.finishRender(ctx, gen, 0, err)
	}

	frame.Page = pg
	frame.Overlay = watermark.Overlay(pg.Lines, stamp)
	if err := v.deps.Renderer.Render(rctx, frame); err != nil {
		return v.finishRender(ctx, gen, 0, err)
	}
	return v.finishRender(ctx, gen, page, nil)
}

// finishRender commits a render result if it is still current. Superseded
// renders (stale generation or cancelled context) are dropped silently.
func (v *Viewer) finishRender(ctx context.Context, gen uint64, page int, renderErr error) error {
	v.mu.Lock()
	if gen != v.renderGen || v.state != StateActive {
		v.mu.Unlock()
		return nil
	}

	if renderErr != nil {
		if errors.Is(renderErr, context.Canceled) {
			v.mu.Unlock()
			return nil
		}
		// Page-render failures are inline and non-fatal; the viewer stays
		// Active and the user may retry or navigate.
		v.message = readableMessage(renderErr)
		v.mu.Unlock()
		v.deps.Log.Warn(ctx, "page render failed", "note_id", v.note.ID, "error", renderErr)
		return renderErr
	}

	v.page = page
	v.pageCount = v.document.PageCount()
	v.message = ""
	noteID, pageCount := v.note.ID, v.pageCount
	v.mu.Unlock()

	// Page-change notification: UI counter is read via Page(); persistence
	// goes through the debounced sink.
	v.deps.Progress.Record(context.WithoutCancel(ctx), noteID, page, pageCount)
	return nil
}

// ensureRenderableLocked enforces the session gate before any draw: only an
// Active, non-expired session may render. Expiry is detected here, reactively,
// rather than by a timer.
func (v *Viewer) ensureRenderableLocked() error {
	switch v.state {
	case StateActive:
	case StateExpired:
		return common.ErrSessionExpired
	default:
		return fmt.Errorf("no active view session (state %s)", v.state)
	}
	if v.sess.Expired(v.now(), v.cfg.ExpirySkew) {
		v.state = StateExpired
		v.message = "Your viewing session expired. Refresh to continue reading."
		return common.ErrSessionExpired
	}
	return nil
}

// scaleLocked combines the fit-to-width base scale (clamped for very wide
// surfaces) with the user zoom.
func (v *Viewer) scaleLocked() float64 {
	base := float64(v.surfaceWidth) / float64(v.cfg.BaseWidth)
	base = clampFloat(base, 0, v.cfg.MaxBaseScale)
	return base * v.zoom
}

func (v *Viewer) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(v.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.mu.Lock()
			// The ticker never transitions state; expiry stays a reactive
			// check on user actions.
			live := v.state == StateActive && !v.sess.Expired(v.now(), v.cfg.ExpirySkew)
			sessionID := ""
			if v.sess != nil {
				sessionID = v.sess.SessionID
			}
			page, pageCount := v.page, v.pageCount
			v.mu.Unlock()

			if live {
				v.deps.Events.Heartbeat(v.note.ID, sessionID, page, pageCount)
			}
		}
	}
}

// fail records an error state with a readable message. A viewer that was
// closed in the meantime stays closed.
func (v *Viewer) fail(state State, err error) {
	v.mu.Lock()
	if v.state != StateClosed {
		v.state = state
		v.message = readableMessage(err)
	}
	v.mu.Unlock()
}

// teardownSessionLocked cancels in-flight work and destroys the loaded
// document. Callers hold v.mu.
func (v *Viewer) teardownSessionLocked() {
	if v.renderCancel != nil {
		v.renderCancel()
		v.renderCancel = nil
	}
	if v.hbCancel != nil {
		v.hbCancel()
		v.hbCancel = nil
	}
	if v.document != nil {
		_ = v.document.Close()
		v.document = nil
	}
	v.sess = nil
	v.stamp = ""
	v.renderGen++ // orphan any in-flight render
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
