package cli

import (
	"context"
	"errors"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/mpetrenko/studyport/internal/client/viewer"
	"github.com/mpetrenko/studyport/internal/common"
)

var errNoOpenNote = errors.New("no note is open")

// OpenNote prompts for a note id and mounts a viewer for it. A previously
// open note is closed first. The entitlement gate, session acquisition and
// first page render all happen inside viewer.Open; here we only report the
// resulting state.
func (a *App) OpenNote(ctx context.Context) error {
	noteID, err := getSimpleText(a.reader, "Enter note id", os.Stdout)
	if err != nil {
		return err
	}

	note, err := a.catalog.Note(ctx, noteID)
	if err != nil {
		printlnFn("Opening note failed:", err.Error())
		return err
	}

	a.closeView()

	v := viewer.New(*note, viewer.Deps{
		Client:    a.apiClient,
		Snapshots: a.auth,
		Opener:    a.opener,
		Renderer:  a.renderer,
		Progress:  a.progress,
		Events:    a.events,
		Log:       a.log,
	}, viewer.Config{
		HeartbeatInterval: a.config.HeartbeatInterval,
	})

	// Fit the page to the terminal before the first render.
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		_ = v.SetSurfaceWidth(ctx, cols)
	}

	openErr := v.Open(ctx)

	switch v.State() {
	case viewer.StatePaywalled:
		printlnFn(v.Message())
		return nil
	case viewer.StateSessionError:
		printlnFn(v.Message())
		if v.CanResetSessions() {
			a.view = v
			printlnFn("Type 'reset' to revoke your other sessions, or 'close' to give up.")
			return openErr
		}
		a.view = v
		printlnFn("Type 'refresh' to retry, or 'close' to give up.")
		return openErr
	case viewer.StateActive:
		a.view = v
		return nil
	default:
		v.Close()
		return openErr
	}
}

// Next pages forward in the open note.
func (a *App) Next(ctx context.Context) error {
	return a.viewOp(func(v *viewer.Viewer) error { return v.Next(ctx) })
}

// Prev pages backward in the open note.
func (a *App) Prev(ctx context.Context) error {
	return a.viewOp(func(v *viewer.Viewer) error { return v.Prev(ctx) })
}

// Zoom prompts for a zoom factor and applies it to the open note.
func (a *App) Zoom(ctx context.Context) error {
	if a.view == nil {
		printlnFn("No note is open")
		return errNoOpenNote
	}

	raw, err := getSimpleText(a.reader, "Enter zoom factor (e.g. 1.2)", os.Stdout)
	if err != nil {
		return err
	}
	factor, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		printlnFn("Not a number:", raw)
		return err
	}

	return a.viewOp(func(v *viewer.Viewer) error { return v.SetZoom(ctx, factor) })
}

// Refresh re-acquires the viewing session after an error or expiry.
func (a *App) Refresh(ctx context.Context) error {
	return a.viewOp(func(v *viewer.Viewer) error { return v.Refresh(ctx) })
}

// Reset revokes the user's other viewing sessions and retries acquisition.
// Only offered after a session-limit error.
func (a *App) Reset(ctx context.Context) error {
	return a.viewOp(func(v *viewer.Viewer) error { return v.ResetSessions(ctx) })
}

// CloseNote closes the open note view.
func (a *App) CloseNote(ctx context.Context) error {
	if a.view == nil {
		printlnFn("No note is open")
		return errNoOpenNote
	}
	a.closeView()
	printlnFn("Note closed")
	return nil
}

// Sync flushes cached reading progress to the server immediately.
func (a *App) Sync(ctx context.Context) error {
	if err := a.progress.Flush(ctx); err != nil {
		printlnFn("Sync failed:", err.Error())
		return err
	}
	printlnFn("Progress synced")
	return nil
}

// viewOp runs one operation against the open viewer and translates the
// outcome into user-facing text.
func (a *App) viewOp(op func(v *viewer.Viewer) error) error {
	if a.view == nil {
		printlnFn("No note is open")
		return errNoOpenNote
	}

	err := op(a.view)
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			printlnFn(a.view.Message())
			printlnFn("Type 'refresh' to continue reading.")
			return err
		}
		printlnFn(a.view.Message())
		return err
	}

	if msg := a.view.Message(); msg != "" {
		printlnFn(msg)
	}
	return nil
}
