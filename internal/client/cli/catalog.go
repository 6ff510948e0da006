package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mpetrenko/studyport/internal/access"
)

// Subjects lists the subject catalog.
func (a *App) Subjects(ctx context.Context) error {
	subjects, err := a.catalog.Subjects(ctx)
	if err != nil {
		printlnFn("Listing subjects failed:", err.Error())
		return err
	}
	for _, s := range subjects {
		printlnFn(fmt.Sprintf("%s  %s", s.ID, s.Name))
	}
	return nil
}

// Notes prompts for a subject id (empty lists everything) and prints its
// notes. Notes the current entitlements do not cover get a lock marker.
func (a *App) Notes(ctx context.Context) error {
	subjectID, err := getSimpleText(a.reader, "Enter subject id (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	notes, err := a.catalog.Notes(ctx, subjectID)
	if err != nil {
		printlnFn("Listing notes failed:", err.Error())
		return err
	}

	// Lock markers come from the local resolver; a failed snapshot fetch
	// degrades to showing everything locked rather than failing the listing.
	snap, snapErr := a.auth.Snapshot(ctx)
	now := time.Now()

	for _, n := range notes {
		mark := " "
		if n.IsPremium {
			mark = "*"
			if snapErr != nil || !access.CanAccessNote(snap, n, now).Allowed {
				mark = "x"
			}
		}
		printlnFn(fmt.Sprintf("%s %s  %s", mark, n.ID, n.Title))
	}
	return nil
}
