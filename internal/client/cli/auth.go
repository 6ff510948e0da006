package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mpetrenko/studyport/internal/common"
)

// Login prompts the user for an email and password and authenticates against
// the portal. On success the profile snapshot is already cached by the auth
// service, so subsequent access checks need no further round trips.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			printlnFn("Server unavailable, try again later")
		} else {
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	a.userEmail = email
	a.setMode(ModeOnline)
	printlnFn("Success!")
	return nil
}

// Logout closes the open note view, clears the stored token pair and drops
// the cached profile.
func (a *App) Logout(ctx context.Context) error {
	a.closeView()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.userEmail = ""
	printlnFn("Logged out")
	return nil
}

// Profile prints the cached subscription and entitlement summary, refetching
// it from the server.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.auth.Profile(ctx, true)
	if err != nil {
		printlnFn("Fetching profile failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("%s <%s>", p.Name, p.Email))
	if p.Subscription != nil {
		s := fmt.Sprintf("Subscription: %s (%s)", p.Subscription.Plan.Name, p.Subscription.Status)
		if p.Subscription.EndsAt != nil {
			s = fmt.Sprintf("%s until %s", s, p.Subscription.EndsAt.Format("2006-01-02"))
		}
		printlnFn(s)
	} else {
		printlnFn("Subscription: none")
	}
	printlnFn(fmt.Sprintf("Entitlements: %d", len(p.Entitlements)))
	for _, e := range p.Entitlements {
		scope := "all content"
		if !e.Unscoped() {
			scope = fmt.Sprintf("%d subjects, %d topics, %d notes",
				len(e.SubjectIDs), len(e.TopicIDs), len(e.NoteIDs))
		}
		printlnFn(fmt.Sprintf("  %s: %s", e.Kind, scope))
	}

	if exp, err := a.auth.SessionExpiry(ctx); err == nil {
		printlnFn("Session valid until", exp.Local().Format("15:04:05"))
	}
	return nil
}
