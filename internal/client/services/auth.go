// Package services contains the application services of the studyport
// client: authentication and profile snapshot ownership, catalog browsing,
// and the offline-first progress reporter.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mpetrenko/studyport/internal/access"
	"github.com/mpetrenko/studyport/internal/client/api"
	"github.com/mpetrenko/studyport/internal/client/models"
)

// AuthService owns authentication and the entitlement/subscription snapshot.
//
// Contract:
//   - Login/Logout manage the persisted token pair and the cached profile.
//   - Profile returns the cached snapshot, refetching it wholesale when
//     force is set (or nothing is cached yet). Partial mutation never happens.
//   - Snapshot exposes the read-only state the access resolver runs against.
//   - Ping probes server liveness.
//
// All methods honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	LoggedIn(ctx context.Context) bool
	Profile(ctx context.Context, force bool) (*models.Profile, error)
	Snapshot(ctx context.Context) (access.Snapshot, error)
	SessionExpiry(ctx context.Context) (time.Time, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client api.Client
	tokens api.TokenStore

	mu      sync.Mutex
	profile *models.Profile
}

// NewAuthService constructs an AuthService over the API client and the
// persisted token store.
func NewAuthService(client api.Client, tokens api.TokenStore) AuthService {
	return &authService{client: client, tokens: tokens}
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	if err := a.client.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	// Pull the profile straight away so access checks work offline-ish
	// within the session.
	if _, err := a.Profile(ctx, true); err != nil {
		return fmt.Errorf("profile fetch error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.profile = nil
	a.mu.Unlock()
	return a.tokens.ClearTokens(ctx)
}

func (a *authService) LoggedIn(ctx context.Context) bool {
	token, err := a.tokens.GetAccessToken(ctx)
	return err == nil && token != ""
}

func (a *authService) Profile(ctx context.Context, force bool) (*models.Profile, error) {
	a.mu.Lock()
	cached := a.profile
	a.mu.Unlock()

	if cached != nil && !force {
		return cached, nil
	}

	p, err := a.client.Profile(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.profile = p
	a.mu.Unlock()
	return p, nil
}

func (a *authService) Snapshot(ctx context.Context) (access.Snapshot, error) {
	p, err := a.Profile(ctx, false)
	if err != nil {
		return access.Snapshot{}, err
	}
	return access.Snapshot{Subscription: p.Subscription, Entitlements: p.Entitlements}, nil
}

func (a *authService) SessionExpiry(ctx context.Context) (time.Time, error) {
	token, err := a.tokens.GetAccessToken(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return api.AccessTokenExpiry(token)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
