package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/studyport/internal/client/models"
	"github.com/mpetrenko/studyport/internal/client/repositories/metadata"

	_ "modernc.org/sqlite"
)

func setupTokenStore(t *testing.T) *TokenStore {
	t.Helper()
	db, err := sql.Open("sqlite", "file:authsvc?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return NewTokenStore(db)
}

func TestClientID_StableAcrossCalls(t *testing.T) {
	db, err := sql.Open("sqlite", "file:clientid?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)

	repo := metadata.NewSQLiteRepository(db)
	ctx := context.Background()

	first, err := ClientID(ctx, repo)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := ClientID(ctx, repo)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTokenStore_RoundTrip(t *testing.T) {
	store := setupTokenStore(t)
	ctx := context.Background()

	// Empty store reads as "no token", not an error.
	access, err := store.GetAccessToken(ctx)
	require.NoError(t, err)
	require.Empty(t, access)

	require.NoError(t, store.SetTokens(ctx, "acc", "ref"))

	access, err = store.GetAccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "acc", access)

	refresh, err := store.GetRefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "ref", refresh)

	require.NoError(t, store.ClearTokens(ctx))
	access, err = store.GetAccessToken(ctx)
	require.NoError(t, err)
	require.Empty(t, access)
}

func TestAuthService_LoginFetchesProfile(t *testing.T) {
	fc := &fakeClient{ProfileRet: &models.Profile{UserID: "u1", Email: "s@example.com"}}
	store := setupTokenStore(t)
	svc := NewAuthService(fc, store)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, "s@example.com", "pw"))
	require.Equal(t, "s@example.com", fc.LastLogin)
	require.Equal(t, 1, fc.ProfileCalls)

	// Cached snapshot: no second fetch unless forced.
	_, err := svc.Profile(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 1, fc.ProfileCalls)

	_, err = svc.Profile(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 2, fc.ProfileCalls)
}

func TestAuthService_LoginErrorPropagates(t *testing.T) {
	fc := &fakeClient{LoginErr: errors.New("bad credentials")}
	svc := NewAuthService(fc, setupTokenStore(t))

	err := svc.Login(context.Background(), "s@example.com", "pw")
	require.Error(t, err)
	require.Equal(t, 0, fc.ProfileCalls)
}

func TestAuthService_LogoutClearsState(t *testing.T) {
	fc := &fakeClient{ProfileRet: &models.Profile{UserID: "u1"}}
	store := setupTokenStore(t)
	svc := NewAuthService(fc, store)
	ctx := context.Background()

	require.NoError(t, store.SetTokens(ctx, "acc", "ref"))
	require.True(t, svc.LoggedIn(ctx))

	require.NoError(t, svc.Logout(ctx))
	require.False(t, svc.LoggedIn(ctx))

	// Snapshot after logout refetches rather than serving stale state.
	_, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, fc.ProfileCalls)
}

func TestAuthService_SessionExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	store := setupTokenStore(t)
	svc := NewAuthService(&fakeClient{}, store)
	ctx := context.Background()

	require.NoError(t, store.SetTokens(ctx, tok, "ref"))

	got, err := svc.SessionExpiry(ctx)
	require.NoError(t, err)
	require.True(t, got.Equal(exp))
}
