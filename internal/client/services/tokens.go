package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/mpetrenko/studyport/internal/client/repositories/metadata"
	"github.com/mpetrenko/studyport/internal/common"
	"github.com/mpetrenko/studyport/internal/dbx"
)

// Fixed metadata keys for the persisted token pair, mirroring the fixed
// local-storage keys the web client uses.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyClientID     = "client_id"
)

// TokenStore persists the access/refresh pair in the metadata table. The two
// keys are written and cleared together in one transaction so a crash can
// never leave half a pair behind. Implements api.TokenStore.
type TokenStore struct {
	db   *sql.DB
	repo metadata.Repository
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db, repo: metadata.NewSQLiteRepository(db)}
}

func (s *TokenStore) GetAccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyAccessToken)
}

func (s *TokenStore) GetRefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyRefreshToken)
}

func (s *TokenStore) get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(v), nil
}

func (s *TokenStore) SetTokens(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(access)); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, []byte(refresh))
	})
}

func (s *TokenStore) ClearTokens(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, keyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyRefreshToken)
	})
}

// ClientID returns the stable per-installation identifier used to tag
// telemetry events, generating and persisting one on first use. Logout does
// not clear it.
func ClientID(ctx context.Context, repo metadata.Repository) (string, error) {
	v, err := repo.Get(ctx, keyClientID)
	if err == nil {
		return string(v), nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	id := uuid.NewString()
	if err := repo.Set(ctx, keyClientID, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}
