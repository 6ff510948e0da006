// Package metadata stores small key/value pairs (auth tokens, client id) in
// the local cache database.
package metadata

import "context"

// Repository is a persistent key/value store. Missing keys surface as
// common.ErrNotFound.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
