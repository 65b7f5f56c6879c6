// Package revocation answers "is this jti revoked?" in O(1) against the
// shared key-value store. Entries expire together with the token they
// shadow, so an absent key always means the token is either live or
// already past its own expiry.
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/stybayev/graduate-work/internal/kv"
)

const keyPrefix = "invalid_token:"

type Registry struct {
	store kv.Store
}

func NewRegistry(store kv.Store) *Registry {
	return &Registry{store: store}
}

// RecordRevoked marks a jti as revoked. Overwriting an existing entry
// is a no-op success, so double revocation is safe. The TTL must be at
// least the token's remaining validity or the revocation guarantee
// breaks.
func (r *Registry) RecordRevoked(ctx context.Context, jti, revokedBy string, ttl time.Duration) error {
	if err := r.store.Set(ctx, keyPrefix+jti, revokedBy, ttl); err != nil {
		return fmt.Errorf("record revoked jti %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether the jti has a live revocation entry.
// Absence means "not revoked".
func (r *Registry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := r.store.Exists(ctx, keyPrefix+jti)
	if err != nil {
		return false, fmt.Errorf("check revoked jti %s: %w", jti, err)
	}
	return revoked, nil
}
