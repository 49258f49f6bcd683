package repository // single-use markers for password reset tokens

import (
	"context"       // context bounds each Redis round trip
	"crypto/sha256" // sha256 fingerprints tokens so raw values never reach Redis
	"encoding/hex"  // hex encodes the fingerprint
	"errors"        // errors defines ErrTokenUsed
	"time"          // time computes marker lifetimes

	"github.com/redis/go-redis/v9" // Redis client for the single-use markers
)

// ErrTokenUsed is returned when a password reset token has already been
// redeemed.
var ErrTokenUsed = errors.New("reset token already used")

const resetKeyPrefix = "pwreset:used:"

// ResetStore remembers redeemed password reset tokens so each one works at
// most once.  Only the SHA-256 of a token is stored.  A nil client disables
// the store: every token is then accepted until it expires.
type ResetStore struct {
	rdb *redis.Client
}

func NewResetStore(rdb *redis.Client) *ResetStore { return &ResetStore{rdb: rdb} }

// Enabled reports whether a Redis client backs the store.
func (s *ResetStore) Enabled() bool { return s != nil && s.rdb != nil }

// MarkUsed atomically records raw as redeemed until expiresAt.  It returns
// ErrTokenUsed when the token was redeemed before.
func (s *ResetStore) MarkUsed(ctx context.Context, raw string, expiresAt time.Time) error {
	if !s.Enabled() {
		return nil
	}
	// The marker only has to outlive the token itself.
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	// SETNX is the atomic claim: the first redeemer wins, later ones see false.
	ok, err := s.rdb.SetNX(ctx, resetKeyPrefix+hashToken(raw), 1, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenUsed
	}
	return nil
}

// Release forgets a redemption, used when the password update that followed
// MarkUsed failed.
func (s *ResetStore) Release(ctx context.Context, raw string) error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Del(ctx, resetKeyPrefix+hashToken(raw)).Err()
}

// hashToken returns the hex SHA-256 of raw.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
