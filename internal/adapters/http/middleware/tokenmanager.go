package middleware

import (
	"context"
	"log/slog"
	"time"

	sessionStore "dojoportal/internal/adapters/storage/session"
	domain "dojoportal/internal/domain/session"
)

// Clock is an injectable time source to enable deterministic expiry tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// TokenManager is the single source of truth for "who is logged in, with
// what credential, until when". It owns all access to Session Records;
// nothing else reads or writes the session store.
type TokenManager struct {
	store       sessionStore.Store
	clock       Clock
	fallbackTTL time.Duration
}

// NewTokenManager creates a TokenManager over the given store. A nil
// clock means the system clock.
func NewTokenManager(store sessionStore.Store, fallbackTTL time.Duration, clock Clock) *TokenManager {
	if clock == nil {
		clock = systemClock{}
	}
	return &TokenManager{store: store, clock: clock, fallbackTTL: fallbackTTL}
}

// StoreAuthData normalizes a login result into a Session Record and
// persists it under key, replacing any prior record wholesale.
// PRE: iss came from one of the login endpoints
// POST: Record persisted; returns the normalized profile
// Storage write failures surface to the caller — the login flow must not
// proceed as if authenticated.
func (tm *TokenManager) StoreAuthData(ctx context.Context, key string, iss domain.Issued) (domain.Profile, error) {
	rec, err := domain.NewRecord(iss, tm.clock.Now(), tm.fallbackTTL)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := tm.store.Save(ctx, key, rec); err != nil {
		return domain.Profile{}, err
	}
	return rec.Profile, nil
}

// Token returns the persisted credential string. It does not check
// expiry; callers needing a validity guarantee use IsAuthenticated.
func (tm *TokenManager) Token(ctx context.Context, key string) (string, bool) {
	rec, err := tm.store.Get(ctx, key)
	if err != nil {
		return "", false
	}
	return rec.Token, true
}

// User returns the persisted role-tagged profile.
func (tm *TokenManager) User(ctx context.Context, key string) (domain.Profile, bool) {
	rec, err := tm.store.Get(ctx, key)
	if err != nil {
		return domain.Profile{}, false
	}
	return rec.Profile, true
}

// IsAuthenticated reports whether a Session Record exists under key and
// its expiry is in the future. This is the single gate every protected
// page consults before rendering.
// INVARIANT: An expired record answers false even while its bytes remain
// in storage. Storage read failures answer false, never panic.
func (tm *TokenManager) IsAuthenticated(ctx context.Context, key string) bool {
	rec, err := tm.store.Get(ctx, key)
	if err != nil {
		if err != sessionStore.ErrNotFound {
			slog.Warn("session_read_failed", "error", err.Error())
		}
		return false
	}
	return rec.ValidAt(tm.clock.Now())
}

// Clear deletes the persisted record unconditionally. Idempotent if the
// record is already absent.
func (tm *TokenManager) Clear(ctx context.Context, key string) error {
	return tm.store.Delete(ctx, key)
}
