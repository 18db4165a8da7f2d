package orchestrators

import (
	"context"
	"log/slog"
)

// SessionClearer deletes a Session Record.
type SessionClearer interface {
	Clear(ctx context.Context, key string) error
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Sessions SessionClearer
}

// ExecuteLogout deletes the Session Record under key. Idempotent: logging
// out an already-absent session succeeds.
func ExecuteLogout(ctx context.Context, key string, deps LogoutDeps) error {
	if err := deps.Sessions.Clear(ctx, key); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}
