package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"dojoportal/internal/adapters/backend"
	"dojoportal/internal/domain/session"
)

// AuthBackend defines the backend login calls needed by Login.
type AuthBackend interface {
	Login(ctx context.Context, role string, creds backend.Credentials) (session.Issued, error)
	LoginSuperAdmin(ctx context.Context, creds backend.Credentials) (session.Issued, error)
}

// SessionWriter persists a normalized login result as a Session Record.
type SessionWriter interface {
	StoreAuthData(ctx context.Context, key string, iss session.Issued) (session.Profile, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	SessionKey     string
	Email          string
	Password       string
	Role           string
	RecaptchaToken string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Backend  AuthBackend
	Sessions SessionWriter
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Profile      session.Profile
	RedirectPath string
}

var ErrMissingCredentials = errors.New("email and password are required")

// DashboardPathForRole maps a role to its landing page after login.
func DashboardPathForRole(role string) string {
	switch role {
	case session.RoleSuperAdmin:
		return "/admin/dashboard"
	case session.RoleCoach:
		return "/coach/dashboard"
	default:
		return "/dashboard"
	}
}

// ExecuteLogin authenticates against the role-appropriate backend
// endpoint and persists the resulting Session Record.
// PRE: SessionKey is a fresh or existing portal session key
// POST: On success the Session Record under SessionKey is replaced
// INVARIANT: A storage write failure fails the login — the caller must
// never proceed as if authenticated.
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	role, err := session.NormalizeRole(input.Role)
	if err != nil {
		return LoginResult{}, err
	}

	creds := backend.Credentials{
		Email:          input.Email,
		Password:       input.Password,
		RecaptchaToken: input.RecaptchaToken,
	}

	var issued session.Issued
	if role == session.RoleSuperAdmin {
		issued, err = deps.Backend.LoginSuperAdmin(ctx, creds)
	} else {
		issued, err = deps.Backend.Login(ctx, role, creds)
	}
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "role", role)
		return LoginResult{}, err
	}

	profile, err := deps.Sessions.StoreAuthData(ctx, input.SessionKey, issued)
	if err != nil {
		slog.Error("auth_event", "event", "session_store_failed", "email", input.Email, "error", err.Error())
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", input.Email, "role", profile.Role)

	return LoginResult{
		Profile:      profile,
		RedirectPath: DashboardPathForRole(profile.Role),
	}, nil
}
