package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/securecookie"

	domain "dojoportal/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const viewerContextKey contextKey = "viewer"

// Cookie names. Session names the Session Record key; wizard names the
// registration draft for the five-step sign-up flow.
const (
	sessionCookieName = "dojo_session"
	wizardCookieName  = "dojo_wizard"
)

// SecureCookies controls the Secure flag; set true in production.
var SecureCookies = false

// Viewer is the authenticated request identity resolved from the session
// cookie: the record key plus the fields handlers need on every request.
type Viewer struct {
	Key     string
	Token   string
	Role    string
	Profile domain.Profile
}

// CookieCodec signs cookie values so a tampered session key is rejected
// before it ever reaches the store.
type CookieCodec struct {
	sc *securecookie.SecureCookie
}

// NewCookieCodec creates a codec from a 32-byte signing key.
func NewCookieCodec(signingKey []byte) *CookieCodec {
	sc := securecookie.New(signingKey, nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &CookieCodec{sc: sc}
}

func (cc *CookieCodec) set(w http.ResponseWriter, name, value string, maxAge int) error {
	encoded, err := cc.sc.Encode(name, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
	return nil
}

func (cc *CookieCodec) read(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	var value string
	if err := cc.sc.Decode(name, cookie.Value, &value); err != nil {
		return "", false
	}
	return value, true
}

func clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SetSessionCookie binds a browser to a Session Record key.
func (cc *CookieCodec) SetSessionCookie(w http.ResponseWriter, key string, maxAge int) error {
	return cc.set(w, sessionCookieName, key, maxAge)
}

// ReadSessionCookie returns the Session Record key, if present and intact.
func (cc *CookieCodec) ReadSessionCookie(r *http.Request) (string, bool) {
	return cc.read(r, sessionCookieName)
}

// ClearSessionCookie removes the session cookie.
func (cc *CookieCodec) ClearSessionCookie(w http.ResponseWriter) {
	clear(w, sessionCookieName)
}

// SetWizardCookie binds a browser to a registration draft.
func (cc *CookieCodec) SetWizardCookie(w http.ResponseWriter, draftID string) error {
	// Drafts outlive neither the day nor an abandoned browser session.
	return cc.set(w, wizardCookieName, draftID, 86400)
}

// ReadWizardCookie returns the draft ID, if present and intact.
func (cc *CookieCodec) ReadWizardCookie(r *http.Request) (string, bool) {
	return cc.read(r, wizardCookieName)
}

// ClearWizardCookie removes the wizard cookie.
func (cc *CookieCodec) ClearWizardCookie(w http.ResponseWriter) {
	clear(w, wizardCookieName)
}

// LoginPathForRole maps a role to its login route. Unauthenticated access
// always redirects to the matching login page, never a generic error.
func LoginPathForRole(role string) string {
	if role == domain.RoleSuperAdmin {
		return "/superadmin/login"
	}
	return "/login"
}

// Auth returns middleware that resolves the session cookie into a Viewer
// on the request context. It does NOT block unauthenticated requests —
// use RequireRole for that.
func Auth(tm *TokenManager, cookies *CookieCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key, ok := cookies.ReadSessionCookie(r); ok {
				if tm.IsAuthenticated(r.Context(), key) {
					token, _ := tm.Token(r.Context(), key)
					profile, _ := tm.User(r.Context(), key)
					viewer := Viewer{Key: key, Token: token, Role: profile.Role, Profile: profile}
					r = r.WithContext(context.WithValue(r.Context(), viewerContextKey, viewer))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that blocks requests without one of the
// given roles. Missing or expired sessions redirect to loginPath; a
// live session with the wrong role gets 403.
func RequireRole(loginPath string, roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, role := range roles {
		roleSet[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := ViewerFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			if !roleSet[viewer.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ViewerFromContext extracts the authenticated viewer from the request
// context.
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	viewer, ok := ctx.Value(viewerContextKey).(Viewer)
	return viewer, ok
}

// ContextWithViewer returns a context with the given viewer set.
// Intended for use in tests.
func ContextWithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey, v)
}
