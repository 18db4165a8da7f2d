package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sessionStore "dojoportal/internal/adapters/storage/session"
	domain "dojoportal/internal/domain/session"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func seedViewer(t *testing.T, tm *TokenManager, key, role string) {
	t.Helper()
	_, err := tm.StoreAuthData(context.Background(), key, domain.Issued{
		Token:     "tok-" + key,
		ExpiresIn: 3600,
		Profile:   domain.Profile{ID: "u-1", Role: role, FullName: "Test User"},
	})
	if err != nil {
		t.Fatalf("StoreAuthData() error = %v", err)
	}
}

// TestCookieCodec_RoundTrip verifies the signed session cookie decodes
// back to the original key.
func TestCookieCodec_RoundTrip(t *testing.T) {
	cc := NewCookieCodec(testKey)

	rr := httptest.NewRecorder()
	if err := cc.SetSessionCookie(rr, "k-123", 3600); err != nil {
		t.Fatalf("SetSessionCookie() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(rr.Result().Cookies()[0])
	key, ok := cc.ReadSessionCookie(req)
	if !ok || key != "k-123" {
		t.Errorf("ReadSessionCookie() = %q, %v; want k-123, true", key, ok)
	}
}

// TestCookieCodec_RejectsTampering verifies a modified cookie value does
// not decode.
func TestCookieCodec_RejectsTampering(t *testing.T) {
	cc := NewCookieCodec(testKey)

	rr := httptest.NewRecorder()
	if err := cc.SetSessionCookie(rr, "k-123", 3600); err != nil {
		t.Fatalf("SetSessionCookie() error = %v", err)
	}
	cookie := rr.Result().Cookies()[0]
	cookie.Value = cookie.Value[:len(cookie.Value)-4] + "XXXX"

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	if _, ok := cc.ReadSessionCookie(req); ok {
		t.Error("tampered cookie decoded, want rejection")
	}
}

// TestAuth_ResolvesViewer verifies the middleware puts a Viewer on the
// context for a live session and stays silent otherwise.
func TestAuth_ResolvesViewer(t *testing.T) {
	tm := NewTokenManager(sessionStore.NewMemoryStore(), 24*time.Hour, nil)
	cc := NewCookieCodec(testKey)
	seedViewer(t, tm, "k1", "coach")

	var got Viewer
	var ok bool
	handler := Auth(tm, cc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ViewerFromContext(r.Context())
	}))

	// With a valid cookie.
	rr := httptest.NewRecorder()
	if err := cc.SetSessionCookie(rr, "k1", 3600); err != nil {
		t.Fatalf("SetSessionCookie() error = %v", err)
	}
	req := httptest.NewRequest("GET", "/coach/dashboard", nil)
	req.AddCookie(rr.Result().Cookies()[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("no viewer resolved for a live session")
	}
	if got.Key != "k1" || got.Role != domain.RoleCoach || got.Token != "tok-k1" {
		t.Errorf("viewer = %+v", got)
	}

	// Without a cookie the request passes through anonymous.
	ok = false
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if ok {
		t.Error("viewer resolved without a cookie")
	}
}

// TestRequireRole covers the gate: anonymous redirects, wrong role 403,
// matching role passes.
func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gate := RequireRole("/login", domain.RoleStudent)(next)

	t.Run("anonymous redirects to login", func(t *testing.T) {
		rr := httptest.NewRecorder()
		gate.ServeHTTP(rr, httptest.NewRequest("GET", "/dashboard", nil))
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q, want /login", loc)
		}
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/dashboard", nil)
		req = req.WithContext(ContextWithViewer(req.Context(), Viewer{Key: "k", Role: domain.RoleCoach}))
		rr := httptest.NewRecorder()
		gate.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rr.Code)
		}
	})

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/dashboard", nil)
		req = req.WithContext(ContextWithViewer(req.Context(), Viewer{Key: "k", Role: domain.RoleStudent}))
		rr := httptest.NewRecorder()
		gate.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})
}

// TestLoginPathForRole maps roles onto their login pages.
func TestLoginPathForRole(t *testing.T) {
	if got := LoginPathForRole(domain.RoleSuperAdmin); got != "/superadmin/login" {
		t.Errorf("LoginPathForRole(superadmin) = %q", got)
	}
	if got := LoginPathForRole(domain.RoleStudent); got != "/login" {
		t.Errorf("LoginPathForRole(student) = %q", got)
	}
	if got := LoginPathForRole(""); got != "/login" {
		t.Errorf("LoginPathForRole(empty) = %q", got)
	}
}

// TestAuth_ExpiredSessionIsAnonymous verifies an expired record resolves
// no viewer even though the cookie is intact.
func TestAuth_ExpiredSessionIsAnonymous(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	tm := NewTokenManager(sessionStore.NewMemoryStore(), 24*time.Hour, clock)
	cc := NewCookieCodec(testKey)
	seedViewer(t, tm, "k1", "student")

	clock.now = clock.now.Add(2 * time.Hour)

	var ok bool
	handler := Auth(tm, cc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = ViewerFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	if err := cc.SetSessionCookie(rr, "k1", 3600); err != nil {
		t.Fatalf("SetSessionCookie() error = %v", err)
	}
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(rr.Result().Cookies()[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if ok {
		t.Error("expired session resolved a viewer")
	}
}
