package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"dojoportal/internal/adapters/backend"
	"dojoportal/internal/adapters/http/middleware"
	draftStore "dojoportal/internal/adapters/storage/draft"
	sessionStore "dojoportal/internal/adapters/storage/session"
	"dojoportal/internal/config"
	"dojoportal/internal/domain/session"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

// setupDeps wires the global handler deps against a fake backend and
// in-memory stores. Returns the token manager for seeding sessions.
func setupDeps(t *testing.T, backendURL string) *middleware.TokenManager {
	t.Helper()
	tm := middleware.NewTokenManager(sessionStore.NewMemoryStore(), 24*time.Hour, nil)
	deps = &Deps{
		Config: &config.Config{
			Env:                   "development",
			BackendURL:            backendURL,
			RequestTimeout:        5 * time.Second,
			SessionTTL:            24 * time.Hour,
			PaymentMethodsEnabled: true,
			CookieSigningKey:      testSigningKey,
			CSRFKey:               testSigningKey,
		},
		Backend: backend.New(backendURL, backend.Options{}),
		Tokens:  tm,
		Cookies: middleware.NewCookieCodec(testSigningKey),
		Drafts:  draftStore.NewMemoryStore(),
	}
	return tm
}

func seedSession(t *testing.T, tm *middleware.TokenManager, key, role string) middleware.Viewer {
	t.Helper()
	profile, err := tm.StoreAuthData(context.Background(), key, session.Issued{
		Token:     "tok-" + key,
		ExpiresIn: 3600,
		Profile:   session.Profile{ID: "u-" + key, Role: role, FullName: "Test User"},
	})
	if err != nil {
		t.Fatalf("StoreAuthData() error = %v", err)
	}
	return middleware.Viewer{Key: key, Token: "tok-" + key, Role: profile.Role, Profile: profile}
}

// TestBackendUnauthorized_ClearsSessionAndRedirects verifies a backend
// 401 mid-session ends it: record cleared, cookie cleared, viewer sent
// to their login page carrying the backend's message.
func TestBackendUnauthorized_ClearsSessionAndRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token expired"}`))
	}))
	defer srv.Close()

	tm := setupDeps(t, srv.URL)
	viewer := seedSession(t, tm, "k1", "student")

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	req = req.WithContext(middleware.ContextWithViewer(req.Context(), viewer))
	rr := httptest.NewRecorder()
	handleStudentDashboard(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location header: %v", err)
	}
	if loc.Path != "/login" {
		t.Errorf("redirect path = %q, want /login", loc.Path)
	}
	if got := loc.Query().Get("message"); got != "Token expired" {
		t.Errorf("message = %q, want the backend's own text", got)
	}

	if tm.IsAuthenticated(context.Background(), "k1") {
		t.Error("session still authenticated after backend 401")
	}

	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == "dojo_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie was not cleared")
	}
}

// TestBackendUnauthorized_SuperAdminRedirect verifies the redirect
// targets the role's own login page.
func TestBackendUnauthorized_SuperAdminRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token expired"}`))
	}))
	defer srv.Close()

	tm := setupDeps(t, srv.URL)
	viewer := seedSession(t, tm, "k2", "superadmin")

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	req = req.WithContext(middleware.ContextWithViewer(req.Context(), viewer))
	rr := httptest.NewRecorder()
	handleAdminDashboard(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/superadmin/login") {
		t.Errorf("Location = %q, want the superadmin login page", loc)
	}
}

// TestBackendUnauthorized_JSONMode verifies non-HTML clients get a 401
// body instead of a redirect.
func TestBackendUnauthorized_JSONMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token expired"}`))
	}))
	defer srv.Close()

	tm := setupDeps(t, srv.URL)
	viewer := seedSession(t, tm, "k3", "student")

	req := httptest.NewRequest("GET", "/me/payments", nil)
	req = req.WithContext(middleware.ContextWithViewer(req.Context(), viewer))
	rr := httptest.NewRecorder()
	handleMyPayments(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON body: %v", err)
	}
	if body["error"] != "Token expired" {
		t.Errorf("error = %q, want the backend's own text", body["error"])
	}
}

// TestBackendNetworkFailure_Surfaces verifies transport failures produce
// a retry message, not a session teardown.
func TestBackendNetworkFailure_Surfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	tm := setupDeps(t, srv.URL)
	viewer := seedSession(t, tm, "k4", "student")

	req := httptest.NewRequest("GET", "/me/payments", nil)
	req = req.WithContext(middleware.ContextWithViewer(req.Context(), viewer))
	rr := httptest.NewRecorder()
	handleMyPayments(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if !tm.IsAuthenticated(context.Background(), "k4") {
		t.Error("network failure tore down the session; only a 401 should")
	}
}

// TestHandleLogin_Success verifies a login POST stores a session and
// sets the signed cookie.
func TestHandleLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-x",
			"token_type":   "bearer",
			"expires_in":   3600,
			"user":         map[string]any{"id": "u-1", "role": "student", "full_name": "Mele"},
		})
	}))
	defer srv.Close()

	tm := setupDeps(t, srv.URL)

	form := url.Values{"Email": {"mele@example.com"}, "Password": {"hunter2"}, "Role": {"student"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "dojo_session" && c.MaxAge > 0 {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie was set")
	}

	// The cookie round-trips back to an authenticated session key.
	followup := httptest.NewRequest("GET", "/dashboard", nil)
	followup.AddCookie(sessionCookie)
	key, ok := deps.Cookies.ReadSessionCookie(followup)
	if !ok {
		t.Fatal("session cookie does not decode")
	}
	if !tm.IsAuthenticated(context.Background(), key) {
		t.Error("cookie's session key is not authenticated")
	}
}

// TestHandleLogin_Rejected verifies the backend's message reaches the
// client and no cookie is set.
func TestHandleLogin_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))
	defer srv.Close()

	setupDeps(t, srv.URL)

	form := url.Values{"Email": {"mele@example.com"}, "Password": {"wrong"}, "Role": {"student"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handleLogin(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON body: %v", err)
	}
	if body["error"] != "Invalid credentials" {
		t.Errorf("error = %q, want the backend's own text", body["error"])
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == "dojo_session" {
			t.Error("a session cookie was set on a rejected login")
		}
	}
}

// TestHandleLogout_Idempotent verifies logout succeeds with and without
// a live session.
func TestHandleLogout_Idempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	tm := setupDeps(t, srv.URL)
	seedSession(t, tm, "k5", "student")

	// With a live session cookie.
	setRR := httptest.NewRecorder()
	if err := deps.Cookies.SetSessionCookie(setRR, "k5", 3600); err != nil {
		t.Fatalf("SetSessionCookie() error = %v", err)
	}
	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(setRR.Result().Cookies()[0])
	rr := httptest.NewRecorder()
	handleLogout(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if tm.IsAuthenticated(context.Background(), "k5") {
		t.Error("session survived logout")
	}

	// Without any cookie at all.
	rr = httptest.NewRecorder()
	handleLogout(rr, httptest.NewRequest("POST", "/logout", nil))
	if rr.Code != http.StatusSeeOther {
		t.Errorf("cookieless logout status = %d, want 303", rr.Code)
	}
}
