package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dojoportal/internal/adapters/backend"
	"dojoportal/internal/adapters/http/middleware"
	"dojoportal/internal/application/orchestrators"
	"dojoportal/internal/domain/session"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in announcement markdown is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

func dashboardPath(role string) string {
	return orchestrators.DashboardPathForRole(role)
}

// internalError logs the real error and returns a generic message to the
// client, preventing internal detail leaks.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	role := ""
	name := ""
	if viewer, ok := middleware.ViewerFromContext(r.Context()); ok {
		role = viewer.Role
		name = viewer.Profile.FullName
	}

	funcMap := template.FuncMap{
		"currentRole": func() string { return role },
		"currentName": func() string { return name },
		"isLoggedIn":  func() bool { return role != "" },
		"csrfToken":   func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleBackendError is the one place backend failures turn into portal
// responses. A 401 means the credential is dead server-side: the Session
// Record is cleared and the viewer goes back to their role's login page
// with the backend's message. Other API errors surface their message
// verbatim; transport failures get a retry-oriented message.
func handleBackendError(w http.ResponseWriter, r *http.Request, err error) {
	if backend.IsUnauthorized(err) {
		message := "session expired"
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		loginPath := "/login"
		if viewer, ok := middleware.ViewerFromContext(r.Context()); ok {
			loginPath = middleware.LoginPathForRole(viewer.Role)
			if clearErr := deps.Tokens.Clear(r.Context(), viewer.Key); clearErr != nil {
				slog.Warn("session_clear_failed", "error", clearErr.Error())
			}
		}
		deps.Cookies.ClearSessionCookie(w)
		slog.Info("auth_event", "event", "backend_unauthorized", "message", message)
		if isHTMLRequest(r) {
			http.Redirect(w, r, loginPath+"?message="+url.QueryEscape(message), http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": message, "login": loginPath})
		return
	}

	if apiErr, ok := backend.AsAPIError(err); ok {
		writeJSON(w, apiErr.Status, map[string]string{"error": apiErr.Message})
		return
	}

	if backend.IsNetworkError(err) {
		slog.Warn("backend_unreachable", "error", err.Error())
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "network error, please try again"})
		return
	}

	internalError(w, err)
}

// handleLogin handles GET (form) and POST (authenticate) for /login.
// Students and coaches share the endpoint; the form carries the role.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	serveLogin(w, r, session.RoleStudent, "login.html")
}

// handleSuperAdminLogin handles the superadmin login flow, which talks
// to a different backend endpoint with a different response envelope.
func handleSuperAdminLogin(w http.ResponseWriter, r *http.Request) {
	serveLogin(w, r, session.RoleSuperAdmin, "superadmin_login.html")
}

func serveLogin(w http.ResponseWriter, r *http.Request, defaultRole, tmpl string) {
	if r.Method == "GET" {
		// If already logged in, go straight to the dashboard.
		if viewer, ok := middleware.ViewerFromContext(r.Context()); ok {
			http.Redirect(w, r, dashboardPath(viewer.Role), http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, tmpl, map[string]any{
			"CSRFToken": csrf.Token(r),
			"Message":   r.URL.Query().Get("message"),
		})
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	role := r.FormValue("Role")
	if role == "" || defaultRole == session.RoleSuperAdmin {
		role = defaultRole
	}

	key := generateID()
	input := orchestrators.LoginInput{
		SessionKey:     key,
		Email:          r.FormValue("Email"),
		Password:       r.FormValue("Password"),
		Role:           role,
		RecaptchaToken: r.FormValue("RecaptchaToken"),
	}
	odeps := orchestrators.LoginDeps{Backend: deps.Backend, Sessions: deps.Tokens}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, odeps)
	if err != nil {
		loginError(w, r, tmpl, err)
		return
	}

	maxAge := int(deps.Config.SessionTTL.Seconds())
	if err := deps.Cookies.SetSessionCookie(w, key, maxAge); err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, result.RedirectPath, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":  result.Profile,
		"redirect": result.RedirectPath,
	})
}

// loginError re-renders the login form with the failure message: backend
// rejections verbatim, transport failures as a retry prompt.
func loginError(w http.ResponseWriter, r *http.Request, tmpl string, err error) {
	status := http.StatusUnauthorized
	message := err.Error()
	if apiErr, ok := backend.AsAPIError(err); ok {
		status = apiErr.Status
		message = apiErr.Message
	} else if backend.IsNetworkError(err) {
		status = http.StatusBadGateway
		message = "network error, please try again"
	}
	if isHTMLRequest(r) {
		w.WriteHeader(status)
		renderTemplate(w, r, tmpl, map[string]any{
			"CSRFToken": csrf.Token(r),
			"Error":     message,
		})
		return
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if key, ok := deps.Cookies.ReadSessionCookie(r); ok {
		if err := orchestrators.ExecuteLogout(r.Context(), key, orchestrators.LogoutDeps{Sessions: deps.Tokens}); err != nil {
			internalError(w, err)
			return
		}
	}

	deps.Cookies.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
