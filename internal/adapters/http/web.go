package web

import (
	"net/http"
	"time"

	"dojoportal/internal/adapters/backend"
	"dojoportal/internal/adapters/http/middleware"
	draftStore "dojoportal/internal/adapters/storage/draft"
	"dojoportal/internal/config"
)

// Deps holds everything the handlers need. The portal has no stores of
// business data; the backend client is the data path, the token manager
// and draft store are the only local state.
type Deps struct {
	Config  *config.Config
	Backend *backend.Client
	Tokens  *middleware.TokenManager
	Cookies *middleware.CookieCodec
	Drafts  draftStore.Store
}

// Global deps instance (set by NewMux)
var deps *Deps

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the portal.
func NewMux(d *Deps) http.Handler {
	deps = d
	middleware.SecureCookies = d.Config.Env == "production"

	mux := http.NewServeMux()
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)
	trustedOrigins := []string{"localhost:8080", "127.0.0.1:8080"}

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(d.Config.CSRFKey, trustedOrigins),
		middleware.Auth(d.Tokens, d.Cookies),
		middleware.RateLimit(limiter),
		middleware.Timing,
	)
}
