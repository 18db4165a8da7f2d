package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"dojoportal/internal/adapters/backend"
	web "dojoportal/internal/adapters/http"
	"dojoportal/internal/adapters/http/middleware"
	"dojoportal/internal/adapters/storage"
	draftStore "dojoportal/internal/adapters/storage/draft"
	sessionStore "dojoportal/internal/adapters/storage/session"
	"dojoportal/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// WAL mode, foreign keys, and a busy timeout keep concurrent request
	// handlers from tripping over each other on the single portal DB.
	dsn := cfg.DatabasePath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	sessions := sessionStore.NewSQLiteStore(db)
	drafts := draftStore.NewSQLiteStore(db)

	client := backend.New(cfg.BackendURL, backend.Options{
		Timeout:    cfg.RequestTimeout,
		AuthScheme: cfg.AuthScheme,
		AuthToken:  cfg.AuthToken,
	})

	tokens := middleware.NewTokenManager(sessions, cfg.SessionTTL, nil)
	cookies := middleware.NewCookieCodec(cfg.CookieSigningKey)

	// Expired Session Records accumulate in SQLite; sweep hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := sessions.DeleteExpired(context.Background(), time.Now()); err != nil {
				slog.Warn("session_sweep_failed", "error", err.Error())
			} else if n > 0 {
				slog.Info("session_sweep", "deleted", n)
			}
		}
	}()

	mux := web.NewMux(&web.Deps{
		Config:  cfg,
		Backend: client,
		Tokens:  tokens,
		Cookies: cookies,
		Drafts:  drafts,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("server_start", "version", version, "addr", cfg.ListenAddr, "env", cfg.Env, "backend", cfg.BackendURL)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
