// Package web provides the HTTP server and handlers for the exhibitor
// lineup dashboard.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/exhibitor-tools/lineup-portal/internal/auth"
	"github.com/exhibitor-tools/lineup-portal/internal/config"
	"github.com/exhibitor-tools/lineup-portal/internal/source"
	mw "github.com/exhibitor-tools/lineup-portal/internal/web/middleware"
)

// Server is the HTTP server for the lineup dashboard.
type Server struct {
	cache    *source.Cache
	gate     *auth.Gate
	sessions *auth.SessionStore
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance wired to the source cache.
func NewServer(cache *source.Cache, gate *auth.Gate, sessions *auth.SessionStore, cfg *config.Config) *Server {
	s := &Server{
		cache:    cache,
		gate:     gate,
		sessions: sessions,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Web.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(60 * time.Second))

	// Security hardening
	s.router.Use(securityHeaders)

	limiter := newRateLimiter(s.cfg.Web.RequestsPerMinute, time.Minute)
	s.router.Use(limiter.middleware)

	s.router.Use(mw.CSRF(s.csrfKey()))
	s.router.Use(mw.Sessions(s.sessions))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Handle("/static/*", s.staticHandler())

	// Pages
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/login", s.handleLoginForm)
	s.router.Post("/login", s.handleLogin)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)
		r.Get("/report", s.handleReportJSON)
	})
}

// csrfKey returns the configured CSRF key, or a random per-start key when
// none is set. A random key invalidates any form that was open across a
// restart; production deployments set AUTH_CSRF_KEY.
func (s *Server) csrfKey() []byte {
	if s.cfg.Auth.CSRFKey != "" {
		// Validate() already checked the format.
		if key, err := hex.DecodeString(s.cfg.Auth.CSRFKey); err == nil && len(key) == 32 {
			return key
		}
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("csrf: generating random key: " + err.Error())
	}
	slog.Warn("using random CSRF key; set AUTH_CSRF_KEY in production")
	return key
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Content Security Policy - restrict resource loading
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	// Evict idle visitors so the map does not grow forever
	go rl.cleanup()
	return rl
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > 2*rl.window {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow reports whether the given IP has tokens left in this window.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok || time.Since(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: time.Now()}
		return true
	}
	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
