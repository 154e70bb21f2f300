// Package http serves the web UI: dashboard, transaction list, category
// management, and the sign-in flow. Pages are rendered server-side from
// embedded templates; all state reads go through the store and session
// manager.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/galihfr09/CashTracker/internal/cache"
	"github.com/galihfr09/CashTracker/internal/categories"
	applog "github.com/galihfr09/CashTracker/internal/log"
	"github.com/galihfr09/CashTracker/internal/remote"
	"github.com/galihfr09/CashTracker/internal/session"
	"github.com/galihfr09/CashTracker/internal/store"
	appweb "github.com/galihfr09/CashTracker/web"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

type Server struct {
	http.Server
	templates *template.Template
	log       *applog.Logger

	store    *store.Store
	sessions *session.Manager
	auth     remote.Authenticator
	cats     *categories.Store

	// Password sign-in is only available when the remote backend
	// supports it; nil otherwise.
	passwordAuth remote.PasswordAuthenticator

	dashCache        *cache.LRU[dashboardView]
	unsubscribeStore func()
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, st *store.Store, sessions *session.Manager, auth remote.Authenticator, cats *categories.Store) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log:              applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
		store:            st,
		sessions:         sessions,
		auth:             auth,
		cats:             cats,
		dashCache:        cache.NewLRU[dashboardView](64, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}
	if pa, ok := auth.(remote.PasswordAuthenticator); ok {
		s.passwordAuth = pa
	}

	// Any collection change invalidates memoized dashboard views.
	s.unsubscribeStore = st.Subscribe(func(store.Event) {
		s.dashCache.Clear()
	})

	go s.startCacheCleanup()

	t, err := template.New("").Funcs(template.FuncMap{
		"money": formatRupiah,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.log.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.log.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/", s.withRequestContext(s.handleDashboard))
	mux.HandleFunc("/transactions", s.withRequestContext(s.handleTransactions))
	mux.HandleFunc("/categories", s.withRequestContext(s.handleCategories))
	mux.HandleFunc("/signin", s.withRequestContext(s.handleSignIn))
	mux.HandleFunc("/signout", s.withRequestContext(s.handleSignOut))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	return s
}

// startCacheCleanup periodically evicts expired dashboard views. Expiry
// is also enforced lazily on Get; this keeps stale entries from sitting
// in memory between renders.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.dashCache.CleanExpired(); removed > 0 {
				s.log.Debug("Cache cleanup completed", "entries_removed", removed)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the server, the cache cleanup goroutine, and detaches
// from the store.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		if s.unsubscribeStore != nil {
			s.unsubscribeStore()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withRequestContext tags each request with an id, emits start/finish log
// records, and sets baseline security headers.
func (s *Server) withRequestContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		s.log.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self'; img-src 'self' data:")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.log.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
