package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/aspirant/pkg/domain"
	"github.com/umputun/aspirant/pkg/feed"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/sessions.go -pkg mocks -skip-ensure -fmt goimports . Sessions
//go:generate moq -out mocks/briefing.go -pkg mocks -skip-ensure -fmt goimports . Briefing
//go:generate moq -out mocks/bookmarks.go -pkg mocks -skip-ensure -fmt goimports . Bookmarks

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	sessions  Sessions
	briefing  Briefing
	bookmarks Bookmarks
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
	Feeds() []domain.Feed
}

// Sessions authenticates users, see session.Manager
type Sessions interface {
	Current() *domain.Session
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context)
}

// Briefing drives the feed of the active session, see briefing.Controller
type Briefing interface {
	Intent() domain.Intent
	SetIntent(ctx context.Context, intent domain.Intent) error
	ResetIntent(ctx context.Context) error
	Feed() (feed.Snapshot, error)
	Activate(ctx context.Context, category domain.Category) (feed.Snapshot, error)
	LoadMore(ctx context.Context) (feed.Snapshot, error)
	Refresh(ctx context.Context) (feed.Snapshot, error)
	ResetSeen(ctx context.Context) (feed.Snapshot, error)
	Observe(ctx context.Context, vp feed.Viewport) (feed.ScrollSignal, error)
	ClearBadge() (int, error)
	Search(ctx context.Context, query string, filter domain.DateFilter) ([]domain.NewsItem, error)
}

// Bookmarks is the saved items vault, see bookmark.Vault
type Bookmarks interface {
	Toggle(ctx context.Context, item domain.NewsItem) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	List() []domain.NewsItem
}

// Params for New
type Params struct {
	Config    ConfigProvider
	Sessions  Sessions
	Briefing  Briefing
	Bookmarks Bookmarks
	Version   string
	Debug     bool
}

// New initializes a new server instance
func New(p Params) *Server {
	s := &Server{
		config:    p.Config,
		sessions:  p.Sessions,
		briefing:  p.Briefing,
		bookmarks: p.Bookmarks,
		version:   p.Version,
		debug:     p.Debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("aspirant", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		r.HandleFunc("GET /session", s.sessionHandler)
		r.HandleFunc("POST /session/register", s.registerHandler)
		r.HandleFunc("POST /session/login", s.loginHandler)
		r.HandleFunc("POST /session/logout", s.logoutHandler)

		r.HandleFunc("PUT /intent", s.setIntentHandler)
		r.HandleFunc("DELETE /intent", s.resetIntentHandler)

		r.HandleFunc("GET /feed", s.feedHandler)
		r.HandleFunc("POST /feed/activate/{category}", s.activateHandler)
		r.HandleFunc("POST /feed/more", s.loadMoreHandler)
		r.HandleFunc("POST /feed/refresh", s.refreshHandler)
		r.HandleFunc("POST /feed/reset-seen", s.resetSeenHandler)
		r.HandleFunc("POST /feed/scroll", s.scrollHandler)
		r.HandleFunc("POST /feed/badge/clear", s.clearBadgeHandler)

		r.HandleFunc("GET /search", s.searchHandler)

		r.Group().Route(func(auth *routegroup.Bundle) {
			auth.Use(s.requireSession)
			auth.HandleFunc("GET /bookmarks", s.listBookmarksHandler)
			auth.HandleFunc("POST /bookmarks", s.toggleBookmarkHandler)
			auth.HandleFunc("DELETE /bookmarks/{id}", s.removeBookmarkHandler)
		})
	})

	s.router.HandleFunc("GET /rss/bookmarks", s.bookmarksRSSHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
}

// requireSession rejects requests without an active session
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sessions.Current() == nil {
			renderError(w, r, feed.ErrNoSession, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, rest.JSON{"error": errMsg})
}
