package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/rest"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/aspirant/pkg/briefing"
	"github.com/umputun/aspirant/pkg/domain"
	"github.com/umputun/aspirant/pkg/feed"
	"github.com/umputun/aspirant/pkg/session"
)

// maxQueryLen limits archive search queries
const maxQueryLen = 200

var strictPolicy = bluemonday.StrictPolicy()

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type intentRequest struct {
	Intent string `json:"intent"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// sessionHandler returns the active session and chosen intent
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Current()
	if sess == nil {
		renderError(w, r, feed.ErrNoSession, http.StatusUnauthorized)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"session": sess, "intent": s.briefing.Intent()})
}

// registerHandler creates an account and logs it in
func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}
	sess, err := s.sessions.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.renderFailure(w, r, "register", err)
		return
	}
	renderJSON(w, r, http.StatusCreated, rest.JSON{"session": sess, "intent": s.briefing.Intent()})
}

// loginHandler checks credentials and activates the session
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}
	sess, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.renderFailure(w, r, "login", err)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"session": sess, "intent": s.briefing.Intent()})
}

// logoutHandler ends the active session, no-op without one
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// setIntentHandler chooses the usage mode of the active user
func (s *Server) setIntentHandler(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}
	intent, err := domain.ParseIntent(req.Intent)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.briefing.SetIntent(r.Context(), intent); err != nil {
		s.renderFailure(w, r, "set intent", err)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"intent": intent})
}

// resetIntentHandler forgets the intent, the user chooses again
func (s *Server) resetIntentHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.briefing.ResetIntent(r.Context()); err != nil {
		s.renderFailure(w, r, "reset intent", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// feedHandler returns the current feed without fetching
func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.briefing.Feed()
	s.renderSnapshot(w, r, "feed", snap, err)
}

// activateHandler selects a category, served from cache when possible
func (s *Server) activateHandler(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	snap, err := s.briefing.Activate(r.Context(), category)
	s.renderSnapshot(w, r, "activate "+string(category), snap, err)
}

// loadMoreHandler appends the next page of the current category
func (s *Server) loadMoreHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.briefing.LoadMore(r.Context())
	s.renderSnapshot(w, r, "load more", snap, err)
}

// refreshHandler reloads the current category from the source
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.briefing.Refresh(r.Context())
	s.renderSnapshot(w, r, "refresh", snap, err)
}

// resetSeenHandler clears the viewed history and reloads
func (s *Server) resetSeenHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.briefing.ResetSeen(r.Context())
	s.renderSnapshot(w, r, "reset seen", snap, err)
}

// scrollHandler takes a viewport report and returns what it triggered
func (s *Server) scrollHandler(w http.ResponseWriter, r *http.Request) {
	var vp feed.Viewport
	if err := json.NewDecoder(r.Body).Decode(&vp); err != nil {
		renderError(w, r, fmt.Errorf("invalid viewport"), http.StatusBadRequest)
		return
	}
	sig, err := s.briefing.Observe(r.Context(), vp)
	if err != nil {
		s.renderFailure(w, r, "scroll", err)
		return
	}
	renderJSON(w, r, http.StatusOK, sig)
}

// clearBadgeHandler resets the new updates counter
func (s *Server) clearBadgeHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.briefing.ClearBadge()
	if err != nil {
		s.renderFailure(w, r, "clear badge", err)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"cleared": n})
}

// searchHandler runs an archive search, ?q=...&filter=today|week|month
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) > maxQueryLen {
		renderError(w, r, fmt.Errorf("query is longer than %d bytes", maxQueryLen), http.StatusBadRequest)
		return
	}
	filter, err := domain.ParseDateFilter(r.URL.Query().Get("filter"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	items, err := s.briefing.Search(r.Context(), query, filter)
	if err != nil {
		s.renderFailure(w, r, "search", err)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"query": query, "filter": filter, "items": items})
}

// listBookmarksHandler returns saved items in save order
func (s *Server) listBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.bookmarks.List())
}

// toggleBookmarkHandler saves the posted item or removes it if already saved
func (s *Server) toggleBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	var item domain.NewsItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		renderError(w, r, fmt.Errorf("invalid item"), http.StatusBadRequest)
		return
	}
	item = sanitizeItem(item)
	if item.ID == "" || item.Title == "" {
		renderError(w, r, fmt.Errorf("item id and title are required"), http.StatusBadRequest)
		return
	}
	saved, err := s.bookmarks.Toggle(r.Context(), item)
	if err != nil {
		s.renderFailure(w, r, "toggle bookmark", err)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"id": item.ID, "bookmarked": saved})
}

// removeBookmarkHandler deletes a saved item by id
func (s *Server) removeBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.bookmarks.Remove(r.Context(), id)
	if err != nil {
		s.renderFailure(w, r, "remove bookmark", err)
		return
	}
	if !removed {
		renderError(w, r, fmt.Errorf("bookmark %s not found", id), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// renderSnapshot sends the feed state. A failed fetch still carries the snapshot,
// its error field says what went wrong.
func (s *Server) renderSnapshot(w http.ResponseWriter, r *http.Request, op string, snap feed.Snapshot, err error) {
	if err == nil {
		renderJSON(w, r, http.StatusOK, snap)
		return
	}
	if code := errorStatus(err); code != http.StatusInternalServerError {
		renderError(w, r, err, code)
		return
	}
	log.Printf("[WARN] %s failed: %v", op, err)
	if snap.Error == "" {
		snap.Error = err.Error()
	}
	renderJSON(w, r, http.StatusBadGateway, snap)
}

// renderFailure maps err to a status code, unexpected errors are logged
func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("[ERROR] %s failed: %v", op, err)
	}
	renderError(w, r, err, code)
}

// errorStatus picks the response code for err
func errorStatus(err error) int {
	var authErr *session.AuthError
	switch {
	case errors.Is(err, feed.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, briefing.ErrNoIntent), errors.Is(err, feed.ErrFetchInFlight), errors.Is(err, feed.ErrInvalidTransition):
		return http.StatusConflict
	case errors.As(err, &authErr):
		switch authErr.Kind {
		case session.KindInvalidCredential:
			return http.StatusUnauthorized
		case session.KindMalformedEmail, session.KindWeakPassword:
			return http.StatusBadRequest
		case session.KindRateLimited:
			return http.StatusTooManyRequests
		case session.KindEmailInUse:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// sanitizeItem strips markup from client-supplied item text
func sanitizeItem(item domain.NewsItem) domain.NewsItem {
	clean := func(s string) string { return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s))) }
	item.ID = strings.TrimSpace(item.ID)
	item.Title = clean(item.Title)
	item.Summary = clean(item.Summary)
	item.Date = clean(item.Date)
	item.Category = domain.NormalizeCategory(string(item.Category))
	sources := make([]domain.Source, 0, len(item.Sources))
	for _, src := range item.Sources {
		uri := strings.TrimSpace(src.URI)
		if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
			continue
		}
		sources = append(sources, domain.Source{Title: clean(src.Title), URI: uri})
	}
	item.Sources = sources
	return item
}
