package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aspirant/pkg/briefing"
	"github.com/umputun/aspirant/pkg/domain"
	"github.com/umputun/aspirant/pkg/feed"
	"github.com/umputun/aspirant/pkg/session"
)

func TestServer_sessionHandler(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		srv := testServer(t, newDeps(nil))
		w := do(t, srv, "GET", "/api/v1/session", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "no active session", decode(t, w)["error"])
	})

	t.Run("active", func(t *testing.T) {
		srv := testServer(t, newDeps(testSession()))
		w := do(t, srv, "GET", "/api/v1/session", "")
		require.Equal(t, http.StatusOK, w.Code)
		res := decode(t, w)
		assert.Equal(t, "news_track", res["intent"])
		user := res["session"].(map[string]any)["user"].(map[string]any)
		assert.Equal(t, "abc", user["uid"])
		assert.Equal(t, "Officer Cadet", user["rank"])
	})
}

func TestServer_registerHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		d := newDeps(nil)
		d.sessions.RegisterFunc = func(ctx context.Context, name, email, password string) (*domain.Session, error) {
			return testSession(), nil
		}
		w := do(t, testServer(t, d), "POST", "/api/v1/session/register",
			`{"name":"Cadet","email":"cadet@example.com","password":"secret1"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, d.sessions.RegisterCalls(), 1)
		call := d.sessions.RegisterCalls()[0]
		assert.Equal(t, "Cadet", call.Name)
		assert.Equal(t, "cadet@example.com", call.Email)
		assert.Equal(t, "secret1", call.Password)
	})

	t.Run("weak password", func(t *testing.T) {
		d := newDeps(nil)
		d.sessions.RegisterFunc = func(ctx context.Context, name, email, password string) (*domain.Session, error) {
			return nil, &session.AuthError{Kind: session.KindWeakPassword, Err: errors.New("short")}
		}
		w := do(t, testServer(t, d), "POST", "/api/v1/session/register", `{"email":"a@b.co","password":"1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, session.Message(session.KindWeakPassword), decode(t, w)["error"])
	})

	t.Run("email in use", func(t *testing.T) {
		d := newDeps(nil)
		d.sessions.RegisterFunc = func(ctx context.Context, name, email, password string) (*domain.Session, error) {
			return nil, &session.AuthError{Kind: session.KindEmailInUse}
		}
		w := do(t, testServer(t, d), "POST", "/api/v1/session/register", `{"email":"a@b.co","password":"123456"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("bad body", func(t *testing.T) {
		d := newDeps(nil)
		w := do(t, testServer(t, d), "POST", "/api/v1/session/register", `{bad`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, d.sessions.RegisterCalls())
	})
}

func TestServer_loginHandler(t *testing.T) {
	tbl := []struct {
		name string
		err  error
		code int
	}{
		{"ok", nil, http.StatusOK},
		{"invalid credential", &session.AuthError{Kind: session.KindInvalidCredential}, http.StatusUnauthorized},
		{"malformed email", &session.AuthError{Kind: session.KindMalformedEmail}, http.StatusBadRequest},
		{"rate limited", &session.AuthError{Kind: session.KindRateLimited}, http.StatusTooManyRequests},
		{"registry", &session.AuthError{Kind: session.KindUnknown, Err: errors.New("db down")}, http.StatusInternalServerError},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(nil)
			d.sessions.LoginFunc = func(ctx context.Context, email, password string) (*domain.Session, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return testSession(), nil
			}
			w := do(t, testServer(t, d), "POST", "/api/v1/session/login", `{"email":"cadet@example.com","password":"secret1"}`)
			assert.Equal(t, tt.code, w.Code)
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), decode(t, w)["error"], "user-facing message only")
			}
		})
	}
}

func TestServer_logoutHandler(t *testing.T) {
	d := newDeps(testSession())
	d.sessions.LogoutFunc = func(ctx context.Context) {}
	w := do(t, testServer(t, d), "POST", "/api/v1/session/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, d.sessions.LogoutCalls(), 1)
}

func TestServer_intentHandlers(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		d := newDeps(testSession())
		d.briefing.SetIntentFunc = func(ctx context.Context, intent domain.Intent) error { return nil }
		w := do(t, testServer(t, d), "PUT", "/api/v1/intent", `{"intent":"preparation"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, d.briefing.SetIntentCalls(), 1)
		assert.Equal(t, domain.IntentPreparation, d.briefing.SetIntentCalls()[0].Intent)
	})

	t.Run("unknown", func(t *testing.T) {
		d := newDeps(testSession())
		w := do(t, testServer(t, d), "PUT", "/api/v1/intent", `{"intent":"sightseeing"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, d.briefing.SetIntentCalls())
	})

	t.Run("no session", func(t *testing.T) {
		d := newDeps(nil)
		d.briefing.SetIntentFunc = func(ctx context.Context, intent domain.Intent) error { return feed.ErrNoSession }
		w := do(t, testServer(t, d), "PUT", "/api/v1/intent", `{"intent":"news_track"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("reset", func(t *testing.T) {
		d := newDeps(testSession())
		d.briefing.ResetIntentFunc = func(ctx context.Context) error { return nil }
		w := do(t, testServer(t, d), "DELETE", "/api/v1/intent", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Len(t, d.briefing.ResetIntentCalls(), 1)
	})
}

func snapshot(category domain.Category, titles ...string) feed.Snapshot {
	items := make([]domain.NewsItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, domain.NewNewsItem(title, "summary", "19 October 2026", category, nil))
	}
	return feed.Snapshot{Category: category, State: feed.StateReady, Items: items}
}

func TestServer_activateHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		d := newDeps(testSession())
		d.briefing.ActivateFunc = func(ctx context.Context, category domain.Category) (feed.Snapshot, error) {
			return snapshot(category, "first", "second"), nil
		}
		w := do(t, testServer(t, d), "POST", "/api/v1/feed/activate/defense", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, d.briefing.ActivateCalls(), 1)
		assert.Equal(t, domain.CategoryDefense, d.briefing.ActivateCalls()[0].Category)
		res := decode(t, w)
		assert.Equal(t, "Defense", res["category"])
		assert.Equal(t, "ready", res["state"])
		assert.Len(t, res["items"], 2)
	})

	t.Run("unknown category", func(t *testing.T) {
		d := newDeps(testSession())
		w := do(t, testServer(t, d), "POST", "/api/v1/feed/activate/weather", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, d.briefing.ActivateCalls())
	})

	t.Run("no intent", func(t *testing.T) {
		d := newDeps(testSession())
		d.briefing.ActivateFunc = func(ctx context.Context, category domain.Category) (feed.Snapshot, error) {
			return feed.Snapshot{}, briefing.ErrNoIntent
		}
		w := do(t, testServer(t, d), "POST", "/api/v1/feed/activate/All", "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "intent not selected", decode(t, w)["error"])
	})

	t.Run("source failure keeps snapshot", func(t *testing.T) {
		d := newDeps(testSession())
		d.briefing.ActivateFunc = func(ctx context.Context, category domain.Category) (feed.Snapshot, error) {
			snap := feed.Snapshot{Category: category, State: feed.StateIdle, Items: []domain.NewsItem{}, Error: "quota exceeded"}
			return snap, fmt.Errorf("initial load: %w", errors.New("quota exceeded"))
		}
		w := do(t, testServer(t, d), "POST", "/api/v1/feed/activate/Economy", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		res := decode(t, w)
		assert.Equal(t, "quota exceeded", res["error"])
		assert.Equal(t, "idle", res["state"])
	})
}

func TestServer_feedOperations(t *testing.T) {
	d := newDeps(testSession())
	d.briefing.FeedFunc = func() (feed.Snapshot, error) { return snapshot(domain.CategoryAll, "a"), nil }
	d.briefing.LoadMoreFunc = func(ctx context.Context) (feed.Snapshot, error) {
		return feed.Snapshot{}, fmt.Errorf("load more: %w", feed.ErrFetchInFlight)
	}
	d.briefing.RefreshFunc = func(ctx context.Context) (feed.Snapshot, error) { return snapshot(domain.CategoryAll, "a", "b"), nil }
	d.briefing.ResetSeenFunc = func(ctx context.Context) (feed.Snapshot, error) {
		return snapshot(domain.CategoryAll, "a", "b", "c"), nil
	}
	d.briefing.ClearBadgeFunc = func() (int, error) { return 7, nil }
	srv := testServer(t, d)

	w := do(t, srv, "GET", "/api/v1/feed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)

	w = do(t, srv, "POST", "/api/v1/feed/more", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, srv, "POST", "/api/v1/feed/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 2)

	w = do(t, srv, "POST", "/api/v1/feed/reset-seen", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 3)

	w = do(t, srv, "POST", "/api/v1/feed/badge/clear", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 7, decode(t, w)["cleared"], 0.001)
}

func TestServer_scrollHandler(t *testing.T) {
	d := newDeps(testSession())
	d.briefing.ObserveFunc = func(ctx context.Context, vp feed.Viewport) (feed.ScrollSignal, error) {
		return feed.ScrollSignal{SeenIndex: 2, NewlyViewed: 3, LoadMore: true}, nil
	}
	srv := testServer(t, d)

	w := do(t, srv, "POST", "/api/v1/feed/scroll", `{"scrollTop":1600,"scrollHeight":5000,"clientHeight":800}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, d.briefing.ObserveCalls(), 1)
	assert.Equal(t, feed.Viewport{ScrollTop: 1600, ScrollHeight: 5000, ClientHeight: 800}, d.briefing.ObserveCalls()[0].Vp)
	res := decode(t, w)
	assert.InDelta(t, 2, res["seenIndex"], 0.001)
	assert.Equal(t, true, res["loadMore"])

	w = do(t, srv, "POST", "/api/v1/feed/scroll", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, d.briefing.ObserveCalls(), 1)
}

func TestServer_searchHandler(t *testing.T) {
	d := newDeps(testSession())
	d.briefing.SearchFunc = func(ctx context.Context, query string, filter domain.DateFilter) ([]domain.NewsItem, error) {
		return snapshot(domain.CategoryScience, "isro launch").Items, nil
	}
	srv := testServer(t, d)

	w := do(t, srv, "GET", "/api/v1/search?q=isro&filter=week", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, d.briefing.SearchCalls(), 1)
	assert.Equal(t, "isro", d.briefing.SearchCalls()[0].Query)
	assert.Equal(t, domain.DateLast7Days, d.briefing.SearchCalls()[0].Filter)
	res := decode(t, w)
	assert.Equal(t, "Last 7 Days", res["filter"])
	assert.Len(t, res["items"], 1)

	w = do(t, srv, "GET", "/api/v1/search?q=isro&filter=decade", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, "GET", "/api/v1/search?q="+strings.Repeat("x", maxQueryLen+1), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, d.briefing.SearchCalls(), 1)

	w = do(t, srv, "GET", "/api/v1/search?q=isro", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, d.briefing.SearchCalls(), 2)
	assert.Equal(t, domain.DateToday, d.briefing.SearchCalls()[1].Filter, "filter defaults to today")
}

func TestServer_bookmarkHandlers(t *testing.T) {
	t.Run("requires session", func(t *testing.T) {
		d := newDeps(nil)
		srv := testServer(t, d)
		assert.Equal(t, http.StatusUnauthorized, do(t, srv, "GET", "/api/v1/bookmarks", "").Code)
		assert.Equal(t, http.StatusUnauthorized, do(t, srv, "POST", "/api/v1/bookmarks", `{"id":"x","title":"y"}`).Code)
		assert.Equal(t, http.StatusUnauthorized, do(t, srv, "DELETE", "/api/v1/bookmarks/x", "").Code)
		assert.Empty(t, d.bookmarks.ListCalls())
	})

	t.Run("toggle sanitizes", func(t *testing.T) {
		d := newDeps(testSession())
		d.bookmarks.ToggleFunc = func(ctx context.Context, item domain.NewsItem) (bool, error) { return true, nil }
		body := `{"id":"intel-1","title":"<b>Navy</b> & Army","summary":"<script>x()</script>drill","category":"defense",
			"sources":[{"title":"PIB","uri":"https://pib.gov.in/1"},{"title":"bad","uri":"javascript:alert(1)"}]}`
		w := do(t, testServer(t, d), "POST", "/api/v1/bookmarks", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decode(t, w)["bookmarked"])

		require.Len(t, d.bookmarks.ToggleCalls(), 1)
		item := d.bookmarks.ToggleCalls()[0].Item
		assert.Equal(t, "Navy & Army", item.Title)
		assert.Equal(t, "drill", item.Summary)
		assert.Equal(t, domain.CategoryDefense, item.Category)
		assert.Equal(t, []domain.Source{{Title: "PIB", URI: "https://pib.gov.in/1"}}, item.Sources)
	})

	t.Run("toggle requires id", func(t *testing.T) {
		d := newDeps(testSession())
		w := do(t, testServer(t, d), "POST", "/api/v1/bookmarks", `{"title":"no id"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, d.bookmarks.ToggleCalls())
	})

	t.Run("list and remove", func(t *testing.T) {
		d := newDeps(testSession())
		d.bookmarks.ListFunc = func() []domain.NewsItem { return snapshot(domain.CategoryPolity, "one", "two").Items }
		d.bookmarks.RemoveFunc = func(ctx context.Context, id string) (bool, error) { return id == "intel-1", nil }
		srv := testServer(t, d)

		w := do(t, srv, "GET", "/api/v1/bookmarks", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"one"`)

		assert.Equal(t, http.StatusNoContent, do(t, srv, "DELETE", "/api/v1/bookmarks/intel-1", "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, srv, "DELETE", "/api/v1/bookmarks/intel-2", "").Code)
	})

	t.Run("store failure", func(t *testing.T) {
		d := newDeps(testSession())
		d.bookmarks.ToggleFunc = func(ctx context.Context, item domain.NewsItem) (bool, error) {
			return false, errors.New("disk full")
		}
		w := do(t, testServer(t, d), "POST", "/api/v1/bookmarks", `{"id":"intel-1","title":"t"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
