package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aspirant/pkg/domain"
	"github.com/umputun/aspirant/pkg/feed"
	"github.com/umputun/aspirant/server/mocks"
)

type testDeps struct {
	cfg       *mocks.ConfigProviderMock
	sessions  *mocks.SessionsMock
	briefing  *mocks.BriefingMock
	bookmarks *mocks.BookmarksMock
}

func newDeps(current *domain.Session) *testDeps {
	return &testDeps{
		cfg: &mocks.ConfigProviderMock{
			GetServerConfigFunc: func() (string, time.Duration) { return ":8080", 30 * time.Second },
			GetBaseURLFunc:      func() string { return "https://briefs.example.com" },
			FeedsFunc:           func() []domain.Feed { return nil },
		},
		sessions: &mocks.SessionsMock{
			CurrentFunc: func() *domain.Session { return current },
		},
		briefing: &mocks.BriefingMock{
			IntentFunc: func() domain.Intent { return domain.IntentNewsTrack },
		},
		bookmarks: &mocks.BookmarksMock{
			ListFunc: func() []domain.NewsItem { return []domain.NewsItem{} },
		},
	}
}

// testServer creates a server instance using the actual New function
func testServer(t *testing.T, d *testDeps) *Server {
	t.Helper()
	return New(Params{Config: d.cfg, Sessions: d.sessions, Briefing: d.briefing, Bookmarks: d.bookmarks, Version: "test"})
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func testSession() *domain.Session {
	return &domain.Session{User: domain.User{UID: "abc", Email: "cadet@example.com", Name: "Cadet", Rank: domain.DefaultRank}}
}

func TestServer_New(t *testing.T) {
	srv := New(Params{Config: newDeps(nil).cfg, Version: "1.0.0"})
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	d := newDeps(nil)
	d.cfg.GetServerConfigFunc = func() (string, time.Duration) {
		return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
	}
	srv := testServer(t, d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_statusHandler(t *testing.T) {
	srv := testServer(t, newDeps(nil))
	w := do(t, srv, "GET", "/api/v1/status", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	status := decode(t, w)
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "test", status["version"])
	assert.NotEmpty(t, status["time"])
}

func TestServer_AppInfoHeaders(t *testing.T) {
	srv := testServer(t, newDeps(nil))
	w := do(t, srv, "GET", "/api/v1/status", "")
	assert.Equal(t, "aspirant", w.Header().Get("App-Name"))
	assert.Equal(t, "test", w.Header().Get("App-Version"))
}

func TestErrorStatus(t *testing.T) {
	tbl := []struct {
		err  error
		code int
	}{
		{feed.ErrNoSession, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", feed.ErrFetchInFlight), http.StatusConflict},
		{feed.ErrInvalidTransition, http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tbl {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, errorStatus(tt.err))
		})
	}
}
