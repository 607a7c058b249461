package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilsimda/leaderboard/config"
	"github.com/nilsimda/leaderboard/db"
	"github.com/nilsimda/leaderboard/models"
	"github.com/nilsimda/leaderboard/standings"
)

type staticSource models.Datasets

func (s staticSource) FetchRound(_ context.Context, round models.RoundID) (models.Dataset, error) {
	return s[round], nil
}

func newTestServer(t *testing.T, password string) (*httptest.Server, *db.VisibilityDB) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := db.NewVisibilityDB(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	src := staticSource{
		models.Round1: {
			{"Alpha", "Completed", "02:30", "10", "90%", "100"},
			{"Beta", "Completed", "02:10", "12", "85%", "100"},
		},
	}
	svc := standings.NewService(src, store, logger)
	cfg := &config.Config{AdminUser: "admin", AdminPassword: password}

	srv := httptest.NewServer(setupRoutes(cfg, svc, store, logger))
	t.Cleanup(srv.Close)
	return srv, store
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes_Public(t *testing.T) {
	srv, store := newTestServer(t, "")
	client := &http.Client{CheckRedirect: noRedirect}

	resp, _ := get(t, client, srv.URL+"/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/leaderboard/round1", resp.Header.Get("Location"))

	resp, body := get(t, client, srv.URL+"/leaderboard/round1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<td>Beta</td>")

	resp, _ = get(t, client, srv.URL+"/leaderboard/round9")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, client, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	resp, body = get(t, client, srv.URL+"/assets/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ".tab-button")

	require.NoError(t, store.SetVisible(context.Background(), models.Round1, false))
	resp, _ = get(t, client, srv.URL+"/")
	assert.Equal(t, "/leaderboard/round2", resp.Header.Get("Location"))

	_, body = get(t, client, srv.URL+"/leaderboard/round1")
	assert.Contains(t, body, "This leaderboard will be available soon!")
}

func TestRoutes_AllHiddenShowsPlaceholder(t *testing.T) {
	srv, store := newTestServer(t, "")
	for _, round := range models.Rounds {
		require.NoError(t, store.SetVisible(context.Background(), round, false))
	}

	resp, body := get(t, http.DefaultClient, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Please check back later.")
}

func TestRoutes_StandingsJSON(t *testing.T) {
	srv, store := newTestServer(t, "")

	resp, body := get(t, http.DefaultClient, srv.URL+"/api/standings/round1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var table models.Table
	require.NoError(t, json.Unmarshal([]byte(body), &table))
	assert.True(t, table.Available)
	assert.Equal(t, []string{"1", "Beta", "Completed", "02:10", "12", "85%", "100"}, table.Rows[0])

	require.NoError(t, store.SetVisible(context.Background(), models.Round1, false))
	_, body = get(t, http.DefaultClient, srv.URL+"/api/standings/round1")
	require.NoError(t, json.Unmarshal([]byte(body), &table))
	assert.False(t, table.Available)

	resp, _ = get(t, http.DefaultClient, srv.URL+"/api/standings/finals")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes_VisibilityJSON(t *testing.T) {
	srv, store := newTestServer(t, "")
	require.NoError(t, store.SetVisible(context.Background(), models.Round4, false))

	resp, body := get(t, http.DefaultClient, srv.URL+"/api/visibility")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var states map[models.RoundID]bool
	require.NoError(t, json.Unmarshal([]byte(body), &states))
	assert.Len(t, states, len(models.Rounds))
	assert.False(t, states[models.Round4])
	assert.True(t, states[models.Overall])
}

func TestRoutes_Admin(t *testing.T) {
	srv, store := newTestServer(t, "secret")
	client := &http.Client{CheckRedirect: noRedirect}

	resp, _ := get(t, client, srv.URL+"/admin")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/admin", nil)
	require.NoError(t, err)
	req.SetBasicAuth("admin", "secret")
	resp, err = client.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `action="/admin/visibility/round3/toggle"`)

	req, err = http.NewRequest(http.MethodPost, srv.URL+"/admin/visibility/round3/toggle", strings.NewReader(""))
	require.NoError(t, err)
	req.SetBasicAuth("admin", "secret")
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
	assert.False(t, store.Visible(context.Background(), models.Round3))
}

func TestRoutes_AdminDisabledWithoutPassword(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, _ := get(t, http.DefaultClient, srv.URL+"/admin")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestLogger_TagsCycle(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen string
	h := requestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = standings.CycleID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.NotEmpty(t, seen)
	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &line))
	assert.Equal(t, seen, line["cycle"])
	assert.EqualValues(t, http.StatusNoContent, line["status"])
}
