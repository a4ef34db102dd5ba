package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vukan322/profilecard/internal/providers"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "grace" {
			writeJSON(w, []any{})
			return
		}
		writeJSON(w, []map[string]any{{"id": 7, "username": "grace", "name": "Grace Hopper"}})
	})
	mux.HandleFunc("/users/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id": 7, "username": "grace", "name": "Grace Hopper",
			"avatar_url": srv.URL + "/avatar.png", "followers": 11, "following": 2,
		})
	})
	mux.HandleFunc("/users/7/projects", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(w, []map[string]any{
				{"id": 1, "visibility": "public", "star_count": 4, "forks_count": 1},
				{"id": 2, "visibility": "private", "star_count": 1, "forks_count": 0},
				{"id": 3, "visibility": "public", "star_count": 50, "forks_count": 9, "forked_from_project": map[string]int{"id": 99}},
			})
		default:
			writeJSON(w, []any{})
		}
	})
	total := func(n int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Total", strconv.Itoa(n))
			writeJSON(w, []any{})
		}
	}
	mux.HandleFunc("/merge_requests", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "all", q.Get("scope"))
		switch {
		case q.Get("reviewer_id") == "7":
			total(3)(w, r)
		case q.Get("state") == "merged":
			total(8)(w, r)
		default:
			total(10)(w, r)
		}
	})
	mux.HandleFunc("/issues", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") == "closed" {
			total(5)(w, r)
			return
		}
		total(6)(w, r)
	})
	mux.HandleFunc("/avatar.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("img"))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchBuildsSnapshot(t *testing.T) {
	srv := newTestServer(t)
	p := New("tok", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	snap, err := p.Fetch(context.Background(), "grace")
	require.NoError(t, err)

	assert.Equal(t, "Grace Hopper", snap.Name)
	assert.Equal(t, "grace", snap.Username)
	assert.Equal(t, 11, snap.Followers)
	assert.Equal(t, 2, snap.Following)
	assert.Equal(t, 2, snap.PublicRepos)
	assert.Equal(t, 5, snap.TotalStars)
	assert.Equal(t, 1, snap.TotalForks)
	assert.Equal(t, 10, snap.TotalPRs)
	assert.Equal(t, 8, snap.TotalPRsMerged)
	assert.Equal(t, 3, snap.TotalReviews)
	assert.Equal(t, 6, snap.TotalIssues)
	assert.Equal(t, 5, snap.TotalClosedIssues)
	assert.Zero(t, snap.TotalCommits)
	assert.Equal(t, []byte("img"), snap.Picture)
	assert.Equal(t, "gitlab", p.Name())
}

func TestFetchUnknownUser(t *testing.T) {
	srv := newTestServer(t)
	p := New("", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := p.Fetch(context.Background(), "nobody")
	assert.ErrorIs(t, err, providers.ErrNotFound)
}
