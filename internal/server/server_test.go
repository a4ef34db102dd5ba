package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vukan322/profilecard/internal/core"
	"github.com/vukan322/profilecard/internal/locale"
	"github.com/vukan322/profilecard/internal/providers"
	"github.com/vukan322/profilecard/internal/providers/demo"
	"github.com/vukan322/profilecard/internal/render"
	"github.com/vukan322/profilecard/internal/request"
	"github.com/vukan322/profilecard/internal/theme"
)

type stubProvider struct {
	snap core.Snapshot
	err  error
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Fetch(ctx context.Context, handle string) (core.Snapshot, error) {
	if s.err != nil {
		return core.Snapshot{}, s.err
	}
	snap := s.snap
	snap.Username = handle
	return snap, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(p providers.Provider) *Service {
	return &Service{
		Provider: p,
		Themes:   theme.Builtin(),
		Renderer: render.New(locale.Builtin()),
		Logger:   quietLogger(),
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandlerRendersSVG(t *testing.T) {
	h := NewHandler(newService(demo.New()))

	rec := get(t, h, "/api?username=octo&theme=dark")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentTypeSVG, rec.Header().Get("Content-Type"))
	assert.Equal(t, "s-maxage=7200, stale-while-revalidate", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Contains(t, body, "@octo")
	assert.Contains(t, body, "data:image/jpeg;base64,")
}

func TestHandlerRendersJSON(t *testing.T) {
	h := NewHandler(newService(demo.New()))

	rec := get(t, h, "/api?username=octo&format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))

	var snap core.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "octo", snap.Username)
	assert.Equal(t, 1234, snap.TotalCommits)
	assert.NotEmpty(t, snap.Picture)
}

func TestHandlerRendersPNG(t *testing.T) {
	h := NewHandler(newService(demo.New()))

	rec := get(t, h, "/api?username=octo&format=png&theme=transparent")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentTypePNG, rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])
}

func TestHandlerErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider providers.Provider
		target   string
		status   int
		contains string
	}{
		{
			name:     "missing username",
			provider: demo.New(),
			target:   "/api",
			status:   http.StatusBadRequest,
			contains: "Username is required",
		},
		{
			name:     "bad color",
			provider: demo.New(),
			target:   "/api?username=octo&title_color=zzz",
			status:   http.StatusBadRequest,
			contains: "title_color",
		},
		{
			name:     "unknown user",
			provider: stubProvider{err: fmt.Errorf("lookup: %w", providers.ErrNotFound)},
			target:   "/api?username=ghost",
			status:   http.StatusNotFound,
			contains: "user not found",
		},
		{
			name:     "upstream failure",
			provider: stubProvider{err: errors.New("boom <b>")},
			target:   "/api?username=octo",
			status:   http.StatusInternalServerError,
			contains: "boom &lt;b&gt;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, NewHandler(newService(tt.provider)), tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
			assert.Empty(t, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestHandlerHealthz(t *testing.T) {
	rec := get(t, NewHandler(newService(demo.New())), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandlerRejectsOtherMethods(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(newService(demo.New())).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api?username=octo", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(fmt.Errorf("wrap: %w", &request.ConfigError{Field: "x", Msg: "y"})))
	assert.Equal(t, http.StatusNotFound, StatusFor(providers.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(render.ErrDegenerateGradient))
}

func TestComposeSkipsBrokenAvatar(t *testing.T) {
	svc := newService(demo.New())
	out, err := svc.Compose(core.Snapshot{Username: "octo", Picture: []byte("not an image")}, render.Config{
		TitleColor: "000", TextColor: "000", IconColor: "000", BorderColor: "000",
		StrokeColor: "000", UsernameColor: "000", Background: []string{"fff"},
		Locale: "en", Format: render.FormatSVG, PhotoResize: 150, PhotoQuality: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, ContentTypeSVG, out.ContentType)
	assert.Contains(t, string(out.Body), `href="data:image/jpeg;base64,"`)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, addr, NewHandler(newService(demo.New())), quietLogger())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
