package request

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vukan322/profilecard/internal/render"
	"github.com/vukan322/profilecard/internal/theme"
)

func parse(t *testing.T, raw string) (Request, error) {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return Parse(q, theme.Builtin())
}

func TestParseDefaults(t *testing.T) {
	req, err := parse(t, "username=octocat")
	require.NoError(t, err)

	def := theme.Builtin().Default()
	cfg := req.Config
	assert.Equal(t, "octocat", req.Username)
	assert.Equal(t, def.TitleColor, cfg.TitleColor)
	assert.Equal(t, def.BorderColor, cfg.StrokeColor)
	assert.Equal(t, def.TextColor, cfg.UsernameColor)
	assert.Equal(t, []string{def.BgColor}, cfg.Background)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, render.FormatSVG, cfg.Format)
	assert.InDelta(t, 1.0, cfg.BorderWidth, 0)
	assert.InDelta(t, 4.5, cfg.BorderRadius, 0)
	assert.Equal(t, 15, cfg.PhotoQuality)
	assert.Equal(t, 150, cfg.PhotoResize)
	assert.False(t, cfg.DisableAnimations)
	assert.False(t, cfg.Reverse)
}

func TestParseColorPrecedence(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantStroke   string
		wantUsername string
	}{
		{name: "theme values", query: "theme=dracula", wantStroke: "282a36", wantUsername: "bd93f9"},
		{name: "border overrides theme stroke", query: "theme=github_dark&border_color=123", wantStroke: "123", wantUsername: "c9d1d9"},
		{name: "stroke beats border", query: "border_color=123&stroke_color=456", wantStroke: "456", wantUsername: "434d58"},
		{name: "text color feeds username", query: "theme=dracula&text_color=abc", wantStroke: "282a36", wantUsername: "abc"},
		{name: "username beats text", query: "text_color=abc&username_color=def", wantStroke: "e4e2e2", wantUsername: "def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parse(t, "username=u&"+tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStroke, req.Config.StrokeColor)
			assert.Equal(t, tt.wantUsername, req.Config.UsernameColor)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{name: "missing username", query: "theme=dark", field: "username"},
		{name: "bad title color", query: "username=u&title_color=zzz", field: "title_color"},
		{name: "hash prefix", query: "username=u&text_color=%23fff", field: "text_color"},
		{name: "bad bg", query: "username=u&bg_color=nothex", field: "bg_color"},
		{name: "gradient without stops", query: "username=u&bg_color=45,", field: "bg_color"},
		{name: "gradient bad angle", query: "username=u&bg_color=abc,fff,000", field: "bg_color"},
		{name: "bad format", query: "username=u&format=gif", field: "format"},
		{name: "bad border width", query: "username=u&border_width=wide", field: "border_width"},
		{name: "negative radius", query: "username=u&border_radius=-1", field: "border_radius"},
		{name: "nan radius", query: "username=u&border_radius=NaN", field: "border_radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.query)
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParseGradientBackground(t *testing.T) {
	req, err := parse(t, "username=u&bg_color=45,ff0000,00ff00")
	require.NoError(t, err)
	assert.Equal(t, []string{"45,ff0000,00ff00"}, req.Config.Background)

	req, err = parse(t, "username=u&theme=sunset_gradient")
	require.NoError(t, err)
	assert.Equal(t, []string{"30,ff8c42,ff3c38,a23e48"}, req.Config.Background)
}

func TestParseNumbersAndFlags(t *testing.T) {
	req, err := parse(t, "username=u&photo_quality=500&photo_resize=2&border_width=2.5&border_radius=0&disabled_animations=YES&hide_stroke=1&hide_border=on&revert=true&format=PNG")
	require.NoError(t, err)

	cfg := req.Config
	assert.Equal(t, 100, cfg.PhotoQuality)
	assert.Equal(t, 10, cfg.PhotoResize)
	assert.InDelta(t, 2.5, cfg.BorderWidth, 0)
	assert.InDelta(t, 0.0, cfg.BorderRadius, 0)
	assert.True(t, cfg.DisableAnimations)
	assert.True(t, cfg.HideStroke)
	assert.True(t, cfg.HideBorder)
	assert.True(t, cfg.Reverse)
	assert.Equal(t, render.FormatPNG, cfg.Format)

	req, err = parse(t, "username=u&photo_quality=-3&photo_resize=abc")
	require.NoError(t, err)
	assert.Equal(t, 0, req.Config.PhotoQuality)
	assert.Equal(t, 150, req.Config.PhotoResize)
}

func TestParseEscapesTitle(t *testing.T) {
	req, err := parse(t, "username=u&title="+url.QueryEscape(`<b>{name}</b>`))
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;{name}&lt;/b&gt;", req.Config.Title)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "on", " t "} {
		assert.True(t, ParseBool(s), s)
	}
	for _, s := range []string{"", "0", "false", "no", "off", "maybe"} {
		assert.False(t, ParseBool(s), s)
	}
}

func TestIsHexColor(t *testing.T) {
	for _, s := range []string{"fff", "FFFFFF", "ffffff00"} {
		assert.True(t, IsHexColor(s), s)
	}
	for _, s := range []string{"", "ff", "fffff", "#fff", "ggg", "fffffffff"} {
		assert.False(t, IsHexColor(s), s)
	}
}
