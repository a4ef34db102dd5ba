// Package request turns raw query parameters into a validated render
// configuration. Everything the card engine trusts is checked here.
package request

import (
	"fmt"
	"html"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/vukan322/profilecard/internal/render"
	"github.com/vukan322/profilecard/internal/theme"
)

const (
	defaultPhotoQuality = 15
	defaultPhotoResize  = 150
	minPhotoResize      = 10
	defaultBorderWidth  = 1
	defaultBorderRadius = 4.5
	defaultLocale       = "en"
)

var (
	hexColorRegex = regexp.MustCompile(`^([A-Fa-f0-9]{3}|[A-Fa-f0-9]{6}|[A-Fa-f0-9]{8})$`)
	angleRegex    = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// ConfigError reports a query parameter the card cannot be rendered with.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Request is a validated card request.
type Request struct {
	Username string
	Theme    string
	Config   render.Config
}

// Parse validates q, resolving colors through the theme named by q["theme"].
// Explicit color parameters win over the theme.
func Parse(q url.Values, themes theme.Table) (Request, error) {
	get := func(key string) string {
		return html.EscapeString(strings.TrimSpace(q.Get(key)))
	}

	username := get("username")
	if username == "" {
		return Request{}, &ConfigError{Field: "username", Msg: "Username is required"}
	}

	themeKey := get("theme")
	th := themes.Resolve(themeKey)

	cfg := render.Config{
		TitleColor:    firstNonEmpty(get("title_color"), th.TitleColor),
		TextColor:     firstNonEmpty(get("text_color"), th.TextColor),
		IconColor:     firstNonEmpty(get("icon_color"), th.IconColor),
		BorderColor:   firstNonEmpty(get("border_color"), th.BorderColor),
		StrokeColor:   firstNonEmpty(get("stroke_color"), get("border_color"), th.StrokeColor),
		UsernameColor: firstNonEmpty(get("username_color"), get("text_color"), th.UsernameColor),
		Title:         get("title"),
		Locale:        firstNonEmpty(get("locale"), defaultLocale),
		Hide:          get("hide"),
		Show:          get("show"),

		DisableAnimations: ParseBool(q.Get("disabled_animations")),
		HideStroke:        ParseBool(q.Get("hide_stroke")),
		HideBorder:        ParseBool(q.Get("hide_border")),
		Reverse:           ParseBool(q.Get("revert")),

		PhotoQuality: min(max(parseIntOr(q.Get("photo_quality"), defaultPhotoQuality), 0), 100),
		PhotoResize:  max(parseIntOr(q.Get("photo_resize"), defaultPhotoResize), minPhotoResize),
	}

	colors := []struct {
		field string
		value string
	}{
		{"title_color", cfg.TitleColor},
		{"text_color", cfg.TextColor},
		{"icon_color", cfg.IconColor},
		{"border_color", cfg.BorderColor},
		{"username_color", cfg.UsernameColor},
		{"stroke_color", cfg.StrokeColor},
	}
	for _, c := range colors {
		if !IsHexColor(c.value) {
			return Request{}, &ConfigError{Field: c.field, Msg: "Enter a valid hex color code"}
		}
	}

	bg := firstNonEmpty(get("bg_color"), th.BgColor)
	if !IsHexColor(bg) && !IsGradient(bg) {
		return Request{}, &ConfigError{Field: "bg_color", Msg: "Enter a valid hex color code"}
	}
	cfg.Background = []string{bg}

	var err error
	if cfg.BorderWidth, err = parseNumber(q.Get("border_width"), defaultBorderWidth); err != nil {
		return Request{}, &ConfigError{Field: "border_width", Msg: err.Error()}
	}
	if cfg.BorderRadius, err = parseNumber(q.Get("border_radius"), defaultBorderRadius); err != nil {
		return Request{}, &ConfigError{Field: "border_radius", Msg: err.Error()}
	}

	cfg.Format = render.Format(strings.ToLower(firstNonEmpty(get("format"), string(render.FormatSVG))))
	if !cfg.Format.Valid() {
		return Request{}, &ConfigError{Field: "format", Msg: fmt.Sprintf("unsupported format %q", cfg.Format)}
	}

	return Request{Username: username, Theme: themeKey, Config: cfg}, nil
}

// IsHexColor accepts 3, 6 or 8 hex digits without a leading '#'.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// IsGradient accepts "angle,color[,color...]" with a numeric angle and hex
// color stops.
func IsGradient(s string) bool {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return false
	}
	if !angleRegex.MatchString(strings.TrimSpace(parts[0])) {
		return false
	}
	for _, p := range parts[1:] {
		if !IsHexColor(strings.TrimSpace(p)) {
			return false
		}
	}
	return true
}

// ParseBool reads the usual spellings of a boolean flag. Anything else,
// including the empty string, is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	}
	return false
}

func parseIntOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func parseNumber(s string, def float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%q must not be negative", s)
	}
	return f, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
