package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const gradientID = "gradient"

// ErrDegenerateGradient is returned for a gradient with an angle but no stops.
var ErrDegenerateGradient = errors.New("gradient has no color stops")

type BackgroundKind int

const (
	BackgroundNone BackgroundKind = iota
	BackgroundSolid
	BackgroundGradient
)

type GradientStop struct {
	Offset float64
	Color  string
}

type Background struct {
	Kind  BackgroundKind
	Color string
	Angle string
	Stops []GradientStop
}

// ParseBackground classifies a background value. A single token is
// split on commas; two or more tokens are read as an angle followed by color
// stops. A gradient with exactly one stop becomes a solid fill of that color.
func ParseBackground(tokens []string) (Background, error) {
	switch len(tokens) {
	case 0:
		return Background{}, nil
	case 1:
		if strings.TrimSpace(tokens[0]) == "" {
			return Background{}, nil
		}
		parts := strings.Split(tokens[0], ",")
		if len(parts) < 2 {
			return Background{Kind: BackgroundSolid, Color: strings.TrimSpace(tokens[0])}, nil
		}
		tokens = parts
	}

	angle := strings.TrimSpace(tokens[0])
	colors := make([]string, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		if tok = strings.TrimSpace(tok); tok != "" {
			colors = append(colors, tok)
		}
	}

	switch len(colors) {
	case 0:
		return Background{}, fmt.Errorf("background %q: %w", strings.Join(tokens, ","), ErrDegenerateGradient)
	case 1:
		return Background{Kind: BackgroundSolid, Color: colors[0]}, nil
	}

	stops := make([]GradientStop, len(colors))
	last := float64(len(colors) - 1)
	for i, c := range colors {
		stops[i] = GradientStop{Offset: float64(i) * 100 / last, Color: c}
	}
	return Background{Kind: BackgroundGradient, Angle: angle, Stops: stops}, nil
}

// Markup renders the background rectangle. rectAttrs is appended verbatim to
// the rect element (corner radius, border stroke).
func (b Background) Markup(rectAttrs string) string {
	switch b.Kind {
	case BackgroundSolid:
		return fmt.Sprintf(`<rect x="0.5" y="0.5" height="99.4%%" width="99.8%%" fill="#%s" %s/>`, b.Color, rectAttrs)
	case BackgroundGradient:
		var stops strings.Builder
		for _, s := range b.Stops {
			fmt.Fprintf(&stops, `<stop offset="%s%%" stop-color="#%s"/>`, formatNumber(s.Offset), s.Color)
		}
		return fmt.Sprintf(`<defs>
        <linearGradient id="%s" gradientTransform="rotate(%s)" gradientUnits="userSpaceOnUse">
          %s
        </linearGradient>
      </defs>
      <rect x="0.5" y="0.5" height="99.4%%" width="99.8%%" fill="url(#%s)" %s/>`,
			gradientID, b.Angle, stops.String(), gradientID, rectAttrs)
	default:
		return ""
	}
}

// ResolveBackground parses tokens and renders the result in one step.
func ResolveBackground(tokens []string, rectAttrs string) (string, error) {
	bg, err := ParseBackground(tokens)
	if err != nil {
		return "", err
	}
	return bg.Markup(rectAttrs), nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
