package render

type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

func (f Format) Valid() bool {
	switch f {
	case FormatSVG, FormatPNG, FormatJSON:
		return true
	}
	return false
}

// Config is the validated set of rendering inputs for one card. Colors are
// bare hex digits without '#'. Background is nil for a transparent card, a
// single raw value (solid color or "angle,stop,stop..."), or an already split
// angle followed by stops.
type Config struct {
	TitleColor    string
	TextColor     string
	IconColor     string
	BorderColor   string
	StrokeColor   string
	UsernameColor string
	Background    []string

	Title  string
	Locale string

	BorderWidth  float64
	BorderRadius float64

	DisableAnimations bool
	Format            Format

	Hide string
	Show string

	HideStroke bool
	HideBorder bool
	Reverse    bool

	PhotoQuality int
	PhotoResize  int
}

// Animated reports whether the card carries animations. Raster output is
// always static.
func (c Config) Animated() bool {
	return !c.DisableAnimations && c.Format != FormatPNG
}
