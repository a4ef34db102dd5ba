package theme

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vukan322/profilecard/internal/lookup"
)

const DefaultKey = "default"

//go:embed themes.yaml
var builtinThemes []byte

// Theme holds bare hex color tokens (no leading '#'). Any field may be empty.
type Theme struct {
	TitleColor    string `yaml:"title_color"`
	TextColor     string `yaml:"text_color"`
	IconColor     string `yaml:"icon_color"`
	BorderColor   string `yaml:"border_color"`
	StrokeColor   string `yaml:"stroke_color"`
	UsernameColor string `yaml:"username_color"`
	BgColor       string `yaml:"bg_color"`
}

// Fallback fills empty fields from def. Stroke falls back to the theme's own
// border and username to the theme's own text color before reaching def.
func (t Theme) Fallback(def Theme) Theme {
	t.TitleColor = firstNonEmpty(t.TitleColor, def.TitleColor)
	t.TextColor = firstNonEmpty(t.TextColor, def.TextColor)
	t.IconColor = firstNonEmpty(t.IconColor, def.IconColor)
	t.BorderColor = firstNonEmpty(t.BorderColor, def.BorderColor)
	t.StrokeColor = firstNonEmpty(t.StrokeColor, t.BorderColor)
	t.UsernameColor = firstNonEmpty(t.UsernameColor, t.TextColor)
	t.BgColor = firstNonEmpty(t.BgColor, def.BgColor)
	return t
}

type Table = lookup.Table[Theme]

// Parse decodes a YAML document mapping theme names to themes. The document
// must define a "default" theme with every color except stroke and username.
func Parse(data []byte) (Table, error) {
	var entries map[string]Theme
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return Table{}, fmt.Errorf("decode themes: %w", err)
	}

	def, ok := entries[DefaultKey]
	if !ok {
		return Table{}, fmt.Errorf("themes: missing %q entry", DefaultKey)
	}
	if def.TitleColor == "" || def.TextColor == "" || def.IconColor == "" || def.BorderColor == "" || def.BgColor == "" {
		return Table{}, fmt.Errorf("themes: %q entry is incomplete", DefaultKey)
	}

	return lookup.New(entries, DefaultKey), nil
}

var (
	builtinOnce  sync.Once
	builtinTable Table
)

// Builtin returns the table of themes shipped with the binary.
func Builtin() Table {
	builtinOnce.Do(func() {
		t, err := Parse(builtinThemes)
		if err != nil {
			panic(err)
		}
		builtinTable = t
	})
	return builtinTable
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
