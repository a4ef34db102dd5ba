package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vukan322/profilecard/internal/theme"
)

var (
	themeNameStyle = lipgloss.NewStyle().Bold(true).Width(18)
	hexStyle       = lipgloss.NewStyle().Faint(true)
)

// themeList prints one line per built-in theme: its name followed by a
// swatch for each color role.
func themeList(t theme.Table) string {
	var b strings.Builder
	for _, key := range t.Keys() {
		th := t.Resolve(key)
		swatches := []string{
			swatch("title", th.TitleColor),
			swatch("text", th.TextColor),
			swatch("icon", th.IconColor),
			swatch("border", th.BorderColor),
			swatch("bg", th.BgColor),
		}
		fmt.Fprintf(&b, "%s %s\n", themeNameStyle.Render(key), strings.Join(swatches, " "))
	}
	return b.String()
}

func swatch(role, value string) string {
	hex := swatchHex(value)
	block := lipgloss.NewStyle().Background(lipgloss.Color("#" + hex)).Render("  ")
	return fmt.Sprintf("%s %s", block, hexStyle.Render(role+":"+value))
}

// swatchHex reduces a theme color to something a terminal can show: the
// first stop of a gradient, without an alpha channel.
func swatchHex(value string) string {
	if parts := strings.Split(value, ","); len(parts) > 1 {
		value = strings.TrimSpace(parts[1])
	}
	if len(value) == 8 {
		value = value[:6]
	}
	return value
}
