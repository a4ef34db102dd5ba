package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/vukan322/profilecard/internal/core"
	"github.com/vukan322/profilecard/internal/locale"
)

//go:embed templates/card.svg.tmpl
var cardTemplate string

var cardTmpl = template.Must(template.New("card").Parse(cardTemplate))

// cardViewModel carries markup-ready values: every string is already escaped.
type cardViewModel struct {
	Width     int
	Height    int
	Direction string
	Animated  bool
	Layout    Layout

	Title         string
	TitleColor    string
	TextColor     string
	IconColor     string
	UsernameColor string

	Background  string
	AvatarData  string
	StrokeAttrs string

	Username      string
	Followers     int
	Following     int
	FollowersText string
	FollowingText string

	Rows []cardRow
}

type cardRow struct {
	Y     int
	Delay int
	Icon  string
	Label string
	Value int
}

// Renderer composes cards. It only reads its locale table, so one Renderer
// can serve concurrent renders.
type Renderer struct {
	locales locale.Table
}

func New(locales locale.Table) *Renderer {
	return &Renderer{locales: locales}
}

// RenderSVG composes the card markup for one snapshot. The only input it can
// reject is a background gradient without color stops.
func (r *Renderer) RenderSVG(snap core.Snapshot, cfg Config) ([]byte, error) {
	loc := locale.Resolve(r.locales, cfg.Locale)

	dir := LTR
	if loc.IsRTL() {
		dir = RTL
	}
	animated := cfg.Animated()
	layout := ComputeLayout(dir, !animated, cfg.Reverse)

	rows := VisibleRows(BuildRows(snap, loc, ParseItemList(cfg.Hide), ParseItemList(cfg.Show)))
	cardRows := make([]cardRow, len(rows))
	for i, row := range rows {
		cardRows[i] = cardRow{
			Y:     RowOffset(i),
			Delay: RowDelay(i),
			Icon:  row.Icon,
			Label: html.EscapeString(row.Label),
			Value: row.Value,
		}
	}

	rectAttrs := fmt.Sprintf(`rx="%s"`, formatNumber(cfg.BorderRadius))
	if !cfg.HideBorder {
		rectAttrs += fmt.Sprintf(` stroke="#%s" stroke-opacity="1" stroke-width="%s"`, cfg.BorderColor, formatNumber(cfg.BorderWidth))
	}
	background, err := ResolveBackground(cfg.Background, rectAttrs)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}

	strokeAttrs := ""
	if !cfg.HideStroke {
		strokeAttrs = fmt.Sprintf(`stroke="#%s" stroke-width="5"`, cfg.StrokeColor)
	}

	vm := cardViewModel{
		Width:         CardWidth,
		Height:        CanvasHeight(len(rows)),
		Direction:     dir.String(),
		Animated:      animated,
		Layout:        layout,
		Title:         cardTitle(cfg.Title, loc, snap.DisplayName()),
		TitleColor:    cfg.TitleColor,
		TextColor:     cfg.TextColor,
		IconColor:     cfg.IconColor,
		UsernameColor: cfg.UsernameColor,
		Background:    background,
		AvatarData:    snap.Avatar,
		StrokeAttrs:   strokeAttrs,
		Username:      html.EscapeString(snap.Username),
		Followers:     snap.Followers,
		Following:     snap.Following,
		FollowersText: html.EscapeString(loc.FollowersText),
		FollowingText: html.EscapeString(loc.FollowingText),
		Rows:          cardRows,
	}

	var buf bytes.Buffer
	if err := cardTmpl.Execute(&buf, vm); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}

// cardTitle prefers the custom title, which arrives escaped from request
// validation, over the locale title. {name} is replaced in either.
func cardTitle(custom string, loc locale.Locale, name string) string {
	name = html.EscapeString(name)
	if custom != "" && custom != "undefined" {
		return strings.ReplaceAll(custom, "{name}", name)
	}
	return strings.ReplaceAll(html.EscapeString(loc.TitleCard), "{name}", name)
}
