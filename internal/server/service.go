// Package server wires request validation, data fetching and card
// composition behind an HTTP endpoint.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/vukan322/profilecard/internal/avatar"
	"github.com/vukan322/profilecard/internal/core"
	"github.com/vukan322/profilecard/internal/providers"
	"github.com/vukan322/profilecard/internal/raster"
	"github.com/vukan322/profilecard/internal/render"
	"github.com/vukan322/profilecard/internal/request"
	"github.com/vukan322/profilecard/internal/theme"
)

const (
	ContentTypeSVG  = "image/svg+xml"
	ContentTypePNG  = "image/png"
	ContentTypeJSON = "application/json"
)

// Output is a finished card ready to be written out.
type Output struct {
	ContentType string
	Body        []byte
}

type Service struct {
	Provider providers.Provider
	Themes   theme.Table
	Renderer *render.Renderer
	Logger   *slog.Logger
}

// Render validates q, fetches the user's data and composes the card in the
// requested format.
func (s *Service) Render(ctx context.Context, q url.Values) (Output, error) {
	req, err := request.Parse(q, s.Themes)
	if err != nil {
		return Output{}, err
	}

	snap, err := s.Provider.Fetch(ctx, req.Username)
	if err != nil {
		return Output{}, fmt.Errorf("fetch %s: %w", s.Provider.Name(), err)
	}

	s.logger().Debug("snapshot fetched", "user", req.Username, "provider", s.Provider.Name(), "theme", req.Theme)
	return s.Compose(snap, req.Config)
}

// Compose turns an already fetched snapshot into output. A broken avatar
// is logged and the card is drawn without it.
func (s *Service) Compose(snap core.Snapshot, cfg render.Config) (Output, error) {
	if cfg.Format == render.FormatJSON {
		body, err := json.Marshal(snap)
		if err != nil {
			return Output{}, fmt.Errorf("encode snapshot: %w", err)
		}
		return Output{ContentType: ContentTypeJSON, Body: body}, nil
	}

	if len(snap.Picture) > 0 && snap.Avatar == "" {
		enc, err := avatar.Encode(snap.Picture, cfg.PhotoResize, cfg.PhotoQuality)
		if err != nil {
			s.logger().Warn("avatar skipped", "user", snap.Username, "err", err)
		} else {
			snap.Avatar = enc
		}
	}

	svg, err := s.Renderer.RenderSVG(snap, cfg)
	if err != nil {
		return Output{}, err
	}
	if cfg.Format != render.FormatPNG {
		return Output{ContentType: ContentTypeSVG, Body: svg}, nil
	}

	png, err := raster.PNG(svg)
	if err != nil {
		return Output{}, fmt.Errorf("rasterize card: %w", err)
	}
	return Output{ContentType: ContentTypePNG, Body: png}, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
