package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vukan322/profilecard/internal/core"
	"github.com/vukan322/profilecard/internal/locale"
	"github.com/vukan322/profilecard/internal/preview"
	"github.com/vukan322/profilecard/internal/providers"
	"github.com/vukan322/profilecard/internal/providers/demo"
	githubprovider "github.com/vukan322/profilecard/internal/providers/github"
	gitlabprovider "github.com/vukan322/profilecard/internal/providers/gitlab"
	"github.com/vukan322/profilecard/internal/render"
	"github.com/vukan322/profilecard/internal/request"
	"github.com/vukan322/profilecard/internal/server"
	"github.com/vukan322/profilecard/internal/theme"
)

var version = "0.1.0"

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "profilecard",
		Short: "Render GitHub profile stats cards",
		Long: `profilecard renders an SVG (or PNG) card with a GitHub user's avatar,
followers and activity counters. It can serve cards over HTTP, render one
to a file, or live-preview a snapshot while you edit it.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("PROFILECARD_LOG_LEVEL", "info"), "log level: debug, info, warn or error")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(renderCmd())
	cmd.AddCommand(previewCmd())
	cmd.AddCommand(themesCmd())
	cmd.AddCommand(localesCmd())

	return cmd
}

func serveCmd() *cobra.Command {
	var (
		addr    string
		source  string
		useDemo bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve cards on GET /api",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := newProvider(source, useDemo)
			if err != nil {
				return err
			}
			return server.Run(ctx, addr, server.NewHandler(newService(p)), slog.Default())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("PROFILECARD_ADDR", ":8080"), "HTTP listen address")
	cmd.Flags().StringVar(&source, "provider", envOr("PROFILECARD_PROVIDER", "github"), "data source: github or gitlab")
	cmd.Flags().BoolVar(&useDemo, "demo", false, "serve offline demo data instead of calling the provider")

	return cmd
}

func renderCmd() *cobra.Command {
	var (
		user    string
		output  string
		query   string
		source  string
		useDemo bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one card to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := cardQuery(query, output)
			if err != nil {
				return err
			}
			q.Set("username", user)

			p, err := newProvider(source, useDemo)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			svc := newService(p)
			out, err := svc.Render(ctx, q)
			if err != nil {
				return fmt.Errorf("render card: %w", err)
			}
			if err := os.WriteFile(output, out.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "profilecard: generated %s for user %q via %s\n", output, user, svc.Provider.Name())
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "GitHub username")
	cmd.Flags().StringVarP(&output, "out", "o", "profilecard.svg", "output file; .png and .json pick the format")
	cmd.Flags().StringVarP(&query, "query", "q", "", `card options as a query string, e.g. "theme=dark&locale=id"`)
	cmd.Flags().StringVar(&source, "provider", envOr("PROFILECARD_PROVIDER", "github"), "data source: github or gitlab")
	cmd.Flags().BoolVar(&useDemo, "demo", false, "use offline demo data")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func previewCmd() *cobra.Command {
	var (
		snapshotPath string
		output       string
		query        string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Re-render a card whenever a snapshot JSON file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := cardQuery(query, output)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := newService(nil)
			return preview.Watch(ctx, snapshotPath, func() error {
				return renderSnapshot(svc, snapshotPath, output, q)
			}, slog.Default())
		},
	}

	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "snapshot JSON file to watch")
	cmd.Flags().StringVarP(&output, "out", "o", "profilecard.svg", "output file; .png and .json pick the format")
	cmd.Flags().StringVarP(&query, "query", "q", "", "card options as a query string")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

func themesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List built-in themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), themeList(theme.Builtin()))
			return nil
		},
	}
}

func localesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "locales",
		Short: "Write the translation progress report",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := locale.Report(locale.Builtin())
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), report)
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create %s: %w", filepath.Dir(output), err)
			}
			if err := os.WriteFile(output, []byte(report), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			slog.Info("translation report written", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default stdout)")

	return cmd
}

func newService(p providers.Provider) *server.Service {
	return &server.Service{
		Provider: p,
		Themes:   theme.Builtin(),
		Renderer: render.New(locale.Builtin()),
		Logger:   slog.Default(),
	}
}

func newProvider(source string, useDemo bool) (providers.Provider, error) {
	if useDemo {
		return demo.New(), nil
	}
	switch strings.ToLower(source) {
	case "github", "":
		token := os.Getenv("PROFILECARD_TOKEN")
		if token == "" {
			slog.Warn("PROFILECARD_TOKEN not set, using unauthenticated GitHub API (rate limited, no discussion counts)")
		}
		return githubprovider.New(token), nil
	case "gitlab":
		var opts []gitlabprovider.Option
		if base := os.Getenv("PROFILECARD_GITLAB_URL"); base != "" {
			opts = append(opts, gitlabprovider.WithBaseURL(base))
		}
		return gitlabprovider.New(os.Getenv("PROFILECARD_GITLAB_TOKEN"), opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want github or gitlab)", source)
	}
}

// renderSnapshot composes the card for the snapshot stored at path.
func renderSnapshot(svc *server.Service, path, output string, q url.Values) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	q = cloneValues(q)
	if q.Get("username") == "" {
		q.Set("username", firstNonEmpty(snap.Username, "preview"))
	}
	req, err := request.Parse(q, svc.Themes)
	if err != nil {
		return err
	}

	out, err := svc.Compose(snap, req.Config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

// cardQuery parses the --query flag. When it names no format, the output
// file extension decides.
func cardQuery(raw, output string) (url.Values, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("parse --query: %w", err)
	}
	if q.Get("format") == "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".png":
			q.Set("format", string(render.FormatPNG))
		case ".json":
			q.Set("format", string(render.FormatJSON))
		}
	}
	return q, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
