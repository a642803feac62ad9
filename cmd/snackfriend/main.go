// Package main is the entry point for SnackFriend.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/samdwyer/snackfriend/internal/game"
	"github.com/samdwyer/snackfriend/internal/gamedata"
	"github.com/samdwyer/snackfriend/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := game.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "snackfriend",
		Short: "Feed your friend snacks in the terminal. Not too fast, or they pop.",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			// Load .env file for local development
			if err := godotenv.Load(); err != nil {
				// Not fatal - env vars might be set directly
				log.Printf("Note: .env file not loaded: %v", err)
			}
			if theme := os.Getenv("SNACKFRIEND_THEME"); theme != "" && !cmd.Flags().Changed("theme") {
				cfg.Theme = theme
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Theme, "theme", cfg.Theme, themeUsage())
	cmd.Flags().BoolVar(&cfg.Telemetry, "telemetry", cfg.Telemetry, "export traces to Honeycomb when an API key is set")
	return cmd
}

func run(ctx context.Context, cfg game.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.SessionID = telemetry.NewSessionID()

	if cfg.Telemetry {
		setupOTelEnv()

		shutdown, err := telemetry.Setup(ctx, cfg.SessionID)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Game will run without observability")
			cfg.Telemetry = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	g, err := game.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize game: %w", err)
	}
	defer g.Close()

	if err := g.Run(ctx); err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}

// themeUsage lists the embedded themes in the --theme help text.
func themeUsage() string {
	themes, err := gamedata.LoadThemeRegistry()
	if err != nil {
		return "theme used to draw the friend"
	}
	return "theme used to draw the friend (" + strings.Join(themes.IDs(), ", ") + ")"
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	// The .env file may hold an unexpanded variable reference, so the
	// headers are built here from the raw key.
	apiKey := os.Getenv("HONEYCOMB_SNACKFRIEND_API_KEY")
	dataset := os.Getenv("HONEYCOMB_SNACKFRIEND_DATASET")
	if dataset == "" {
		dataset = "snackfriend"
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
