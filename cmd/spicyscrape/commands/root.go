package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/imaadfakier/spicychatdotai-scraper/config"
	"github.com/spf13/cobra"
)

// cfg is loaded from the environment before any command runs, then
// overridden by explicitly set flags.
var cfg *config.Config

var (
	flagOut      string
	flagBrowser  string
	flagHeadless bool
	flagLogLevel string
	flagSite     string
)

var rootCmd = &cobra.Command{
	Use:   "spicyscrape",
	Short: "spicyscrape collects product, policy, pricing and status data about spicychat.ai into one JSON record.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		applyFlags(cmd)
		initLogger(cfg.Log)
	},
	SilenceUsage: true,
	RunE:         runAll,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagOut, "out", "", "Path of the JSON record (default $SPICYSCRAPE_OUTPUT or spicychat_dot_ai_data.json).")
	pf.StringVar(&flagBrowser, "browser", "", "Browser driver: chromium or remote (default $SPICYSCRAPE_BROWSER or chromium).")
	pf.BoolVar(&flagHeadless, "headless", true, "Run the browser headless.")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error.")
	pf.StringVar(&flagSite, "site", "", "YAML file overriding the built-in URLs and selectors.")
	addOnlyFlag(rootCmd)
}

// applyFlags overrides the environment config with flags the user set.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Path = flagOut
	}
	if flags.Changed("browser") {
		cfg.Browser.Driver = flagBrowser
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = flagHeadless
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("site") {
		cfg.Site.File = flagSite
	}
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
