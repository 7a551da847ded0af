package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/imaadfakier/spicychatdotai-scraper/classify"
	"github.com/imaadfakier/spicychatdotai-scraper/config"
	"github.com/imaadfakier/spicychatdotai-scraper/fetch"
	"github.com/imaadfakier/spicychatdotai-scraper/pricing"
	"github.com/imaadfakier/spicychatdotai-scraper/record"
	"github.com/imaadfakier/spicychatdotai-scraper/session"
	"github.com/imaadfakier/spicychatdotai-scraper/tasks"
	"github.com/imaadfakier/spicychatdotai-scraper/webhook"
	"github.com/spf13/cobra"
)

var flagOnly []string

func addOnlyFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&flagOnly, "only", config.EnvList("SPICYSCRAPE_ONLY"),
		"Run only these tasks (comma-separated). See `spicyscrape tasks`.")
}

func init() {
	addOnlyFlag(runCmd)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--only task,...] [--out <path/to/record.json>]",
	Short: "Runs the extraction tasks one after another and writes the JSON record.",
	RunE:  runAll,
}

func runAll(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	launch, err := session.NewLauncher(cfg.Browser)
	if err != nil {
		return err
	}

	site := tasks.DefaultSite()
	if cfg.Site.File != "" {
		if site, err = tasks.LoadSite(cfg.Site.File); err != nil {
			return err
		}
		slog.Info("site definition loaded", "path", cfg.Site.File)
	}

	client := fetch.New(cfg.Fetch)
	deps := tasks.Deps{
		Orchestrator: session.NewOrchestrator(launch, session.TimeoutsFrom(cfg.Session)),
		Fetcher:      client,
		LinkFetcher:  client.WithTimeout(cfg.Fetch.LinkTimeout),
		Pricing:      pricing.DefaultCatalog(),
		Policy:       classify.DefaultCatalog(),
		Site:         site,
	}

	jobs, err := tasks.Select(tasks.Jobs(deps), flagOnly)
	if err != nil {
		return err
	}

	run := record.Collect(ctx, jobs)

	if err := record.Save(cfg.Output.Path, run.Record); err != nil {
		return err
	}
	slog.Info("record saved", "path", cfg.Output.Path, "run_id", run.ID, "keys", run.Record.Len())

	if cfg.Webhook.URL != "" {
		// The run context may already be canceled; delivery gets its own.
		whCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := webhook.Deliver(whCtx, cfg.Webhook.URL, cfg.Webhook.Secret, webhook.RecordCompleted(run)); err != nil {
			slog.Warn("webhook delivery failed", "url", cfg.Webhook.URL, "run_id", run.ID, "error", err)
		}
	}
	return nil
}
