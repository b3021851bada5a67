package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobhydra/internal/ai"
	"github.com/amishk599/jobhydra/internal/metrics"
	"github.com/amishk599/jobhydra/internal/model"
	"github.com/amishk599/jobhydra/internal/notifier"
	"github.com/amishk599/jobhydra/internal/pipeline"
	"github.com/amishk599/jobhydra/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one discovery pass and exit",
	Long: "Loads history, gathers listings from every configured source, screens them, " +
		"sends alerts and appends the matches to the store. With --dry-run nothing is " +
		"persisted and alerts go to the terminal only.",
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "read history but persist nothing; print alerts to the terminal")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := newHTTPClient()

	sink, closeSink, err := openSink(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "type", cfg.Store.Type, "error", err)
		os.Exit(1)
	}
	defer closeSink()

	var n model.Notifier
	if dryRun {
		logger.Info("dry run: no rows will be persisted")
		sink = store.NewReadOnly(sink, logger)
		n = notifier.NewTerminalNotifier(cmd.OutOrStdout(), cfg.AI.DraftThreshold)
	} else {
		n = setupNotifier(cfg, httpClient, cmd.OutOrStdout(), logger)
	}

	sources, err := buildSources(ctx, cfg, httpClient, logger)
	if err != nil {
		logger.Error("failed to build sources", "error", err)
		os.Exit(1)
	}
	if len(sources) == 0 {
		logger.Error("no sources configured")
		os.Exit(1)
	}

	rec, err := metrics.NewRecorder()
	if err != nil {
		logger.Error("failed to set up metrics", "error", err)
		os.Exit(1)
	}

	chain := ai.NewFallback(buildProviders(cfg), rec, logger)
	var drafter pipeline.Drafter
	if cfg.AI.Draft {
		drafter = ai.NewDrafter(chain, cfg.Profile, ai.CoverLetterTemplate, logger)
	}

	p := pipeline.New(pipeline.Deps{
		Sources:    sources,
		Sink:       sink,
		Policy:     buildPolicy(cfg),
		Enricher:   buildEnricher(cfg, httpClient, logger),
		Classifier: ai.NewClassifier(chain, cfg.Profile, ai.ClassifyTemplate, logger),
		Drafter:    drafter,
		Notifier:   n,
		Recorder:   rec,
	}, pipeline.Options{
		ChunkSize:      cfg.AI.ChunkSize,
		ChunkDelay:     cfg.AI.ChunkDelay,
		DraftThreshold: cfg.AI.DraftThreshold,
		FetchLimit:     cfg.FetchConcurrency,
		EnrichLimit:    cfg.Enrich.Workers,
	}, logger)

	logger.Info("config loaded",
		"sources", len(sources),
		"queries", len(cfg.Queries),
		"store", cfg.Store.Type,
		"notifiers", cfg.Notification.Types,
	)

	sum, runErr := p.Run(ctx)

	if cfg.Metrics.PushURL != "" {
		if err := rec.Push(context.WithoutCancel(ctx), cfg.Metrics.PushURL, cfg.Metrics.Job, cfg.Metrics.Instance); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "run", sum.RunID, "error", runErr)
		os.Exit(1)
	}
	return nil
}
