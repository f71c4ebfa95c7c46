package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/config"
	"github.com/xbe-inc/xbe-integration/internal/models"
	"github.com/xbe-inc/xbe-integration/internal/report"
	"github.com/xbe-inc/xbe-integration/internal/services"
	"github.com/xbe-inc/xbe-integration/internal/store"
	"github.com/xbe-inc/xbe-integration/internal/store/migrations"
	"github.com/xbe-inc/xbe-integration/internal/suites"
	"github.com/xbe-inc/xbe-integration/pkg/harness"
	"github.com/xbe-inc/xbe-integration/pkg/invoke"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

const historyFile = "history.duckdb"

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [resource...]",
		Short: "Run the suites of the given resources, or of every resource",
		Example: `  xbe-integration run
  xbe-integration run brokers customers --parallel 2
  XBE_TOKEN=... xbe-integration run --mode api --xlsx report.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			cfg.Run.Suites = args
			return runSuites(cmd, cfg)
		},
	}
	config.RegisterRunFlags(cmd.Flags())
	return cmd
}

func runSuites(cmd *cobra.Command, cfg *config.Configuration) error {
	log := zap.S().Named("run")
	log.Debugw("configuration", "config", cfg.DebugMap())

	cat, err := loadCatalog(cfg.Run.SuitesDir)
	if err != nil {
		return err
	}
	resources, err := cat.Select(cfg.Run.Suites...)
	if err != nil {
		return err
	}

	inv, target, err := newInvoker(cfg, cat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	history, closeHistory, err := openHistory(ctx, cfg.Report.DataFolder)
	if err != nil {
		return err
	}
	defer closeHistory()

	names := make([]string, 0, len(resources))
	for _, r := range resources {
		names = append(names, r.Name)
	}

	started := time.Now()
	var run *models.Run
	if history != nil {
		if run, err = history.StartRun(ctx, cfg.Target.Mode, target, names); err != nil {
			return err
		}
	}

	exec := suites.NewExecutor(cat, inv,
		suites.WithSeeds(config.SeedsFromOS()),
		suites.WithOutput(cmd.OutOrStdout()),
		suites.WithHarnessOptions(
			harness.WithRetryPolicy(cfg.Run.TransientRetries),
			harness.WithFailFast(cfg.Run.FailFast),
		),
	)
	summaries, aborted := exec.RunAll(ctx, resources, cfg.Run.Parallel)

	meta := report.Meta{Mode: cfg.Target.Mode, Target: target, StartedAt: started, Duration: time.Since(started)}
	if run != nil {
		meta.RunID = run.ID
	}
	totals := report.NewConsole(cmd.OutOrStdout(), cfg.Run.Verbose).Print(meta, summaries)

	if cfg.Report.XLSXPath != "" {
		if err := report.WriteXLSX(cfg.Report.XLSXPath, meta, summaries); err != nil {
			log.Errorw("failed to write xlsx report", "path", cfg.Report.XLSXPath, "error", err)
		}
	}
	if history != nil {
		if err := history.FinishRun(ctx, run, summaries, aborted); err != nil {
			log.Errorw("failed to record run", "run_id", run.ID, "error", err)
		}
	}

	code := totals.ExitCode()
	if aborted {
		log.Warnw("run aborted before every suite finished", "finished", len(summaries), "selected", len(resources))
		code = 1
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// loadCatalog returns the embedded catalog extended with the *.yaml files
// of dir, if any.
func loadCatalog(dir string) (*catalog.Catalog, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return cat, nil
	}
	if err := cat.LoadDir(dir); err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// newInvoker returns the invoker of the configured mode and a description
// of the target for reports.
func newInvoker(cfg *config.Configuration, cat *catalog.Catalog) (invoke.Invoker, string, error) {
	var (
		inv    invoke.Invoker
		target string
	)
	switch cfg.Target.Mode {
	case config.ModeAPI:
		client, err := jsonapi.NewClient(cfg.Target.BaseURL,
			jsonapi.WithToken(cfg.Target.Token),
			jsonapi.WithTimeout(cfg.Target.Timeout),
		)
		if err != nil {
			return nil, "", err
		}
		inv = invoke.NewAPIInvoker(client, cat)
		target = cfg.Target.BaseURL
	default:
		inv = invoke.NewCLIInvoker(cfg.Target.Binary,
			invoke.WithBaseURL(cfg.Target.BaseURL),
			invoke.WithToken(cfg.Target.Token),
			invoke.WithCommandTimeout(cfg.Target.Timeout),
		)
		target = fmt.Sprintf("%s (%s)", cfg.Target.Binary, cfg.Target.BaseURL)
	}

	if cfg.Run.Verbose {
		inv = invoke.Trace(inv)
	}
	return inv, target, nil
}

// openHistory opens the run history of folder. A nil service means history
// is disabled.
func openHistory(ctx context.Context, folder string) (*services.HistoryService, func(), error) {
	if folder == "" {
		return nil, func() {}, nil
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data folder: %w", err)
	}

	db, err := store.NewDB(filepath.Join(folder, historyFile))
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate history: %w", err)
	}

	st := store.NewStore(db)
	closeFn := func() {
		if err := st.Close(); err != nil {
			zap.S().Named("store").Warnw("failed to close history", "error", err)
		}
	}
	return services.NewHistoryService(st), closeFn, nil
}
