package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"synopsis/internal/history"
	"synopsis/internal/logging"
	"synopsis/internal/reconcile"
	"synopsis/internal/services"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile every library section against TMDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if dryRun {
				cfg.Sync.DryRun = true
			}

			lock := flock.New(cfg.Paths.LockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another synopsis run holds %s", cfg.Paths.LockPath)
			}
			defer func() { _ = lock.Unlock() }()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			opts := []reconcile.Option{
				reconcile.WithProgress(reconcile.NewTerminal(os.Stderr)),
			}
			if cfg.History.Enabled {
				store, err := history.Open(cfg.History.Path)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer func() { _ = store.Close() }()
				opts = append(opts, reconcile.WithRecorder(store))
			}

			runner, err := reconcile.NewRunner(cfg, logger, opts...)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := runner.Run(runCtx)
			if err != nil {
				if errors.Is(err, services.ErrConnection) {
					return fmt.Errorf("plex server unreachable: %w", err)
				}
				return err
			}

			printRunSummary(cmd.OutOrStdout(), summary, cfg.Sync.DryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify items without writing any summaries")
	return cmd
}

func printRunSummary(out io.Writer, summary reconcile.RunSummary, dryRun bool) {
	rows := make([][]string, 0, len(summary.Sections))
	for _, section := range summary.Sections {
		rows = append(rows, []string{
			section.Section,
			kindLabel(section.Kind),
			strconv.Itoa(section.Total()),
			strconv.Itoa(section.Updated),
			strconv.Itoa(section.Errors),
			fmt.Sprintf("%.1f%%", section.Percent()),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Section", "Kind", "Items", "Updated", "Errors", "Changed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))

	verb := "updated"
	if dryRun {
		verb = "would update"
	}
	fmt.Fprintf(out, "%d of %d items %s across %d sections (%d errors)\n",
		summary.TotalUpdated(), summary.TotalItems(), verb,
		len(summary.Sections), summary.TotalErrors())
}
