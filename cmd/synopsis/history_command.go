package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"synopsis/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func withHistoryStore(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled; set history.enabled = true in the config")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				runs, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.StartedAt.Local().Format(time.DateTime),
						run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
						strconv.Itoa(run.Items),
						strconv.Itoa(run.Updated),
						strconv.Itoa(run.Errors),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Started", "Duration", "Items", "Updated", "Errors"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-item outcomes of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				results, err := store.Results(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(results) == 0 {
					return fmt.Errorf("no run found with ID %s", args[0])
				}

				rows := make([][]string, 0, len(results))
				for _, result := range results {
					rows = append(rows, []string{
						result.Section,
						kindLabel(result.Kind),
						result.Title,
						result.Outcome,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Section", "Kind", "Title", "Outcome"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				deleted, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs, kept the newest %d\n", deleted, keep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 10, "Number of most recent runs to keep")
	return cmd
}
