package reconcile

import (
	"context"
	"log/slog"

	"synopsis/internal/logging"
	"synopsis/internal/resolve/tmdb"
	"synopsis/internal/services/plex"
)

// MetadataResolver matches one library item to a TMDB record.
type MetadataResolver interface {
	Resolve(ctx context.Context, item plex.Item) (*tmdb.Record, error)
}

// Worker reconciles one item's summary against its resolved TMDB overview.
type Worker struct {
	resolver MetadataResolver
	library  plex.Library
	dryRun   bool
	logger   *slog.Logger
}

// NewWorker constructs a Worker.
func NewWorker(resolver MetadataResolver, library plex.Library, dryRun bool, logger *slog.Logger) *Worker {
	return &Worker{
		resolver: resolver,
		library:  library,
		dryRun:   dryRun,
		logger:   logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Reconcile classifies one item. It never returns an error: any failure
// during resolution or write-back becomes the item's "Error: ..." outcome so
// a single item can never abort the section pool.
func (w *Worker) Reconcile(ctx context.Context, item plex.Item) Result {
	record, err := w.resolver.Resolve(ctx, item)
	if err != nil {
		w.logger.Warn("resolution failed",
			logging.String("title", item.Title),
			logging.Error(err))
		return errorResult(item.Title, err)
	}
	if record == nil {
		return Result{Title: item.Title, Outcome: OutcomeNoMatch}
	}

	// Byte-for-byte comparison: whitespace or encoding drift counts as a change.
	if item.Summary == record.Overview {
		return Result{Title: item.Title, Outcome: OutcomeUnchanged}
	}

	if w.dryRun {
		return Result{Title: item.Title, Outcome: OutcomeWouldUpdate}
	}

	if err := w.library.UpdateSummary(ctx, item, record.Overview); err != nil {
		w.logger.Warn("summary write failed",
			logging.String("title", item.Title),
			logging.Error(err))
		return errorResult(item.Title, err)
	}
	return Result{Title: item.Title, Outcome: OutcomeUpdated}
}
