package reconcile

import (
	"context"
	"log/slog"
	"sync"

	"synopsis/internal/logging"
	"synopsis/internal/services/plex"
)

// SectionProcessor fans a Worker out over all items in one section.
type SectionProcessor struct {
	library  plex.Library
	worker   *Worker
	workers  int
	progress Sink
	logger   *slog.Logger
}

// NewSectionProcessor constructs a processor with a bounded pool of the
// given size. A nil progress sink disables live progress.
func NewSectionProcessor(library plex.Library, worker *Worker, workers int, progress Sink, logger *slog.Logger) *SectionProcessor {
	if workers <= 0 {
		workers = 1
	}
	if progress == nil {
		progress = NopSink{}
	}
	return &SectionProcessor{
		library:  library,
		worker:   worker,
		workers:  workers,
		progress: progress,
		logger:   logging.NewComponentLogger(logger, "sync"),
	}
}

// Process reconciles every item in the section. Items are enumerated once as
// a snapshot; results arrive in completion order, not enumeration order. The
// returned error covers enumeration failure only — individual item failures
// are contained in their results.
func (p *SectionProcessor) Process(ctx context.Context, section plex.Section) (SectionSummary, error) {
	items, err := p.library.SectionItems(ctx, section)
	if err != nil {
		return SectionSummary{}, err
	}

	summary := SectionSummary{
		Section: section.Title,
		Kind:    string(section.Kind),
		Results: make([]Result, 0, len(items)),
	}

	p.progress.Start(section.Title, len(items))
	defer p.progress.Done()

	results := make(chan Result, len(items))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item plex.Item) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- p.worker.Reconcile(ctx, item)
		}(item)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for result := range results {
		completed++
		summary.Results = append(summary.Results, result)
		if result.Changed() {
			summary.Updated++
		}
		if result.Errored() {
			summary.Errors++
		}
		p.progress.Step(completed, len(items), result.Title)
		p.logger.Debug("item reconciled",
			logging.String("title", result.Title),
			logging.String("outcome", result.Outcome))
	}

	p.logger.Info(summary.ChangedLine())
	return summary, nil
}
