package reconcile

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"synopsis/internal/config"
	"synopsis/internal/logging"
	"synopsis/internal/resolve"
	"synopsis/internal/resolve/tmdb"
	"synopsis/internal/services/plex"
)

// Recorder persists a finished run. The history store implements it; a nil
// recorder disables persistence.
type Recorder interface {
	Record(ctx context.Context, summary RunSummary) error
}

// Runner is the top-level driver for one reconciliation run.
type Runner struct {
	cfg      *config.Config
	library  plex.Library
	metadata tmdb.Service
	progress Sink
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Runner, mainly so tests can inject fakes.
type Option func(*Runner)

// WithLibrary overrides the Plex client.
func WithLibrary(library plex.Library) Option {
	return func(r *Runner) { r.library = library }
}

// WithMetadata overrides the TMDB service.
func WithMetadata(service tmdb.Service) Option {
	return func(r *Runner) { r.metadata = service }
}

// WithProgress sets the live-progress sink.
func WithProgress(sink Sink) Option {
	return func(r *Runner) { r.progress = sink }
}

// WithRecorder sets the run recorder.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) { r.recorder = recorder }
}

// NewRunner builds a runner from validated configuration. Clients are
// constructed here, once, and passed down; nothing in the run path reaches
// for process-wide state.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	runner := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "run"),
	}
	for _, opt := range opts {
		opt(runner)
	}

	if runner.library == nil || runner.metadata == nil {
		httpClient := &http.Client{
			Timeout: time.Duration(cfg.Sync.RequestTimeout) * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.Sync.VerifyTLS},
			},
		}
		if runner.library == nil {
			library, err := plex.New(cfg.Plex.URL, cfg.Plex.Token, plex.WithHTTPClient(httpClient))
			if err != nil {
				return nil, err
			}
			runner.library = library
		}
		if runner.metadata == nil {
			metadata, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithHTTPClient(httpClient))
			if err != nil {
				return nil, err
			}
			runner.metadata = metadata
		}
	}
	if runner.progress == nil {
		runner.progress = NopSink{}
	}
	return runner, nil
}

// Run processes every supported library section sequentially and returns the
// aggregated summary. The Plex connection is verified before any section is
// touched; that failure, like a failed section enumeration, aborts the run.
// Per-item failures never do.
func (r *Runner) Run(ctx context.Context) (RunSummary, error) {
	summary := RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger := r.logger.With(logging.String("run_id", summary.RunID))

	if err := r.library.Check(ctx); err != nil {
		return summary, err
	}

	sections, err := r.library.Sections(ctx)
	if err != nil {
		return summary, err
	}

	worker := NewWorker(resolve.New(r.metadata, logger), r.library, r.cfg.Sync.DryRun, logger)
	processor := NewSectionProcessor(r.library, worker, r.cfg.Sync.Workers, r.progress, logger)

	for _, section := range sections {
		if !section.Kind.Supported() {
			logger.Debug("skipping section",
				logging.String("section", section.Title),
				logging.String("kind", string(section.Kind)))
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		logger.Info("processing section",
			logging.String("section", section.Title),
			logging.String("kind", string(section.Kind)))

		sectionSummary, err := processor.Process(ctx, section)
		if err != nil {
			return summary, err
		}
		summary.Sections = append(summary.Sections, sectionSummary)
	}

	summary.FinishedAt = time.Now().UTC()
	logger.Info("run complete",
		logging.Int("sections", len(summary.Sections)),
		logging.Int("items", summary.TotalItems()),
		logging.Int("updated", summary.TotalUpdated()),
		logging.Int("errors", summary.TotalErrors()),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)))

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, summary); err != nil {
			logger.Warn("failed to record run history", logging.Error(err))
		}
	}
	return summary, nil
}
