package resolve

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"synopsis/internal/logging"
	"synopsis/internal/resolve/tmdb"
	"synopsis/internal/services/plex"
)

const guidPrefix = "tmdb://"

// Resolver decides which TMDB record, if any, corresponds to a library item.
type Resolver struct {
	service tmdb.Service
	logger  *slog.Logger
}

// New constructs a Resolver. A nil logger falls back to a no-op logger.
func New(service tmdb.Service, logger *slog.Logger) *Resolver {
	return &Resolver{
		service: service,
		logger:  logging.NewComponentLogger(logger, "resolve"),
	}
}

// Resolve returns the TMDB record for the item, or nil when nothing matches.
// A stale guid reference yields nil rather than an error; transport failures
// propagate so the worker can classify the item.
func (r *Resolver) Resolve(ctx context.Context, item plex.Item) (*tmdb.Record, error) {
	if id, ok := GUIDReference(item); ok {
		return r.lookup(ctx, item, id)
	}
	return r.search(ctx, item)
}

func (r *Resolver) lookup(ctx context.Context, item plex.Item, id int64) (*tmdb.Record, error) {
	var record *tmdb.Record
	var err error
	if item.Kind() == plex.KindShow {
		record, err = r.service.TVDetails(ctx, id)
	} else {
		record, err = r.service.MovieDetails(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if record == nil {
		r.logger.Debug("stale guid reference",
			logging.String("title", item.Title),
			logging.Int64("tmdb_id", id))
	}
	return record, nil
}

func (r *Resolver) search(ctx context.Context, item plex.Item) (*tmdb.Record, error) {
	var resp *tmdb.SearchResponse
	var err error
	if item.Kind() == plex.KindShow {
		resp, err = r.service.SearchTV(ctx, item.Title, item.Year)
	} else {
		resp, err = r.service.SearchMovies(ctx, item.Title, item.Year)
	}
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Results) == 0 {
		return nil, nil
	}
	// First-result-wins: no disambiguation beyond the title/year filter.
	first := resp.Results[0]
	r.logger.Debug("matched by search",
		logging.String("title", item.Title),
		logging.Int64("tmdb_id", first.ID),
		logging.String("matched_title", first.DisplayTitle()))
	return &first, nil
}

// GUIDReference extracts the numeric TMDB ID from an item's external-ID
// references. Malformed tmdb guids are skipped so the caller can fall back
// to search.
func GUIDReference(item plex.Item) (int64, bool) {
	for _, guid := range item.GUIDs {
		raw, found := strings.CutPrefix(guid.ID, guidPrefix)
		if !found {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		return id, true
	}
	return 0, false
}
