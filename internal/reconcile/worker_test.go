package reconcile_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"synopsis/internal/reconcile"
	"synopsis/internal/resolve/tmdb"
	"synopsis/internal/services/plex"
)

// resolverFunc adapts a function to the MetadataResolver interface.
type resolverFunc func(ctx context.Context, item plex.Item) (*tmdb.Record, error)

func (f resolverFunc) Resolve(ctx context.Context, item plex.Item) (*tmdb.Record, error) {
	return f(ctx, item)
}

type summaryWrite struct {
	ratingKey string
	summary   string
}

// fakeLibrary is an in-memory plex.Library.
type fakeLibrary struct {
	mu       sync.Mutex
	sections []plex.Section
	items    map[string][]plex.Item
	writes   []summaryWrite

	checkErr  error
	listErr   error
	itemsErr  error
	updateErr error
}

func (f *fakeLibrary) Check(context.Context) error { return f.checkErr }

func (f *fakeLibrary) Sections(context.Context) ([]plex.Section, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sections, nil
}

func (f *fakeLibrary) SectionItems(_ context.Context, section plex.Section) ([]plex.Item, error) {
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return f.items[section.Key], nil
}

func (f *fakeLibrary) UpdateSummary(_ context.Context, item plex.Item, summary string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, summaryWrite{ratingKey: item.RatingKey, summary: summary})
	return nil
}

func (f *fakeLibrary) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func item(title, summary string, guids ...string) plex.Item {
	it := plex.Item{RatingKey: title, Title: title, Type: "movie", Year: 1999, Summary: summary}
	for _, id := range guids {
		it.GUIDs = append(it.GUIDs, plex.GUID{ID: id})
	}
	return it
}

func TestReconcileNoMatch(t *testing.T) {
	library := &fakeLibrary{}
	worker := reconcile.NewWorker(resolverFunc(func(context.Context, plex.Item) (*tmdb.Record, error) {
		return nil, nil
	}), library, false, nil)

	result := worker.Reconcile(context.Background(), item("Obscure Film", "old"))
	if result.Outcome != reconcile.OutcomeNoMatch {
		t.Errorf("outcome = %q, want %q", result.Outcome, reconcile.OutcomeNoMatch)
	}
	if library.writeCount() != 0 {
		t.Errorf("writes = %d, want 0", library.writeCount())
	}
}

func TestReconcileIdenticalSummary(t *testing.T) {
	library := &fakeLibrary{}
	worker := reconcile.NewWorker(resolverFunc(func(context.Context, plex.Item) (*tmdb.Record, error) {
		return &tmdb.Record{Overview: "same text"}, nil
	}), library, false, nil)

	result := worker.Reconcile(context.Background(), item("The Matrix", "same text"))
	if result.Outcome != reconcile.OutcomeUnchanged {
		t.Errorf("outcome = %q, want %q", result.Outcome, reconcile.OutcomeUnchanged)
	}
	if library.writeCount() != 0 {
		t.Errorf("writes = %d, want 0", library.writeCount())
	}
}

func TestReconcileDifferingSummaryWritesOnce(t *testing.T) {
	library := &fakeLibrary{}
	worker := reconcile.NewWorker(resolverFunc(func(context.Context, plex.Item) (*tmdb.Record, error) {
		return &tmdb.Record{Overview: "fresh overview"}, nil
	}), library, false, nil)

	result := worker.Reconcile(context.Background(), item("The Matrix", "stale"))
	if result.Outcome != reconcile.OutcomeUpdated {
		t.Errorf("outcome = %q, want %q", result.Outcome, reconcile.OutcomeUpdated)
	}
	if library.writeCount() != 1 {
		t.Fatalf("writes = %d, want exactly 1", library.writeCount())
	}
	if library.writes[0].summary != "fresh overview" {
		t.Errorf("written summary = %q, want %q", library.writes[0].summary, "fresh overview")
	}
	if !result.Updated() {
		t.Error("Updated() = false, want true")
	}
}

func TestReconcileResolverErrorIsContained(t *testing.T) {
	library := &fakeLibrary{}
	worker := reconcile.NewWorker(resolverFunc(func(context.Context, plex.Item) (*tmdb.Record, error) {
		return nil, errors.New("tmdb unavailable")
	}), library, false, nil)

	result := worker.Reconcile(context.Background(), item("The Matrix", "old"))
	if !strings.HasPrefix(result.Outcome, reconcile.ErrorPrefix) {
		t.Errorf("outcome = %q, want %q prefix", result.Outcome, reconcile.ErrorPrefix)
	}
	if !result.Errored() {
		t.Error("Errored() = false, want true")
	}
	if library.writeCount() != 0 {
		t.Errorf("writes = %d, want 0", library.writeCount())
	}
}

func TestReconcileWriteErrorIsContained(t *testing.T) {
	library := &fakeLibrary{updateErr: errors.New("plex returned 403")}
	worker := reconcile.NewWorker(resolverFunc(func(context.Context, plex.Item) (*tmdb.Record, error) {
		return &tmdb.Record{Overview: "fresh"}, nil
	}), library, false, nil)

	result := worker.Reconcile(context.Background(), item("The Matrix", "old"))
	if !strings.HasPrefix(result.Outcome, reconcile.ErrorPrefix) {
		t.Errorf("outcome = %q, want error outcome", result.Outcome)
	}
}

func TestReconcileDryRunSkipsWrite(t *testing.T) {
	library := &fakeLibrary{}
	worker := reconcile.NewWorker(resolverFunc(func(context.Context, plex.Item) (*tmdb.Record, error) {
		return &tmdb.Record{Overview: "fresh"}, nil
	}), library, true, nil)

	result := worker.Reconcile(context.Background(), item("The Matrix", "old"))
	if result.Outcome != reconcile.OutcomeWouldUpdate {
		t.Errorf("outcome = %q, want %q", result.Outcome, reconcile.OutcomeWouldUpdate)
	}
	if library.writeCount() != 0 {
		t.Errorf("writes = %d, want 0 in dry-run", library.writeCount())
	}
	if result.Updated() {
		t.Error("dry-run result must not count as updated")
	}
}
