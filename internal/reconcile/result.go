package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// Outcome labels. Every item ends in exactly one of these.
const (
	OutcomeNoMatch     = "No match found"
	OutcomeUpdated     = "Updated"
	OutcomeUnchanged   = "No change needed"
	OutcomeWouldUpdate = "Would update"

	// ErrorPrefix starts the outcome of any item whose processing failed.
	ErrorPrefix = "Error: "
)

// Result is the per-item classification emitted after reconciliation.
type Result struct {
	Title   string
	Outcome string
}

// Updated reports whether the item's summary was written.
func (r Result) Updated() bool { return r.Outcome == OutcomeUpdated }

// Changed reports whether the item's summary was written, or would have been
// in a dry run. The section aggregates count changes, so dry runs report the
// same Changed line a real run would.
func (r Result) Changed() bool {
	return r.Outcome == OutcomeUpdated || r.Outcome == OutcomeWouldUpdate
}

// Errored reports whether the item failed.
func (r Result) Errored() bool { return strings.HasPrefix(r.Outcome, ErrorPrefix) }

func errorResult(title string, err error) Result {
	return Result{Title: title, Outcome: ErrorPrefix + err.Error()}
}

// SectionSummary aggregates one section's results.
type SectionSummary struct {
	Section string
	Kind    string
	Results []Result
	Updated int
	Errors  int
}

// Total returns the number of items processed in the section.
func (s SectionSummary) Total() int { return len(s.Results) }

// Percent returns the share of items updated, zero for an empty section.
func (s SectionSummary) Percent() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	return float64(s.Updated) / float64(len(s.Results)) * 100
}

// ChangedLine renders the section aggregate in its canonical log form.
func (s SectionSummary) ChangedLine() string {
	return fmt.Sprintf("%s Changed: %d/%d (%.1f%%)", s.Section, s.Updated, s.Total(), s.Percent())
}

// RunSummary aggregates a whole run.
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Sections   []SectionSummary
}

// TotalItems returns the number of items processed across all sections.
func (r RunSummary) TotalItems() int {
	total := 0
	for _, s := range r.Sections {
		total += s.Total()
	}
	return total
}

// TotalUpdated returns the number of items changed, or that would have
// changed in a dry run.
func (r RunSummary) TotalUpdated() int {
	total := 0
	for _, s := range r.Sections {
		total += s.Updated
	}
	return total
}

// TotalErrors returns the number of items that failed.
func (r RunSummary) TotalErrors() int {
	total := 0
	for _, s := range r.Sections {
		total += s.Errors
	}
	return total
}
