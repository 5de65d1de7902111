// Package reconcile drives the summary reconciliation run.
//
// A Worker compares one item's summary against its resolved TMDB overview
// and writes back only on mismatch, classifying every item into exactly one
// outcome. The SectionProcessor fans Workers out over a section's items with
// a bounded pool and collects results in completion order. The Runner is the
// top-level orchestrator: it constructs the clients once, checks the Plex
// connection, and processes supported sections strictly one at a time.
//
// Failure isolation is the core contract: a worker never propagates an
// error; anything that goes wrong with one item becomes that item's
// "Error: ..." outcome and the run continues.
package reconcile
