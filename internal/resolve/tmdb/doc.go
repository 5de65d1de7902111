// Package tmdb provides the minimal TMDB API client used during summary
// reconciliation.
//
// It authenticates requests and exposes movie and TV detail lookups by ID
// plus title/year searches. Successful parameter-only GET responses are
// memoized for the process lifetime so a batch run never repeats an
// identical request; calls carrying per-call transport options bypass the
// memo. Responses are strongly typed so the resolve package can compare
// overviews directly.
package tmdb
