// Package resolve matches Plex library items to TMDB records.
//
// Resolution is ID-first: when an item carries a tmdb:// guid reference, its
// numeric ID drives a direct detail lookup, which is authoritative and cheap.
// Items without a usable reference fall back to a title/year search, taking
// the first ranked result without disambiguation. A wrong first result is an
// accepted limitation of the fallback; there is no confidence scoring.
package resolve
