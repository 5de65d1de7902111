// Package plex is the HTTP client for the Plex Media Server library.
//
// It enumerates library sections and their items (including external guid
// references) and writes summary edits back. Responses are the XML
// MediaContainer payloads Plex serves; only the fields reconciliation needs
// are decoded. The client never interprets metadata itself; matching against
// TMDB lives in the resolve package.
package plex
