// Command synopsis reconciles Plex movie and TV show summaries against The
// Movie Database.
package main
