// Package services defines the shared error taxonomy for external
// collaborators.
//
// Sentinel markers distinguish fatal startup failures (configuration,
// initial Plex connection) from per-call failures that stay contained to a
// single item. Wrap attaches component and operation context while keeping
// the marker reachable through errors.Is.
package services
