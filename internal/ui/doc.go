// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a review workflow for converted playlists:
//  1. [ReviewView] : Browse match results, toggle songs, approve low-confidence matches
//  2. [ConfirmView] : Confirm playlist creation
//  3. [CreateView] : Monitor creation progress
//  4. [ResultView] : Display the created playlist and skipped songs
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ConvertEngine, providing
// non-blocking status reporting during playlist creation.
//
// Keyboard navigation uses vim-style bindings (j/k, space, a, enter, esc, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
