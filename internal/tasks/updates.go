package tasks

import (
	"fmt"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Percent int    // Overall completion 0..100
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ValidateAuth Phase = iota
	MatchSongs
	WidenSearch
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case ValidateAuth:
		return "validate_auth"
	case MatchSongs:
		return "match_songs"
	case WidenSearch:
		return "widen_search"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func validateAuthUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateAuth,
		Step:    1,
		Total:   1,
		Message: "Validating Spotify credentials...",
	}
}

func matchingUpdate(step, total int, song *models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchSongs,
		Step:    step,
		Total:   total,
		Percent: percentOf(step-1, total),
		Message: fmt.Sprintf("[%d/%d] Matching: %s", step, total, song.Title),
	}
}

func matchedUpdate(step, total int, song *models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchSongs,
		Step:    step,
		Total:   total,
		Percent: percentOf(step, total),
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s (%d%%)", step, total, song.SpotifyArtist, song.SpotifyTitle, song.MatchConfidence),
		Data:    song,
	}
}

func matchFailedUpdate(step, total int, song *models.Song, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchSongs,
		Step:    step,
		Total:   total,
		Percent: percentOf(step, total),
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, song.Title, err),
	}
}

func createPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q on Spotify...", name),
	}
}

func addTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Percent: 100,
		Message: fmt.Sprintf("Adding %d tracks to playlist...", count),
	}
}

func percentOf(step, total int) int {
	if total <= 0 {
		return 0
	}
	return step * 100 / total
}
