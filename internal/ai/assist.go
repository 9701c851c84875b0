// Package ai exposes the optional text-completion capability the matching
// engine queries for structured title extraction and semantic comparison.
//
// The engine treats any failure - network error, malformed response,
// capability not configured - as unavailable and falls back to the heuristic
// pipeline. Assist errors are never fatal for a single song.
package ai

import "context"

// SongDetails is a structured extraction of a raw video title.
type SongDetails struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Features   []string `json:"features,omitempty"`
	IsRemix    bool     `json:"isRemix"`
	Confidence int      `json:"confidence"` // 0-100
}

// SongAnalysis is an enhanced semantic comparison of a title/artist pair.
type SongAnalysis struct {
	IsRemix         bool   `json:"isRemix"`
	IsCover         bool   `json:"isCover"`
	IsLive          bool   `json:"isLive"`
	IsAcoustic      bool   `json:"isAcoustic"`
	ExtractedTitle  string `json:"extractedTitle"`
	ExtractedArtist string `json:"extractedArtist"`
	Confidence      int    `json:"confidence"` // 0-100
}

// Assist is the two-operation contract the engine calls opportunistically.
// Implementations must wrap every failure in [shared.ErrAssistUnavailable].
type Assist interface {
	// ExtractSongDetails parses a raw video title into structured song details.
	ExtractSongDetails(ctx context.Context, rawTitle string) (*SongDetails, error)

	// AnalyzeSongDetails classifies a title/artist pair into version flags
	// and a cleaned extraction.
	AnalyzeSongDetails(ctx context.Context, title, artist string) (*SongAnalysis, error)
}
