package repositories

import (
	"fmt"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/matcher"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/tasks"
)

// MatchCacheAdapter implements tasks.MatchCacher using MatchRepository.
//
// Lookup failures are treated as cache misses so a broken cache degrades to
// plain catalog searches instead of failing the run.
type MatchCacheAdapter struct {
	repo *MatchRepository
}

// NewMatchCacheAdapter creates a new MatchCacheAdapter with the given repository
func NewMatchCacheAdapter(repo *MatchRepository) *MatchCacheAdapter {
	return &MatchCacheAdapter{repo: repo}
}

// GetMatch looks up a cached match by source video ID. On a miss it falls
// back to the normalized track key, so the same song uploaded under a
// different video ID still reuses its resolved match.
func (a *MatchCacheAdapter) GetMatch(song *models.Song) (*tasks.CachedMatch, bool) {
	row, err := a.repo.GetByVideoID(song.ID)
	if err == nil && row == nil {
		key := shared.NormalizeTrackKey(matcher.CleanTitle(song.Title), song.Artist)
		row, err = a.repo.GetByTrackKey(key)
	}
	if err != nil || row == nil {
		return nil, false
	}

	return &tasks.CachedMatch{
		SpotifyID:  row.SpotifyID,
		URI:        row.SpotifyURI,
		Title:      row.SpotifyTitle,
		Artist:     row.SpotifyArtist,
		Confidence: row.Confidence,
	}, true
}

// PutMatch persists a resolved match for the song's source video.
func (a *MatchCacheAdapter) PutMatch(song *models.Song) error {
	if !song.Matched() {
		return nil
	}

	if err := a.repo.Upsert(rowFromSong(song)); err != nil {
		return fmt.Errorf("failed to cache match: %w", err)
	}

	return nil
}
