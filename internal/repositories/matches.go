package repositories

import (
	"database/sql"
	"fmt"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
)

// MatchRow is a persisted video-to-track match.
type MatchRow struct {
	ID            int64
	VideoID       string
	TrackKey      string
	SpotifyID     string
	SpotifyURI    string
	SpotifyTitle  string
	SpotifyArtist string
	Confidence    int
}

// MatchRepository handles match cache CRUD operations.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository with the given database connection
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert inserts a match row, replacing any existing row for the same video.
func (r *MatchRepository) Upsert(row *MatchRow) error {
	if row.VideoID == "" {
		return fmt.Errorf("%w: video id required", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO matches (video_id, track_key, spotify_id, spotify_uri, spotify_title, spotify_artist, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			track_key = excluded.track_key,
			spotify_id = excluded.spotify_id,
			spotify_uri = excluded.spotify_uri,
			spotify_title = excluded.spotify_title,
			spotify_artist = excluded.spotify_artist,
			confidence = excluded.confidence
	`

	_, err := r.db.Exec(query,
		row.VideoID,
		row.TrackKey,
		row.SpotifyID,
		row.SpotifyURI,
		row.SpotifyTitle,
		row.SpotifyArtist,
		row.Confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	return nil
}

// GetByVideoID retrieves the match for a source video, or nil when absent.
func (r *MatchRepository) GetByVideoID(videoID string) (*MatchRow, error) {
	query := `
		SELECT id, video_id, track_key, spotify_id, spotify_uri, spotify_title, spotify_artist, confidence
		FROM matches
		WHERE video_id = ?
	`

	row := &MatchRow{}
	err := r.db.QueryRow(query, videoID).Scan(
		&row.ID,
		&row.VideoID,
		&row.TrackKey,
		&row.SpotifyID,
		&row.SpotifyURI,
		&row.SpotifyTitle,
		&row.SpotifyArtist,
		&row.Confidence,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query match: %w", err)
	}

	return row, nil
}

// GetByTrackKey retrieves the highest-confidence match for a normalized
// title/artist key, or nil when absent. Used to reuse matches across
// playlists when the same song appears under a different video.
func (r *MatchRepository) GetByTrackKey(trackKey string) (*MatchRow, error) {
	query := `
		SELECT id, video_id, track_key, spotify_id, spotify_uri, spotify_title, spotify_artist, confidence
		FROM matches
		WHERE track_key = ?
		ORDER BY confidence DESC
		LIMIT 1
	`

	row := &MatchRow{}
	err := r.db.QueryRow(query, trackKey).Scan(
		&row.ID,
		&row.VideoID,
		&row.TrackKey,
		&row.SpotifyID,
		&row.SpotifyURI,
		&row.SpotifyTitle,
		&row.SpotifyArtist,
		&row.Confidence,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query match: %w", err)
	}

	return row, nil
}

// Delete removes the match for a source video.
func (r *MatchRepository) Delete(videoID string) error {
	result, err := r.db.Exec(`DELETE FROM matches WHERE video_id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: no match for video %s", shared.ErrTrackNotFound, videoID)
	}

	return nil
}

// Count returns the number of cached matches.
func (r *MatchRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// rowFromSong builds a match row from a matched song.
func rowFromSong(song *models.Song) *MatchRow {
	return &MatchRow{
		VideoID:       song.ID,
		TrackKey:      shared.NormalizeTrackKey(song.SpotifyTitle, song.SpotifyArtist),
		SpotifyID:     song.SpotifyID,
		SpotifyURI:    song.SpotifyURI,
		SpotifyTitle:  song.SpotifyTitle,
		SpotifyArtist: song.SpotifyArtist,
		Confidence:    song.MatchConfidence,
	}
}
