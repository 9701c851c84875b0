package repositories

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, shared.RunMigrations(db))
	return db
}

func sampleRow(videoID string) *MatchRow {
	return &MatchRow{
		VideoID:       videoID,
		TrackKey:      shared.NormalizeTrackKey("Shape of You", "Ed Sheeran"),
		SpotifyID:     "sp1",
		SpotifyURI:    "spotify:track:sp1",
		SpotifyTitle:  "Shape of You",
		SpotifyArtist: "Ed Sheeran",
		Confidence:    92,
	}
}

func TestMatchRepository(t *testing.T) {
	t.Run("upsert and get by video id", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		require.NoError(t, repo.Upsert(sampleRow("vid1")))

		row, err := repo.GetByVideoID("vid1")
		require.NoError(t, err)
		require.NotNil(t, row)

		assert.Equal(t, "sp1", row.SpotifyID)
		assert.Equal(t, "spotify:track:sp1", row.SpotifyURI)
		assert.Equal(t, 92, row.Confidence)
	})

	t.Run("get missing video returns nil", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		row, err := repo.GetByVideoID("nope")
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("upsert replaces existing match", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))
		require.NoError(t, repo.Upsert(sampleRow("vid1")))

		updated := sampleRow("vid1")
		updated.SpotifyID = "sp2"
		updated.SpotifyURI = "spotify:track:sp2"
		updated.Confidence = 100
		require.NoError(t, repo.Upsert(updated))

		row, err := repo.GetByVideoID("vid1")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "sp2", row.SpotifyID)
		assert.Equal(t, 100, row.Confidence)

		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("empty video id is invalid", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))
		err := repo.Upsert(&MatchRow{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("get by track key prefers highest confidence", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))

		low := sampleRow("vid1")
		low.Confidence = 75
		require.NoError(t, repo.Upsert(low))

		high := sampleRow("vid2")
		high.SpotifyID = "sp-high"
		high.Confidence = 95
		require.NoError(t, repo.Upsert(high))

		row, err := repo.GetByTrackKey(shared.NormalizeTrackKey("Shape of You", "Ed Sheeran"))
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "sp-high", row.SpotifyID)
	})

	t.Run("delete removes match", func(t *testing.T) {
		repo := NewMatchRepository(setupTestDB(t))
		require.NoError(t, repo.Upsert(sampleRow("vid1")))

		require.NoError(t, repo.Delete("vid1"))

		row, err := repo.GetByVideoID("vid1")
		require.NoError(t, err)
		assert.Nil(t, row)

		assert.ErrorIs(t, repo.Delete("vid1"), shared.ErrTrackNotFound)
	})
}

func TestMatchCacheAdapter(t *testing.T) {
	matchedSong := func() *models.Song {
		return &models.Song{
			ID:              "vid1",
			Title:           "Ed Sheeran - Shape of You (Official Video)",
			SpotifyID:       "sp1",
			SpotifyURI:      "spotify:track:sp1",
			SpotifyTitle:    "Shape of You",
			SpotifyArtist:   "Ed Sheeran",
			MatchConfidence: 92,
			Selected:        true,
		}
	}

	t.Run("round trips a match", func(t *testing.T) {
		adapter := NewMatchCacheAdapter(NewMatchRepository(setupTestDB(t)))

		require.NoError(t, adapter.PutMatch(matchedSong()))

		cached, ok := adapter.GetMatch(matchedSong())
		require.True(t, ok)
		assert.Equal(t, "sp1", cached.SpotifyID)
		assert.Equal(t, "spotify:track:sp1", cached.URI)
		assert.Equal(t, "Shape of You", cached.Title)
		assert.Equal(t, "Ed Sheeran", cached.Artist)
		assert.Equal(t, 92, cached.Confidence)
	})

	t.Run("same song under a different video hits via track key", func(t *testing.T) {
		adapter := NewMatchCacheAdapter(NewMatchRepository(setupTestDB(t)))

		require.NoError(t, adapter.PutMatch(matchedSong()))

		reupload := &models.Song{
			ID:     "vid2",
			Title:  "Ed Sheeran - Shape of You (Lyrics)",
			Artist: "Ed Sheeran",
		}
		cached, ok := adapter.GetMatch(reupload)
		require.True(t, ok)
		assert.Equal(t, "sp1", cached.SpotifyID)
		assert.Equal(t, 92, cached.Confidence)
	})

	t.Run("unmatched song is not cached", func(t *testing.T) {
		adapter := NewMatchCacheAdapter(NewMatchRepository(setupTestDB(t)))

		song := &models.Song{ID: "vid1", Title: "No Match"}
		require.NoError(t, adapter.PutMatch(song))

		_, ok := adapter.GetMatch(song)
		assert.False(t, ok)
	})

	t.Run("miss returns false", func(t *testing.T) {
		adapter := NewMatchCacheAdapter(NewMatchRepository(setupTestDB(t)))
		_, ok := adapter.GetMatch(&models.Song{ID: "absent", Title: "Unknown Song", Artist: "Unknown"})
		assert.False(t, ok)
	})
}
