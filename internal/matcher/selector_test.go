package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/ai"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
)

func TestConfidenceTier(t *testing.T) {
	assert.Equal(t, TierHigh, ConfidenceTier(100))
	assert.Equal(t, TierHigh, ConfidenceTier(85))
	assert.Equal(t, TierMedium, ConfidenceTier(84))
	assert.Equal(t, TierMedium, ConfidenceTier(70))
	assert.Equal(t, TierLow, ConfidenceTier(69))
	assert.Equal(t, TierLow, ConfidenceTier(0))
}

func TestSelectBestMatch(t *testing.T) {
	song := &models.Song{
		ID:       "vid1",
		Title:    "Shape of You (Official Video)",
		Artist:   "Ed Sheeran",
		Duration: "3:53",
		Selected: true,
	}

	original := models.Candidate{
		ID:         "sp1",
		URI:        "spotify:track:sp1",
		Title:      "Shape of You",
		Artists:    []string{"Ed Sheeran"},
		DurationMS: 233713,
		Popularity: 85,
	}
	remix := models.Candidate{
		ID:         "sp2",
		URI:        "spotify:track:sp2",
		Title:      "Shape of You - Remix",
		Artists:    []string{"Ed Sheeran"},
		DurationMS: 200000,
		Popularity: 40,
	}

	t.Run("empty candidate list returns nil", func(t *testing.T) {
		assert.Nil(t, SelectBestMatch(song, nil, nil))
		assert.Nil(t, SelectBestMatch(song, []models.Candidate{}, nil))
	})

	t.Run("selects original over remix without assist details", func(t *testing.T) {
		match := SelectBestMatch(song, []models.Candidate{original, remix}, nil)
		require.NotNil(t, match)

		assert.Equal(t, "sp1", match.Candidate.ID)
		assert.GreaterOrEqual(t, match.Confidence, 85)
		assert.Equal(t, TierHigh, match.Breakdown.ConfidenceTier)
	})

	t.Run("selects original over remix with assist details", func(t *testing.T) {
		details := &ai.SongDetails{
			Title:      "Shape of You",
			Artist:     "Ed Sheeran",
			Confidence: 90,
		}

		match := SelectBestMatch(song, []models.Candidate{original, remix}, details)
		require.NotNil(t, match)

		assert.Equal(t, "sp1", match.Candidate.ID)
		assert.GreaterOrEqual(t, match.Confidence, 85)
		assert.Equal(t, TierHigh, match.Breakdown.ConfidenceTier)
		assert.NotZero(t, match.Breakdown.EnhancedScore)
	})

	t.Run("ties keep catalog relevance order", func(t *testing.T) {
		first := original
		first.ID = "first"
		second := original
		second.ID = "second"

		match := SelectBestMatch(song, []models.Candidate{first, second}, nil)
		require.NotNil(t, match)
		assert.Equal(t, "first", match.Candidate.ID)
	})

	t.Run("remix source prefers remix candidate under assist", func(t *testing.T) {
		remixSong := &models.Song{
			ID:       "vid2",
			Title:    "Ed Sheeran - Shape of You (Remix) (Official Audio)",
			Artist:   "Ed Sheeran",
			Duration: "3:20",
			Selected: true,
		}
		details := &ai.SongDetails{
			Title:      "Shape of You",
			Artist:     "Ed Sheeran",
			IsRemix:    true,
			Confidence: 85,
		}

		match := SelectBestMatch(remixSong, []models.Candidate{original, remix}, details)
		require.NotNil(t, match)
		assert.Equal(t, "sp2", match.Candidate.ID)
	})

	t.Run("winner breakdown carries component scores", func(t *testing.T) {
		match := SelectBestMatch(song, []models.Candidate{original}, nil)
		require.NotNil(t, match)

		assert.Equal(t, 100, match.Breakdown.TitleMatch)
		assert.Equal(t, 100, match.Breakdown.ArtistMatch)
		assert.Equal(t, 100, match.Breakdown.DurationMatch)
		assert.Equal(t, 50, match.Breakdown.DateMatch)
	})
}

func TestRefineMatch(t *testing.T) {
	song := &models.Song{
		ID:       "vid1",
		Title:    "sh of u weird rip",
		Artist:   "Ed Sheeran",
		Duration: "3:53",
		Selected: true,
	}
	candidate := models.Candidate{
		ID:         "sp1",
		URI:        "spotify:track:sp1",
		Title:      "Shape of You",
		Artists:    []string{"Ed Sheeran"},
		DurationMS: 233713,
	}

	borderline := func() *Match {
		return &Match{
			Candidate:  candidate,
			Confidence: 70,
			Breakdown: ScoreBreakdown{
				TitleMatch:     30,
				ArtistMatch:    100,
				DurationMatch:  100,
				DateMatch:      50,
				TotalScore:     70,
				ConfidenceTier: TierMedium,
			},
		}
	}

	t.Run("recovered title lifts the score", func(t *testing.T) {
		analysis := &ai.SongAnalysis{
			ExtractedTitle:  "Shape of You",
			ExtractedArtist: "Ed Sheeran",
			Confidence:      90,
		}

		refined := RefineMatch(song, borderline(), analysis)
		require.NotNil(t, refined)

		assert.Equal(t, 100, refined.Breakdown.TitleMatch)
		assert.Greater(t, refined.Confidence, 70)
		assert.Equal(t, TierHigh, refined.Breakdown.ConfidenceTier)
	})

	t.Run("nil analysis returns the match unchanged", func(t *testing.T) {
		match := borderline()
		assert.Same(t, match, RefineMatch(song, match, nil))
	})

	t.Run("low analysis confidence returns the match unchanged", func(t *testing.T) {
		match := borderline()
		analysis := &ai.SongAnalysis{ExtractedTitle: "Shape of You", Confidence: 50}
		assert.Same(t, match, RefineMatch(song, match, analysis))
	})

	t.Run("worse rescoring keeps the original", func(t *testing.T) {
		match := &Match{
			Candidate:  candidate,
			Confidence: 95,
			Breakdown: ScoreBreakdown{
				TitleMatch:     40,
				ArtistMatch:    100,
				DurationMatch:  100,
				DateMatch:      50,
				TotalScore:     95,
				ConfidenceTier: TierHigh,
			},
		}
		analysis := &ai.SongAnalysis{ExtractedTitle: "Something Else Entirely", Confidence: 90}

		refined := RefineMatch(song, match, analysis)
		assert.Same(t, match, refined)
		assert.Equal(t, 95, refined.Confidence)
	})
}
