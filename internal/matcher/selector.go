package matcher

import (
	"math"
	"strings"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/ai"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
)

// Confidence tiers.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// DefaultAcceptThreshold is the score above which a match is accepted without
// widening the search.
const DefaultAcceptThreshold = 70

// ScoreBreakdown is the per-candidate intermediate record. It is computed for
// every candidate and discarded after selection except for the winner's.
type ScoreBreakdown struct {
	ArtistMatch    int     `json:"artist_match"`
	TitleMatch     int     `json:"title_match"`
	DurationMatch  int     `json:"duration_match"`
	DateMatch      int     `json:"date_match"`
	TotalScore     float64 `json:"total_score"`
	EnhancedScore  int     `json:"enhanced_score"`
	ConfidenceTier string  `json:"confidence_tier"`
}

// Match is a selected candidate with its confidence and score breakdown.
type Match struct {
	Candidate  models.Candidate
	Confidence int // 0-100
	Breakdown  ScoreBreakdown
}

// ConfidenceTier maps an integer confidence onto low/medium/high.
func ConfidenceTier(confidence int) string {
	switch {
	case confidence >= 85:
		return TierHigh
	case confidence >= 70:
		return TierMedium
	default:
		return TierLow
	}
}

// SelectBestMatch scores every candidate against the source song and returns
// the best one, or nil when the candidate list is empty.
//
// The primary "prioritize title" path weights cleaned-title similarity at
// 0.5, artist agreement at 0.3 and the enhanced score at 0.2. When no AI
// extraction details are supplied the degraded-but-functional fallback score
// is used instead. Ties keep the first-seen candidate, i.e. catalog
// relevance order.
func SelectBestMatch(song *models.Song, candidates []models.Candidate, details *ai.SongDetails) *Match {
	if len(candidates) == 0 {
		return nil
	}

	cleanedTitle := CleanTitle(song.Title)
	sourceArtist := resolveSourceArtist(song, details)

	var best *Match
	for _, candidate := range candidates {
		breakdown := scoreCandidate(song, cleanedTitle, sourceArtist, candidate, details)

		if best == nil || breakdown.TotalScore > best.Breakdown.TotalScore {
			confidence := clampScore(int(math.Round(breakdown.TotalScore)))
			breakdown.ConfidenceTier = ConfidenceTier(confidence)
			best = &Match{
				Candidate:  candidate,
				Confidence: confidence,
				Breakdown:  breakdown,
			}
		}
	}

	return best
}

// scoreCandidate computes the full breakdown for a single candidate.
func scoreCandidate(song *models.Song, cleanedTitle, sourceArtist string, candidate models.Candidate, details *ai.SongDetails) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		TitleMatch:    TitleSimilarity(cleanedTitle, candidate.Title),
		ArtistMatch:   CompareArtists(sourceArtist, candidate.PrimaryArtist()),
		DurationMatch: CompareDurations(song.Duration, candidate.DurationMS),
		DateMatch:     CompareReleaseDates(song.UploadDate, candidate.ReleaseDate),
	}

	if details == nil {
		// Degraded path: no AI extraction available, fall back to the coarser
		// token-overlap blend.
		breakdown.TotalScore = fallbackScore(song, cleanedTitle, sourceArtist, candidate, breakdown)
		return breakdown
	}

	breakdown.EnhancedScore = enhancedScore(song, candidate, details, breakdown)
	breakdown.TotalScore = 0.5*float64(breakdown.TitleMatch) +
		0.3*float64(breakdown.ArtistMatch) +
		0.2*float64(breakdown.EnhancedScore)

	return breakdown
}

// enhancedScore is the baseline weighted score plus agreement bonuses,
// capped at 100.
func enhancedScore(song *models.Song, candidate models.Candidate, details *ai.SongDetails, breakdown ScoreBreakdown) int {
	// The enhanced path treats dates as a pure bonus: missing dates score 0
	// rather than neutral, scaled up to the 0..100 range of the other terms.
	dateTerm := ReleaseDateBonus(song.UploadDate, candidate.ReleaseDate) * 5

	score := 0.3*float64(breakdown.ArtistMatch) +
		0.3*float64(breakdown.TitleMatch) +
		0.35*float64(breakdown.DurationMatch) +
		0.05*float64(dateTerm)

	sourceVersion := DetectVersion(song.Title)
	if details.IsRemix {
		sourceVersion.Remix = true
	}
	candidateVersion := DetectVersion(candidate.Title)

	versionBonus := sourceVersion.Agreement(candidateVersion) * 5
	if versionBonus > 20 {
		versionBonus = 20
	}
	score += float64(versionBonus)

	if candidate.Popularity > 70 {
		score += 5
	}

	if candidate.Album != "" && titleOverlapsAlbum(song.Title, candidate.Album) {
		score += 10
	}

	if anyArtistOverlaps(candidate.Artists, song.Artist) {
		score += 5
	}

	return clampScore(int(math.Round(score)))
}

// RefineMatch rescores a borderline match using a full analysis of the
// title/artist pair. The analysis can recover a title or artist the cleaning
// heuristics mangled, and its version flags cover live/cover/acoustic beyond
// the remix detection of the extraction path. The original match is returned
// unchanged when the analysis is missing, not confident enough, or does not
// improve the score.
func RefineMatch(song *models.Song, match *Match, analysis *ai.SongAnalysis) *Match {
	if match == nil || analysis == nil || analysis.Confidence <= 60 {
		return match
	}

	breakdown := match.Breakdown
	if analysis.ExtractedTitle != "" {
		if score := TitleSimilarity(analysis.ExtractedTitle, match.Candidate.Title); score > breakdown.TitleMatch {
			breakdown.TitleMatch = score
		}
	}
	if analysis.ExtractedArtist != "" {
		if score := CompareArtists(analysis.ExtractedArtist, match.Candidate.PrimaryArtist()); score > breakdown.ArtistMatch {
			breakdown.ArtistMatch = score
		}
	}

	sourceVersion := Version{
		Live:     analysis.IsLive,
		Remix:    analysis.IsRemix,
		Cover:    analysis.IsCover,
		Acoustic: analysis.IsAcoustic,
	}
	versionBonus := sourceVersion.Agreement(DetectVersion(match.Candidate.Title)) * 5
	if versionBonus > 20 {
		versionBonus = 20
	}

	dateTerm := ReleaseDateBonus(song.UploadDate, match.Candidate.ReleaseDate) * 5
	enhanced := 0.3*float64(breakdown.ArtistMatch) +
		0.3*float64(breakdown.TitleMatch) +
		0.35*float64(breakdown.DurationMatch) +
		0.05*float64(dateTerm) +
		float64(versionBonus)
	breakdown.EnhancedScore = clampScore(int(math.Round(enhanced)))

	breakdown.TotalScore = 0.5*float64(breakdown.TitleMatch) +
		0.3*float64(breakdown.ArtistMatch) +
		0.2*float64(breakdown.EnhancedScore)

	confidence := clampScore(int(math.Round(breakdown.TotalScore)))
	if confidence <= match.Confidence {
		return match
	}

	breakdown.ConfidenceTier = ConfidenceTier(confidence)
	return &Match{
		Candidate:  match.Candidate,
		Confidence: confidence,
		Breakdown:  breakdown,
	}
}

// fallbackScore is the basic weighted blend used when no AI details exist:
// 0.25 title + 0.25 artist + 0.40 duration + 0.10 date on an internal 0..1
// scale, then x100.
func fallbackScore(song *models.Song, cleanedTitle, sourceArtist string, candidate models.Candidate, breakdown ScoreBreakdown) float64 {
	title := StringSimilarity(cleanedTitle, candidate.Title)
	artist := float64(breakdown.ArtistMatch) / 100
	duration := float64(breakdown.DurationMatch) / 100
	date := float64(breakdown.DateMatch) / 100

	return (0.25*title + 0.25*artist + 0.40*duration + 0.10*date) * 100
}

// resolveSourceArtist picks the artist label to score against: a confident
// AI extraction supersedes the channel heuristics.
func resolveSourceArtist(song *models.Song, details *ai.SongDetails) string {
	if details != nil && details.Confidence > 60 && details.Artist != "" {
		return details.Artist
	}
	if artist := ExtractArtist(song.Title); artist != "" {
		return artist
	}
	return song.Artist
}

// titleOverlapsAlbum reports whether the source title textually contains or
// strongly overlaps the candidate's album name.
func titleOverlapsAlbum(title, album string) bool {
	nt := normalizeForOverlap(title)
	na := normalizeForOverlap(album)
	if nt == "" || na == "" {
		return false
	}
	return strings.Contains(nt, na) || StringSimilarity(title, album) >= 0.8
}

// anyArtistOverlaps reports whether any candidate artist, not just the
// primary, substring-overlaps the source artist label.
func anyArtistOverlaps(artists []string, sourceArtist string) bool {
	src := normalizeArtist(sourceArtist)
	if src == "" {
		return false
	}
	for _, artist := range artists {
		cand := normalizeArtist(artist)
		if cand == "" {
			continue
		}
		if strings.Contains(src, cand) || strings.Contains(cand, src) {
			return true
		}
	}
	return false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
