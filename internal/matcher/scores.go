package matcher

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

var (
	nonWordChars = regexp.MustCompile(`[^a-z0-9\s]+`)

	// artistNoise matches channel-suffix tokens that are not part of an artist's name.
	// "topic" covers YouTube's auto-generated "Artist - Topic" channels.
	artistNoise = regexp.MustCompile(`(?i)\b(official|music|vevo|channel|records|recordings|topic)\b`)

	bracketContent = regexp.MustCompile(`[(\[][^()\[\]]*[)\]]`)
)

// TitleSimilarity computes a normalized Levenshtein similarity between two
// titles on a 0..100 scale. Case-insensitive; callers are expected to
// pre-clean punctuation and platform noise.
func TitleSimilarity(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}

	distance := levenshtein.ComputeDistance(a, b)
	score := int(math.Round((1 - float64(distance)/float64(maxLen)) * 100))

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// StringSimilarity is a coarser token-overlap measure on a 0..1 scale, used
// as a fallback path distinct from Levenshtein. Both inputs are normalized
// by stripping non-word characters and casing. An exact match after
// normalization scores 1.0, substring containment scores the length ratio
// of shorter to longer, and otherwise the score is the fraction of the
// first string's words (length > 2) that overlap a word of the second.
func StringSimilarity(a, b string) float64 {
	na := normalizeForOverlap(a)
	nb := normalizeForOverlap(b)

	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		shorter, longer := len(na), len(nb)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return float64(shorter) / float64(longer)
	}

	wordsA := significantWords(na)
	if len(wordsA) == 0 {
		return 0
	}
	wordsB := strings.Fields(nb)

	matched := 0
	for _, wa := range wordsA {
		for _, wb := range wordsB {
			if strings.Contains(wa, wb) || strings.Contains(wb, wa) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(wordsA))
}

// CompareArtists scores how well a candidate's artist matches the source
// channel/artist label, 0..100. Channel-suffix noise and bracketed content
// are stripped before comparison. Returns a weak default of 30 when the
// source label has no significant words to evaluate.
func CompareArtists(sourceArtist, candidateArtist string) int {
	src := normalizeArtist(sourceArtist)
	cand := normalizeArtist(candidateArtist)

	if src != "" && src == cand {
		return 100
	}
	if src != "" && cand != "" && (strings.Contains(src, cand) || strings.Contains(cand, src)) {
		return 80
	}

	srcWords := significantWords(src)
	if len(srcWords) == 0 {
		// Can't evaluate - weak default, not zero.
		return 30
	}

	candWords := strings.Fields(cand)
	matched := 0
	for _, sw := range srcWords {
		for _, cw := range candWords {
			if strings.Contains(sw, cw) || strings.Contains(cw, sw) {
				matched++
				break
			}
		}
	}

	return int(math.Round(float64(matched) / float64(len(srcWords)) * 100))
}

// CompareDurations scores duration closeness between a source "H:MM:SS" or
// "M:SS" string and a candidate duration in milliseconds, 0..100 on a
// piecewise scale. Missing or unparsable input on either side scores a
// neutral 50.
func CompareDurations(sourceDuration string, candidateMS int) int {
	src, err := DurationToSeconds(sourceDuration)
	if err != nil || candidateMS <= 0 {
		return 50
	}

	delta := src - candidateMS/1000
	if delta < 0 {
		delta = -delta
	}

	switch {
	case delta <= 10:
		return 100
	case delta <= 20:
		return 100 - (delta-10)*2
	case delta <= 60:
		score := 80 - (delta - 21)
		if score < 40 {
			score = 40
		}
		return score
	case delta <= 120:
		return 20
	default:
		return 0
	}
}

// CompareReleaseDates scores release-date proximity on a 0..100 piecewise
// scale by calendar buckets. Missing either date scores a neutral 50 - this
// variant feeds the weighted fallback score, which must stay functional
// without dates.
func CompareReleaseDates(sourceDate, candidateDate string) int {
	src, okSrc := parseReleaseDate(sourceDate)
	cand, okCand := parseReleaseDate(candidateDate)
	if !okSrc || !okCand {
		return 50
	}

	days := int(math.Abs(src.Sub(cand).Hours()) / 24)

	switch {
	case days <= 7:
		return 100
	case days <= 30:
		return 80
	case days <= 90:
		return 60
	case days <= 365:
		return 40
	default:
		return 20
	}
}

// ReleaseDateBonus is the lower-weight release-date variant: a 0..20 bonus
// by month buckets. Missing either date yields no bonus - this variant feeds
// the enhanced score, where dates only ever help.
func ReleaseDateBonus(sourceDate, candidateDate string) int {
	src, okSrc := parseReleaseDate(sourceDate)
	cand, okCand := parseReleaseDate(candidateDate)
	if !okSrc || !okCand {
		return 0
	}

	months := int(math.Abs(src.Sub(cand).Hours()) / 24 / 30)

	switch {
	case months <= 3:
		return 20
	case months <= 12:
		return 10
	default:
		return 0
	}
}

// DurationToSeconds converts an "H:MM:SS" or "M:SS" string to seconds.
func DurationToSeconds(duration string) (int, error) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, fmt.Errorf("empty duration")
	}

	parts := strings.Split(duration, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration format: %q", duration)
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration segment: %q", duration)
		}
		total = total*60 + n
	}

	return total, nil
}

// FormatDuration renders a millisecond duration as "M:SS".
func FormatDuration(ms int) string {
	if ms <= 0 {
		return ""
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// normalizeForOverlap lowercases and strips non-word characters, keeping
// spaces so word boundaries survive.
func normalizeForOverlap(s string) string {
	s = strings.ToLower(s)
	s = nonWordChars.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// normalizeArtist strips channel-suffix noise and bracketed content before
// the overlap normalization.
func normalizeArtist(s string) string {
	s = bracketContent.ReplaceAllString(s, "")
	s = artistNoise.ReplaceAllString(s, "")
	return normalizeForOverlap(s)
}

// significantWords returns the words of an already-normalized string longer
// than 2 characters.
func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// parseReleaseDate accepts the catalog's "2006-01-02", "2006-01" and "2006"
// precision levels plus RFC 3339 timestamps from the source platform.
func parseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
