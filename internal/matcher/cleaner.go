package matcher

import (
	"regexp"
	"strings"
)

var (
	// descriptorTag matches bracketed/parenthesized platform noise: official video/audio/lyrics
	// variants, featuring mentions, quality markers, premiere/release tokens.
	descriptorTag = regexp.MustCompile(`(?i)\s*[(\[][^()\[\]]*\b(official|music\s+video|lyric|lyrics|audio|visuali[sz]er|video|hd|hq|4k|premiere|release|feat\.?|ft\.?|featuring)\b[^()\[\]]*[)\]]`)

	// yearTag matches a bare 4-digit year in brackets, e.g. "(2017)".
	yearTag = regexp.MustCompile(`\s*[(\[]\s*(19|20)\d{2}\s*[)\]]`)

	// vevoMarker strips the VEVO channel artifact, attached or standalone.
	vevoMarker = regexp.MustCompile(`(?i)\s*vevo\b`)

	// channelPrefix splits a leading "Channel - " prefix from the rest of the title.
	channelPrefix = regexp.MustCompile(`^([^-–—]+?)\s*[-–—]\s+(.+)$`)

	// byPattern matches a trailing "... by Artist" attribution.
	byPattern = regexp.MustCompile(`(?i)^.+?\s+by\s+(.+)$`)

	extraWhitespace = regexp.MustCompile(`\s+`)
)

// CleanTitle strips platform-specific noise from a raw video title: a leading
// channel prefix (when it plausibly is one), bracketed descriptor tags, year
// markers and the VEVO artifact. Whitespace is collapsed.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)

	if m := channelPrefix.FindStringSubmatch(title); m != nil && looksLikeChannelPrefix(m[1]) {
		title = m[2]
	}

	title = descriptorTag.ReplaceAllString(title, "")
	title = yearTag.ReplaceAllString(title, "")
	title = vevoMarker.ReplaceAllString(title, "")
	title = extraWhitespace.ReplaceAllString(title, " ")

	return strings.TrimSpace(title)
}

// ExtractArtist tries to pull a candidate artist name out of a raw title.
// It tries the "Artist - Title" prefix heuristic first, then a trailing
// "... by Artist" pattern. Returns an empty string when neither applies;
// callers must treat empty as unknown, never as a valid artist token.
func ExtractArtist(raw string) string {
	title := strings.TrimSpace(raw)

	if m := channelPrefix.FindStringSubmatch(title); m != nil && looksLikeChannelPrefix(m[1]) {
		artist := vevoMarker.ReplaceAllString(m[1], "")
		return strings.TrimSpace(artist)
	}

	// Drop descriptor tags first so "(Lyrics by ...)" does not leak into the match.
	cleaned := strings.TrimSpace(descriptorTag.ReplaceAllString(title, ""))
	if m := byPattern.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[1])
	}

	return ""
}

// looksLikeChannelPrefix guards the "Channel - " heuristic: a real channel
// prefix has at most 5 words and no bracket content. Longer or bracketed
// prefixes are assumed to be part of the actual title.
func looksLikeChannelPrefix(prefix string) bool {
	if strings.ContainsAny(prefix, "()[]{}") {
		return false
	}
	words := strings.Fields(prefix)
	return len(words) > 0 && len(words) <= 5
}
