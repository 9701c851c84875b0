package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tc := []struct {
		name  string
		raw   string
		want  string
	}{
		{
			name: "channel prefix and tag stripped",
			raw:  "Artist - Song (Official Video)",
			want: "Song",
		},
		{
			name: "official audio tag",
			raw:  "Shape of You (Official Audio)",
			want: "Shape of You",
		},
		{
			name: "lyric video bracket",
			raw:  "Blinding Lights [Official Lyric Video]",
			want: "Blinding Lights",
		},
		{
			name: "quality marker and year",
			raw:  "Take On Me (HD) (1985)",
			want: "Take On Me",
		},
		{
			name: "featuring tag stripped",
			raw:  "Rockstar (feat. 21 Savage)",
			want: "Rockstar",
		},
		{
			name: "vevo marker stripped",
			raw:  "EdSheeranVEVO - Perfect (Official Music Video)",
			want: "Perfect",
		},
		{
			name: "long prefix kept",
			raw:  "This is not a channel name at all honestly - Song",
			want: "This is not a channel name at all honestly - Song",
		},
		{
			name: "bracketed prefix kept",
			raw:  "Song (Part 1) - The Sequel",
			want: "Song (Part 1) - The Sequel",
		},
		{
			name: "premiere token",
			raw:  "New Single (Premiere)",
			want: "New Single",
		},
		{
			name: "whitespace collapsed",
			raw:  "  Some    Song   (Lyrics)  ",
			want: "Some Song",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.raw))
		})
	}
}

func TestExtractArtist(t *testing.T) {
	tc := []struct {
		name string
		raw  string
		want string
	}{
		{name: "dash prefix", raw: "Ed Sheeran - Shape of You", want: "Ed Sheeran"},
		{name: "vevo suffix dropped", raw: "EdSheeranVEVO - Perfect", want: "EdSheeran"},
		{name: "by pattern", raw: "Shape of You by Ed Sheeran", want: "Ed Sheeran"},
		{name: "long prefix rejected", raw: "a very long prefix with many many words - Song", want: ""},
		{name: "bracketed prefix rejected", raw: "Song (Live) - Encore", want: ""},
		{name: "no pattern", raw: "Shape of You", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractArtist(tt.raw))
		})
	}
}
