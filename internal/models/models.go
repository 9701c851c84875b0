package models

// Song represents a video-derived candidate song awaiting a destination catalog match.
//
// The Spotify* fields are zero until a match is selected. A Song with
// SpotifyURI set always carries a MatchConfidence in [0,100]; manual
// approval and replacement override confidence-based filtering.
type Song struct {
	ID         string `json:"id"`                    // Source video identifier
	Title      string `json:"title"`                 // Raw video title
	Artist     string `json:"artist,omitempty"`      // Raw channel/artist label
	Thumbnail  string `json:"thumbnail,omitempty"`   // Thumbnail URL
	Duration   string `json:"duration,omitempty"`    // "M:SS" or "H:MM:SS", empty if unknown
	UploadDate string `json:"upload_date,omitempty"` // ISO date of upload, empty if unknown
	Selected   bool   `json:"selected"`              // Participates in matching and creation

	SpotifyID        string `json:"spotify_id,omitempty"`
	SpotifyURI       string `json:"spotify_uri,omitempty"`
	SpotifyTitle     string `json:"spotify_title,omitempty"`
	SpotifyArtist    string `json:"spotify_artist,omitempty"`
	SpotifyThumbnail string `json:"spotify_thumbnail,omitempty"`
	SpotifyDuration  string `json:"spotify_duration,omitempty"` // "M:SS"
	MatchConfidence  int    `json:"match_confidence,omitempty"` // 0-100, meaningful only when SpotifyURI is set
	ManuallyApproved bool   `json:"manually_approved,omitempty"`
	IsReplacement    bool   `json:"is_replacement,omitempty"`
}

// Matched reports whether a destination track has been attached to this song.
func (s *Song) Matched() bool {
	return s.SpotifyURI != ""
}

// ClearMatch removes any attached destination track fields.
func (s *Song) ClearMatch() {
	s.SpotifyID = ""
	s.SpotifyURI = ""
	s.SpotifyTitle = ""
	s.SpotifyArtist = ""
	s.SpotifyThumbnail = ""
	s.SpotifyDuration = ""
	s.MatchConfidence = 0
	s.ManuallyApproved = false
	s.IsReplacement = false
}

// Candidate represents a destination catalog search result being evaluated against a source item.
type Candidate struct {
	ID          string   `json:"id"`
	URI         string   `json:"uri"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"` // "2006-01-02", "2006-01" or "2006"
	DurationMS  int      `json:"duration_ms"`
	Popularity  int      `json:"popularity"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

// PrimaryArtist returns the first artist name, or an empty string.
func (c *Candidate) PrimaryArtist() string {
	if len(c.Artists) == 0 {
		return ""
	}
	return c.Artists[0]
}

// Playlist represents a playlist on either platform.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// ConversionResult summarizes a completed conversion run.
type ConversionResult struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistURL  string `json:"playlist_url"`
	MatchedCount int    `json:"matched_count"`
	TotalCount   int    `json:"total_count"`
}
