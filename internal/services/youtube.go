// YouTube Data API v3 client used to extract source items from a playlist.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
)

const (
	youtubeBaseURL   = "https://www.googleapis.com/youtube/v3"
	youtubePageSize  = 50
	youtubeBatchSize = 50 // videos endpoint accepts up to 50 IDs per call
)

// YouTubeService fetches playlist items from the source platform with API
// key authentication.
type YouTubeService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewYouTubeService creates a YouTube Data API client.
func NewYouTubeService(cfg shared.YouTubeConfig) (*YouTubeService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing youtube api_key", shared.ErrMissingCredentials)
	}

	return &YouTubeService{
		apiKey:     cfg.APIKey,
		httpClient: http.DefaultClient,
		baseURL:    youtubeBaseURL,
	}, nil
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title                 string `json:"title"`
			VideoOwnerChannelName string `json:"videoOwnerChannelTitle"`
			PublishedAt           string `json:"publishedAt"`
			Thumbnails            struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoID          string `json:"videoId"`
			VideoPublishedAt string `json:"videoPublishedAt"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"` // ISO 8601, e.g. "PT3M53S"
		} `json:"contentDetails"`
	} `json:"items"`
}

// ExtractPlaylist fetches all items of a playlist and converts them into
// source songs, selected by default. Durations come from a second pass over
// the videos endpoint.
func (y *YouTubeService) ExtractPlaylist(ctx context.Context, playlistIDOrURL string) ([]models.Song, error) {
	playlistID := ParsePlaylistID(playlistIDOrURL)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: empty playlist id", shared.ErrInvalidInput)
	}

	var songs []models.Song
	pageToken := ""

	for {
		params := url.Values{
			"part":       {"snippet,contentDetails"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(youtubePageSize)},
			"key":        {y.apiKey},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page playlistItemsResponse
		if err := y.get(ctx, "/playlistItems?"+params.Encode(), &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			videoID := item.Snippet.ResourceID.VideoID
			if videoID == "" {
				videoID = item.ContentDetails.VideoID
			}
			if videoID == "" {
				continue
			}

			uploadDate := item.ContentDetails.VideoPublishedAt
			if uploadDate == "" {
				uploadDate = item.Snippet.PublishedAt
			}

			songs = append(songs, models.Song{
				ID:         videoID,
				Title:      item.Snippet.Title,
				Artist:     item.Snippet.VideoOwnerChannelName,
				Thumbnail:  item.Snippet.Thumbnails.Medium.URL,
				UploadDate: uploadDate,
				Selected:   true,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if err := y.fillDurations(ctx, songs); err != nil {
		return nil, err
	}

	return songs, nil
}

// fillDurations resolves video durations in batches of 50.
func (y *YouTubeService) fillDurations(ctx context.Context, songs []models.Song) error {
	index := make(map[string]int, len(songs))
	for i, song := range songs {
		index[song.ID] = i
	}

	for start := 0; start < len(songs); start += youtubeBatchSize {
		end := start + youtubeBatchSize
		if end > len(songs) {
			end = len(songs)
		}

		ids := make([]string, 0, end-start)
		for _, song := range songs[start:end] {
			ids = append(ids, song.ID)
		}

		params := url.Values{
			"part": {"contentDetails"},
			"id":   {strings.Join(ids, ",")},
			"key":  {y.apiKey},
		}

		var page videosResponse
		if err := y.get(ctx, "/videos?"+params.Encode(), &page); err != nil {
			return err
		}

		for _, item := range page.Items {
			if i, ok := index[item.ID]; ok {
				songs[i].Duration = FormatISODuration(item.ContentDetails.Duration)
			}
		}
	}

	return nil
}

func (y *YouTubeService) get(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: youtube status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: youtube status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

var playlistParam = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)

// ParsePlaylistID accepts either a bare playlist ID or a full YouTube URL
// and returns the playlist ID.
func ParsePlaylistID(input string) string {
	input = strings.TrimSpace(input)
	if m := playlistParam.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	if strings.Contains(input, "://") {
		return ""
	}
	return input
}

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatISODuration converts an ISO 8601 duration ("PT3M53S") into the
// "M:SS" or "H:MM:SS" form used by source items. Unparsable input yields an
// empty string, which the scorers treat as unknown.
func FormatISODuration(iso string) string {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}

	hours, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	seconds, _ := strconv.Atoi(zeroIfEmpty(m[3]))

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
