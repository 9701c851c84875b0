// Spotify Web API client
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Result caps per search mode.
	titleSearchLimit    = 8
	combinedSearchLimit = 5
	freeTextSearchLimit = 10

	// Spotify accepts at most 100 URIs per add-tracks call.
	addTracksChunkSize = 100
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Images      []SpotifyImage `json:"images"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyPlaylist represents a created Spotify playlist.
type SpotifyPlaylist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Public       bool   `json:"public"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type searchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

type apiErrorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService is the destination catalog client. All operations share the
// single mutable [Credential] and apply the one-shot refresh policy: a 401
// triggers one token refresh and one retry of the same request before the
// failure is surfaced.
type SpotifyService struct {
	clientID     string
	clientSecret string
	redirectURI  string
	credential   *Credential
	httpClient   *http.Client
	baseURL      string
	tokenURL     string
	userID       string // cached after the first /me call
}

// NewSpotifyService creates a Spotify client around an existing credential.
// The credential may be zero-valued before authentication.
func NewSpotifyService(cfg shared.SpotifyConfig, cred *Credential) (*SpotifyService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}
	if cred == nil {
		cred = &Credential{}
	}

	return &SpotifyService{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  redirectURI,
		credential:   cred,
		httpClient:   http.DefaultClient,
		baseURL:      spotifyBaseURL,
		tokenURL:     spotifyTokenURL,
	}, nil
}

// Credential returns the mutable credential shared by all operations.
func (s *SpotifyService) Credential() *Credential {
	return s.credential
}

// OAuthConfig returns the OAuth2 authorization-code configuration for the
// login flow.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  s.redirectURI,
		Scopes: []string{
			"user-read-private",
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: s.tokenURL,
		},
	}
}

// AdoptToken applies an exchanged OAuth2 token to the service credential.
func (s *SpotifyService) AdoptToken(token *oauth2.Token) {
	s.credential.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.credential.RefreshToken = token.RefreshToken
	}
	s.credential.ExpiresAt = token.Expiry.Add(-refreshSafetyMargin)
}

// Refresh exchanges the refresh token for a new access token and mutates the
// credential in place. Refresh failure is terminal for the current operation;
// the caller must re-authenticate.
func (s *SpotifyService) Refresh(ctx context.Context) error {
	if s.credential.RefreshToken == "" {
		return shared.ErrNoRefreshToken
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {s.credential.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrRefreshFailed, resp.StatusCode)
	}

	var token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrRefreshFailed)
	}

	s.credential.Update(token.AccessToken, token.RefreshToken, token.ExpiresIn)
	return nil
}

// doRequest performs an authenticated request with the one-shot refresh
// policy. Non-2xx responses other than the first 401 become CatalogErrors.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.credential.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}

	status, err := s.send(ctx, method, endpoint, body, result)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		return nil
	}

	// Rejected credential: refresh once and retry the same request.
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	status, err = s.send(ctx, method, endpoint, body, result)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: re-authentication required", shared.ErrAuthExpired)
	}

	return nil
}

// send performs a single HTTP round trip. A 401 status is returned to the
// caller for the refresh policy; other non-2xx statuses become CatalogErrors.
func (s *SpotifyService) send(ctx context.Context, method, endpoint string, body, result any) (int, error) {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.credential.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiErrorResponse
		message := ""
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			message = apiErr.Error.Message
		}
		return resp.StatusCode, shared.NewCatalogError(resp.StatusCode, message)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// CurrentUser retrieves the authenticated user's profile and caches the user ID.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	s.userID = user.ID
	return &user, nil
}

// ValidateCredential confirms the credential is usable by fetching /me.
func (s *SpotifyService) ValidateCredential(ctx context.Context) error {
	_, err := s.CurrentUser(ctx)
	return err
}

// SearchByTitle queries the catalog scoped to the track-title field.
func (s *SpotifyService) SearchByTitle(ctx context.Context, title string) ([]models.Candidate, error) {
	query := fmt.Sprintf("track:%q", title)
	return s.search(ctx, query, titleSearchLimit)
}

// SearchByTitleAndArtist queries the catalog scoped to title and artist fields.
func (s *SpotifyService) SearchByTitleAndArtist(ctx context.Context, title, artist string) ([]models.Candidate, error) {
	query := fmt.Sprintf("track:%q artist:%q", title, artist)
	return s.search(ctx, query, combinedSearchLimit)
}

// SearchFreeText runs an unscoped search, used for manual search and replace.
func (s *SpotifyService) SearchFreeText(ctx context.Context, query string) ([]models.Candidate, error) {
	return s.search(ctx, query, freeTextSearchLimit)
}

func (s *SpotifyService) search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(response.Tracks.Items))
	for _, track := range response.Tracks.Items {
		candidates = append(candidates, toCandidate(track))
	}
	return candidates, nil
}

// CreatePlaylist creates a private playlist for the authenticated user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	if s.userID == "" {
		if _, err := s.CurrentUser(ctx); err != nil {
			return nil, err
		}
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		URL:         playlist.ExternalURLs.Spotify,
		Public:      playlist.Public,
	}, nil
}

// AddTracks adds URIs to a playlist in chunks of at most 100 per call.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(uris); start += addTracksChunkSize {
		end := start + addTracksChunkSize
		if end > len(uris) {
			end = len(uris)
		}

		body := map[string]any{"uris": uris[start:end]}
		if err := s.doRequest(ctx, http.MethodPost, endpoint, body, nil); err != nil {
			return err
		}
	}

	return nil
}

// toCandidate converts a catalog track into the engine's candidate DTO.
func toCandidate(track SpotifyTrack) models.Candidate {
	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}

	thumbnail := ""
	if len(track.Album.Images) > 0 {
		thumbnail = track.Album.Images[0].URL
	}

	return models.Candidate{
		ID:          track.ID,
		URI:         track.URI,
		Title:       track.Name,
		Artists:     artists,
		Album:       track.Album.Name,
		ReleaseDate: track.Album.ReleaseDate,
		DurationMS:  track.DurationMS,
		Popularity:  track.Popularity,
		Thumbnail:   thumbnail,
	}
}
