package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
)

func newTestSpotify(t *testing.T, handler http.Handler) (*SpotifyService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewSpotifyService(shared.SpotifyConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, &Credential{
		AccessToken:  "stale-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	svc.baseURL = server.URL
	svc.tokenURL = server.URL + "/api/token"
	return svc, server
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("requires client id", func(t *testing.T) {
		_, err := NewSpotifyService(shared.SpotifyConfig{ClientSecret: "s"}, nil)
		assert.ErrorIs(t, err, shared.ErrMissingCredentials)
	})

	t.Run("requires client secret", func(t *testing.T) {
		_, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "c"}, nil)
		assert.ErrorIs(t, err, shared.ErrMissingCredentials)
	})

	t.Run("nil credential becomes zero credential", func(t *testing.T) {
		svc, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "c", ClientSecret: "s"}, nil)
		require.NoError(t, err)
		require.NotNil(t, svc.Credential())
		assert.False(t, svc.Credential().Valid())
	})
}

func TestSpotifyRefreshRetry(t *testing.T) {
	t.Run("401 refreshes once and retries the same request", func(t *testing.T) {
		var searchCalls, refreshCalls int

		mux := http.NewServeMux()
		mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls++
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
			assert.Equal(t, "refresh-token", r.FormValue("refresh_token"))

			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "fresh-token",
				"expires_in":   3600,
			})
		})
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			searchCalls++
			if r.Header.Get("Authorization") != "Bearer fresh-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(searchResponse{})
		})

		svc, _ := newTestSpotify(t, mux)

		_, err := svc.SearchByTitle(context.Background(), "Shape of You")
		require.NoError(t, err)

		assert.Equal(t, 2, searchCalls)
		assert.Equal(t, 1, refreshCalls)
		assert.Equal(t, "fresh-token", svc.Credential().AccessToken)
		// missing refresh_token in the response keeps the existing one
		assert.Equal(t, "refresh-token", svc.Credential().RefreshToken)
	})

	t.Run("401 after refresh surfaces auth expired", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "still-rejected",
				"expires_in":   3600,
			})
		})
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		svc, _ := newTestSpotify(t, mux)

		_, err := svc.SearchByTitle(context.Background(), "anything")
		assert.ErrorIs(t, err, shared.ErrAuthExpired)
	})

	t.Run("refresh failure is terminal", func(t *testing.T) {
		var searchCalls int

		mux := http.NewServeMux()
		mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			searchCalls++
			w.WriteHeader(http.StatusUnauthorized)
		})

		svc, _ := newTestSpotify(t, mux)

		_, err := svc.SearchByTitle(context.Background(), "anything")
		assert.ErrorIs(t, err, shared.ErrRefreshFailed)
		assert.Equal(t, 1, searchCalls)
	})

	t.Run("no refresh token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		svc, _ := newTestSpotify(t, mux)
		svc.Credential().RefreshToken = ""

		_, err := svc.SearchByTitle(context.Background(), "anything")
		assert.ErrorIs(t, err, shared.ErrNoRefreshToken)
	})

	t.Run("empty access token never hits the network", func(t *testing.T) {
		svc, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		}))
		svc.Credential().AccessToken = ""

		_, err := svc.SearchByTitle(context.Background(), "anything")
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})
}

func TestSpotifySearch(t *testing.T) {
	track := SpotifyTrack{
		ID:         "sp1",
		Name:       "Shape of You",
		URI:        "spotify:track:sp1",
		Artists:    []SpotifyArtist{{Name: "Ed Sheeran"}},
		DurationMS: 233713,
		Popularity: 85,
	}
	track.Album.Name = "Divide"
	track.Album.ReleaseDate = "2017-03-03"
	track.Album.Images = []SpotifyImage{{URL: "https://img.example/cover.jpg"}}

	var lastQuery, lastLimit string
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		lastQuery = r.URL.Query().Get("q")
		lastLimit = r.URL.Query().Get("limit")
		assert.Equal(t, "track", r.URL.Query().Get("type"))

		var response searchResponse
		response.Tracks.Items = []SpotifyTrack{track}
		json.NewEncoder(w).Encode(response)
	})

	svc, _ := newTestSpotify(t, mux)

	t.Run("by title", func(t *testing.T) {
		candidates, err := svc.SearchByTitle(context.Background(), "Shape of You")
		require.NoError(t, err)
		require.Len(t, candidates, 1)

		assert.Equal(t, `track:"Shape of You"`, lastQuery)
		assert.Equal(t, "8", lastLimit)

		got := candidates[0]
		assert.Equal(t, "sp1", got.ID)
		assert.Equal(t, "spotify:track:sp1", got.URI)
		assert.Equal(t, []string{"Ed Sheeran"}, got.Artists)
		assert.Equal(t, "Divide", got.Album)
		assert.Equal(t, "2017-03-03", got.ReleaseDate)
		assert.Equal(t, 233713, got.DurationMS)
		assert.Equal(t, "https://img.example/cover.jpg", got.Thumbnail)
	})

	t.Run("by title and artist", func(t *testing.T) {
		_, err := svc.SearchByTitleAndArtist(context.Background(), "Shape of You", "Ed Sheeran")
		require.NoError(t, err)
		assert.Equal(t, `track:"Shape of You" artist:"Ed Sheeran"`, lastQuery)
		assert.Equal(t, "5", lastLimit)
	})

	t.Run("free text", func(t *testing.T) {
		_, err := svc.SearchFreeText(context.Background(), "shape of you ed sheeran")
		require.NoError(t, err)
		assert.Equal(t, "shape of you ed sheeran", lastQuery)
		assert.Equal(t, "10", lastLimit)
	})
}

func TestSpotifyCatalogError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"status": 429, "message": "rate limit exceeded"},
		})
	})

	svc, _ := newTestSpotify(t, mux)

	_, err := svc.SearchByTitle(context.Background(), "anything")
	require.Error(t, err)

	var catalogErr *shared.CatalogError
	require.True(t, errors.As(err, &catalogErr))
	assert.Equal(t, http.StatusTooManyRequests, catalogErr.Status)
	assert.Equal(t, "rate limit exceeded", catalogErr.Message)
}

func TestSpotifyCreatePlaylist(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SpotifyUser{ID: "user42"})
	})
	mux.HandleFunc("/users/user42/playlists", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["public"])

		playlist := SpotifyPlaylist{ID: "pl1", Name: body["name"].(string)}
		playlist.ExternalURLs.Spotify = "https://open.spotify.com/playlist/pl1"
		json.NewEncoder(w).Encode(playlist)
	})

	svc, _ := newTestSpotify(t, mux)

	playlist, err := svc.CreatePlaylist(context.Background(), "Converted", "from a playlist")
	require.NoError(t, err)

	assert.Equal(t, "pl1", playlist.ID)
	assert.Equal(t, "Converted", playlist.Name)
	assert.Equal(t, "https://open.spotify.com/playlist/pl1", playlist.URL)
	assert.False(t, playlist.Public)
}

func TestSpotifyAddTracks(t *testing.T) {
	t.Run("chunks uris at 100 per call", func(t *testing.T) {
		var chunkSizes []int

		mux := http.NewServeMux()
		mux.HandleFunc("/playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				URIs []string `json:"uris"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			chunkSizes = append(chunkSizes, len(body.URIs))
			w.WriteHeader(http.StatusCreated)
		})

		svc, _ := newTestSpotify(t, mux)

		uris := make([]string, 250)
		for i := range uris {
			uris[i] = "spotify:track:" + strings.Repeat("x", 3)
		}

		require.NoError(t, svc.AddTracks(context.Background(), "pl1", uris))
		assert.Equal(t, []int{100, 100, 50}, chunkSizes)
	})

	t.Run("empty uri list is invalid input", func(t *testing.T) {
		svc, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		}))

		err := svc.AddTracks(context.Background(), "pl1", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCredential(t *testing.T) {
	t.Run("valid within expiry", func(t *testing.T) {
		cred := &Credential{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Minute)}
		assert.True(t, cred.Valid())
	})

	t.Run("invalid when expired or empty", func(t *testing.T) {
		assert.False(t, (&Credential{AccessToken: "tok", ExpiresAt: time.Now().Add(-time.Minute)}).Valid())
		assert.False(t, (&Credential{ExpiresAt: time.Now().Add(time.Minute)}).Valid())
		var nilCred *Credential
		assert.False(t, nilCred.Valid())
	})

	t.Run("update applies safety margin", func(t *testing.T) {
		cred := &Credential{RefreshToken: "keep-me"}
		cred.Update("tok", "", 3600)

		assert.Equal(t, "tok", cred.AccessToken)
		assert.Equal(t, "keep-me", cred.RefreshToken)
		assert.WithinDuration(t, time.Now().Add(55*time.Minute), cred.ExpiresAt, 5*time.Second)
	})

	t.Run("round trips through file", func(t *testing.T) {
		path := t.TempDir() + "/credential.json"
		cred := &Credential{AccessToken: "tok", RefreshToken: "ref", ExpiresAt: time.Now().Add(time.Hour).UTC()}

		require.NoError(t, SaveCredential(path, cred))

		loaded, err := LoadCredential(path)
		require.NoError(t, err)
		assert.Equal(t, cred.AccessToken, loaded.AccessToken)
		assert.Equal(t, cred.RefreshToken, loaded.RefreshToken)
		assert.WithinDuration(t, cred.ExpiresAt, loaded.ExpiresAt, time.Second)
	})
}
