// package tasks implements the playlist conversion engine.
//
// The core abstraction is ConvertEngine, which matches source songs against
// the destination catalog and creates the destination playlist. Operations
// emit progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/ai"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/matcher"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
)

// consecutiveFailureLimit aborts a match run when this many songs in a row
// fail even after their in-place retry. Matches found before the abort are
// preserved.
const consecutiveFailureLimit = 3

// Catalog defines the destination catalog operations the engine depends on.
// This abstraction allows for easier testing and decoupling from the concrete
// Spotify client.
type Catalog interface {
	SearchByTitle(ctx context.Context, title string) ([]models.Candidate, error)
	SearchByTitleAndArtist(ctx context.Context, title, artist string) ([]models.Candidate, error)
	SearchFreeText(ctx context.Context, query string) ([]models.Candidate, error)
	CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) error
	ValidateCredential(ctx context.Context) error
}

// CachedMatch is a previously resolved video-to-track match.
type CachedMatch struct {
	SpotifyID  string
	URI        string
	Title      string
	Artist     string
	Confidence int
}

// MatchCacher persists resolved matches so repeated runs skip catalog
// searches for songs already matched. Implementations key on the source video
// ID but may also recognize the same track under a different video.
type MatchCacher interface {
	GetMatch(song *models.Song) (*CachedMatch, bool)
	PutMatch(song *models.Song) error
}

// MatchRunResult summarizes a completed match run over a song list.
type MatchRunResult struct {
	MatchedCount int // Songs with an accepted match
	FailedCount  int // Selected songs left unmatched
	TotalCount   int // Selected songs processed
}

// ConvertEngine matches songs and creates destination playlists. The assist
// and cache dependencies are optional; a nil assist runs the heuristic
// pipeline alone and a nil cache disables match reuse.
type ConvertEngine struct {
	catalog         Catalog
	assist          ai.Assist
	cache           MatchCacher
	limiter         *rate.Limiter
	acceptThreshold int
	logger          *log.Logger
}

// NewConvertEngine creates a ConvertEngine around a destination catalog.
func NewConvertEngine(catalog Catalog, assist ai.Assist, cache MatchCacher, cfg shared.MatchingConfig, logger *log.Logger) *ConvertEngine {
	threshold := cfg.AcceptThreshold
	if threshold <= 0 {
		threshold = matcher.DefaultAcceptThreshold
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 3
	}

	return &ConvertEngine{
		catalog:         catalog,
		assist:          assist,
		cache:           cache,
		limiter:         rate.NewLimiter(rate.Limit(limit), 1),
		acceptThreshold: threshold,
		logger:          logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ConvertEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// MatchAll resolves a destination match for every selected song, mutating the
// slice in place. Each song gets one in-place retry on failure; three
// consecutive post-retry failures abort the run with ErrConversionAborted
// while keeping the matches found so far. A credential rejected after its
// one-shot refresh aborts immediately.
func (e *ConvertEngine) MatchAll(ctx context.Context, songs []models.Song, progress chan<- ProgressUpdate) (*MatchRunResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	result := &MatchRunResult{}
	for i := range songs {
		if songs[i].Selected {
			result.TotalCount++
		}
	}

	if e.logger != nil {
		e.logger.Info("starting match run", "run", shared.GenerateID(), "songs", result.TotalCount)
	}

	step := 0
	consecutiveFailures := 0

	for i := range songs {
		song := &songs[i]
		if !song.Selected {
			continue
		}
		step++

		e.sendProgress(progress, matchingUpdate(step, result.TotalCount, song))

		if e.applyCached(song) {
			result.MatchedCount++
			consecutiveFailures = 0
			e.sendProgress(progress, matchedUpdate(step, result.TotalCount, song))
			continue
		}

		err := e.matchOne(ctx, song)
		if err != nil {
			// One retry in place before the song counts as failed. An empty
			// candidate list is deterministic and not worth a second search.
			if terminalMatchErr(err) {
				return result, err
			}
			if !errors.Is(err, shared.ErrNoCandidates) {
				err = e.matchOne(ctx, song)
			}
		}

		if err != nil {
			if terminalMatchErr(err) {
				return result, err
			}

			result.FailedCount++
			consecutiveFailures++
			e.sendProgress(progress, matchFailedUpdate(step, result.TotalCount, song, err))

			if e.logger != nil {
				e.logger.Warn("match failed", "title", song.Title, "error", err)
			}

			if consecutiveFailures >= consecutiveFailureLimit {
				return result, fmt.Errorf("%w: %d songs in a row failed", shared.ErrConversionAborted, consecutiveFailures)
			}
			continue
		}

		result.MatchedCount++
		consecutiveFailures = 0

		if e.cache != nil {
			if err := e.cache.PutMatch(song); err != nil && e.logger != nil {
				e.logger.Warn("failed to cache match", "video_id", song.ID, "error", err)
			}
		}

		e.sendProgress(progress, matchedUpdate(step, result.TotalCount, song))
	}

	return result, nil
}

// applyCached attaches a cached match to the song when one exists.
func (e *ConvertEngine) applyCached(song *models.Song) bool {
	if e.cache == nil {
		return false
	}

	cached, ok := e.cache.GetMatch(song)
	if !ok || cached.Confidence < e.acceptThreshold {
		return false
	}

	song.SpotifyID = cached.SpotifyID
	song.SpotifyURI = cached.URI
	song.SpotifyTitle = cached.Title
	song.SpotifyArtist = cached.Artist
	song.MatchConfidence = cached.Confidence
	return true
}

// matchOne searches the catalog for a single song and attaches the best
// acceptable match. A best score at or below the accept threshold widens the
// search with the extracted artist, then consults the assist analysis, before
// settling.
func (e *ConvertEngine) matchOne(ctx context.Context, song *models.Song) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}

	details := e.extractDetails(ctx, song.Title)

	title := matcher.CleanTitle(song.Title)
	if details != nil && details.Confidence > 60 && details.Title != "" {
		title = details.Title
	}
	if title == "" {
		title = song.Title
	}

	candidates, err := e.catalog.SearchByTitle(ctx, title)
	if err != nil {
		return err
	}

	best := matcher.SelectBestMatch(song, candidates, details)

	if best == nil || best.Confidence <= e.acceptThreshold {
		widened, err := e.widenSearch(ctx, song, title, details)
		if err != nil {
			return err
		}
		if widened != nil && (best == nil || widened.Confidence > best.Confidence) {
			best = widened
		}
	}

	if best == nil {
		return fmt.Errorf("%w: %q", shared.ErrNoCandidates, song.Title)
	}

	if best.Confidence <= e.acceptThreshold {
		best = e.refineMatch(ctx, song, best)
	}

	attachMatch(song, best)
	return nil
}

// refineMatch asks the assist capability to analyze a borderline best match
// and rescores it with the analysis. Any failure keeps the heuristic match.
func (e *ConvertEngine) refineMatch(ctx context.Context, song *models.Song, best *matcher.Match) *matcher.Match {
	if e.assist == nil {
		return best
	}

	analysis, err := e.assist.AnalyzeSongDetails(ctx, song.Title, song.Artist)
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("assist analysis unavailable, keeping heuristic match", "error", err)
		}
		return best
	}

	return matcher.RefineMatch(song, best, analysis)
}

// widenSearch retries with the title and artist fields scoped.
func (e *ConvertEngine) widenSearch(ctx context.Context, song *models.Song, title string, details *ai.SongDetails) (*matcher.Match, error) {
	artist := matcher.ExtractArtist(song.Title)
	if details != nil && details.Confidence > 60 && details.Artist != "" {
		artist = details.Artist
	}
	if artist == "" {
		artist = song.Artist
	}
	if artist == "" {
		return nil, nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	candidates, err := e.catalog.SearchByTitleAndArtist(ctx, title, artist)
	if err != nil {
		return nil, err
	}

	return matcher.SelectBestMatch(song, candidates, details), nil
}

// extractDetails asks the assist capability for a structured extraction.
// Any failure degrades silently to the heuristic pipeline.
func (e *ConvertEngine) extractDetails(ctx context.Context, rawTitle string) *ai.SongDetails {
	if e.assist == nil {
		return nil
	}

	details, err := e.assist.ExtractSongDetails(ctx, rawTitle)
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("assist unavailable, using heuristics", "error", err)
		}
		return nil
	}
	return details
}

// attachMatch copies a selected match onto the song.
func attachMatch(song *models.Song, match *matcher.Match) {
	song.SpotifyID = match.Candidate.ID
	song.SpotifyURI = match.Candidate.URI
	song.SpotifyTitle = match.Candidate.Title
	song.SpotifyArtist = match.Candidate.PrimaryArtist()
	song.SpotifyThumbnail = match.Candidate.Thumbnail
	song.SpotifyDuration = matcher.FormatDuration(match.Candidate.DurationMS)
	song.MatchConfidence = match.Confidence
	song.IsReplacement = false
}

// terminalMatchErr reports whether a match error must abort the whole run
// instead of counting against the failure budget.
func terminalMatchErr(err error) bool {
	for _, sentinel := range []error{
		shared.ErrAuthExpired,
		shared.ErrRefreshFailed,
		shared.ErrNoRefreshToken,
		shared.ErrNotAuthenticated,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// CreateFromSongs creates the destination playlist and adds every matched,
// selected song. The credential is validated up front so a stale token fails
// before any playlist is created; playlist creation failure leaves the
// destination untouched.
func (e *ConvertEngine) CreateFromSongs(ctx context.Context, songs []models.Song, name, description string, progress chan<- ProgressUpdate) (*models.ConversionResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name required", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, validateAuthUpdate())
	if err := e.catalog.ValidateCredential(ctx); err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(songs))
	total := 0
	for i := range songs {
		song := &songs[i]
		if !song.Selected {
			continue
		}
		total++
		if song.Matched() {
			uris = append(uris, song.SpotifyURI)
		}
	}

	if len(uris) == 0 {
		return nil, fmt.Errorf("%w: no matched songs to add", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, creatingPlaylistUpdate(name))
	playlist, err := e.catalog.CreatePlaylist(ctx, name, description)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, createPlaylistUpdate(playlist))

	e.sendProgress(progress, addTracksUpdate(len(uris)))
	if err := e.catalog.AddTracks(ctx, playlist.ID, uris); err != nil {
		return nil, fmt.Errorf("playlist %s created but adding tracks failed: %w", playlist.ID, err)
	}

	return &models.ConversionResult{
		PlaylistID:   playlist.ID,
		PlaylistURL:  playlist.URL,
		MatchedCount: len(uris),
		TotalCount:   total,
	}, nil
}

// SearchReplacement runs a free-text catalog search for manual replacement.
func (e *ConvertEngine) SearchReplacement(ctx context.Context, query string) ([]models.Candidate, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	candidates, err := e.catalog.SearchFreeText(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrNoCandidates, query)
	}
	return candidates, nil
}

// ApplyReplacement attaches a manually chosen candidate to the song. A
// replacement bypasses scoring entirely and is always kept.
func (e *ConvertEngine) ApplyReplacement(song *models.Song, candidate models.Candidate) {
	song.SpotifyID = candidate.ID
	song.SpotifyURI = candidate.URI
	song.SpotifyTitle = candidate.Title
	song.SpotifyArtist = candidate.PrimaryArtist()
	song.SpotifyThumbnail = candidate.Thumbnail
	song.SpotifyDuration = matcher.FormatDuration(candidate.DurationMS)
	song.MatchConfidence = 100
	song.ManuallyApproved = true
	song.IsReplacement = true

	if e.cache != nil {
		if err := e.cache.PutMatch(song); err != nil && e.logger != nil {
			e.logger.Warn("failed to cache replacement", "video_id", song.ID, "error", err)
		}
	}
}

// ApproveMatch marks a low-confidence match as manually reviewed.
func (e *ConvertEngine) ApproveMatch(song *models.Song) {
	if song.Matched() {
		song.ManuallyApproved = true
	}
}
