package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	ErrTimeout = fmt.Errorf("operation timed out")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// ErrAuthExpired indicates the credential was still rejected after one refresh attempt.
	// The caller must re-authenticate before retrying.
	ErrAuthExpired = fmt.Errorf("credential rejected after refresh")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrNoCandidates       = fmt.Errorf("search returned no candidates")

	// ErrAssistUnavailable is internal to the matching pipeline: the AI assist capability
	// failed or is not configured. Always converted to the heuristic fallback, never surfaced.
	ErrAssistUnavailable = fmt.Errorf("assist unavailable")

	// ErrConversionAborted indicates the match run stopped early after
	// repeated consecutive failures. Matches found before the abort are kept.
	ErrConversionAborted = fmt.Errorf("conversion aborted after repeated failures")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// CatalogError is a non-2xx response from the destination catalog API.
type CatalogError struct {
	Status  int
	Message string
}

func (e *CatalogError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog error: status %d", e.Status)
	}
	return fmt.Sprintf("catalog error: status %d: %s", e.Status, e.Message)
}

// NewCatalogError creates a CatalogError from an HTTP status and message.
func NewCatalogError(status int, message string) *CatalogError {
	return &CatalogError{Status: status, Message: message}
}
