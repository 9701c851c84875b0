// package services defines clients for the external HTTP APIs the
// conversion engine consumes: the Spotify catalog, the YouTube Data API,
// and the token endpoint that refreshes Spotify credentials.
package services

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// refreshSafetyMargin is subtracted from the token lifetime so a credential
// is treated as expired slightly before the catalog would reject it.
const refreshSafetyMargin = 5 * time.Minute

// Credential is the mutable access credential threaded through every
// network-calling operation. Refresh mutates it in place; any operation
// hitting an expired or rejected credential performs at most one
// refresh-and-retry before surfacing failure.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Valid reports whether the credential has a token that is not past its
// safety-margin expiry.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && time.Now().Before(c.ExpiresAt)
}

// Update applies a token response to the credential. A missing refresh token
// in the response keeps the existing one.
func (c *Credential) Update(accessToken, refreshToken string, expiresIn int) {
	c.AccessToken = accessToken
	if refreshToken != "" {
		c.RefreshToken = refreshToken
	}
	c.ExpiresAt = time.Now().Add(time.Duration(expiresIn)*time.Second - refreshSafetyMargin)
}

// LoadCredential reads a credential from a JSON file.
func LoadCredential(path string) (*Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}

	return &cred, nil
}

// SaveCredential writes a credential to a JSON file with owner-only permissions.
func SaveCredential(path string, cred *Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	return nil
}
