package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
)

// Client implements [Assist] over a prompt/completion HTTP endpoint.
//
// The endpoint accepts {"model": ..., "prompt": ...} and returns a JSON body
// with a "completion" (or "text") field holding the model output. The output
// is expected to contain a JSON object matching the requested shape; anything
// else is treated as unavailable.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates an assist client. Returns nil when no endpoint is
// configured so callers can thread the absence through as a nil [Assist].
func NewClient(cfg shared.AssistConfig, httpClient *http.Client) *Client {
	if cfg.Endpoint == "" {
		return nil
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: httpClient,
	}
}

// ExtractSongDetails asks the capability for a structured extraction of a raw title.
func (c *Client) ExtractSongDetails(ctx context.Context, rawTitle string) (*SongDetails, error) {
	prompt := fmt.Sprintf(
		"Extract song information from this video title: %q\n"+
			"Respond with only a JSON object: {\"title\": string, \"artist\": string, \"features\": [string], \"isRemix\": bool, \"confidence\": 0-100}",
		rawTitle)

	var details SongDetails
	if err := c.complete(ctx, prompt, &details); err != nil {
		return nil, err
	}

	if details.Title == "" || details.Confidence < 0 || details.Confidence > 100 {
		return nil, fmt.Errorf("%w: implausible extraction", shared.ErrAssistUnavailable)
	}

	return &details, nil
}

// AnalyzeSongDetails asks the capability to classify a title/artist pair.
func (c *Client) AnalyzeSongDetails(ctx context.Context, title, artist string) (*SongAnalysis, error) {
	prompt := fmt.Sprintf(
		"Analyze the song %q by %q.\n"+
			"Respond with only a JSON object: {\"isRemix\": bool, \"isCover\": bool, \"isLive\": bool, \"isAcoustic\": bool, "+
			"\"extractedTitle\": string, \"extractedArtist\": string, \"confidence\": 0-100}",
		title, artist)

	var analysis SongAnalysis
	if err := c.complete(ctx, prompt, &analysis); err != nil {
		return nil, err
	}

	if analysis.Confidence < 0 || analysis.Confidence > 100 {
		return nil, fmt.Errorf("%w: implausible analysis", shared.ErrAssistUnavailable)
	}

	return &analysis, nil
}

// complete sends a prompt and parses the first JSON object out of the
// completion text into result.
func (c *Client) complete(ctx context.Context, prompt string, result any) error {
	reqBody, err := json.Marshal(map[string]string{
		"model":  c.model,
		"prompt": prompt,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAssistUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAssistUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAssistUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAssistUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAssistUnavailable, err)
	}

	var completion struct {
		Completion string `json:"completion"`
		Text       string `json:"text"`
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAssistUnavailable, err)
	}

	text := completion.Completion
	if text == "" {
		text = completion.Text
	}

	payload, err := extractJSONObject(text)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(payload), result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAssistUnavailable, err)
	}

	return nil
}

// extractJSONObject pulls the first balanced JSON object out of free text.
// Models wrap responses in prose or code fences often enough that a plain
// unmarshal is not reliable.
func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in completion", shared.ErrAssistUnavailable)
	}
	return text[start : end+1], nil
}
