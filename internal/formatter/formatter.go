// package formatter provides functions to export conversion reports to various formats (CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/matcher"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
)

// Report pairs a conversion result with the songs it covered.
type Report struct {
	Playlist models.ConversionResult `json:"playlist"`
	Songs    []models.Song           `json:"songs"`
}

// ReportToCSV converts a conversion report to CSV format with one row per
// selected song: VideoID, Title, SpotifyTitle, SpotifyArtist, Confidence, Tier, Status
func ReportToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"VideoID", "Title", "SpotifyTitle", "SpotifyArtist", "Confidence", "Tier", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i := range report.Songs {
		song := &report.Songs[i]
		if !song.Selected {
			continue
		}

		record := []string{
			song.ID,
			song.Title,
			song.SpotifyTitle,
			song.SpotifyArtist,
			strconv.Itoa(song.MatchConfidence),
			tierLabel(song),
			statusLabel(song),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a conversion report to Markdown format.
func ReportToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Conversion Report\n\n")
	buf.WriteString(fmt.Sprintf("**Matched**: %d/%d\n", report.Playlist.MatchedCount, report.Playlist.TotalCount))
	if report.Playlist.PlaylistURL != "" {
		buf.WriteString(fmt.Sprintf("**Playlist**: %s\n", report.Playlist.PlaylistURL))
	}
	buf.WriteString("\n## Songs\n\n")
	buf.WriteString("| # | Source | Matched | Confidence | Status |\n")
	buf.WriteString("|---|--------|---------|------------|--------|\n")

	n := 0
	for i := range report.Songs {
		song := &report.Songs[i]
		if !song.Selected {
			continue
		}
		n++

		matched := "-"
		confidence := "-"
		if song.Matched() {
			matched = fmt.Sprintf("%s - %s", song.SpotifyArtist, song.SpotifyTitle)
			confidence = fmt.Sprintf("%d%% (%s)", song.MatchConfidence, tierLabel(song))
		}

		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n", n, song.Title, matched, confidence, statusLabel(song)))
	}

	return buf.Bytes(), nil
}

// ReportToJSON generates a JSON representation of the full report.
func ReportToJSON(report *Report) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// WriteReport writes a report to disk in the requested format. Supported
// formats are "csv", "markdown" (or "md") and "json".
func WriteReport(report *Report, path, format string) error {
	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = ReportToCSV(report)
	case "markdown", "md":
		data, err = ReportToMarkdown(report)
	case "json":
		data, err = ReportToJSON(report)
	default:
		return fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}

func tierLabel(song *models.Song) string {
	if !song.Matched() {
		return ""
	}
	return matcher.ConfidenceTier(song.MatchConfidence)
}

func statusLabel(song *models.Song) string {
	switch {
	case song.IsReplacement:
		return "replaced"
	case song.ManuallyApproved:
		return "approved"
	case song.Matched():
		return "matched"
	default:
		return "unmatched"
	}
}
