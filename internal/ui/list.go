package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/matcher"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps a [models.Song] to implement [list.Item]. The description
// shows the match with its confidence tier, colored via the palette.
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }

func (i songItem) Title() string {
	marker := "[ ]"
	if i.song.Selected {
		marker = "[x]"
	}
	return fmt.Sprintf("%s %s", marker, i.song.Title)
}

func (i songItem) Description() string {
	if !i.song.Matched() {
		return styles.err.Render("no match")
	}

	tier := matcher.ConfidenceTier(i.song.MatchConfidence)
	label := fmt.Sprintf("%s - %s • %d%% %s", i.song.SpotifyArtist, i.song.SpotifyTitle, i.song.MatchConfidence, tier)
	if i.song.IsReplacement {
		label += " • replaced"
	} else if i.song.ManuallyApproved {
		label += " • approved"
	}
	return styles.TierStyle(tier).Render(label)
}
