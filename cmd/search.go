package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/matcher"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search runs a free-text catalog search and prints the candidates, used to
// find a manual replacement for an unmatched or poorly matched song.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	query := strings.Join(cmd.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	spotify, err := r.spotifyService()
	if err != nil {
		return err
	}

	engine, cleanup, err := r.buildEngine(spotify)
	if err != nil {
		return err
	}
	defer cleanup()

	candidates, err := engine.SearchReplacement(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidates, true)
	}

	for i, candidate := range candidates {
		duration := matcher.FormatDuration(candidate.DurationMS)
		if err := r.writePlain("%2d. %s - %s (%s) [%s]\n    %s\n",
			i+1, strings.Join(candidate.Artists, ", "), candidate.Title,
			candidate.Album, duration, candidate.URI); err != nil {
			return err
		}
	}

	return nil
}
