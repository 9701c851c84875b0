package main

import (
	"github.com/urfave/cli/v3"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to config.toml",
	Value:   "config.toml",
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "enable debug logging",
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and initialize the match cache database",
		Flags:  []cli.Flag{configFlag, verboseFlag},
		Action: r.Setup,
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Spotify via the browser",
				Flags:  []cli.Flag{configFlag, verboseFlag},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current authentication status",
				Flags:  []cli.Flag{configFlag, verboseFlag},
				Action: r.AuthStatus,
			},
		},
	}
}

func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a YouTube playlist to a Spotify playlist",
		ArgsUsage: "<playlist-url-or-id>",
		Flags: []cli.Flag{
			configFlag,
			verboseFlag,
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "name for the created Spotify playlist",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "description for the created Spotify playlist",
				Value: "Converted from YouTube",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "match songs without creating a playlist",
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"r"},
				Usage:   "write a conversion report to this path",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "report format: csv, markdown, or json",
				Value:   "csv",
			},
		},
		Action: r.Convert,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the Spotify catalog, for finding manual replacements",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			configFlag,
			verboseFlag,
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
		},
		Action: r.Search,
	}
}

func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and prune the match cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show how many matches are cached",
				Flags:  []cli.Flag{configFlag, verboseFlag},
				Action: r.CacheStats,
			},
			{
				Name:      "forget",
				Usage:     "Drop the cached match for a video so it is re-matched",
				ArgsUsage: "<video-id>",
				Flags:     []cli.Flag{configFlag, verboseFlag},
				Action:    r.CacheForget,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Usage:     "Review matches interactively before creating the playlist",
		ArgsUsage: "<playlist-url-or-id>",
		Flags: []cli.Flag{
			configFlag,
			verboseFlag,
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "name for the created Spotify playlist",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "redirect logs here while the TUI is running",
				Value: "tunemigrate.log",
			},
		},
		Action: r.TUI,
	}
}
