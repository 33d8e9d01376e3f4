package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, csv, markdown or json",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// playCommand returns the top-level command that starts the interactive player.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs here while the player owns the terminal",
			},
		},
		Action: r.TUI,
	}
}

func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "List the song catalog",
		Flags: append(formatFlags(),
			&cli.StringFlag{
				Name:    "album",
				Aliases: []string{"a"},
				Usage:   "Only list songs from this album",
			},
		),
		Action: r.Songs,
	}
}

func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "albums",
		Usage:  "List the album catalog",
		Flags:  formatFlags(),
		Action: r.Albums,
	}
}

// historyCommand reads the opt-in play history database.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently played songs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of rows",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "top",
				Usage: "Show play counts per song instead of individual plays",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Delete all recorded plays",
			},
		},
		Action: r.History,
	}
}

// apiCommand handles direct requests against the catalog backend.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct catalog API access",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Make a GET request to the catalog API",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "dump",
				Usage: "Fetch health, songs and albums in one document",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIDump,
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles configuration and database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml populated with defaults",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the play history database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// serveCommand serves a JSON fixture or a scanned music directory as a local catalog API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve-fixture",
		Usage: "Serve a catalog fixture file or music directory for local development",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Scan this music directory instead of reading a fixture file",
			},
			&cli.StringFlag{
				Name:  "public-url",
				Usage: "Origin used in song file URLs (default derived from --addr)",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Reload the catalog when the fixture or library changes",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address",
				Value: "localhost:4000",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Artificial latency per catalog response",
			},
			&cli.StringFlag{
				Name:  "client-id",
				Usage: "Require client-credentials tokens issued to this client",
			},
			&cli.StringFlag{
				Name:  "client-secret",
				Usage: "Secret for --client-id",
			},
			&cli.DurationFlag{
				Name:  "token-ttl",
				Usage: "Lifetime of issued tokens",
				Value: time.Hour,
			},
		},
		Action: r.ServeFixture,
	}
}
