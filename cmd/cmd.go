// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/songboard/internal/formatter"
	"github.com/desertthunder/songboard/internal/services"
	"github.com/urfave/cli/v3"
)

// newApp builds the root command. Root flags are inherited by every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songboard",
		Usage:   "Browse trending music and search the Spotify catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Path to a dotenv file (ignored when missing)",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "direct",
				Usage: "Query Spotify in-process instead of through the songboard server",
			},
		},
		Before:   r.load,
		Commands: r.register(),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("Output format (%s)", strings.Join(formatter.Formats, ", ")),
		Value:   formatter.FormatText,
	}
}

func limitFlag(value int) cli.Flag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   fmt.Sprintf("Maximum number of results (1-%d)", services.MaxLimit),
		Value:   value,
	}
}

// serveCommand starts the HTTP API and the browser UI.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and browser UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the browser UI once the server is listening",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}

func trendingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "trending",
		Aliases: []string{"top"},
		Usage:   "List this year's most popular tracks",
		Flags:   []cli.Flag{formatFlag()},
		Action:  r.Trending,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search tracks by title, artist or album",
		ArgsUsage: "<query>",
		Flags:     []cli.Flag{formatFlag(), limitFlag(services.DefaultSearchLimit)},
		Action:    r.Search,
	}
}

func autocompleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "autocomplete",
		Aliases:   []string{"ac"},
		Usage:     "Show search suggestions for a partial query",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			limitFlag(services.DefaultAutocompleteLimit),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Autocomplete,
	}
}

func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Show details for a single track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			formatFlag(),
			&cli.StringFlag{
				Name:  "cover",
				Usage: "Download the cover image to this path",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the track on Spotify",
			},
		},
		Action: r.Song,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Save songs and their covers to a directory",
		ArgsUsage: "[song ids...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("File format (%s)", strings.Join(formatter.Formats, ", ")),
				Value:   formatter.FormatJSON,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: songboard_export_{epoch})",
			},
			&cli.BoolFlag{
				Name:  "trending",
				Usage: "Export the current trending list",
			},
			&cli.BoolFlag{
				Name:  "covers",
				Usage: "Download cover images",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent writers (max 10)",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Song fetches per second",
				Value: 5,
			},
		},
		Action: r.Export,
	}
}

func pingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "ping",
		Usage:  "Check connectivity to Spotify (through the server unless --direct)",
		Action: r.Ping,
	}
}

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (defaults to --config)",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the resolved configuration with secrets masked",
				Action: r.ConfigShow,
			},
		},
	}
}
