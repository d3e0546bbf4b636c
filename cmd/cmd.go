// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/squall/internal/server"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for configuration and the local archive.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the archive database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// researchCommand handles research session operations
func researchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "research",
		Aliases: []string{"r"},
		Usage:   "Start and track research sessions",
		Commands: []*cli.Command{
			{
				Name:  "topics",
				Usage: "List previously researched topics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ResearchTopics,
			},
			{
				Name:  "start",
				Usage: "Submit a new research job",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "topic",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "depth",
						Aliases: []string{"d"},
						Usage:   "Research depth (basic, standard, deep)",
						Value:   "standard",
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Poll progress until the session finishes",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ResearchStart,
			},
			{
				Name:  "status",
				Usage: "Fetch the current progress of a session",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "session-id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ResearchStatus,
			},
			{
				Name:  "watch",
				Usage: "Poll a session's progress until it reaches a terminal state",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "session-id",
					},
				},
				Action: r.ResearchWatch,
			},
		},
	}
}

// resultsCommand handles completed result operations
func resultsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "List, view, export, and archive completed research",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List completed research results",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "local",
						Usage: "List results from the local archive instead of the backend",
					},
				},
				Action: r.ResultsList,
			},
			{
				Name:  "show",
				Usage: "Display a full research article",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "result-id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ResultsShow,
			},
			{
				Name:  "export",
				Usage: "Export results to files with a worker pool",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Result ID to export (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every completed result",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "rate",
						Usage: "Backend requests per second",
						Value: 5,
					},
				},
				Action: r.ResultsExport,
			},
			{
				Name:  "archive",
				Usage: "Save results into the local archive database",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Result ID to archive (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Archive every completed result",
					},
				},
				Action: r.ResultsArchive,
			},
		},
	}
}

// apiCommand handles direct calls against the research backend
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the research backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// serveCommand runs the embedded stub research backend.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a local research backend that simulates staged jobs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
			},
			&cli.DurationFlag{
				Name:  "stage-interval",
				Usage: "Wall-clock duration of one simulated research stage",
				Value: server.DefaultStageInterval,
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive research.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive research TUI",
		Action:  r.TUI,
	}
}
