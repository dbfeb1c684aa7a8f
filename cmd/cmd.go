// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/backlog/internal/formatter"
	"github.com/urfave/cli/v3"
)

// serveCommand starts the web service
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the backlog web service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.MigrationStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.RollbackDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml populated with the defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the config file to create",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// gamesCommand handles backlog operations
func gamesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "games",
		Aliases: []string{"g"},
		Usage:   "Manage the game backlog",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Fetch a game from SteamSpy and add it to the backlog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "steam_id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GamesAdd,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List the backlog, most recently added first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.GamesList,
			},
			{
				Name:  "show",
				Usage: "Show one game by its backlog id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.GamesShow,
			},
			{
				Name:  "import",
				Usage: "Add every Steam ID listed in a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "File of Steam IDs, one per line or comma separated (- for stdin)",
						Required: true,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "SteamSpy requests per second (overrides steam.import_rate)",
					},
				},
				Action: r.GamesImport,
			},
			{
				Name:  "export",
				Usage: "Export the backlog to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: backlog_export_{timestamp})",
					},
					&cli.BoolFlag{
						Name:  "images",
						Usage: "Download header images next to a markdown export",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent image downloads",
						Value: 5,
					},
				},
				Action: r.GamesExport,
			},
		},
	}
}

// authCommand handles credential helpers
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage basic auth credentials",
		Commands: []*cli.Command{
			{
				Name:  "hash-password",
				Usage: "Print a bcrypt hash for auth.password_hash (reads stdin when no argument is given)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthHashPassword,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing the backlog.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for the backlog",
		Action:  r.TUI,
	}
}
