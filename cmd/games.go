package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/backlog/internal/formatter"
	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
	"github.com/desertthunder/backlog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// GamesAdd fetches a game by Steam ID and stores it.
func (r *Runner) GamesAdd(ctx context.Context, cmd *cli.Command) error {
	steamID := cmd.StringArg("steam_id")
	useJSON := cmd.Bool("json")

	return r.withStore(func(store models.GameStore) error {
		result, err := r.newIngestor(store).Ingest(ctx, steamID)
		if err != nil {
			return err
		}

		if useJSON {
			return r.writeJSON(result.Game, true)
		}

		if result.Outcome == models.AlreadyExists {
			return r.writePlain("= '%s' is already in the backlog (id %d)\n", result.Game.Name, result.Game.ID)
		}
		return r.writePlain("✓ Game '%s' added successfully! (id %d)\n", result.Game.Name, result.Game.ID)
	})
}

// GamesList prints the backlog, most recently added first.
func (r *Runner) GamesList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	return r.withStore(func(store models.GameStore) error {
		games, err := store.List()
		if err != nil {
			return err
		}

		if useJSON {
			return r.writeJSON(games, pretty)
		}

		if len(games) == 0 {
			return r.writePlain("Your backlog is empty. Add a game with 'backlog games add <steam_id>'.\n")
		}

		r.writePlainHeader(fmt.Sprintf("Backlog (%d games)", len(games)))
		for _, g := range games {
			score := "-"
			if s, ok := g.ReviewScore(); ok {
				score = fmt.Sprintf("%d%%", s)
			}
			r.writePlain("%4d  %-40s  %-8s  %4s  %s\n", g.ID, g.Name, g.SteamID, score, g.AddedDate.UTC().Format("2006-01-02"))
		}
		return nil
	})
}

// GamesShow prints one game by its backlog id.
func (r *Runner) GamesShow(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("id")
	useJSON := cmd.Bool("json")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: id %q must be a positive number", shared.ErrInvalidArgument, raw)
	}

	return r.withStore(func(store models.GameStore) error {
		game, err := store.Get(id)
		if err != nil {
			return err
		}

		if useJSON {
			return r.writeJSON(game, true)
		}

		reviews := "No reviews"
		if score, ok := game.ReviewScore(); ok {
			reviews = fmt.Sprintf("%d%% positive (%d / %d)", score, game.PositiveReviews, game.NegativeReviews)
		}

		r.writePlainHeader(game.Name)
		r.writePlain("Steam ID:   %s\n", game.SteamID)
		r.writePlain("Developer:  %s\n", game.Developer)
		r.writePlain("Publisher:  %s\n", game.Publisher)
		r.writePlain("Genre:      %s\n", game.Genre)
		r.writePlain("Price:      %s\n", game.Price)
		r.writePlain("Owners:     %s\n", game.Owners)
		r.writePlain("Reviews:    %s\n", reviews)
		r.writePlain("Playtime:   %s average, %s median\n",
			shared.FormatPlaytime(game.AveragePlaytime), shared.FormatPlaytime(game.MedianPlaytime))
		r.writePlain("Languages:  %s\n", game.Languages)
		r.writePlain("Added:      %s\n", game.AddedDate.UTC().Format("2006-01-02 15:04 MST"))
		return r.writePlain("Store page: %s\n", game.StoreURL())
	})
}

// GamesImport ingests every Steam ID listed in a file, paced to respect SteamSpy.
func (r *Runner) GamesImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	rateLimit := r.config.Steam.ImportRate
	if cmd.IsSet("rate") {
		rateLimit = cmd.Float("rate")
	}

	ids, err := r.readSteamIDs(path)
	if err != nil {
		return err
	}

	return r.withStore(func(store models.GameStore) error {
		progressCh := make(chan tasks.ProgressUpdate, 50)
		done := r.printProgress(progressCh)

		result, err := r.newIngestor(store).BulkImport(ctx, progressCh, ids, tasks.BulkImportOpts{RateLimit: rateLimit})
		close(progressCh)
		<-done

		if result != nil {
			r.writePlain("\n")
			r.writePlainHeader("Import Complete")
			r.writePlain("Added: %d\nAlready in backlog: %d\nFailed: %d\nTotal: %d\n",
				result.Created, result.Duplicates, result.Failed, result.Total)

			if result.Failed > 0 {
				r.writePlain("\nFailed Steam IDs:\n")
				for _, item := range result.Results {
					if item.Error != nil {
						r.writePlain("  - %s: %v\n", item.SteamID, item.Error)
					}
				}
			}
		}
		return err
	})
}

// GamesExport writes the backlog to a file in the chosen format.
func (r *Runner) GamesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:         format,
		OutputDir:      cmd.String("output"),
		DownloadImages: cmd.Bool("images"),
		NumWorkers:     cmd.Int("workers"),
		HTTPClient:     r.httpClient,
	}
	if opts.DownloadImages && format != formatter.FormatMarkdown {
		r.logger.Warn("--images only applies to markdown exports", "format", format)
	}

	return r.withStore(func(store models.GameStore) error {
		progressCh := make(chan tasks.ProgressUpdate, 50)
		done := r.printProgress(progressCh)

		exporter := tasks.NewExporter(store, shared.WithLogger(r.logger, "component", "export"))
		result, err := exporter.Export(ctx, progressCh, opts)
		close(progressCh)
		<-done

		if err != nil {
			return err
		}

		r.writePlain("\n")
		r.writePlainHeader("Export Complete")
		r.writePlain("Games: %d\nFile: %s\n", result.TotalGames, result.File)
		if opts.DownloadImages && format == formatter.FormatMarkdown {
			r.writePlain("Images: %d downloaded, %d failed\n", len(result.Images), result.ImageFailures)
		}
		return nil
	})
}

// printProgress writes updates until ch is closed; the returned channel closes after the last write.
func (r *Runner) printProgress(ch <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			switch update.Phase {
			case tasks.ImportGames:
				if update.Step == 0 {
					r.writePlain("📥 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.DownloadImages:
				r.writePlain("   %s\n", update.Message)
			default:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()
	return done
}

func (r *Runner) readSteamIDs(path string) ([]string, error) {
	var in io.Reader
	if path == "-" {
		in = r.input
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot open %s: %v", shared.ErrInvalidArgument, path, err)
		}
		defer f.Close()
		in = f
	}

	ids, err := tasks.ReadSteamIDs(in)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no Steam IDs found in %s", shared.ErrMissingArgument, strings.TrimSpace(path))
	}
	return ids, nil
}
