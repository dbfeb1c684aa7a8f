package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
)

// Fetcher combines a [MetadataSource] and an [ImageSource] into one normalized [models.Game].
//
// It holds no mutable state and is safe for concurrent use.
type Fetcher struct {
	spy    MetadataSource
	store  ImageSource
	logger *log.Logger
}

// NewFetcher creates a Fetcher. A nil logger falls back to [log.Default].
func NewFetcher(spy MetadataSource, store ImageSource, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{spy: spy, store: store, logger: logger}
}

// NewSteamFetcher wires the SteamSpy and Steam Store clients from config.
func NewSteamFetcher(cfg shared.SteamConfig, logger *log.Logger) *Fetcher {
	timeout := cfg.Timeout()
	client := NewHTTPClient(timeout)
	return NewFetcher(
		NewSteamSpyService(cfg.SpyURL, client, timeout),
		NewSteamStoreService(cfg.StoreURL, client, timeout),
		logger,
	)
}

// Fetch queries the metadata source, then the image source, and merges the results.
//
// Only metadata failures are returned. An image failure leaves ImageURL empty.
// The returned game has no ID or AddedDate.
func (f *Fetcher) Fetch(ctx context.Context, steamID string) (*models.Game, error) {
	start := time.Now()

	app, err := f.spy.AppDetails(ctx, steamID)
	if err != nil {
		return nil, err
	}

	game := app.Game(steamID)

	img := f.store.HeaderImage(ctx, steamID)
	if img.Skipped {
		f.logger.Warn("header image skipped", "steam_id", steamID, "reason", img.Reason)
	} else {
		game.ImageURL = img.URL
	}

	f.logger.Debug("fetched game metadata", "steam_id", steamID, "name", game.Name, "duration", time.Since(start))
	return game, nil
}
