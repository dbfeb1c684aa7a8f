package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
)

// MetadataFetcher returns a normalized, unsaved [models.Game] for a Steam app id.
//
// Implemented by services.Fetcher.
type MetadataFetcher interface {
	Fetch(ctx context.Context, steamID string) (*models.Game, error)
}

// IngestObserver is notified once per Ingest call with its outcome or error.
type IngestObserver interface {
	ObserveIngest(outcome models.CreateOutcome, err error)
}

// IngestResult is a successful ingestion.
//
// Outcome tells a newly stored game apart from one that was already in the backlog.
// For [models.AlreadyExists], Game is the previously stored record when it could be read back.
type IngestResult struct {
	Game    *models.Game
	Outcome models.CreateOutcome
}

// Ingestor adds games to the backlog.
type Ingestor struct {
	fetcher  MetadataFetcher
	store    models.GameStore
	logger   *log.Logger
	observer IngestObserver
	now      func() time.Time
}

// NewIngestor creates an Ingestor. A nil logger falls back to [log.Default].
func NewIngestor(fetcher MetadataFetcher, store models.GameStore, logger *log.Logger) *Ingestor {
	if logger == nil {
		logger = log.Default()
	}
	return &Ingestor{fetcher: fetcher, store: store, logger: logger, now: time.Now}
}

// WithObserver registers o to be told about every ingestion and returns i.
func (i *Ingestor) WithObserver(o IngestObserver) *Ingestor {
	i.observer = o
	return i
}

// Ingest fetches metadata for steamID and stores it.
//
// A blank id fails with [shared.ErrInvalidInput] before any network or storage access.
// Fetch failures are returned unchanged and nothing is written.
func (i *Ingestor) Ingest(ctx context.Context, steamID string) (*IngestResult, error) {
	result, err := i.ingest(ctx, steamID)
	if i.observer != nil {
		outcome := models.OutcomeUnknown
		if result != nil {
			outcome = result.Outcome
		}
		i.observer.ObserveIngest(outcome, err)
	}
	return result, err
}

func (i *Ingestor) ingest(ctx context.Context, steamID string) (*IngestResult, error) {
	steamID = strings.TrimSpace(steamID)
	if steamID == "" {
		return nil, fmt.Errorf("%w: please enter a Steam ID", shared.ErrInvalidInput)
	}

	logger := shared.WithLogger(i.logger, "steam_id", steamID)

	game, err := i.fetcher.Fetch(ctx, steamID)
	if err != nil {
		logger.Warn("fetch failed", "error", err)
		return nil, err
	}

	game.ID = 0
	game.SteamID = steamID
	game.AddedDate = i.now().UTC()

	outcome, err := i.store.Create(game)
	if err != nil {
		logger.Error("failed to store game", "error", err)
		return nil, err
	}

	if outcome == models.AlreadyExists {
		logger.Info("game already in backlog", "name", game.Name)
		if stored, err := i.store.GetBySteamID(steamID); err == nil {
			game = stored
		} else {
			logger.Warn("failed to read back existing game", "error", err)
		}
	} else {
		logger.Info("game added", "id", game.ID, "name", game.Name)
	}

	return &IngestResult{Game: game, Outcome: outcome}, nil
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
