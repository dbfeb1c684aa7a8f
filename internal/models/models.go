package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/backlog/internal/shared"
)

// Game is one backlog entry: a Steam app plus the metadata fetched for it when it was added.
//
// Records are immutable once stored. ID and AddedDate are assigned at creation.
type Game struct {
	ID              int64     `json:"id"`
	SteamID         string    `json:"steam_id"`
	Name            string    `json:"name"`
	Developer       string    `json:"developer"`
	Publisher       string    `json:"publisher"`
	PositiveReviews int       `json:"positive_reviews"`
	NegativeReviews int       `json:"negative_reviews"`
	Owners          string    `json:"owners"`
	AveragePlaytime int       `json:"average_playtime"` // minutes
	MedianPlaytime  int       `json:"median_playtime"`  // minutes
	Price           string    `json:"price"`
	Languages       string    `json:"languages"`
	Genre           string    `json:"genre"`
	ImageURL        string    `json:"image_url"`
	AddedDate       time.Time `json:"added_date"`
}

// Validate checks the fields required at creation.
func (g *Game) Validate() error {
	if strings.TrimSpace(g.SteamID) == "" {
		return fmt.Errorf("%w: steam id is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	if g.PositiveReviews < 0 || g.NegativeReviews < 0 {
		return fmt.Errorf("%w: review counts must not be negative", shared.ErrInvalidInput)
	}
	if g.AveragePlaytime < 0 || g.MedianPlaytime < 0 {
		return fmt.Errorf("%w: playtimes must not be negative", shared.ErrInvalidInput)
	}
	return nil
}

// ReviewScore is the share of positive reviews, see [shared.ReviewScore].
func (g *Game) ReviewScore() (int, bool) {
	return shared.ReviewScore(g.PositiveReviews, g.NegativeReviews)
}

// StoreURL links to the game's Steam store page.
func (g *Game) StoreURL() string {
	return shared.StorePageURL(g.SteamID)
}

// CreateOutcome tells a caller whether [GameStore.Create] inserted a row.
type CreateOutcome int

const (
	OutcomeUnknown CreateOutcome = iota // returned alongside errors
	Created                             // a new row was written
	AlreadyExists                       // a row with the same Steam ID was already stored; nothing changed
)

func (o CreateOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// GameStore defines persistence for [Game] records.
// Implementations handle database interactions; there is no update or delete.
type GameStore interface {
	Create(game *Game) (CreateOutcome, error)   // Create inserts game unless its Steam ID is already stored
	Get(id int64) (*Game, error)                // Get retrieves a game by its local ID
	GetBySteamID(steamID string) (*Game, error) // GetBySteamID retrieves a game by its external ID
	List() ([]*Game, error)                     // List returns every game, most recently added first
	Count() (int, error)                        // Count returns the number of stored games
}
