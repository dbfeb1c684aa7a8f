package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
)

var _ models.GameStore = (*GameRepository)(nil)

const gameColumns = `
	id, steam_id, name, developer, publisher, positive_reviews, negative_reviews, owners,
	average_playtime, median_playtime, price, languages, genre, image_url, added_date
`

// GameRepository implements [models.GameStore] on the games table.
//
// Steam IDs are unique; inserting a known Steam ID leaves the stored row untouched
// and reports [models.AlreadyExists].
type GameRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewGameRepository creates a new GameRepository with the given database connection
func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db, now: time.Now}
}

// Create inserts a new [models.Game]. On success game.ID is set to the assigned id.
//
// A zero AddedDate is stamped with the current time. The first insert for a Steam ID
// wins; later attempts are no-ops reported as [models.AlreadyExists].
func (r *GameRepository) Create(game *models.Game) (models.CreateOutcome, error) {
	if err := game.Validate(); err != nil {
		return models.OutcomeUnknown, fmt.Errorf("validation failed: %w", err)
	}

	if game.AddedDate.IsZero() {
		game.AddedDate = r.now()
	}
	game.AddedDate = game.AddedDate.UTC()

	query := `
		INSERT INTO games (
			steam_id, name, developer, publisher, positive_reviews,
			negative_reviews, owners, average_playtime, median_playtime,
			price, languages, genre, image_url, added_date
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(steam_id) DO NOTHING
	`

	result, err := r.db.Exec(query,
		game.SteamID,
		game.Name,
		game.Developer,
		game.Publisher,
		game.PositiveReviews,
		game.NegativeReviews,
		game.Owners,
		game.AveragePlaytime,
		game.MedianPlaytime,
		game.Price,
		game.Languages,
		game.Genre,
		game.ImageURL,
		game.AddedDate,
	)
	if err != nil {
		return models.OutcomeUnknown, storageError("failed to insert game", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return models.OutcomeUnknown, storageError("failed to get affected rows", err)
	}
	if rows == 0 {
		return models.AlreadyExists, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.OutcomeUnknown, storageError("failed to get inserted id", err)
	}
	game.ID = id

	return models.Created, nil
}

// Get retrieves a game by its local ID
func (r *GameRepository) Get(id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ?`

	game, err := scanGame(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", shared.ErrGameNotFound, id)
	}
	if err != nil {
		return nil, storageError("failed to scan game", err)
	}
	return game, nil
}

// GetBySteamID retrieves a game by its Steam app id
func (r *GameRepository) GetBySteamID(steamID string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE steam_id = ?`

	game, err := scanGame(r.db.QueryRow(query, steamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: steam id %s", shared.ErrGameNotFound, steamID)
	}
	if err != nil {
		return nil, storageError("failed to scan game", err)
	}
	return game, nil
}

// List retrieves every game, most recently added first.
//
// Rows added within the same instant fall back to descending id so the newest insert still leads.
func (r *GameRepository) List() ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY added_date DESC, id DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, storageError("failed to query games", err)
	}
	defer rows.Close()

	games := []*models.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, storageError("failed to scan game", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("row iteration error", err)
	}

	return games, nil
}

// Count returns the number of stored games
func (r *GameRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM games").Scan(&count); err != nil {
		return 0, storageError("failed to count games", err)
	}
	return count, nil
}

// scanGame reads one row selected with gameColumns, by column name order.
func scanGame(row scanner) (*models.Game, error) {
	var g models.Game
	err := row.Scan(
		&g.ID, &g.SteamID, &g.Name, &g.Developer, &g.Publisher,
		&g.PositiveReviews, &g.NegativeReviews, &g.Owners,
		&g.AveragePlaytime, &g.MedianPlaytime, &g.Price,
		&g.Languages, &g.Genre, &g.ImageURL, &g.AddedDate,
	)
	if err != nil {
		return nil, err
	}
	g.AddedDate = g.AddedDate.UTC()
	return &g, nil
}
