package repositories

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.InMemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func dota() *models.Game {
	return &models.Game{
		SteamID:         "570",
		Name:            "Dota 2",
		Developer:       "Valve",
		Publisher:       "Valve",
		PositiveReviews: 1000,
		NegativeReviews: 250,
		Owners:          "100,000,000 .. 200,000,000",
		AveragePlaytime: 42000,
		MedianPlaytime:  1200,
		Price:           "0",
		Languages:       "English, Russian",
		Genre:           "Action, Strategy",
		ImageURL:        "https://cdn.example.com/570/header.jpg",
	}
}

func TestGameRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGameRepository(db)
		game := dota()

		outcome, err := repo.Create(game)
		if err != nil {
			t.Fatalf("failed to create game: %v", err)
		}

		if outcome != models.Created {
			t.Errorf("expected outcome %s, got %s", models.Created, outcome)
		}

		if game.ID == 0 {
			t.Error("game ID should be set after creation")
		}

		if game.AddedDate.IsZero() {
			t.Error("added date should be stamped on creation")
		}
	})

	t.Run("CreateKeepsAddedDate", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGameRepository(db)
		game := dota()
		game.AddedDate = time.Date(2024, 3, 9, 10, 30, 0, 0, time.FixedZone("EST", -5*3600))

		if _, err := repo.Create(game); err != nil {
			t.Fatalf("failed to create game: %v", err)
		}

		retrieved, err := repo.Get(game.ID)
		if err != nil {
			t.Fatalf("failed to get game: %v", err)
		}

		want := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)
		if !retrieved.AddedDate.Equal(want) {
			t.Errorf("expected added date %v, got %v", want, retrieved.AddedDate)
		}

		if retrieved.AddedDate.Location() != time.UTC {
			t.Errorf("expected UTC added date, got %v", retrieved.AddedDate.Location())
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGameRepository(db)
		first := dota()

		if _, err := repo.Create(first); err != nil {
			t.Fatalf("failed to create first game: %v", err)
		}

		second := dota()
		second.Name = "Dota 2 Reborn"
		outcome, err := repo.Create(second)
		if err != nil {
			t.Fatalf("duplicate create should not error: %v", err)
		}

		if outcome != models.AlreadyExists {
			t.Errorf("expected outcome %s, got %s", models.AlreadyExists, outcome)
		}

		if second.ID != 0 {
			t.Errorf("duplicate should not be assigned an ID, got %d", second.ID)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count games: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 game, got %d", count)
		}

		stored, err := repo.GetBySteamID("570")
		if err != nil {
			t.Fatalf("failed to get game by steam id: %v", err)
		}
		if stored.Name != "Dota 2" {
			t.Errorf("stored game should be unchanged, got name %q", stored.Name)
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGameRepository(db)
		game := dota()

		if _, err := repo.Create(game); err != nil {
			t.Fatalf("failed to create game: %v", err)
		}

		retrieved, err := repo.Get(game.ID)
		if err != nil {
			t.Fatalf("failed to get game: %v", err)
		}

		if retrieved.ID != game.ID {
			t.Errorf("expected ID %d, got %d", game.ID, retrieved.ID)
		}

		if retrieved.SteamID != "570" || retrieved.Name != "Dota 2" {
			t.Errorf("unexpected identity %s/%s", retrieved.SteamID, retrieved.Name)
		}

		if retrieved.PositiveReviews != 1000 || retrieved.NegativeReviews != 250 {
			t.Errorf("unexpected reviews %d/%d", retrieved.PositiveReviews, retrieved.NegativeReviews)
		}

		if retrieved.AveragePlaytime != 42000 || retrieved.MedianPlaytime != 1200 {
			t.Errorf("unexpected playtimes %d/%d", retrieved.AveragePlaytime, retrieved.MedianPlaytime)
		}

		if retrieved.Owners != game.Owners || retrieved.Languages != game.Languages || retrieved.Genre != game.Genre {
			t.Errorf("text fields did not round-trip: %+v", retrieved)
		}

		if retrieved.ImageURL != game.ImageURL {
			t.Errorf("expected image %s, got %s", game.ImageURL, retrieved.ImageURL)
		}

		if !retrieved.AddedDate.Equal(game.AddedDate) {
			t.Errorf("expected added date %v, got %v", game.AddedDate, retrieved.AddedDate)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGameRepository(db)
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		for i, id := range []string{"10", "20", "30"} {
			game := &models.Game{SteamID: id, Name: "Game " + id, AddedDate: base.Add(time.Duration(i) * time.Hour)}
			if _, err := repo.Create(game); err != nil {
				t.Fatalf("failed to create game %s: %v", id, err)
			}
		}

		games, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list games: %v", err)
		}

		if len(games) != 3 {
			t.Fatalf("expected 3 games, got %d", len(games))
		}

		for i, want := range []string{"30", "20", "10"} {
			if games[i].SteamID != want {
				t.Errorf("position %d: expected steam id %s, got %s", i, want, games[i].SteamID)
			}
		}
	})

	t.Run("ListSameInstant", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGameRepository(db)
		at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		for _, id := range []string{"1", "2"} {
			if _, err := repo.Create(&models.Game{SteamID: id, Name: "Game " + id, AddedDate: at}); err != nil {
				t.Fatalf("failed to create game %s: %v", id, err)
			}
		}

		games, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list games: %v", err)
		}

		if len(games) != 2 || games[0].SteamID != "2" {
			t.Errorf("latest insert should lead on ties, got %+v", games)
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		games, err := NewGameRepository(db).List()
		if err != nil {
			t.Fatalf("failed to list games: %v", err)
		}

		if games == nil || len(games) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", games)
		}
	})

	t.Run("ConcurrentDuplicates", func(t *testing.T) {
		db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "games.db"))
		if err != nil {
			t.Fatalf("failed to create test database: %v", err)
		}
		defer db.Close()

		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		repo := NewGameRepository(db)

		const workers = 8
		outcomes := make([]models.CreateOutcome, workers)
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i], errs[i] = repo.Create(dota())
			}(i)
		}
		wg.Wait()

		created := 0
		for i := range workers {
			if errs[i] != nil {
				t.Fatalf("worker %d: unexpected error: %v", i, errs[i])
			}
			if outcomes[i] == models.Created {
				created++
			}
		}

		if created != 1 {
			t.Errorf("expected exactly one created outcome, got %d", created)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count games: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 stored game, got %d", count)
		}
	})

	t.Run("Count", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGameRepository(db)
		for i := range 4 {
			game := &models.Game{SteamID: fmt.Sprintf("%d", 100+i), Name: fmt.Sprintf("Game %d", i)}
			if _, err := repo.Create(game); err != nil {
				t.Fatalf("failed to create game: %v", err)
			}
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count games: %v", err)
		}

		if count != 4 {
			t.Errorf("expected 4 games, got %d", count)
		}
	})
}
