package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
	"github.com/desertthunder/backlog/internal/tasks"
	tu "github.com/desertthunder/backlog/internal/testing"
)

func newTestModel(t *testing.T, store *tu.FakeStore) (*Model, *[]string) {
	t.Helper()

	logger := shared.NewLogger(io.Discard)
	fetcher := &tu.FakeFetcher{
		Games: map[string]*models.Game{
			"570": {SteamID: "570", Name: "Dota 2", Developer: "Valve", PositiveReviews: 90, NegativeReviews: 10},
		},
		Errs: map[string]error{"503": fmt.Errorf("%w: status 503", shared.ErrAPIRequest)},
	}

	m := NewModel(t.Context(), store, tasks.NewIngestor(fetcher, store, logger), logger)
	opened := []string{}
	m.openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, &opened
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func seededStore(t *testing.T) *tu.FakeStore {
	t.Helper()
	store := &tu.FakeStore{}
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Portal 2", "Hades"} {
		g := &models.Game{SteamID: fmt.Sprint(620 + i), Name: name, Developer: "Studio", AddedDate: base.Add(time.Duration(i) * time.Hour)}
		if _, err := store.Create(g); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	return store
}

func TestModelLoadsGames(t *testing.T) {
	t.Run("Lists stored games", func(t *testing.T) {
		m, _ := newTestModel(t, seededStore(t))
		run(t, m, m.Init())

		if len(m.games) != 2 {
			t.Fatalf("expected 2 games, got %d", len(m.games))
		}
		if m.games[0].Name != "Hades" {
			t.Errorf("expected newest game first, got %s", m.games[0].Name)
		}

		view := m.View()
		if !strings.Contains(view, "Hades") || !strings.Contains(view, "Portal 2") {
			t.Errorf("list view missing games:\n%s", view)
		}
	})

	t.Run("Empty backlog", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.FakeStore{})
		run(t, m, m.Init())

		if !strings.Contains(m.View(), "Your backlog is empty") {
			t.Errorf("expected empty message, got:\n%s", m.View())
		}
	})

	t.Run("Store failure", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.FakeStore{Err: shared.ErrStorageUnavailable})
		run(t, m, m.Init())

		if m.err == nil {
			t.Fatal("expected load error to be kept")
		}
		if !strings.Contains(m.View(), "Error:") {
			t.Errorf("expected error view, got:\n%s", m.View())
		}
	})
}

func TestModelAddGame(t *testing.T) {
	t.Run("Adds a game", func(t *testing.T) {
		store := &tu.FakeStore{}
		m, _ := newTestModel(t, store)
		run(t, m, m.Init())

		m.Update(runes("a"))
		if m.view != AddGameView {
			t.Fatalf("expected AddGameView, got %d", m.view)
		}

		m.Update(runes("570"))
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if !m.adding {
			t.Error("expected model to be adding")
		}

		reload := run(t, m, cmd)
		if m.view != GameListView {
			t.Errorf("expected GameListView after add, got %d", m.view)
		}
		if m.status != "Game 'Dota 2' added successfully!" || m.failed {
			t.Errorf("unexpected status %q (failed=%v)", m.status, m.failed)
		}

		run(t, m, reload)
		if len(m.games) != 1 || m.games[0].SteamID != "570" {
			t.Errorf("expected reloaded list with Dota 2, got %v", m.games)
		}
		if m.input.Value() != "" {
			t.Errorf("expected input to be reset, got %q", m.input.Value())
		}
	})

	tt := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Unknown app", input: "999", want: "Invalid Steam ID or game not found"},
		{name: "Service failure", input: "503", want: "Error fetching game data:"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestModel(t, &tu.FakeStore{})
			m.Update(runes("a"))
			m.Update(runes(tc.input))
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			run(t, m, cmd)

			if m.view != AddGameView {
				t.Errorf("expected to stay on AddGameView, got %d", m.view)
			}
			if !m.failed || !strings.Contains(m.status, tc.want) {
				t.Errorf("status = %q, want it to contain %q", m.status, tc.want)
			}
			if m.adding {
				t.Error("expected adding to be cleared")
			}
		})
	}

	t.Run("Blank input", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.FakeStore{})
		m.Update(runes("a"))
		m.Update(runes("   "))
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if cmd != nil {
			t.Error("expected no ingestion for blank input")
		}
		if m.status != "Please enter a Steam ID" {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("q is typed, not quit", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.FakeStore{})
		m.Update(runes("a"))
		m.Update(runes("q"))

		if m.input.Value() != "q" {
			t.Errorf("expected q in input, got %q", m.input.Value())
		}
	})

	t.Run("Escape returns to list", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.FakeStore{})
		m.Update(runes("a"))
		m.Update(runes("57"))
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		if m.view != GameListView {
			t.Errorf("expected GameListView, got %d", m.view)
		}
		if m.input.Value() != "" {
			t.Errorf("expected input cleared, got %q", m.input.Value())
		}
	})
}

func TestModelGameDetail(t *testing.T) {
	m, opened := newTestModel(t, seededStore(t))
	run(t, m, m.Init())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != GameDetailView {
		t.Fatalf("expected GameDetailView, got %d", m.view)
	}
	if m.selected == nil || m.selected.Name != "Hades" {
		t.Fatalf("expected Hades selected, got %v", m.selected)
	}

	view := m.View()
	for _, want := range []string{"Hades", "Developer", "No reviews", "https://store.steampowered.com/app/621"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(runes("o"))
	run(t, m, cmd)
	if len(*opened) != 1 || (*opened)[0] != "https://store.steampowered.com/app/621" {
		t.Errorf("unexpected opened urls %v", *opened)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != GameListView || m.selected != nil {
		t.Errorf("expected to return to list, view=%d selected=%v", m.view, m.selected)
	}
}

func TestModelBrowserFailure(t *testing.T) {
	m, _ := newTestModel(t, seededStore(t))
	run(t, m, m.Init())
	m.openURL = func(string) error { return errors.New("no display") }

	_, cmd := m.Update(runes("o"))
	run(t, m, cmd)

	if !m.failed || !strings.Contains(m.status, "no display") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, &tu.FakeStore{})

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAddErrorMessage(t *testing.T) {
	tt := []struct {
		err  error
		want string
	}{
		{shared.ErrInvalidInput, "Please enter a Steam ID"},
		{shared.ErrAppNotFound, "Invalid Steam ID or game not found"},
		{fmt.Errorf("%w: %w", shared.ErrAPIRequest, shared.ErrTimeout), "Error fetching game data: API request failed: operation timed out"},
		{shared.ErrStorageUnavailable, "Could not save the game, please try again later"},
	}

	for _, tc := range tt {
		if got := addErrorMessage(tc.err); got != tc.want {
			t.Errorf("addErrorMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestGameItem(t *testing.T) {
	item := gameItem{game: &models.Game{
		Name: "Dota 2", Developer: "Valve", PositiveReviews: 3, NegativeReviews: 1,
		AddedDate: time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC),
	}}

	if item.Title() != "Dota 2" || item.FilterValue() != "Dota 2" {
		t.Errorf("unexpected title %q", item.Title())
	}
	if want := "Valve • 75% positive • added 2024-05-01"; item.Description() != want {
		t.Errorf("Description() = %q, want %q", item.Description(), want)
	}
}
