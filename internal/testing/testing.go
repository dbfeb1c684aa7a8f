// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
)

// FakeFetcher is a test double for the metadata fetcher.
//
// Games maps Steam IDs to the game returned; Errs maps Steam IDs to a failure.
// Unknown ids yield [shared.ErrAppNotFound].
type FakeFetcher struct {
	Games map[string]*models.Game
	Errs  map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *FakeFetcher) Fetch(ctx context.Context, steamID string) (*models.Game, error) {
	f.mu.Lock()
	f.calls = append(f.calls, steamID)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errs[steamID]; ok {
		return nil, err
	}
	if g, ok := f.Games[steamID]; ok {
		clone := *g
		return &clone, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrAppNotFound, steamID)
}

// Calls returns the Steam IDs passed to Fetch, in order.
func (f *FakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// FakeStore is an in-memory [models.GameStore].
//
// Setting Err makes every method fail with it.
type FakeStore struct {
	Err error

	mu     sync.Mutex
	games  []*models.Game
	nextID int64
}

var _ models.GameStore = (*FakeStore)(nil)

func (s *FakeStore) Create(game *models.Game) (models.CreateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.OutcomeUnknown, s.Err
	}
	if err := game.Validate(); err != nil {
		return models.OutcomeUnknown, err
	}
	for _, g := range s.games {
		if g.SteamID == game.SteamID {
			return models.AlreadyExists, nil
		}
	}

	if game.AddedDate.IsZero() {
		game.AddedDate = time.Now().UTC()
	}
	s.nextID++
	game.ID = s.nextID
	clone := *game
	s.games = append(s.games, &clone)
	return models.Created, nil
}

func (s *FakeStore) Get(id int64) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	for _, g := range s.games {
		if g.ID == id {
			clone := *g
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", shared.ErrGameNotFound, id)
}

func (s *FakeStore) GetBySteamID(steamID string) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	for _, g := range s.games {
		if g.SteamID == steamID {
			clone := *g
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: steam id %s", shared.ErrGameNotFound, steamID)
}

// List returns games newest first, ties broken by id.
func (s *FakeStore) List() ([]*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	games := make([]*models.Game, 0, len(s.games))
	for i := len(s.games) - 1; i >= 0; i-- {
		clone := *s.games[i]
		games = append(games, &clone)
	}
	for i := 1; i < len(games); i++ {
		for j := i; j > 0 && games[j].AddedDate.After(games[j-1].AddedDate); j-- {
			games[j], games[j-1] = games[j-1], games[j]
		}
	}
	return games, nil
}

func (s *FakeStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.games), nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
