package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
	"github.com/desertthunder/backlog/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GameListView ViewState = iota
	GameDetailView
	AddGameView
)

// Ingester adds a game to the backlog by Steam ID.
type Ingester interface {
	Ingest(ctx context.Context, steamID string) (*tasks.IngestResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	store    models.GameStore
	ingester Ingester
	logger   *log.Logger
	openURL  func(string) error
	width    int
	height   int
	gameList list.Model
	games    []*models.Game
	selected *models.Game
	input    textinput.Model
	adding   bool
	status   string
	failed   bool
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store models.GameStore, ingester Ingester, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}

	input := textinput.New()
	input.Placeholder = "e.g. 570"
	input.Prompt = "Steam ID: "
	input.CharLimit = 20

	gameList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	gameList.Title = "Game Backlog"

	return &Model{
		ctx:      ctx,
		view:     GameListView,
		store:    store,
		ingester: ingester,
		logger:   logger,
		openURL:  shared.OpenBrowser,
		gameList: gameList,
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by loading the backlog from the store.
func (m *Model) Init() tea.Cmd {
	return m.loadGames()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.gameList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case GameListView:
			return m.handleGameListKeys(msg)
		case GameDetailView:
			return m.handleGameDetailKeys(msg)
		case AddGameView:
			return m.handleAddGameKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgGamesLoaded:
		data := msg.data.(gamesLoaded)
		if data.err != nil {
			m.logger.Error("failed to load games", "error", data.err)
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.games = data.games
		return m, m.gameList.SetItems(gameItems(data.games))

	case MsgGameAdded:
		data := msg.data.(gameAdded)
		m.adding = false
		if data.err != nil {
			m.logger.Warn("failed to add game", "error", data.err)
			m.setStatus(addErrorMessage(data.err), true)
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		m.view = GameListView
		m.setStatus(fmt.Sprintf("Game '%s' added successfully!", data.result.Game.Name), false)
		return m, m.loadGames()

	case MsgBrowserOpened:
		if err, ok := msg.data.(error); ok && err != nil {
			m.setStatus(fmt.Sprintf("Could not open browser: %v", err), true)
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == GameListView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case GameListView:
		return m.renderGameList()
	case GameDetailView:
		return m.renderGameDetail()
	case AddGameView:
		return m.renderAddGame()
	default:
		return ""
	}
}

func (m *Model) handleGameListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.gameList.FilterState() == list.Filtering {
		return m.updateComponents(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		m.status = ""
		m.view = AddGameView
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.refresh):
		m.status = ""
		return m, m.loadGames()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.gameList.SelectedItem().(gameItem); ok {
			m.status = ""
			m.selected = item.game
			m.view = GameDetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if item, ok := m.gameList.SelectedItem().(gameItem); ok {
			return m, m.openStorePage(item.game)
		}
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m *Model) handleGameDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.status = ""
		m.selected = nil
		m.view = GameListView
	case key.Matches(msg, m.keys.open):
		return m, m.openStorePage(m.selected)
	}
	return m, nil
}

// handleAddGameKeys forwards everything but enter and esc to the text input, so q can be typed.
func (m *Model) handleAddGameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.status = ""
		m.input.Reset()
		m.input.Blur()
		m.view = GameListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		steamID := strings.TrimSpace(m.input.Value())
		if steamID == "" {
			m.setStatus("Please enter a Steam ID", true)
			return m, nil
		}
		m.adding = true
		m.setStatus(fmt.Sprintf("Fetching game %s...", steamID), false)
		return m, m.addGame(steamID)
	}

	return m.updateComponents(msg)
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GameListView:
		m.gameList, cmd = m.gameList.Update(msg)
	case AddGameView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(status string, failed bool) {
	m.status = status
	m.failed = failed
}

func (m *Model) loadGames() tea.Cmd {
	return func() tea.Msg {
		games, err := m.store.List()
		return gamesLoadedMsg(games, err)
	}
}

func (m *Model) addGame(steamID string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.ingester.Ingest(m.ctx, steamID)
		return gameAddedMsg(result, err)
	}
}

func (m *Model) openStorePage(game *models.Game) tea.Cmd {
	if game == nil {
		return nil
	}
	url := game.StoreURL()
	open := m.openURL
	return func() tea.Msg {
		return browserOpenedMsg(open(url))
	}
}

// addErrorMessage turns an ingestion failure into the message shown in the add view.
func addErrorMessage(err error) string {
	switch shared.KindOf(err) {
	case shared.KindInvalidInput:
		return "Please enter a Steam ID"
	case shared.KindNotFound:
		return "Invalid Steam ID or game not found"
	case shared.KindExternalService:
		return fmt.Sprintf("Error fetching game data: %v", err)
	default:
		return "Could not save the game, please try again later"
	}
}

func reviewLabel(score int) string {
	return fmt.Sprintf("%d%% positive", score)
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.failed {
		return "\n" + styles.err.Render(m.status)
	}
	return "\n" + styles.ok.Render(m.status)
}

func (m *Model) renderGameList() string {
	var body string
	if len(m.games) == 0 {
		body = styles.title.Render("Game Backlog") + "\n" +
			styles.warn.Render("Your backlog is empty. Press a to add a game.")
	} else {
		body = m.gameList.View()
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.add, m.keys.open, m.keys.refresh, m.keys.quit}
	return fmt.Sprintf("%s%s\n\n%s", body, m.renderStatus(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderGameDetail() string {
	g := m.selected
	if g == nil {
		return styles.err.Render("No game selected\n\nPress esc to go back")
	}

	reviews := "No reviews"
	if score, ok := g.ReviewScore(); ok {
		reviews = fmt.Sprintf("%s (%d / %d)", reviewLabel(score), g.PositiveReviews, g.NegativeReviews)
	}

	rows := [][2]string{
		{"Steam ID", g.SteamID},
		{"Developer", g.Developer},
		{"Publisher", g.Publisher},
		{"Genre", g.Genre},
		{"Price", g.Price},
		{"Owners", g.Owners},
		{"Reviews", reviews},
		{"Average playtime", shared.FormatPlaytime(g.AveragePlaytime)},
		{"Median playtime", shared.FormatPlaytime(g.MedianPlaytime)},
		{"Languages", g.Languages},
		{"Added", g.AddedDate.UTC().Format("2006-01-02 15:04 MST")},
		{"Store page", g.StoreURL()},
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(g.Name))
	b.WriteString("\n")
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = "—"
		}
		b.WriteString(styles.label.Render(row[0]))
		b.WriteString(value)
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.open, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s%s\n\n%s", b.String(), m.renderStatus(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAddGame() string {
	title := styles.title.Render("Add a game")
	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add"))
	helpKeys := []key.Binding{submit, m.keys.back}
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, m.input.View(), m.renderStatus(), m.help.ShortHelpView(helpKeys))
}
