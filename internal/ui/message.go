package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgGamesLoaded MsgKind = iota
	MsgGameAdded
	MsgBrowserOpened
)

type gamesLoaded struct {
	games []*models.Game
	err   error
}

type gameAdded struct {
	result *tasks.IngestResult
	err    error
}

// gamesLoadedMsg is the constructor for [MsgGamesLoaded]
func gamesLoadedMsg(games []*models.Game, err error) Msg {
	return Msg{kind: MsgGamesLoaded, data: gamesLoaded{games, err}}
}

// gameAddedMsg is the constructor for [MsgGameAdded]
func gameAddedMsg(result *tasks.IngestResult, err error) Msg {
	return Msg{kind: MsgGameAdded, data: gameAdded{result, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
