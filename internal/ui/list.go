package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/backlog/internal/models"
)

var _ list.Item = gameItem{}

// gameItem wraps [models.Game] to implement [list.Item].
type gameItem struct {
	game *models.Game
}

func (i gameItem) FilterValue() string { return i.game.Name }
func (i gameItem) Title() string       { return i.game.Name }
func (i gameItem) Description() string {
	parts := []string{}
	if i.game.Developer != "" {
		parts = append(parts, i.game.Developer)
	}
	if score, ok := i.game.ReviewScore(); ok {
		parts = append(parts, reviewLabel(score))
	}
	parts = append(parts, "added "+i.game.AddedDate.UTC().Format("2006-01-02"))
	return strings.Join(parts, " • ")
}

func gameItems(games []*models.Game) []list.Item {
	items := make([]list.Item, len(games))
	for i, g := range games {
		items[i] = gameItem{game: g}
	}
	return items
}
