package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	games, err := a.store.List()
	if err != nil {
		a.logger.Error("failed to list games", "error", err)
		http.Error(w, "Could not load the backlog, please try again later", http.StatusInternalServerError)
		return
	}

	a.render(w, "index.html", pageData{Title: "Backlog", Flash: popFlash(w, r), Games: games})
}

func (a *App) addGameForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, "add_game.html", pageData{Title: "Add game", Flash: popFlash(w, r)})
}

func (a *App) addGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, flashError, "Could not read the submitted form")
		http.Redirect(w, r, "/add_game", http.StatusSeeOther)
		return
	}

	res, err := a.ingester.Ingest(r.Context(), r.PostForm.Get("steam_id"))
	if err != nil {
		setFlash(w, flashError, ingestErrorMessage(err))
		http.Redirect(w, r, "/add_game", http.StatusSeeOther)
		return
	}

	setFlash(w, flashSuccess, fmt.Sprintf("Game '%s' added successfully!", res.Game.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ingestErrorMessage turns an ingestion failure into the message shown to the user.
//
// Storage details stay in the logs.
func ingestErrorMessage(err error) string {
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

// lookupGame resolves the {id} path value. A non-numeric id is reported as not found.
func (a *App) lookupGame(r *http.Request) (*models.Game, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: id %q", shared.ErrGameNotFound, r.PathValue("id"))
	}
	return a.store.Get(id)
}

func (a *App) gameDetail(w http.ResponseWriter, r *http.Request) {
	game, err := a.lookupGame(r)
	switch {
	case errors.Is(err, shared.ErrGameNotFound):
		setFlash(w, flashError, "Game not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case err != nil:
		a.logger.Error("failed to load game", "id", r.PathValue("id"), "error", err)
		http.Error(w, "Could not load the game, please try again later", http.StatusInternalServerError)
		return
	}

	a.render(w, "game_detail.html", pageData{Title: game.Name, Flash: popFlash(w, r), Game: game})
}

func (a *App) apiGameDetail(w http.ResponseWriter, r *http.Request) {
	game, err := a.lookupGame(r)
	switch {
	case errors.Is(err, shared.ErrGameNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Game not found"})
		return
	case err != nil:
		a.logger.Error("failed to load game", "id", r.PathValue("id"), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Storage unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, game)
}
