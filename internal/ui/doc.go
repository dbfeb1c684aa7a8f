// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses the backlog in three views:
//  1. [GameListView] : Browse stored games, most recently added first
//  2. [GameDetailView] : Inspect one game's metadata
//  3. [AddGameView] : Enter a Steam ID and ingest it
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Store reads and ingestion run as commands so the interface never blocks on SteamSpy.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, o, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
