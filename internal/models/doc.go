// Package models defines the domain entity and persistence interface for the game backlog.
//
//   - [Game] : a Steam app with metadata merged from SteamSpy and the Steam Store
//   - [GameStore] : create/get/list access implemented by repositories.GameRepository
//   - [CreateOutcome] : distinguishes a fresh insert from a duplicate Steam ID
//
// Games are never updated or deleted once stored.
package models
