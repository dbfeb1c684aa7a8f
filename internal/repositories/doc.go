// Package repositories implements SQLite persistence for the backlog.
//
// [GameRepository] stores [models.Game] rows in the games table created by
// shared.RunMigrations. The table has an autoincrement primary key and a UNIQUE
// steam_id column; [GameRepository.Create] uses INSERT ... ON CONFLICT DO NOTHING so
// racing inserts for one Steam ID leave exactly one row and the losers observe
// [models.AlreadyExists] instead of an error.
//
// Every driver failure is wrapped with shared.ErrStorageUnavailable; a missing row is
// shared.ErrGameNotFound.
package repositories
