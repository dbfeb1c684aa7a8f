// Package tasks implements the add-game workflow and the long-running operations built on it.
//
// # Ingestion
//
// [Ingestor.Ingest] is the single path by which games enter the backlog, shared by the web
// form and the CLI:
//
//  1. Trim the Steam ID; a blank id is rejected with shared.ErrInvalidInput
//  2. Fetch and merge metadata through a [MetadataFetcher]
//  3. Stamp AddedDate with the current UTC time
//  4. Persist through models.GameStore; a duplicate Steam ID is a success with
//     outcome models.AlreadyExists and leaves the stored row untouched
//
// # Bulk Import
//
// [Ingestor.BulkImport] runs Ingest sequentially over a list of ids read by [ReadSteamIDs],
// paced by a token bucket limiter (golang.org/x/time/rate) to stay inside SteamSpy's
// request budget. Failures are collected per id.
//
// # Export
//
// [Exporter.Export] writes the backlog as JSON, CSV, Markdown or text through the formatter
// package. Markdown exports can download header images with a small worker pool.
//
// # Progress Reporting
//
// Long-running operations take an optional send-only channel of [ProgressUpdate].
// Updates use select with default so a slow reader never blocks the work.
package tasks
