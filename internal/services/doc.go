// Package services fetches game metadata from the two public Steam APIs.
//
// # SteamSpy
//
// [SteamSpyService] is the primary source. Its appdetails record supplies the name,
// developer, publisher, review counts, owners bucket, playtimes, price, languages and
// genre. It is mandatory: any failure aborts the fetch.
//
// # Steam Store
//
// [SteamStoreService] is the secondary source and only supplies the header image. It
// never returns an error; an [ImageResult] with Skipped set carries the reason instead.
//
// # Fetcher
//
// [Fetcher] calls SteamSpy first and the Steam Store second and merges both into one
// [models.Game]. Each outbound call runs under its own timeout, and nothing is retried.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status or undecodable body
//   - [shared.ErrTimeout] : the call exceeded its timeout (also matches ErrAPIRequest)
//   - [shared.ErrAppNotFound] : SteamSpy returned no name for the id
package services
