package tasks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
	"golang.org/x/time/rate"
)

// BulkImportOpts contains configuration for bulk imports.
type BulkImportOpts struct {
	RateLimit float64 // Ingestions per second (default: 1)
}

// ImportItemResult is the outcome of importing a single Steam ID.
type ImportItemResult struct {
	SteamID string
	Name    string
	GameID  int64
	Outcome models.CreateOutcome
	Error   error
}

// BulkImportResult summarizes a bulk import.
type BulkImportResult struct {
	Total      int
	Created    int
	Duplicates int
	Failed     int
	Results    []ImportItemResult
}

// BulkImport ingests ids one at a time, paced by a rate limiter so SteamSpy is not flooded.
//
// Individual failures are recorded and do not stop the import. Cancelling ctx stops
// before the next id; the partial result is returned alongside the context error.
func (i *Ingestor) BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no Steam IDs to import", shared.ErrMissingArgument)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1.0
	}

	result := &BulkImportResult{
		Total:   len(ids),
		Results: make([]ImportItemResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	sendProgress(prog, importStartUpdate(len(ids)))

	for n, id := range ids {
		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("import interrupted after %d of %d: %w", n, len(ids), err)
		}

		item := ImportItemResult{SteamID: id}
		res, err := i.Ingest(ctx, id)
		if err != nil {
			item.Error = err
			result.Failed++
		} else {
			item.Name = res.Game.Name
			item.GameID = res.Game.ID
			item.Outcome = res.Outcome
			if res.Outcome == models.AlreadyExists {
				result.Duplicates++
			} else {
				result.Created++
			}
		}

		result.Results = append(result.Results, item)
		sendProgress(prog, importItemUpdate(n+1, len(ids), item))
	}

	return result, nil
}

// ReadSteamIDs parses Steam IDs from r, one or more per line separated by commas or whitespace.
//
// Blank lines and lines starting with '#' are skipped. Repeated ids are kept once, first occurrence first.
func ReadSteamIDs(r io.Reader) ([]string, error) {
	var ids []string
	seen := map[string]bool{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		for _, id := range fields {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Steam IDs: %w", err)
	}

	return ids, nil
}
