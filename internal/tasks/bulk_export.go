package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/backlog/internal/formatter"
	"github.com/desertthunder/backlog/internal/models"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for backlog exports.
type ExportOpts struct {
	Format         formatter.Format // Export format: json, csv, markdown, txt
	OutputDir      string           // Base output directory (default: backlog_export_{epoch})
	DownloadImages bool             // Save header images next to a markdown export
	NumWorkers     int              // Concurrent image downloads (default: 5)
	RateLimit      float64          // Image downloads per second (default: 5)
	HTTPClient     *http.Client     // Client used for image downloads
}

// ExportResult contains information about a finished export.
type ExportResult struct {
	TotalGames      int
	OutputDirectory string
	File            string
	Images          map[string]string // Steam ID → path relative to OutputDirectory
	ImageFailures   int
}

type imageJob struct {
	game *models.Game
}

type imageResult struct {
	game *models.Game
	path string
	err  error
}

// Exporter writes the backlog to disk.
type Exporter struct {
	store  models.GameStore
	logger *log.Logger
}

// NewExporter creates an Exporter reading from store.
func NewExporter(store models.GameStore, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{store: store, logger: logger}
}

// Export writes every stored game in the requested format.
//
// For markdown exports with DownloadImages set, header images are downloaded by a worker
// pool under a shared rate limiter into {OutputDir}/images and referenced locally. A failed
// download leaves that game pointing at its remote image.
func (e *Exporter) Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("backlog_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	games, err := e.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	sendProgress(prog, loadGamesUpdate(len(games)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		TotalGames:      len(games),
		OutputDirectory: opts.OutputDir,
		Images:          map[string]string{},
	}

	if opts.Format == formatter.FormatMarkdown && opts.DownloadImages {
		e.downloadImages(ctx, prog, games, opts, result)
	}

	file := filepath.Join(opts.OutputDir, "backlog."+opts.Format.Extension())
	written, err := formatter.WriteExport(games, opts.Format, file, result.Images)
	if err != nil {
		return result, err
	}
	result.File = written
	sendProgress(prog, exportWrittenUpdate(written, len(games)))

	return result, nil
}

// downloadImages fans image downloads out to opts.NumWorkers workers and collects the local paths.
func (e *Exporter) downloadImages(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	games []*models.Game,
	opts ExportOpts,
	result *ExportResult,
) {
	var withImages []*models.Game
	for _, g := range games {
		if g.ImageURL != "" {
			withImages = append(withImages, g)
		}
	}
	if len(withImages) == 0 {
		return
	}

	imageDir := filepath.Join(opts.OutputDir, "images")
	if err := os.MkdirAll(imageDir, 0755); err != nil {
		e.logger.Warn("skipping image downloads", "error", err)
		return
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan imageJob, len(withImages))
	results := make(chan imageResult, len(withImages))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.imageWorker(ctx, &wg, limiter, jobs, results, imageDir, opts.HTTPClient)
	}

	for _, g := range withImages {
		jobs <- imageJob{game: g}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			result.ImageFailures++
			e.logger.Warn("header image download failed", "steam_id", res.game.SteamID, "error", res.err)
			sendProgress(prog, imageFailedUpdate(completed, len(withImages), res.game.Name, res.err))
			continue
		}
		result.Images[res.game.SteamID] = path.Join("images", filepath.Base(res.path))
		sendProgress(prog, imageDownloadedUpdate(completed, len(withImages), res.game.Name))
	}
}

// imageWorker downloads header images from the jobs channel.
func (e *Exporter) imageWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan imageJob,
	results chan<- imageResult,
	dir string,
	client *http.Client,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- imageResult{game: job.game, err: err}
			continue
		}

		data, err := formatter.DownloadImage(ctx, client, job.game.ImageURL)
		if err != nil {
			results <- imageResult{game: job.game, err: err}
			continue
		}

		dest := filepath.Join(dir, job.game.SteamID+imageExtension(job.game.ImageURL))
		if err := os.WriteFile(dest, data, 0644); err != nil {
			results <- imageResult{game: job.game, err: fmt.Errorf("failed to save image: %w", err)}
			continue
		}

		results <- imageResult{game: job.game, path: dest}
	}
}

// imageExtension guesses a file extension from an image URL, defaulting to .jpg.
func imageExtension(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	switch ext := strings.ToLower(path.Ext(rawURL)); ext {
	case ".png", ".gif", ".webp", ".jpeg", ".jpg":
		return ext
	default:
		return ".jpg"
	}
}
