// package formatter renders the game backlog to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists every supported export format.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat resolves a format name. "md" and "text" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q (use json, csv, markdown or txt)", shared.ErrInvalidArgument, name)
	}
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ExportToCSV converts games to CSV with one row per game and a header row.
func ExportToCSV(games []*models.Game) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{
		"ID", "Steam ID", "Name", "Developer", "Publisher", "Positive Reviews", "Negative Reviews",
		"Owners", "Average Playtime", "Median Playtime", "Price", "Languages", "Genre", "Image URL", "Added",
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, g := range games {
		record := []string{
			strconv.FormatInt(g.ID, 10),
			g.SteamID,
			g.Name,
			g.Developer,
			g.Publisher,
			strconv.Itoa(g.PositiveReviews),
			strconv.Itoa(g.NegativeReviews),
			g.Owners,
			strconv.Itoa(g.AveragePlaytime),
			strconv.Itoa(g.MedianPlaytime),
			g.Price,
			g.Languages,
			g.Genre,
			g.ImageURL,
			g.AddedDate.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts games to a Markdown document, one section per game.
//
// images maps Steam IDs to local image paths; games without an entry fall back to their remote ImageURL.
func ExportToMarkdown(games []*models.Game, images map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Game Backlog\n\n")
	buf.WriteString(fmt.Sprintf("**Games**: %d\n\n", len(games)))

	for _, g := range games {
		buf.WriteString(fmt.Sprintf("## %s\n\n", g.Name))

		if img := images[g.SteamID]; img != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", g.Name, img))
		} else if g.ImageURL != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", g.Name, g.ImageURL))
		}

		buf.WriteString(fmt.Sprintf("- **Steam ID**: [%s](%s)\n", g.SteamID, g.StoreURL()))
		if g.Developer != "" {
			buf.WriteString(fmt.Sprintf("- **Developer**: %s\n", g.Developer))
		}
		if g.Publisher != "" {
			buf.WriteString(fmt.Sprintf("- **Publisher**: %s\n", g.Publisher))
		}
		if g.Genre != "" {
			buf.WriteString(fmt.Sprintf("- **Genre**: %s\n", g.Genre))
		}
		if score, ok := g.ReviewScore(); ok {
			buf.WriteString(fmt.Sprintf("- **Reviews**: %d%% positive (%d / %d)\n", score, g.PositiveReviews, g.NegativeReviews))
		}
		if g.Owners != "" {
			buf.WriteString(fmt.Sprintf("- **Owners**: %s\n", g.Owners))
		}
		buf.WriteString(fmt.Sprintf("- **Playtime**: %s average, %s median\n",
			shared.FormatPlaytime(g.AveragePlaytime), shared.FormatPlaytime(g.MedianPlaytime)))
		if g.Price != "" {
			buf.WriteString(fmt.Sprintf("- **Price**: %s\n", g.Price))
		}
		buf.WriteString(fmt.Sprintf("- **Added**: %s\n\n", g.AddedDate.UTC().Format("2006-01-02")))
	}

	return buf.Bytes(), nil
}

// ExportToText converts games to a numbered plain text list.
func ExportToText(games []*models.Game) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Game Backlog: %d games\n\n", len(games)))

	for i, g := range games {
		line := fmt.Sprintf("%d. %s [%s]", i+1, g.Name, g.SteamID)
		if g.Developer != "" {
			line += " - " + g.Developer
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts games to an indented JSON array.
func ExportToJSON(games []*models.Game) ([]byte, error) {
	if games == nil {
		games = []*models.Game{}
	}
	return shared.MarshalJSON(games, true)
}

// Export renders games in the given format.
func Export(games []*models.Game, format Format, images map[string]string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(games)
	case FormatMarkdown:
		return ExportToMarkdown(games, images)
	case FormatText:
		return ExportToText(games)
	case FormatJSON:
		return ExportToJSON(games)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders games and writes them to path, creating parent directories.
//
// Defaults to backlog.{ext} in the working directory.
func WriteExport(games []*models.Game, format Format, path string, images map[string]string) (string, error) {
	if path == "" {
		path = "backlog." + format.Extension()
	}

	data, err := Export(games, format, images)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes.
//
// A nil client gets a 30 second timeout.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}
