package tasks

import (
	"fmt"

	"github.com/desertthunder/backlog/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ImportGames Phase = iota
	LoadGames
	DownloadImages
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case ImportGames:
		return "import_games"
	case LoadGames:
		return "load_games"
	case DownloadImages:
		return "download_images"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func importStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportGames,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d games from SteamSpy...", total),
	}
}

func importItemUpdate(step, total int, item ImportItemResult) ProgressUpdate {
	var msg string
	switch {
	case item.Error != nil:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, item.SteamID, item.Error)
	case item.Outcome == models.AlreadyExists:
		msg = fmt.Sprintf("[%d/%d] = %s (already in backlog)", step, total, item.Name)
	default:
		msg = fmt.Sprintf("[%d/%d] ✓ %s", step, total, item.Name)
	}
	return ProgressUpdate{
		Phase:   ImportGames,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    item,
	}
}

func loadGamesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadGames,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d games from the backlog", count),
	}
}

func imageDownloadedUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadImages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s header image", step, total, name),
	}
}

func imageFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadImages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s header image: %v", step, total, name, err),
	}
}

func exportWrittenUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %d games to %s", count, path),
		Data:    path,
	}
}
