package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
	th "github.com/desertthunder/backlog/internal/testing"
)

func sampleGames() []*models.Game {
	return []*models.Game{
		{
			ID:              2,
			SteamID:         "570",
			Name:            "Dota 2",
			Developer:       "Valve",
			Publisher:       "Valve",
			PositiveReviews: 900,
			NegativeReviews: 100,
			Owners:          "100,000,000 .. 200,000,000",
			AveragePlaytime: 125,
			MedianPlaytime:  30,
			Price:           "0",
			Genre:           "Action, Strategy",
			ImageURL:        "https://cdn.example.com/570/header.jpg",
			AddedDate:       time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        1,
			SteamID:   "440",
			Name:      "Team Fortress 2, Classic",
			AddedDate: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tt := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatJSON},
		{input: "json", want: FormatJSON},
		{input: "CSV", want: FormatCSV},
		{input: "md", want: FormatMarkdown},
		{input: "markdown", want: FormatMarkdown},
		{input: "text", want: FormatText},
		{input: "txt", want: FormatText},
		{input: "xml", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseFormat(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if tc.wantErr && !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}

	if FormatMarkdown.Extension() != "md" || FormatText.Extension() != "txt" {
		t.Error("unexpected file extensions")
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleGames())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.HasPrefix(output, "ID,Steam ID,Name,Developer,Publisher,") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "2,570,Dota 2,Valve,Valve,900,100,") {
			t.Errorf("CSV missing Dota 2 row, got: %s", output)
		}
		if !strings.Contains(output, `"Team Fortress 2, Classic"`) {
			t.Errorf("CSV should quote names containing commas, got: %s", output)
		}
		if !strings.Contains(output, "2024-05-02T09:00:00Z") {
			t.Errorf("CSV missing RFC3339 added date")
		}
		if lines := strings.Count(output, "\n"); lines != 3 {
			t.Errorf("expected 3 lines, got %d", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("with remote images", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleGames(), nil)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			for _, want := range []string{
				"# Game Backlog",
				"**Games**: 2",
				"## Dota 2",
				"![Dota 2](https://cdn.example.com/570/header.jpg)",
				"- **Steam ID**: [570](https://store.steampowered.com/app/570)",
				"- **Reviews**: 90% positive (900 / 100)",
				"- **Playtime**: 2h 05m average, 30m median",
				"- **Added**: 2024-05-02",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q", want)
				}
			}

			if strings.Contains(output, "**Developer**: \n") {
				t.Error("Markdown should omit empty developer")
			}
		})

		t.Run("with local images", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleGames(), map[string]string{"570": "images/570.jpg"})
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			if !strings.Contains(string(data), "![Dota 2](images/570.jpg)") {
				t.Errorf("Markdown should reference the local image")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleGames())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Game Backlog: 2 games") {
			t.Errorf("Text missing header")
		}
		if !strings.Contains(output, "1. Dota 2 [570] - Valve") {
			t.Errorf("Text missing first game, got: %s", output)
		}
		if !strings.Contains(output, "2. Team Fortress 2, Classic [440]\n") {
			t.Errorf("Text missing second game, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleGames())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0]["steam_id"] != "570" {
			t.Errorf("unexpected JSON export: %s", data)
		}

		empty, err := ExportToJSON(nil)
		if err != nil {
			t.Fatalf("ExportToJSON(nil) failed: %v", err)
		}
		if string(empty) != "[]" {
			t.Errorf("expected empty array, got %s", empty)
		}
	})

	t.Run("Export Unknown Format", func(t *testing.T) {
		if _, err := Export(sampleGames(), Format("xml"), nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), nil, ""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		data, err := DownloadImage(context.Background(), nil, server.URL+"/header.jpg")
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "jpegdata" {
			t.Errorf("unexpected image data %q", data)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(context.Background(), nil, server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("ReadError", func(t *testing.T) {
		client := &http.Client{
			Transport: th.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &th.FCloser{},
				Header:     make(http.Header),
			}, nil),
		}

		if _, err := DownloadImage(context.Background(), client, "http://example.com/a.jpg"); err == nil {
			t.Error("expected error when body read fails")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "backlog.csv")

		written, err := WriteExport(sampleGames(), FormatCSV, path, nil)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Dota 2") {
			t.Errorf("written file missing content")
		}
	})

	t.Run("WithDefaultPath", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteExport(sampleGames(), FormatMarkdown, "", nil)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "backlog.md" {
			t.Errorf("expected backlog.md, got %s", written)
		}
		th.AssertFileExists(t, written)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "backlog.xml")
		if _, err := WriteExport(sampleGames(), Format("xml"), path, nil); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
