// SteamSpy [MetadataSource] implementation
//
// Calls GET <base>?request=appdetails&appid=<id>. SteamSpy answers unknown ids with
// a 200 and an empty or null name, so a missing name is treated as "not found".
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/backlog/internal/models"
	"github.com/desertthunder/backlog/internal/shared"
)

// SteamSpyApp is the subset of the SteamSpy appdetails payload that is stored.
type SteamSpyApp struct {
	Name           string     `json:"name"`
	Developer      string     `json:"developer"`
	Publisher      string     `json:"publisher"`
	Positive       int        `json:"positive"`
	Negative       int        `json:"negative"`
	Owners         string     `json:"owners"`
	AverageForever int        `json:"average_forever"` // minutes
	MedianForever  int        `json:"median_forever"`  // minutes
	Price          flexString `json:"price"`
	Languages      string     `json:"languages"`
	Genre          string     `json:"genre"`
}

// Game converts the payload into an unsaved [models.Game] for steamID.
func (a *SteamSpyApp) Game(steamID string) *models.Game {
	return &models.Game{
		SteamID:         steamID,
		Name:            a.Name,
		Developer:       a.Developer,
		Publisher:       a.Publisher,
		PositiveReviews: max(a.Positive, 0),
		NegativeReviews: max(a.Negative, 0),
		Owners:          a.Owners,
		AveragePlaytime: max(a.AverageForever, 0),
		MedianPlaytime:  max(a.MedianForever, 0),
		Price:           string(a.Price),
		Languages:       a.Languages,
		Genre:           a.Genre,
	}
}

// flexString accepts a JSON string, number or null. SteamSpy has sent price both ways.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("price: expected string or number, got %s", data)
		}
		*f = flexString(n.String())
		return nil
	}
}

// SteamSpyService looks up app metadata on SteamSpy.
type SteamSpyService struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewSteamSpyService creates a SteamSpy client. Empty or zero arguments fall back to the defaults.
func NewSteamSpyService(baseURL string, client *http.Client, timeout time.Duration) *SteamSpyService {
	if baseURL == "" {
		baseURL = DefaultSteamSpyURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = NewHTTPClient(timeout)
	}

	return &SteamSpyService{baseURL: baseURL, timeout: timeout, httpClient: client}
}

// Name returns the service name.
func (s *SteamSpyService) Name() string {
	return "SteamSpy"
}

// AppDetails fetches the appdetails record for steamID.
func (s *SteamSpyService) AppDetails(ctx context.Context, steamID string) (*SteamSpyApp, error) {
	params := url.Values{}
	params.Set("request", "appdetails")
	params.Set("appid", steamID)

	var app SteamSpyApp
	if err := getJSON(ctx, s.httpClient, s.timeout, s.baseURL+"?"+params.Encode(), &app); err != nil {
		return nil, fmt.Errorf("steamspy: %w", err)
	}

	if strings.TrimSpace(app.Name) == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrAppNotFound, steamID)
	}

	return &app, nil
}
