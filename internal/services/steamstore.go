// Steam Store [ImageSource] implementation
//
// Calls GET <base>?appids=<id>. The payload is keyed by app id:
//
//	{"570": {"success": true, "data": {"header_image": "https://..."}}}
//
// On failure Steam sends "data": [] or omits the key, so data is decoded lazily.
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

type storeAppEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type storeAppData struct {
	HeaderImage string `json:"header_image"`
}

// SteamStoreService resolves header images through the Steam Store appdetails endpoint.
type SteamStoreService struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewSteamStoreService creates a Steam Store client. Empty or zero arguments fall back to the defaults.
func NewSteamStoreService(baseURL string, client *http.Client, timeout time.Duration) *SteamStoreService {
	if baseURL == "" {
		baseURL = DefaultSteamStoreURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = NewHTTPClient(timeout)
	}

	return &SteamStoreService{baseURL: baseURL, timeout: timeout, httpClient: client}
}

// Name returns the service name.
func (s *SteamStoreService) Name() string {
	return "Steam Store"
}

// HeaderImage returns the header image URL for steamID, or a skipped result describing what went wrong.
func (s *SteamStoreService) HeaderImage(ctx context.Context, steamID string) ImageResult {
	params := url.Values{}
	params.Set("appids", steamID)

	var payload map[string]storeAppEnvelope
	if err := getJSON(ctx, s.httpClient, s.timeout, s.baseURL+"?"+params.Encode(), &payload); err != nil {
		return skipped("steam store: %v", err)
	}

	entry, ok := payload[steamID]
	if !ok {
		return skipped("steam store: no entry for app %s", steamID)
	}
	if !entry.Success {
		return skipped("steam store: lookup for app %s was unsuccessful", steamID)
	}

	var data storeAppData
	if err := json.Unmarshal(entry.Data, &data); err != nil {
		return skipped("steam store: malformed data for app %s: %v", steamID, err)
	}
	if data.HeaderImage == "" {
		return skipped("steam store: app %s has no header image", steamID)
	}

	return ImageResult{URL: data.HeaderImage}
}
