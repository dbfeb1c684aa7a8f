package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/backlog/internal/shared"
)

const (
	DefaultSteamSpyURL   string        = "https://steamspy.com/api.php"
	DefaultSteamStoreURL string        = "https://store.steampowered.com/api/appdetails"
	DefaultTimeout       time.Duration = 10 * time.Second
)

// MetadataSource returns the primary metadata for a Steam app.
type MetadataSource interface {
	// AppDetails looks up steamID. A missing app is [shared.ErrAppNotFound]; any
	// transport or decoding failure is [shared.ErrAPIRequest].
	AppDetails(ctx context.Context, steamID string) (*SteamSpyApp, error)
}

// ImageSource resolves a header image for a Steam app. It never fails; problems are reported through [ImageResult].
type ImageSource interface {
	HeaderImage(ctx context.Context, steamID string) ImageResult
}

// ImageResult is the outcome of a header image lookup.
//
// When Skipped is set, URL is empty and Reason says why.
type ImageResult struct {
	URL     string
	Skipped bool
	Reason  string
}

func skipped(format string, args ...any) ImageResult {
	return ImageResult{Skipped: true, Reason: fmt.Sprintf(format, args...)}
}

// NewHTTPClient returns a client whose requests are bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getJSON performs a GET against rawURL under its own timeout and decodes a 2xx body into result.
func getJSON(ctx context.Context, client *http.Client, timeout time.Duration, rawURL string, result any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return requestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if isTimeout(err) {
			return requestError(err)
		}
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}

// requestError wraps a transport failure, additionally marking timeouts with [shared.ErrTimeout].
func requestError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w: %v", shared.ErrAPIRequest, shared.ErrTimeout, err)
	}
	return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
