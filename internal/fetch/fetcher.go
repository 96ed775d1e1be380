// Package fetch retrieves TLE catalog text from CelesTrak and keeps a small
// on-disk cache of fetched files so the service can serve the last known
// catalog when upstream is down.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://celestrak.org/NORAD/elements/gp.php"

// maxBodyBytes bounds catalog responses; the full public catalog is well
// under this.
const maxBodyBytes = 50 << 20

// Groups maps the debris catalog names the API accepts to CelesTrak group
// identifiers.
var Groups = map[string]string{
	"fengyun1c":  "1999-025",
	"iridium33":  "iridium-33-debris",
	"cosmos1408": "cosmos-1408-debris",
}

// Fetcher retrieves raw TLE data from CelesTrak.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for the given base URL. An empty baseURL
// selects the CelesTrak GP endpoint.
func NewFetcher(baseURL string, logger *slog.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Fetcher{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// BaseURL returns the configured base URL.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// FetchByNorad retrieves the TLE text for a single catalog number.
func (f *Fetcher) FetchByNorad(ctx context.Context, noradID int) ([]byte, error) {
	q := url.Values{}
	q.Set("CATNR", fmt.Sprintf("%d", noradID))
	q.Set("FORMAT", "TLE")
	return f.get(ctx, q)
}

// FetchGroup retrieves the TLE text for a named debris catalog group.
// The name must be a key of Groups.
func (f *Fetcher) FetchGroup(ctx context.Context, name string) ([]byte, error) {
	group, ok := Groups[name]
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q", name)
	}
	q := url.Values{}
	q.Set("GROUP", group)
	q.Set("FORMAT", "TLE")
	return f.get(ctx, q)
}

func (f *Fetcher) get(ctx context.Context, q url.Values) ([]byte, error) {
	u := f.baseURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching TLE data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, f.baseURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response exceeds %d byte limit", maxBodyBytes)
	}

	f.logger.Debug("fetched TLE data", "url", f.baseURL, "bytes", len(body))
	return body, nil
}
