package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the NEOGuard service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchTLE resolves one catalog id to its TLE record(s).
func (c *Client) FetchTLE(ctx context.Context, noradID int) (*TLEResponse, error) {
	var out TLEResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/tle/%d", noradID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchDebris returns up to limit records from a named debris catalog.
func (c *Client) SearchDebris(ctx context.Context, name string, limit int) (*TLEResponse, error) {
	q := url.Values{}
	q.Set("name", name)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out TLEResponse
	if err := c.getJSON(ctx, "/api/v1/debris/catalog?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Predict returns uniformly spaced samples beginning at the TLE epoch.
func (c *Client) Predict(ctx context.Context, line1, line2 string, minutes int) (*PredictResponse, error) {
	req := PredictRequest{Line1: line1, Line2: line2, Minutes: minutes}
	var out PredictResponse
	if err := c.postJSON(ctx, "/api/v1/predict", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PropagateBatch propagates many records in one call.
func (c *Client) PropagateBatch(ctx context.Context, records []TLERecord, minutes int) (*BatchPropagateResponse, error) {
	req := BatchPropagateRequest{Records: records, Minutes: minutes}
	var out BatchPropagateResponse
	if err := c.postJSON(ctx, "/api/v1/propagate/batch", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssessRisk scores targets against the reference debris trajectory.
func (c *Client) AssessRisk(ctx context.Context, req RiskRequest) (*RiskResponse, error) {
	var out RiskResponse
	if err := c.postJSON(ctx, "/api/v1/risk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s (status %d)", req.URL.Path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}
