// Package version reads the remote app-version table.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AppVersion is one row of the remote version table.
type AppVersion struct {
	ID                  int64  `json:"id"`
	VersionCode         int    `json:"version_code"`
	VersionName         string `json:"version_name"`
	Changelog           string `json:"changelog"`
	IsCritical          bool   `json:"is_critical"`
	MinSupportedVersion int    `json:"min_supported_version"`
	ReleaseDate         string `json:"release_date"`
	DownloadURL         string `json:"download_url"`
	CreatedAt           string `json:"created_at"`
}

// Client fetches version rows from a REST endpoint serving a JSON array.
// Filtering happens client-side; no "latest" query is required of the server.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient creates a client for the given endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    http.DefaultClient,
	}
}

// List fetches every row of the version table.
func (c *Client) List(ctx context.Context) ([]AppVersion, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("version: base URL not set")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("version: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []AppVersion
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("version: decode response: %w", err)
	}
	return rows, nil
}

// Latest returns the row with the highest version code.
func Latest(rows []AppVersion) (AppVersion, bool) {
	if len(rows) == 0 {
		return AppVersion{}, false
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.VersionCode > best.VersionCode {
			best = r
		}
	}
	return best, true
}
