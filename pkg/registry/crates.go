// Package registry fetches per-version license metadata from the crates.io
// registry API.
package registry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/auditkit/lockaudit/pkg/buildinfo"
)

// LicenseInfo is the license metadata for one exact package version.
type LicenseInfo struct {
	Name          string
	Version       string
	License       string
	RepositoryURL string
}

// CratesClient queries the crates.io metadata endpoint
type CratesClient struct {
	baseURL   string
	userAgent string
	fetcher   HTTPFetcher
}

// NewCratesClient creates a CratesClient with real HTTP for production use
func NewCratesClient(baseURL string, timeout time.Duration) *CratesClient {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}

	return NewCratesClientWithFetcher(baseURL, NewRealHTTPFetcher(client))
}

// NewCratesClientWithFetcher creates a CratesClient with injectable HTTP for testing
func NewCratesClientWithFetcher(baseURL string, fetcher HTTPFetcher) *CratesClient {
	if baseURL == "" {
		baseURL = "https://crates.io/api/v1"
	}
	return &CratesClient{
		baseURL:   baseURL,
		userAgent: "lockaudit/" + buildinfo.BinaryVersion + " (https://github.com/auditkit/lockaudit)",
		fetcher:   fetcher,
	}
}

// FetchLicense looks up the crate's metadata and filters its version list for
// the entry whose version field exactly equals the requested version. The
// first exact match wins; well-formed registry data has no duplicates.
func (c *CratesClient) FetchLicense(ctx context.Context, name, version string) (*LicenseInfo, error) {
	crateURL := fmt.Sprintf("%s/crates/%s", c.baseURL, name)

	// crates.io rejects requests without a User-Agent
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, &UnavailableError{URL: crateURL, Wrapped: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &UnavailableError{URL: crateURL, StatusCode: resp.StatusCode}
	}

	var crateData struct {
		Crate struct {
			Repository string `json:"repository"`
		} `json:"crate"`
		Versions []struct {
			Num     string `json:"num"`
			License string `json:"license"`
		} `json:"versions"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&crateData); err != nil {
		return nil, fmt.Errorf("failed to decode crate metadata for %s: %w", name, err)
	}

	for _, v := range crateData.Versions {
		if v.Num == version {
			return &LicenseInfo{
				Name:          name,
				Version:       version,
				License:       v.License,
				RepositoryURL: crateData.Crate.Repository,
			}, nil
		}
	}

	return nil, &VersionNotFoundError{Crate: name, Version: version}
}
