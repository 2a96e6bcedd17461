// Package resolver discovers the canonical license text for a GitHub-hosted
// repository. License file naming is not standardized, so resolution walks an
// ordered chain of raw-file candidates before falling back to the GitHub
// license API, which is subject to stricter rate limits.
package resolver

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/auditkit/lockaudit/pkg/logger"
	"github.com/auditkit/lockaudit/pkg/registry"
)

// Repo identifies a repository on the source-hosting platform.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// Document is the resolved license text plus the strategy that produced it.
type Document struct {
	Repo   Repo
	Text   string
	Source string
}

// Lines returns the trimmed license text as a line sequence.
func (d *Document) Lines() []string {
	lines := strings.Split(strings.TrimSpace(d.Text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}

// repoURLPattern accepts URLs of the form host/owner/repo[/...], with or
// without a scheme prefix.
var repoURLPattern = regexp.MustCompile(`(?:^|/)github\.com/([^/?#]+)/([^/?#]+)`)

// ParseRepoURL extracts an owner/repo identifier from the registry's reported
// repository URL. A URL that does not match is an UnrecognizedRepoError.
func ParseRepoURL(repoURL string) (Repo, error) {
	matches := repoURLPattern.FindStringSubmatch(repoURL)
	if matches == nil {
		return Repo{}, &UnrecognizedRepoError{URL: repoURL}
	}
	name := strings.TrimSuffix(matches[2], ".git")
	if matches[1] == "" || name == "" {
		return Repo{}, &UnrecognizedRepoError{URL: repoURL}
	}
	return Repo{Owner: matches[1], Name: name}, nil
}

// candidateFiles is the fixed priority order for raw license file discovery.
// Explicit MIT/Apache markers are preferred over a generic LICENSE file.
var candidateFiles = []string{"LICENSE-MIT", "LICENSE-APACHE", "LICENSE", "LICENSE.md"}

// strategy is one way of obtaining license text for a repository.
type strategy interface {
	Name() string
	Fetch(ctx context.Context, r *Resolver, repo Repo) (string, error)
}

// Resolver fetches license text from GitHub.
type Resolver struct {
	fetcher    registry.HTTPFetcher
	token      string
	rawBaseURL string
	apiBaseURL string
	strategies []strategy
}

// New creates a Resolver with real HTTP for production use. token may be
// empty; authenticated requests get a much higher API rate limit.
func New(token string, timeout time.Duration) *Resolver {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
	return NewWithFetcher(registry.NewRealHTTPFetcher(client), token)
}

// NewWithFetcher creates a Resolver with injectable HTTP for testing
func NewWithFetcher(fetcher registry.HTTPFetcher, token string) *Resolver {
	r := &Resolver{
		fetcher:    fetcher,
		token:      token,
		rawBaseURL: "https://raw.githubusercontent.com",
		apiBaseURL: "https://api.github.com",
	}
	for _, name := range candidateFiles {
		r.strategies = append(r.strategies, &rawFileStrategy{file: name})
	}
	r.strategies = append(r.strategies, &licenseAPIStrategy{})
	return r
}

// Resolve walks the strategy chain strictly in order and stops at the first
// success. Individual strategy failures are swallowed; only when every
// strategy fails does the aggregate ExhaustedError surface.
func (r *Resolver) Resolve(ctx context.Context, repoURL string) (*Document, error) {
	repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	var attempts []Attempt
	for _, s := range r.strategies {
		text, err := s.Fetch(ctx, r, repo)
		if err != nil {
			logger.Debug("license strategy failed",
				logger.String("repo", repo.String()),
				logger.String("strategy", s.Name()),
				logger.Err(err))
			attempts = append(attempts, Attempt{Strategy: s.Name(), Err: err})
			continue
		}
		return &Document{Repo: repo, Text: text, Source: s.Name()}, nil
	}

	return nil, &ExhaustedError{Repo: repo.String(), Attempts: attempts}
}

// rawFileStrategy fetches one candidate file from the repository's default
// branch via raw.githubusercontent.com.
type rawFileStrategy struct {
	file string
}

func (s *rawFileStrategy) Name() string {
	return s.file
}

func (s *rawFileStrategy) Fetch(ctx context.Context, r *Resolver, repo Repo) (string, error) {
	rawURL := fmt.Sprintf("%s/%s/%s/HEAD/%s", r.rawBaseURL, repo.Owner, repo.Name, s.file)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "lockaudit")

	resp, err := r.fetcher.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("%s returned empty content", rawURL)
	}
	return string(body), nil
}

// licenseAPIStrategy is the last resort: GitHub's dedicated license-metadata
// endpoint, which returns base64-encoded license content.
type licenseAPIStrategy struct{}

func (s *licenseAPIStrategy) Name() string {
	return "license-api"
}

func (s *licenseAPIStrategy) Fetch(ctx context.Context, r *Resolver, repo Repo) (string, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/%s/license", r.apiBaseURL, repo.Owner, repo.Name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	// Token raises the rate limit from 60 to 5000 requests/hour
	if r.token != "" {
		req.Header.Set("Authorization", "token "+r.token)
	}
	req.Header.Set("User-Agent", "lockaudit")
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := r.fetcher.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", apiURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return "", parseRateLimit(resp, apiURL)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%s returned status %d", apiURL, resp.StatusCode)
	}

	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding license response: %w", err)
	}
	if payload.Encoding != "base64" {
		return "", fmt.Errorf("unexpected license content encoding %q", payload.Encoding)
	}

	// GitHub wraps the base64 payload with newlines
	decoded, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(payload.Content), ""))
	if err != nil {
		return "", fmt.Errorf("decoding license content: %w", err)
	}
	if len(strings.TrimSpace(string(decoded))) == 0 {
		return "", fmt.Errorf("license API returned empty content")
	}
	return string(decoded), nil
}

// parseRateLimit extracts reset information from GitHub rate-limit headers.
func parseRateLimit(resp *http.Response, url string) error {
	rlErr := &RateLimitError{URL: url, Limit: 60}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			rlErr.Limit = parsed
		}
	}
	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if parsed, err := strconv.Atoi(remainingStr); err == nil {
			rlErr.Remaining = parsed
		}
	}
	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetUnix, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			rlErr.RetryAfter = time.Unix(resetUnix, 0)
		}
	}
	return rlErr
}
