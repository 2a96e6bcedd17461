package resolver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/auditkit/lockaudit/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Repo
		wantErr bool
	}{
		{
			name: "https URL",
			url:  "https://github.com/serde-rs/serde",
			want: Repo{Owner: "serde-rs", Name: "serde"},
		},
		{
			name: "trailing path segments",
			url:  "https://github.com/rust-lang/cargo/tree/master/crates",
			want: Repo{Owner: "rust-lang", Name: "cargo"},
		},
		{
			name: "git suffix",
			url:  "https://github.com/BurntSushi/ripgrep.git",
			want: Repo{Owner: "BurntSushi", Name: "ripgrep"},
		},
		{
			name: "no scheme",
			url:  "github.com/owner/repo",
			want: Repo{Owner: "owner", Name: "repo"},
		},
		{
			name:    "non-github host",
			url:     "https://gitlab.com/owner/repo",
			wantErr: true,
		},
		{
			name:    "missing repo segment",
			url:     "https://github.com/owner",
			wantErr: true,
		},
		{
			name:    "empty",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsUnrecognizedRepo(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, repo)
		})
	}
}

func TestResolveFirstCandidateWins(t *testing.T) {
	mock := registry.NewMockHTTPFetcher()
	mock.AddResponse("https://raw.githubusercontent.com/o/r/HEAD/LICENSE-MIT", 200, "MIT license text")

	r := NewWithFetcher(mock, "")
	doc, err := r.Resolve(context.Background(), "https://github.com/o/r")
	require.NoError(t, err)

	assert.Equal(t, "MIT license text", doc.Text)
	assert.Equal(t, "LICENSE-MIT", doc.Source)
	// First candidate succeeded, nothing else should have been tried.
	assert.Equal(t, []string{"https://raw.githubusercontent.com/o/r/HEAD/LICENSE-MIT"}, mock.Requested)
}

func TestResolveFallbackOrder(t *testing.T) {
	mock := registry.NewMockHTTPFetcher()
	// Only the plain LICENSE file exists; the two earlier candidates 404.
	mock.AddResponse("https://raw.githubusercontent.com/o/r/HEAD/LICENSE", 200, "generic license text")

	r := NewWithFetcher(mock, "")
	doc, err := r.Resolve(context.Background(), "https://github.com/o/r")
	require.NoError(t, err)

	assert.Equal(t, "LICENSE", doc.Source)
	assert.Equal(t, []string{
		"https://raw.githubusercontent.com/o/r/HEAD/LICENSE-MIT",
		"https://raw.githubusercontent.com/o/r/HEAD/LICENSE-APACHE",
		"https://raw.githubusercontent.com/o/r/HEAD/LICENSE",
	}, mock.Requested)
}

func TestResolveAPIFallback(t *testing.T) {
	mock := registry.NewMockHTTPFetcher()
	encoded := base64.StdEncoding.EncodeToString([]byte("api license text"))
	mock.AddResponse("https://api.github.com/repos/o/r/license", 200,
		fmt.Sprintf(`{"content": %q, "encoding": "base64"}`, encoded))

	r := NewWithFetcher(mock, "")
	doc, err := r.Resolve(context.Background(), "https://github.com/o/r")
	require.NoError(t, err)

	assert.Equal(t, "api license text", doc.Text)
	assert.Equal(t, "license-api", doc.Source)
	// All four raw candidates must have been attempted before the API.
	require.Len(t, mock.Requested, 5)
	assert.Equal(t, "https://api.github.com/repos/o/r/license", mock.Requested[4])
}

func TestResolveExhausted(t *testing.T) {
	mock := registry.NewMockHTTPFetcher()

	r := NewWithFetcher(mock, "")
	_, err := r.Resolve(context.Background(), "https://github.com/o/r")
	require.Error(t, err)

	var exhausted *ExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, "o/r", exhausted.Repo)
	require.Len(t, exhausted.Attempts, 5)
	assert.Equal(t, "LICENSE-MIT", exhausted.Attempts[0].Strategy)
	assert.Equal(t, "LICENSE-APACHE", exhausted.Attempts[1].Strategy)
	assert.Equal(t, "LICENSE", exhausted.Attempts[2].Strategy)
	assert.Equal(t, "LICENSE.md", exhausted.Attempts[3].Strategy)
	assert.Equal(t, "license-api", exhausted.Attempts[4].Strategy)
}

func TestResolveUnrecognizedRepo(t *testing.T) {
	r := NewWithFetcher(registry.NewMockHTTPFetcher(), "")
	_, err := r.Resolve(context.Background(), "https://sourceforge.net/projects/foo")
	assert.True(t, IsUnrecognizedRepo(err))
}

func TestResolveRateLimited(t *testing.T) {
	mock := registry.NewMockHTTPFetcher()
	reset := time.Now().Add(30 * time.Minute).Unix()
	mock.AddResponseWithHeaders("https://api.github.com/repos/o/r/license", 403, "rate limited", map[string]string{
		"X-RateLimit-Limit":     "60",
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     fmt.Sprintf("%d", reset),
	})

	r := NewWithFetcher(mock, "")
	_, err := r.Resolve(context.Background(), "https://github.com/o/r")

	var exhausted *ExhaustedError
	require.True(t, errors.As(err, &exhausted))

	var rl *RateLimitError
	require.True(t, errors.As(exhausted.Attempts[4].Err, &rl))
	assert.Equal(t, 60, rl.Limit)
	assert.Equal(t, 0, rl.Remaining)
	assert.False(t, rl.RetryAfter.IsZero())

	// The rate-limit failure is reachable through the exhausted error itself,
	// so callers can classify the run without walking Attempts.
	rl = nil
	require.True(t, errors.As(err, &rl))
}

func TestDocumentLines(t *testing.T) {
	doc := &Document{Text: "\nMIT License\r\n\r\nPermission is hereby granted...\n\n"}
	assert.Equal(t, []string{"MIT License", "", "Permission is hereby granted..."}, doc.Lines())
}
