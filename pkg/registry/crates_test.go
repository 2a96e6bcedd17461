package registry

import (
	"context"
	"errors"
	"testing"
)

const serdeFixture = `{
	"crate": {
		"name": "serde",
		"repository": "https://github.com/serde-rs/serde"
	},
	"versions": [
		{"num": "1.0.196", "license": "MIT OR Apache-2.0"},
		{"num": "1.0.195", "license": "MIT OR Apache-2.0"},
		{"num": "1.0.194", "license": "MIT OR Apache-2.0"}
	]
}`

func TestFetchLicense(t *testing.T) {
	mock := NewMockHTTPFetcher()
	mock.AddResponse("https://crates.io/api/v1/crates/serde", 200, serdeFixture)

	client := NewCratesClientWithFetcher("", mock)

	info, err := client.FetchLicense(context.Background(), "serde", "1.0.195")
	if err != nil {
		t.Fatalf("FetchLicense failed: %v", err)
	}

	if info.License != "MIT OR Apache-2.0" {
		t.Errorf("expected license 'MIT OR Apache-2.0', got %q", info.License)
	}
	if info.Version != "1.0.195" {
		t.Errorf("expected version 1.0.195, got %q", info.Version)
	}
	if info.RepositoryURL != "https://github.com/serde-rs/serde" {
		t.Errorf("unexpected repository URL %q", info.RepositoryURL)
	}
}

func TestFetchLicense_VersionNotFound(t *testing.T) {
	mock := NewMockHTTPFetcher()
	mock.AddResponse("https://crates.io/api/v1/crates/serde", 200, serdeFixture)

	client := NewCratesClientWithFetcher("", mock)

	_, err := client.FetchLicense(context.Background(), "serde", "99.99.99")
	if err == nil {
		t.Fatal("expected error for nonexistent version")
	}
	if !IsVersionNotFound(err) {
		t.Errorf("expected VersionNotFoundError, got %T: %v", err, err)
	}
}

func TestFetchLicense_ExactMatchIsByteForByte(t *testing.T) {
	mock := NewMockHTTPFetcher()
	mock.AddResponse("https://crates.io/api/v1/crates/serde", 200, serdeFixture)

	client := NewCratesClientWithFetcher("", mock)

	// "v"-prefixed versions must not match: the filter is byte-for-byte.
	_, err := client.FetchLicense(context.Background(), "serde", "v1.0.195")
	if !IsVersionNotFound(err) {
		t.Errorf("expected VersionNotFoundError for prefixed version, got %v", err)
	}
}

func TestFetchLicense_NetworkError(t *testing.T) {
	mock := NewMockHTTPFetcher()
	mock.AddError("https://crates.io/api/v1/crates/serde", errors.New("connection refused"))

	client := NewCratesClientWithFetcher("", mock)

	_, err := client.FetchLicense(context.Background(), "serde", "1.0.195")
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %T: %v", err, err)
	}
}

func TestFetchLicense_HTTPError(t *testing.T) {
	mock := NewMockHTTPFetcher()
	mock.AddResponse("https://crates.io/api/v1/crates/gone", 500, "Internal Server Error")

	client := NewCratesClientWithFetcher("", mock)

	_, err := client.FetchLicense(context.Background(), "gone", "1.0.0")
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %T: %v", err, err)
	}
	if unavailable.StatusCode != 500 {
		t.Errorf("expected status 500, got %d", unavailable.StatusCode)
	}
}
