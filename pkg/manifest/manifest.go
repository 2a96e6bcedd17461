// Package manifest loads the dependency lock file into an ordered list of
// name/version entries.
package manifest

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Entry is one resolved dependency from the lock file. Immutable once parsed.
type Entry struct {
	Name    string
	Version string
	// Source is the registry source string from the lock file. Empty for
	// local path or workspace packages.
	Source string
}

// Error indicates the lock file could not be read or parsed. It aborts the
// audit before any task submission.
type Error struct {
	Path    string
	Wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to load lock manifest %s: %v", e.Path, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// lockFile mirrors the Cargo.lock TOML layout.
type lockFile struct {
	Version  int           `toml:"version"`
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Source  string `toml:"source"`
}

// Load parses the lock file at path, preserving manifest order. The entry
// whose name equals selfName is dropped: the audited project is not one of
// its own third-party dependencies.
func Load(path, selfName string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Wrapped: err}
	}
	return Parse(data, path, selfName)
}

// Parse decodes lock file content. Split from Load so tests can feed raw bytes.
func Parse(data []byte, path, selfName string) ([]Entry, error) {
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, &Error{Path: path, Wrapped: err}
	}

	entries := make([]Entry, 0, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg.Name == selfName && selfName != "" {
			continue
		}
		entries = append(entries, Entry{
			Name:    pkg.Name,
			Version: pkg.Version,
			Source:  pkg.Source,
		})
	}
	return entries, nil
}
