// Package report assembles the optional attribution report ("OSS readme")
// for redistribution notices.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/auditkit/lockaudit/pkg/versioning"
)

// Record is one attribution entry. Name is the owner/repo identifier;
// LicenseDetail is the trimmed license text as a line sequence, never empty
// when the record exists.
type Record struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	RepositoryURL string   `json:"repositoryUrl"`
	LicenseDetail []string `json:"licenseDetail"`
	IsProd        bool     `json:"isProd"`
}

// Sort orders records by repository identifier (lexicographic), then by
// semantic version ascending when identifiers are equal.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return versioning.CompareOrLexical(records[i].Version, records[j].Version) < 0
	})
}

// WriteJSON serializes the records as an indented JSON document. This is the
// sole external artifact of attribution-report mode.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal attribution report: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write attribution report: %w", err)
	}
	return nil
}

// markdownTemplate renders a NOTICE-style document. Triple-stash throughout:
// the output is Markdown, and HTML-escaping would corrupt license boilerplate
// like "Copyright (c) <year> <copyright holders>".
const markdownTemplate = `# Third-Party Licenses

This distribution bundles the following third-party packages.

{{#each records}}
## {{{name}}} {{{version}}}

Repository: {{{repositoryUrl}}}

` + "```" + `
{{{licenseText}}}
` + "```" + `

{{/each}}`

// WriteMarkdown renders the records as a Markdown notice document.
func WriteMarkdown(w io.Writer, records []Record) error {
	entries := make([]map[string]string, 0, len(records))
	for _, r := range records {
		entries = append(entries, map[string]string{
			"name":          r.Name,
			"version":       r.Version,
			"repositoryUrl": r.RepositoryURL,
			"licenseText":   strings.Join(r.LicenseDetail, "\n"),
		})
	}

	out, err := raymond.Render(markdownTemplate, map[string]interface{}{"records": entries})
	if err != nil {
		return fmt.Errorf("failed to render attribution report: %w", err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write attribution report: %w", err)
	}
	return nil
}
