package policy

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

const (
	passGlyph = "✓"
	failGlyph = "✗"
)

// PrintChecks emits one diagnostic line per dependency to the operator-facing
// stream: name, version, raw license string, and a pass/fail glyph. Columns
// are width-aligned across the whole run. This is observability output, not
// part of the data contract.
func PrintChecks(w io.Writer, checks []Check) {
	nameWidth, versionWidth := 0, 0
	for _, c := range checks {
		if width := runewidth.StringWidth(c.Name); width > nameWidth {
			nameWidth = width
		}
		if width := runewidth.StringWidth(c.Version); width > versionWidth {
			versionWidth = width
		}
	}

	for _, c := range checks {
		glyph := failGlyph
		if c.Approved {
			glyph = passGlyph
		}
		license := c.License
		if license == "" {
			license = "(none)"
		}
		suffix := ""
		if c.Excepted {
			suffix = " (excepted)"
		}
		fmt.Fprintf(w, "%s %s  %s  %s%s\n",
			glyph,
			runewidth.FillRight(c.Name, nameWidth),
			runewidth.FillRight(c.Version, versionWidth),
			license,
			suffix,
		)
	}
}
