// Package versioning compares semantic version strings using SemVer 2.0.0
// precedence, including prerelease identifier ordering.
package versioning

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var semverPattern = regexp.MustCompile(`^(?:[vV])?(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z.-]+))?(?:\+([0-9A-Za-z.-]+))?$`)

type identifier struct {
	raw     string
	numeric bool
	num     int
}

type version struct {
	major int
	minor int
	patch int
	pre   []identifier
}

// Compare orders version a relative to b: -1 when a < b, 0 when equal,
// +1 when a > b. Build metadata is ignored per SemVer precedence rules.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, fmt.Errorf("invalid semver '%s': %w", a, err)
	}
	bv, err := parse(b)
	if err != nil {
		return 0, fmt.Errorf("invalid semver '%s': %w", b, err)
	}
	return compare(av, bv), nil
}

// CompareOrLexical compares semantically when both versions parse as semver,
// falling back to lexical ordering otherwise. Used for report sorting, which
// must be total even over malformed version strings.
func CompareOrLexical(a, b string) int {
	if cmp, err := Compare(a, b); err == nil {
		return cmp
	}
	return strings.Compare(strings.TrimSpace(a), strings.TrimSpace(b))
}

func parse(input string) (*version, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, errors.New("empty version")
	}

	matches := semverPattern.FindStringSubmatch(trimmed)
	if len(matches) == 0 {
		return nil, errors.New("invalid format")
	}

	v := &version{}
	var err error
	if v.major, err = parseSegment(matches[1]); err != nil {
		return nil, err
	}
	if v.minor, err = parseSegment(matches[2]); err != nil {
		return nil, err
	}
	if v.patch, err = parseSegment(matches[3]); err != nil {
		return nil, err
	}

	if prerelease := matches[4]; prerelease != "" {
		parts := strings.Split(prerelease, ".")
		v.pre = make([]identifier, len(parts))
		for i, part := range parts {
			if part == "" {
				return nil, errors.New("invalid prerelease identifier: empty segment")
			}
			if isNumeric(part) {
				num, err := strconv.Atoi(part)
				if err != nil {
					return nil, fmt.Errorf("invalid prerelease identifier '%s': %w", part, err)
				}
				v.pre[i] = identifier{raw: part, numeric: true, num: num}
			} else {
				v.pre[i] = identifier{raw: part}
			}
		}
	}

	return v, nil
}

func parseSegment(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("segment '%s': %w", s, err)
	}
	return n, nil
}

func compare(a, b *version) int {
	if a.major != b.major {
		return sign(a.major - b.major)
	}
	if a.minor != b.minor {
		return sign(a.minor - b.minor)
	}
	if a.patch != b.patch {
		return sign(a.patch - b.patch)
	}

	// A version without prerelease identifiers ranks above one with them.
	if len(a.pre) == 0 && len(b.pre) == 0 {
		return 0
	}
	if len(a.pre) == 0 {
		return 1
	}
	if len(b.pre) == 0 {
		return -1
	}

	limit := len(a.pre)
	if len(b.pre) < limit {
		limit = len(b.pre)
	}
	for i := 0; i < limit; i++ {
		ai, bi := a.pre[i], b.pre[i]
		switch {
		case ai.numeric && bi.numeric:
			if ai.num != bi.num {
				return sign(ai.num - bi.num)
			}
		case ai.numeric:
			// Numeric identifiers rank below alphanumeric ones.
			return -1
		case bi.numeric:
			return 1
		default:
			if cmp := strings.Compare(ai.raw, bi.raw); cmp != 0 {
				return cmp
			}
		}
	}

	return sign(len(a.pre) - len(b.pre))
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
