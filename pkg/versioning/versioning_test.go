package versioning

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.2.0", "1.10.0", -1},
		{"1.0.1", "1.0.0", 1},
		{"v1.0.0", "1.0.0", 0},
		// Prerelease precedence per SemVer 2.0.0 §11
		{"1.0.0-alpha", "1.0.0", -1},
		{"1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"1.0.0-alpha.1", "1.0.0-alpha.beta", -1},
		{"1.0.0-alpha.beta", "1.0.0-beta", -1},
		{"1.0.0-beta.2", "1.0.0-beta.11", -1},
		{"1.0.0-rc.1", "1.0.0", -1},
		{"1.0.0-2", "1.0.0-alpha", -1},
	}

	for _, tt := range tests {
		got, err := Compare(tt.a, tt.b)
		if err != nil {
			t.Errorf("Compare(%q, %q) unexpected error: %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
		// Comparison must be antisymmetric.
		rev, _ := Compare(tt.b, tt.a)
		if rev != -tt.expected {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, rev, -tt.expected)
		}
	}
}

func TestCompareInvalid(t *testing.T) {
	for _, v := range []string{"", "1.0", "abc", "1.0.0.0"} {
		if _, err := Compare(v, "1.0.0"); err == nil {
			t.Errorf("Compare(%q, ...) expected error", v)
		}
	}
}

func TestCompareOrLexical(t *testing.T) {
	if got := CompareOrLexical("1.2.0", "1.10.0"); got != -1 {
		t.Errorf("semver path: got %d, want -1", got)
	}
	if got := CompareOrLexical("abc", "abd"); got != -1 {
		t.Errorf("lexical fallback: got %d, want -1", got)
	}
	if got := CompareOrLexical("same", "same"); got != 0 {
		t.Errorf("lexical equal: got %d, want 0", got)
	}
}
