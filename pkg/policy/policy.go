// Package policy classifies dependency licenses against an allow-list and
// aggregates per-entry results into a single pass/fail verdict.
package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Exception exempts dependencies matching a name pattern from the allow-list.
type Exception struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Reason  string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Config is the license policy. Approved holds marker substrings: a license
// string passes when it contains any approved marker (case-sensitive).
// Forbidden lists license types rejected outright by the Rego engine.
type Config struct {
	Approved   []string    `yaml:"approved" json:"approved"`
	Forbidden  []string    `yaml:"forbidden,omitempty" json:"forbidden,omitempty"`
	Exceptions []Exception `yaml:"exceptions,omitempty" json:"exceptions,omitempty"`
}

// Default returns the built-in policy: MIT-marked licenses only.
func Default() Config {
	return Config{Approved: []string{"MIT"}}
}

// configSchema validates policy files before they are trusted.
const configSchema = `{
	"type": "object",
	"properties": {
		"approved": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 1
		},
		"forbidden": {
			"type": "array",
			"items": {"type": "string"}
		},
		"exceptions": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"pattern": {"type": "string"},
					"reason": {"type": "string"}
				},
				"required": ["pattern"],
				"additionalProperties": false
			}
		}
	},
	"required": ["approved"],
	"additionalProperties": false
}`

// LoadFile reads a YAML policy file and validates it against the embedded
// schema before decoding.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse policy file: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return Config{}, fmt.Errorf("policy schema validation failed: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return Config{}, fmt.Errorf("invalid policy file %s: %s", path, strings.Join(msgs, "; "))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode policy file: %w", err)
	}
	return cfg, nil
}

// Check is the classification of one dependency's license.
type Check struct {
	Name     string
	Version  string
	License  string
	Approved bool
	Excepted bool
}

// Evaluator applies policy to individual dependencies.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator for the given policy.
func NewEvaluator(cfg Config) *Evaluator {
	if len(cfg.Approved) == 0 {
		cfg.Approved = Default().Approved
	}
	return &Evaluator{cfg: cfg}
}

// IsApproved reports whether the license string contains any approved marker.
// The test is a case-sensitive substring match, not an exact match:
// "MIT OR Apache-2.0" passes an "MIT" marker.
func (e *Evaluator) IsApproved(license string) bool {
	for _, marker := range e.cfg.Approved {
		if strings.Contains(license, marker) {
			return true
		}
	}
	return false
}

// IsExcepted reports whether the dependency name matches an exception
// pattern. Patterns use doublestar glob syntax.
func (e *Evaluator) IsExcepted(name string) bool {
	for _, exc := range e.cfg.Exceptions {
		if ok, err := doublestar.Match(exc.Pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Check classifies one dependency.
func (e *Evaluator) Check(name, version, license string) Check {
	c := Check{
		Name:    name,
		Version: version,
		License: license,
	}
	c.Approved = e.IsApproved(license)
	if !c.Approved && e.IsExcepted(name) {
		c.Approved = true
		c.Excepted = true
	}
	return c
}

// Verdict aggregates per-entry classifications: logical AND over all checks.
// A single non-approved license forces failure.
func Verdict(checks []Check) bool {
	for _, c := range checks {
		if !c.Approved {
			return false
		}
	}
	return true
}
