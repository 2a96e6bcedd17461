package policy

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
)

// DepInput is one dependency as seen by the Rego engine.
type DepInput struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	LicenseType string `json:"license_type"`
}

// RegoEngine evaluates the forbidden-license rules via embedded OPA. It is
// only consulted when the policy file names forbidden license types.
type RegoEngine struct {
	regoCode string
}

// NewRegoEngine builds an engine from the policy's forbidden list. Returns
// nil when the policy has nothing for the engine to enforce.
func NewRegoEngine(cfg Config) *RegoEngine {
	if len(cfg.Forbidden) == 0 {
		return nil
	}
	return &RegoEngine{regoCode: transpileForbidden(cfg.Forbidden)}
}

// Evaluate runs the deny rules over the classified dependencies and returns
// one message per violation.
func (e *RegoEngine) Evaluate(ctx context.Context, deps []DepInput) ([]string, error) {
	if e == nil || e.regoCode == "" {
		return nil, nil
	}

	input := map[string]interface{}{"dependencies": deps}

	rs, err := rego.New(
		rego.Query("data.lockaudit.policy.deny"),
		rego.Input(input),
		rego.Module("policy.rego", e.regoCode),
	).Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}

	var denials []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			values, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, v := range values {
				if msg, ok := v.(string); ok {
					denials = append(denials, msg)
				}
			}
		}
	}
	return denials, nil
}

// transpileForbidden converts the forbidden list into a Rego deny rule set.
func transpileForbidden(forbidden []string) string {
	var buf bytes.Buffer

	buf.WriteString("package lockaudit.policy\n\n")
	buf.WriteString("deny contains msg if {\n")
	buf.WriteString("  dep := input.dependencies[_]\n")
	buf.WriteString("  forbidden := ")
	buf.WriteString(formatRegoArray(forbidden))
	buf.WriteString("\n")
	buf.WriteString("  forbidden[_] == dep.license_type\n")
	buf.WriteString("  msg := sprintf(\"package %s@%s uses forbidden license: %s\", [dep.name, dep.version, dep.license_type])\n")
	buf.WriteString("}\n")

	return buf.String()
}

// formatRegoArray converts a string slice to a quoted Rego array,
// e.g. [GPL-3.0, AGPL-3.0] -> ["GPL-3.0", "AGPL-3.0"]
func formatRegoArray(arr []string) string {
	parts := make([]string, len(arr))
	for i, item := range arr {
		parts[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
