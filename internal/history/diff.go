package history

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Diff returns a unified diff of the YAML form of two versions' inputs.
// Identical inputs yield an empty string.
func Diff(a, b Version) (string, error) {
	left, err := yaml.Marshal(a.Inputs)
	if err != nil {
		return "", fmt.Errorf("encode version %d: %w", a.Number, err)
	}
	right, err := yaml.Marshal(b.Inputs)
	if err != nil {
		return "", fmt.Errorf("encode version %d: %w", b.Number, err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(left)),
		B:        difflib.SplitLines(string(right)),
		FromFile: fmt.Sprintf("v%d", a.Number),
		ToFile:   fmt.Sprintf("v%d", b.Number),
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff v%d..v%d: %w", a.Number, b.Number, err)
	}
	return text, nil
}
