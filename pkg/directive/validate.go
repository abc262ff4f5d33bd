package directive

import (
	"fmt"

	"github.com/praetorian-inc/adocref/pkg/types"
)

// ValidateDirective checks required fields, the pattern, and the examples.
func ValidateDirective(d *types.Directive) error {
	if d == nil {
		return fmt.Errorf("directive is nil")
	}

	if d.ID == "" {
		return fmt.Errorf("directive ID is required")
	}
	if d.Name == "" {
		return fmt.Errorf("directive %s: name is required", d.ID)
	}
	if d.Keyword == "" {
		return fmt.Errorf("directive %s: keyword is required", d.ID)
	}
	if d.Pattern == "" {
		return fmt.Errorf("directive %s: pattern is required", d.ID)
	}
	if d.Severity != "" && !d.Severity.Valid() {
		return fmt.Errorf("directive %s: unknown severity %q", d.ID, d.Severity)
	}

	re, err := Compile(d)
	if err != nil {
		return err
	}

	for _, example := range d.Examples {
		ok, err := re.MatchString(example)
		if err != nil {
			return fmt.Errorf("directive %s: example %q: %w", d.ID, example, err)
		}
		if !ok {
			return fmt.Errorf("directive %s: pattern does not match example %q", d.ID, example)
		}
	}

	for _, example := range d.NegativeExamples {
		ok, err := re.MatchString(example)
		if err != nil {
			return fmt.Errorf("directive %s: negative example %q: %w", d.ID, example, err)
		}
		if ok {
			return fmt.Errorf("directive %s: pattern matches negative example %q", d.ID, example)
		}
	}

	return nil
}

// ValidateAll validates each directive and rejects duplicate IDs.
func ValidateAll(directives []*types.Directive) error {
	seen := make(map[string]bool, len(directives))
	for _, d := range directives {
		if err := ValidateDirective(d); err != nil {
			return err
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate directive ID: %s", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
