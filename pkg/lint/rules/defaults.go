package rules

import "slices"

// DefaultOptions returns the built-in options of every rule, keyed by rule ID.
// The result is a fresh copy and may be modified.
func DefaultOptions() map[string]map[string]any {
	return map[string]map[string]any{
		MandatoryFields.ID: {
			"fields": slices.Clone(DefaultMandatoryFields),
		},
		FieldOrder.ID: {
			"fields": slices.Clone(DefaultFieldOrder),
			"strict": false,
		},
		StrictHeaderOrder.ID: {
			"fields": slices.Clone(DefaultHeaderOrder),
			"strict": true,
		},
		DependencyFormat.ID: {
			"keywords": slices.Clone(DefaultDependencyKeywords),
		},
		ForbiddenFields.ID: {
			"fields": []string{},
		},
	}
}
