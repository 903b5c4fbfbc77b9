package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leapstack-labs/eblint/internal/cli/output"
	"github.com/leapstack-labs/eblint/pkg/core"
)

// Validate checks values that do not depend on the rule registry. Unknown
// rule IDs are reported when checkers are built.
func (c *Config) Validate() error {
	var errs []error

	if !output.ValidMode(c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output: unknown format %q (want one of %v)", c.OutputFormat, output.Modes))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs: must not be negative, got %d", c.Jobs))
	}

	if c.Lint != nil {
		ids := make([]string, 0, len(c.Lint.Severity))
		for id := range c.Lint.Severity {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if _, ok := core.ParseSeverity(c.Lint.Severity[id]); !ok {
				errs = append(errs, fmt.Errorf("lint.severity.%s: unknown severity %q", id, c.Lint.Severity[id]))
			}
		}
	}

	return errors.Join(errs...)
}
