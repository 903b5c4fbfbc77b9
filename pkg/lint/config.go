package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/eblint/pkg/core"
)

// Config controls which rules are enabled, their severity and their options.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// EnabledRules turns on rules that are off by default
	EnabledRules map[string]bool

	// Only restricts the run to these rule IDs when non-empty
	Only map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity

	// RuleOptions holds per-rule options passed to rule constructors
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration: every rule runs with its
// default enablement, severity and options.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		EnabledRules:      make(map[string]bool),
		Only:              make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// ConfigFromLint converts the file-level lint section into a Config.
// Rule IDs are case-insensitive. A rule listed as both enabled and disabled
// stays disabled. Unknown severity names are reported as errors.
func ConfigFromLint(lc core.LintConfig) (*Config, error) {
	cfg := NewConfig()
	for _, id := range lc.Enabled {
		cfg.Enable(NormalizeRuleID(id))
	}
	for _, id := range lc.Disabled {
		cfg.Disable(NormalizeRuleID(id))
	}
	for id, name := range lc.Severity {
		sev, ok := ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("invalid severity %q for rule %s", name, id)
		}
		cfg.SetSeverity(NormalizeRuleID(id), sev)
	}
	for id, opts := range lc.Rules {
		cfg.SetRuleOptions(NormalizeRuleID(id), opts)
	}
	return cfg, nil
}

// NormalizeRuleID returns the canonical, upper-case form of a rule ID.
func NormalizeRuleID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsDisabled returns true if the rule was explicitly disabled or excluded
// by an Only filter.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	if len(c.Only) > 0 && !c.Only[ruleID] {
		return true
	}
	return c.DisabledRules[ruleID]
}

// IsEnabled reports whether a registered rule should run.
// Explicit disable wins over explicit enable; an Only filter implies enable.
func (c *Config) IsEnabled(def RuleDef) bool {
	if c == nil {
		return def.Enabled
	}
	if c.IsDisabled(def.ID) {
		return false
	}
	if c.Only[def.ID] || c.EnabledRules[def.ID] {
		return true
	}
	return def.Enabled
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// Enable turns on a rule by ID, including rules that are off by default.
func (c *Config) Enable(ruleID string) *Config {
	c.EnabledRules[ruleID] = true
	delete(c.DisabledRules, ruleID)
	return c
}

// Restrict limits the run to the given rule IDs.
func (c *Config) Restrict(ruleIDs ...string) *Config {
	for _, id := range ruleIDs {
		c.Only[id] = true
	}
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetRuleOptions replaces the options for a rule.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[ruleID] = opts
	return c
}
