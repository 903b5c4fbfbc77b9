package core

// LintConfig holds lint rule configuration as read from eblint.yaml.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled" yaml:"disabled,omitempty"`

	// Enabled contains rule IDs to turn on that are off by default (e.g. O002)
	Enabled []string `koanf:"enabled" yaml:"enabled,omitempty"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity" yaml:"severity,omitempty"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules" yaml:"rules,omitempty"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any
