// Package config provides configuration management for the eblint CLI.
//
// Configuration is layered, highest precedence first: explicitly set flags,
// EBLINT_* environment variables, eblint.yaml, built-in defaults. The shared
// lint section type lives in pkg/core and is re-exported here.
package config

import (
	"github.com/leapstack-labs/eblint/pkg/core"
)

// LintConfig is an alias for the shared lint configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool        `koanf:"verbose" yaml:"verbose,omitempty"`
	OutputFormat string      `koanf:"output" yaml:"output,omitempty"`
	Jobs         int         `koanf:"jobs" yaml:"jobs,omitempty"`
	DocsURL      string      `koanf:"docs_url" yaml:"docs_url,omitempty"`
	Lint         *LintConfig `koanf:"lint" yaml:"lint,omitempty"`

	// ConfigDir is the directory of the loaded config file, or the working
	// directory when none was found.
	ConfigDir string `koanf:"-" yaml:"-"`
}

// Config file names, in lookup order.
var ConfigFileNames = []string{"eblint.yaml", "eblint.yml"}

// Default configuration values.
const (
	DefaultOutput = "auto"
	DefaultJobs   = 0 // one worker per CPU
	EnvPrefix     = "EBLINT_"
)

// LintSection returns the lint section, never nil.
func (c *Config) LintSection() LintConfig {
	if c == nil || c.Lint == nil {
		return LintConfig{}
	}
	return *c.Lint
}
