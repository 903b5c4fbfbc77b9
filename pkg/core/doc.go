// Package core defines the shared language of eblint.
//
// This package contains:
//   - Severity levels and rule metadata (RuleInfo)
//   - Configuration types shared by the CLI and the lint engine (LintConfig)
//
// pkg/core imports only the standard library. Every other package depends on
// core, never the reverse.
package core
