// Package lint provides the easyconfig checker engine.
//
// # Architecture
//
// The lint package is organized in three layers:
//
//  1. Root package (pkg/lint/): the Violation model, the Checker contract, the
//     Linter that runs checkers over a parsed file, configuration and the rule registry
//  2. Traversal (pkg/lint/internal/ast/): a visitor over go.starlark.net/syntax trees
//  3. Rules (pkg/lint/rules/): the concrete checkers, registered via init()
//
// # Rule Registration
//
// Rules are registered when their package is imported:
//
//	import _ "github.com/leapstack-labs/eblint/pkg/lint/rules"
//
// # Rule Codes
//
//   - M001: mandatory fields are assigned
//   - O001: prescribed fields appear in the canonical order
//   - O002: header fields come first, in order (strict ordering)
//   - D001: dependency tuples are well formed
//   - F001: forbidden fields are not used
//
// # Running Checkers
//
// Checkers are stateful: each accumulates violations while it walks a file.
// Build a fresh set per file and hand it to a Linter:
//
//	checkers, err := lint.NewCheckers(lint.NewConfig())
//	linter := lint.NewLinter(lint.WithCheckers(checkers...))
//	diags, err := linter.Run(ctx, file)
//
// A checker that fails (for example on an unresolvable dependency alias) does not
// stop the others; its error is returned as a *CheckerError naming the issue code.
//
// # Configuration
//
// Use Config to control which rules run, their severity and their options:
//
//	config := lint.NewConfig()
//	config.Disable("F001")
//	config.Enable("O002")
//	config.SetSeverity("M001", core.SeverityError)
//	config.SetRuleOptions("D001", map[string]any{"keywords": []string{"dependencies"}})
package lint
