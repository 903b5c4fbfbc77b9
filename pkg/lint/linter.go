package lint

import (
	"context"
	"errors"
	"log/slog"

	"go.starlark.net/syntax"

	"github.com/leapstack-labs/eblint/pkg/easyconfig"
)

// Result holds the diagnostics of one Linter run.
type Result struct {
	Diagnostics []Diagnostic
}

// HasViolations reports whether any diagnostic was produced.
func (r *Result) HasViolations() bool {
	return r != nil && len(r.Diagnostics) > 0
}

// Linter runs a set of checkers over a parsed easyconfig.
type Linter struct {
	checkers []Checker
	config   *Config
	logger   *slog.Logger
	cleanup  bool
	src      []byte
}

// Option configures a Linter.
type Option func(*Linter)

// WithCheckers appends checkers to the linter.
func WithCheckers(checkers ...Checker) Option {
	return func(l *Linter) {
		l.checkers = append(l.checkers, checkers...)
	}
}

// WithConfig sets the configuration used for disabling and severity.
func WithConfig(cfg *Config) Option {
	return func(l *Linter) {
		if cfg != nil {
			l.config = cfg
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithoutCleanup keeps violations on the checkers after Run.
func WithoutCleanup() Option {
	return func(l *Linter) {
		l.cleanup = false
	}
}

// WithSource supplies the source the file was parsed from. Diagnostic
// columns are then UTF-8 byte offsets; without it they count runes.
func WithSource(src []byte) Option {
	return func(l *Linter) {
		l.src = src
	}
}

// NewLinter creates a linter. Without WithCheckers it holds no checkers.
func NewLinter(opts ...Option) *Linter {
	l := &Linter{
		config:  NewConfig(),
		logger:  slog.New(slog.DiscardHandler),
		cleanup: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Checkers returns the checkers the linter runs.
func (l *Linter) Checkers() []Checker {
	return l.checkers
}

// Run visits file with every checker that is not disabled and converts the
// violations into diagnostics, in checker order then discovery order.
//
// A checker that fails does not stop the others: its violations are dropped
// and a *CheckerError is joined into the returned error. The Result is
// non-nil even when err is non-nil.
func (l *Linter) Run(ctx context.Context, file *syntax.File) (*Result, error) {
	result := &Result{}
	var errs []error

	for _, c := range l.checkers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		code := c.IssueCode()
		if l.config.IsDisabled(code) {
			l.logger.Debug("checker disabled", slog.String("rule", code))
			continue
		}

		if err := c.Visit(file); err != nil {
			l.logger.Debug("checker failed", slog.String("rule", code), slog.Any("error", err))
			errs = append(errs, &CheckerError{IssueCode: code, Err: err})
			if l.cleanup {
				c.ClearViolations()
			}
			continue
		}

		severity := l.config.GetSeverity(code, defaultSeverity(code))
		for _, v := range c.Violations() {
			pos := l.positionOf(v.Node)
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				RuleID:           code,
				Severity:         severity,
				Message:          v.Message,
				Pos:              pos,
				DocumentationURL: BuildDocURL(code),
			})
		}

		if l.cleanup {
			c.ClearViolations()
		}
	}

	return result, errors.Join(errs...)
}

func (l *Linter) positionOf(node syntax.Node) Position {
	pos, ok := PositionOf(node)
	if ok && l.src != nil {
		start, _ := node.Span()
		pos.Column = easyconfig.Column(l.src, start)
	}
	return pos
}

func defaultSeverity(code string) Severity {
	if def, ok := GetRuleByID(code); ok {
		return def.Severity
	}
	return SeverityWarning
}
