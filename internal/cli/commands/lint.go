package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/eblint/internal/cli/config"
	"github.com/leapstack-labs/eblint/internal/cli/output"
	"github.com/leapstack-labs/eblint/pkg/easyconfig"
	"github.com/leapstack-labs/eblint/pkg/lint"
	_ "github.com/leapstack-labs/eblint/pkg/lint/rules" // register rules
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths    []string // Files or directories
	Format   string   // Output format: auto, text, markdown, json
	Disable  []string // Rule IDs to disable
	Enable   []string // Rule IDs to enable (including opt-in rules)
	Rules    []string // Run only specific rules
	Severity string   // Minimum severity: error, warning, info, hint
	Jobs     int      // Files linted concurrently; 0 uses the config value
	Watch    bool     // Re-lint on change
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Check easyconfig files",
		Long: `Check EasyBuild easyconfig files for style and correctness issues.

Files are parsed, never executed. Directories are searched recursively for
*.eb files. Rules can be configured in eblint.yaml.

Each issue is reported as:
  <path>:<line>:<column>: <CODE>: <message>

Exit status is 0 when no issues are found, 1 when issues are found and
2 when a file cannot be checked.`,
		Example: `  # Lint every easyconfig below the current directory
  eblint lint

  # Lint specific files
  eblint lint zlib-1.2.11.eb Python-3.9.5-GCCcore-10.3.0.eb

  # Output as JSON
  eblint lint --format json easybuild/easyconfigs

  # Disable specific rules
  eblint lint --disable O001,M001

  # Turn on the strict header order check
  eblint lint --enable O002

  # Only report errors
  eblint lint --severity error

  # Re-lint whenever a file changes
  eblint lint --watch .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: auto, text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Enable, "enable", nil, "Rule IDs to enable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files linted concurrently (default: config value, then CPU count)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and re-lint on change")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	if opts.Format != "" && !output.ValidMode(opts.Format) {
		return fmt.Errorf("unknown format %q (want one of %v)", opts.Format, output.Modes)
	}
	threshold, ok := lint.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("unknown severity %q", opts.Severity)
	}

	cmdCtx := NewCommandContext(cmd, opts.Format)

	lintCfg, err := buildLintConfig(cmdCtx.Cfg, opts)
	if err != nil {
		return err
	}
	// Surface unknown rule IDs and bad rule options before touching any file.
	if _, err := lint.NewCheckers(lintCfg); err != nil {
		return err
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	run := &lintRun{
		cfg:       lintCfg,
		threshold: threshold,
		jobs:      resolveJobs(opts.Jobs, cmdCtx.Cfg),
		logger:    cmdCtx.Logger,
		renderer:  cmdCtx.Renderer,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Watch {
		return watchLint(ctx, run, paths)
	}
	return run.lintPaths(ctx, paths)
}

// buildLintConfig merges the lint section of the configuration with the
// command-line flags. Flags take precedence.
func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	lintCfg, err := lint.ConfigFromLint(cfg.LintSection())
	if err != nil {
		return nil, err
	}

	for _, id := range splitIDs(opts.Enable) {
		lintCfg.Enable(id)
	}
	for _, id := range splitIDs(opts.Disable) {
		lintCfg.Disable(id)
	}
	if ids := splitIDs(opts.Rules); len(ids) > 0 {
		lintCfg.Restrict(ids...)
	}

	return lintCfg, nil
}

func splitIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = lint.NormalizeRuleID(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func resolveJobs(flagJobs int, cfg *config.Config) int {
	if flagJobs > 0 {
		return flagJobs
	}
	if cfg != nil && cfg.Jobs > 0 {
		return cfg.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// lintRun holds everything needed to lint a set of paths. It is reused
// across watch iterations.
type lintRun struct {
	cfg       *lint.Config
	threshold lint.Severity
	jobs      int
	logger    *slog.Logger
	renderer  *output.Renderer
}

// lintFileResult holds lint results for a single file.
type lintFileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	Err         error
}

// lintPaths discovers, lints and renders the files under paths, and returns
// lint.ErrViolations, a fatal error, or nil.
func (lr *lintRun) lintPaths(ctx context.Context, paths []string) error {
	files, err := easyconfig.Discover(paths)
	if err != nil {
		return err
	}
	lr.logger.Debug("discovered easyconfigs", slog.Int("count", len(files)))

	results, err := lr.lintFiles(ctx, files)
	if err != nil {
		return err
	}
	results = filterBySeverity(results, lr.threshold)

	renderLintResults(lr.renderer, results)
	return lintOutcome(results)
}

// lintFiles lints files concurrently. Results are in input order; per-file
// failures are recorded on the result rather than returned.
func (lr *lintRun) lintFiles(ctx context.Context, files []string) ([]lintFileResult, error) {
	results := make([]lintFileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(lr.jobs, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = lr.lintFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// lintFile parses path and runs a fresh set of checkers over it.
func (lr *lintRun) lintFile(ctx context.Context, path string) lintFileResult {
	res := lintFileResult{Path: path}

	src, err := os.ReadFile(path) //nolint:gosec // path comes from the user's command line
	if err != nil {
		res.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return res
	}
	f, err := easyconfig.Parse(path, src)
	if err != nil {
		res.Err = err
		return res
	}

	checkers, err := lint.NewCheckers(lr.cfg)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	linter := lint.NewLinter(
		lint.WithCheckers(checkers...),
		lint.WithConfig(lr.cfg),
		lint.WithSource(src),
		lint.WithLogger(lr.logger.With(slog.String("file", path))),
	)
	out, err := linter.Run(ctx, f)
	if out != nil {
		res.Diagnostics = out.Diagnostics
	}
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
	}
	return res
}

func filterBySeverity(results []lintFileResult, threshold lint.Severity) []lintFileResult {
	filtered := make([]lintFileResult, 0, len(results))
	for _, r := range results {
		var diags []lint.Diagnostic
		for _, d := range r.Diagnostics {
			if d.Severity.AtLeast(threshold) {
				diags = append(diags, d)
			}
		}
		r.Diagnostics = diags
		filtered = append(filtered, r)
	}
	return filtered
}

// lintOutcome maps results to the command's error: file failures first,
// then violations.
func lintOutcome(results []lintFileResult) error {
	var errs []error
	found := false
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
		if len(r.Diagnostics) > 0 {
			found = true
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if found {
		return lint.ErrViolations
	}
	return nil
}

func summarize(results []lintFileResult) output.LintSummary {
	summary := output.LintSummary{FilesAnalyzed: len(results)}
	for _, res := range results {
		if res.Err != nil {
			summary.FilesFailed++
		}
		summary.TotalIssues += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

func renderLintResults(r *output.Renderer, results []lintFileResult) {
	summary := summarize(results)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		renderLintJSON(r, results, summary)
	case output.ModeMarkdown:
		renderLintMarkdown(r, results, summary)
	default:
		renderLintText(r, results, summary)
	}
}

func renderLintJSON(r *output.Renderer, results []lintFileResult, summary output.LintSummary) {
	jsonOutput := output.LintOutput{
		Summary: summary,
		Files:   make([]output.LintFileResult, 0, len(results)),
	}
	for _, res := range results {
		fileResult := output.LintFileResult{
			Path:        res.Path,
			Diagnostics: make([]output.LintDiagnostic, 0, len(res.Diagnostics)),
		}
		if res.Err != nil {
			fileResult.Error = res.Err.Error()
		}
		for _, d := range res.Diagnostics {
			pos := displayPos(d.Pos)
			fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
				RuleID:           d.RuleID,
				Severity:         d.Severity.String(),
				Message:          d.Message,
				Line:             pos.Line,
				Column:           pos.Column,
				DocumentationURL: d.DocumentationURL,
			})
		}
		jsonOutput.Files = append(jsonOutput.Files, fileResult)
	}
	_ = r.JSON(jsonOutput)
}

// renderLintText prints one line per issue. Colors and the summary are only
// added on a terminal so the plain form stays grep-friendly.
func renderLintText(r *output.Renderer, results []lintFileResult, summary output.LintSummary) {
	styles := r.Styles()
	for _, res := range results {
		for _, d := range res.Diagnostics {
			r.Printf("%s:%s: %s: %s\n",
				styles.FilePath.Render(res.Path),
				displayPos(d.Pos),
				severityLabelStyle(styles, d.Severity).Render(d.RuleID),
				d.Message,
			)
		}
		if res.Err != nil {
			r.Error(res.Err.Error())
		}
	}

	if !r.IsTTY() {
		return
	}
	if summary.TotalIssues == 0 && summary.FilesFailed == 0 {
		r.Success(fmt.Sprintf("No issues found in %d files", summary.FilesAnalyzed))
		return
	}
	r.Println(styles.Muted.Render("Summary: " + summaryLine(summary)))
}

func renderLintMarkdown(r *output.Renderer, results []lintFileResult, summary output.LintSummary) {
	r.Println("# Lint Results")
	r.Println("")

	for _, res := range results {
		if len(res.Diagnostics) == 0 && res.Err == nil {
			continue
		}
		r.Printf("## `%s`\n\n", res.Path)
		if res.Err != nil {
			r.Printf("**error:** %s\n\n", res.Err)
		}
		if len(res.Diagnostics) == 0 {
			continue
		}
		r.Println("| Location | Rule | Severity | Message |")
		r.Println("|---|---|---|---|")
		for _, d := range res.Diagnostics {
			r.Printf("| %s | %s | %s | %s |\n", displayPos(d.Pos), d.RuleID, d.Severity, strings.ReplaceAll(d.Message, "|", `\|`))
		}
		r.Println("")
	}

	if summary.TotalIssues == 0 && summary.FilesFailed == 0 {
		r.Success(fmt.Sprintf("No issues found in %d files", summary.FilesAnalyzed))
		return
	}
	r.Printf("**Summary:** %s\n", summaryLine(summary))
}

func summaryLine(summary output.LintSummary) string {
	parts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", summary.Hints))
	}
	line := fmt.Sprintf("%s in %d files", strings.Join(parts, ", "), summary.FilesAnalyzed)
	if summary.FilesFailed > 0 {
		line += fmt.Sprintf(" (%d failed)", summary.FilesFailed)
	}
	return line
}

// displayPos maps a missing position to the start of the file.
func displayPos(p lint.Position) lint.Position {
	if !p.IsValid() {
		return lint.Position{Line: 1, Column: 0}
	}
	return p
}
