package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eblint/internal/cli/config"
	"github.com/leapstack-labs/eblint/internal/cli/output"
	"github.com/leapstack-labs/eblint/internal/cli/testutil"
	"github.com/leapstack-labs/eblint/pkg/lint"
	"github.com/leapstack-labs/eblint/pkg/lint/rules"
)

const cleanEasyconfig = `name = 'zlib'
version = '1.2.11'
homepage = 'https://www.zlib.net/'
description = "zlib compression library"
toolchain = SYSTEM
dependencies = [('binutils', '2.36.1')]
`

const misorderedEasyconfig = `version = '1.2.11'
name = 'zlib'
homepage = 'https://www.zlib.net/'
description = "zlib compression library"
toolchain = SYSTEM
`

const missingDescription = `name = 'zlib'
version = '1.2.11'
homepage = 'https://www.zlib.net/'
toolchain = SYSTEM
`

const pythonEasyconfig = `import os
name = 'zlib'
version = '1.2.11'
homepage = 'https://www.zlib.net/'
description = "zlib " \
    "compression library"
toolchain = SYSTEM
dependencies = [('é', '1.x')]
configopts = '--a' if os is not None else ''
`

const unresolvedAlias = `name = 'zlib'
version = '1.2.11'
homepage = 'https://www.zlib.net/'
description = "zlib"
toolchain = SYSTEM
dependencies = [('Python', pyver)]
`

func executeLint(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := NewLintCommand()
	// Mirror the root command, which silences cobra's usage/error output.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand()

	assert.Equal(t, "lint [path...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"format", "disable", "enable", "rule", "severity", "jobs", "watch"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestLintCommand_Text(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		args      []string
		wantLines []string
		wantErr   error
	}{
		{
			name:    "clean file",
			content: cleanEasyconfig,
		},
		{
			name:      "missing field reported at file start",
			content:   missingDescription,
			wantLines: []string{"%s:1:0: M001: Missing mandatory field 'description'"},
			wantErr:   lint.ErrViolations,
		},
		{
			name:      "misordered fields",
			content:   misorderedEasyconfig,
			wantLines: []string{"%s:2:0: O001: 'version' defined before 'name'"},
			wantErr:   lint.ErrViolations,
		},
		{
			name:      "python-only syntax with byte columns",
			content:   pythonEasyconfig,
			wantLines: []string{"%s:8:23: D001: Incorrectly formatted package name/version: '1.x'"},
			wantErr:   lint.ErrViolations,
		},
		{
			name:    "disabled rule",
			content: misorderedEasyconfig,
			args:    []string{"--disable", "O001"},
		},
		{
			name:    "restricted to other rules",
			content: misorderedEasyconfig,
			args:    []string{"--rule", "m001,d001"},
		},
		{
			name:    "below severity threshold",
			content: misorderedEasyconfig,
			args:    []string{"--severity", "error"},
		},
		{
			name:    "opt-in rule enabled",
			content: misorderedEasyconfig,
			args:    []string{"--enable", "O002", "--disable", "O001"},
			wantLines: []string{
				"%s:2:0: O002: 'version' defined before 'name'",
			},
			wantErr: lint.ErrViolations,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteEasyconfig(t, t.TempDir(), "zlib-1.2.11.eb", tt.content)

			out, _, err := executeLint(t, append(tt.args, path)...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			var want []string
			for _, line := range tt.wantLines {
				want = append(want, strings.ReplaceAll(line, "%s", path))
			}
			got := strings.Split(strings.TrimSpace(out), "\n")
			if len(want) == 0 {
				assert.Empty(t, strings.TrimSpace(out))
				return
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestLintCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	clean := testutil.WriteEasyconfig(t, dir, "a-1.0.eb", cleanEasyconfig)
	broken := testutil.WriteEasyconfig(t, dir, "b-1.0.eb", missingDescription)

	out, _, err := executeLint(t, "--format", "json", dir)
	require.ErrorIs(t, err, lint.ErrViolations)

	var doc output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, 2, doc.Summary.FilesAnalyzed)
	assert.Equal(t, 1, doc.Summary.TotalIssues)
	assert.Equal(t, 1, doc.Summary.Errors)

	require.Len(t, doc.Files, 2)
	assert.Equal(t, clean, doc.Files[0].Path)
	assert.Empty(t, doc.Files[0].Diagnostics)
	assert.Equal(t, broken, doc.Files[1].Path)
	require.Len(t, doc.Files[1].Diagnostics, 1)

	d := doc.Files[1].Diagnostics[0]
	assert.Equal(t, "M001", d.RuleID)
	assert.Equal(t, "error", d.Severity)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 0, d.Column)
	assert.Equal(t, lint.BuildDocURL("M001"), d.DocumentationURL)
}

func TestLintCommand_Markdown(t *testing.T) {
	path := testutil.WriteEasyconfig(t, t.TempDir(), "zlib-1.2.11.eb", misorderedEasyconfig)

	out, _, err := executeLint(t, "--format", "markdown", path)
	require.ErrorIs(t, err, lint.ErrViolations)
	assert.Contains(t, out, "# Lint Results")
	assert.Contains(t, out, "## `"+path+"`")
	assert.Contains(t, out, "| 2:0 | O001 | warning |")
	assert.Contains(t, out, "**Summary:** 1 issues, 1 warnings in 1 files")
}

func TestLintCommand_Fatal(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		errSub  []string
	}{
		{
			name:    "unresolved alias",
			content: unresolvedAlias,
			errSub:  []string{"D001", "unresolved name", "pyver"},
		},
		{
			name:    "parse error",
			content: "name = (\n",
			errSub:  []string{"parse"},
		},
		{
			name:    "unknown rule",
			content: cleanEasyconfig,
			args:    []string{"--rule", "X999"},
			errSub:  []string{"unknown rule IDs", "X999"},
		},
		{
			name:    "unknown severity",
			content: cleanEasyconfig,
			args:    []string{"--severity", "fatal"},
			errSub:  []string{"unknown severity"},
		},
		{
			name:    "unknown format",
			content: cleanEasyconfig,
			args:    []string{"--format", "xml"},
			errSub:  []string{"unknown format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteEasyconfig(t, t.TempDir(), "x-1.0.eb", tt.content)

			_, _, err := executeLint(t, append(tt.args, path)...)
			require.Error(t, err)
			assert.False(t, errors.Is(err, lint.ErrViolations), "fatal errors must not look like violations")
			for _, sub := range tt.errSub {
				assert.Contains(t, err.Error(), sub)
			}
		})
	}
}

func TestLintCommand_FatalKeepsOtherDiagnostics(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteEasyconfig(t, dir, "a-1.0.eb", missingDescription)
	bad := testutil.WriteEasyconfig(t, dir, "b-1.0.eb", unresolvedAlias)

	out, errOut, err := executeLint(t, dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, lint.ErrViolations)
	assert.Contains(t, err.Error(), bad)
	assert.Contains(t, out, "M001: Missing mandatory field 'description'")
	assert.Contains(t, errOut, "error: ")
}

func TestBuildLintConfig(t *testing.T) {
	t.Run("empty options", func(t *testing.T) {
		cfg, err := buildLintConfig(&config.Config{}, &LintOptions{})
		require.NoError(t, err)
		assert.False(t, cfg.IsDisabled("M001"))
		assert.False(t, cfg.IsEnabled(rules.StrictHeaderOrder))
	})

	t.Run("disable rules", func(t *testing.T) {
		cfg, err := buildLintConfig(&config.Config{}, &LintOptions{Disable: []string{"M001", " o001 "}})
		require.NoError(t, err)
		assert.True(t, cfg.IsDisabled("M001"))
		assert.True(t, cfg.IsDisabled("O001"))
		assert.False(t, cfg.IsDisabled("D001"))
	})

	t.Run("only specific rules", func(t *testing.T) {
		cfg, err := buildLintConfig(&config.Config{}, &LintOptions{Rules: []string{"D001"}})
		require.NoError(t, err)
		assert.False(t, cfg.IsDisabled("D001"))
		assert.True(t, cfg.IsDisabled("M001"))
		assert.True(t, cfg.IsDisabled("O001"))
	})

	t.Run("project config and flags", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Disabled: []string{"F001"},
				Severity: map[string]string{"M001": "warning"},
				Rules: map[string]config.RuleOptions{
					"F001": {"fields": []any{"import"}},
				},
			},
		}
		cfg, err := buildLintConfig(projectCfg, &LintOptions{Enable: []string{"O002"}})
		require.NoError(t, err)
		assert.True(t, cfg.IsDisabled("F001"))
		assert.True(t, cfg.IsEnabled(rules.StrictHeaderOrder))
		assert.Equal(t, lint.SeverityWarning, cfg.GetSeverity("M001", lint.SeverityError))
		assert.Equal(t, []any{"import"}, cfg.GetRuleOptions("F001")["fields"])
	})

	t.Run("invalid severity in config", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{Severity: map[string]string{"M001": "loud"}},
		}
		_, err := buildLintConfig(projectCfg, &LintOptions{})
		require.Error(t, err)
	})
}

func TestResolveJobs(t *testing.T) {
	assert.Equal(t, 3, resolveJobs(3, &config.Config{Jobs: 8}))
	assert.Equal(t, 8, resolveJobs(0, &config.Config{Jobs: 8}))
	assert.Positive(t, resolveJobs(0, &config.Config{}))
	assert.Positive(t, resolveJobs(0, nil))
}

func TestLintOutcome(t *testing.T) {
	fatal := errors.New("boom")

	assert.NoError(t, lintOutcome(nil))
	assert.NoError(t, lintOutcome([]lintFileResult{{Path: "a.eb"}}))
	assert.ErrorIs(t, lintOutcome([]lintFileResult{
		{Path: "a.eb", Diagnostics: []lint.Diagnostic{{RuleID: "M001"}}},
	}), lint.ErrViolations)

	err := lintOutcome([]lintFileResult{
		{Path: "a.eb", Diagnostics: []lint.Diagnostic{{RuleID: "M001"}}},
		{Path: "b.eb", Err: fatal},
	})
	assert.ErrorIs(t, err, fatal)
	assert.NotErrorIs(t, err, lint.ErrViolations)
}

func TestFilterBySeverity(t *testing.T) {
	results := []lintFileResult{{
		Path: "a.eb",
		Diagnostics: []lint.Diagnostic{
			{RuleID: "M001", Severity: lint.SeverityError},
			{RuleID: "O001", Severity: lint.SeverityWarning},
		},
	}}

	filtered := filterBySeverity(results, lint.SeverityError)
	require.Len(t, filtered, 1)
	require.Len(t, filtered[0].Diagnostics, 1)
	assert.Equal(t, "M001", filtered[0].Diagnostics[0].RuleID)

	filtered = filterBySeverity(results, lint.SeverityHint)
	assert.Len(t, filtered[0].Diagnostics, 2)
}

func TestRenderLintText_TTY(t *testing.T) {
	tr := testutil.NewTestRendererText()

	renderLintResults(tr.Renderer, []lintFileResult{{Path: "a.eb"}})
	assert.Contains(t, tr.Output(), "No issues found in 1 files")

	tr.Reset()
	renderLintResults(tr.Renderer, []lintFileResult{{
		Path:        "a.eb",
		Diagnostics: []lint.Diagnostic{{RuleID: "O001", Severity: lint.SeverityWarning, Message: "m", Pos: lint.Position{Line: 2}}},
	}})
	assert.Contains(t, tr.Output(), "a.eb")
	assert.Contains(t, tr.Output(), "Summary: 1 issues, 1 warnings in 1 files")
}
