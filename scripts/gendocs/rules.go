package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/eblint/pkg/lint"
	"github.com/leapstack-labs/eblint/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"fields":       "Rules about which fields an easyconfig assigns.",
	"ordering":     "Rules about the order in which fields are assigned.",
	"dependencies": "Rules about the shape of dependency specifications.",
}

// generateRuleDocs writes an index page and one page per rule.
// Page names match the URLs built by lint.BuildDocURL.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	all := lint.AllRules()
	if err := generateRuleIndex(outDir, all); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	defaults := rules.DefaultOptions()
	for _, def := range all {
		if err := generateRulePage(outDir, def, defaults[def.ID]); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", def.ID, err)
		}
		log.Printf("  Generated %s.md", strings.ToLower(def.ID))
	}

	return nil
}

func generateRuleIndex(outDir string, all []lint.RuleDef) error {
	w := NewMarkdownWriter()
	title := cases.Title(language.English)

	w.Frontmatter("Rules", "Lint rules for EasyBuild easyconfig files")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("eblint ships **%d rules**. Rules marked opt-in run only when listed under `lint.enabled` or passed to `--enable`.", len(all)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured in `eblint.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [O001]         # turn rules off
  enabled: [O002]          # turn opt-in rules on
  severity:
    M001: warning          # override severity
  rules:
    F001:
      fields: [import]     # rule-specific options`)

	groups := make(map[string][]lint.RuleDef)
	var order []string
	for _, def := range all {
		if _, seen := groups[def.Group]; !seen {
			order = append(order, def.Group)
		}
		groups[def.Group] = append(groups[def.Group], def)
	}

	for _, group := range order {
		w.Header(2, title.String(group))
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		var rows [][]string
		for _, def := range groups[group] {
			enabled := "yes"
			if !def.Enabled {
				enabled = "opt-in"
			}
			rows = append(rows, []string{
				fmt.Sprintf("[%s](./%s)", def.ID, strings.ToLower(def.ID)),
				InlineCode(def.Name),
				InlineCode(def.Severity.String()),
				enabled,
				cleanDescription(def.Description),
			})
		}
		w.Table([]string{"Rule", "Name", "Severity", "Enabled", "Description"}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulePage writes detailed documentation for a single rule.
func generateRulePage(outDir string, def lint.RuleDef, defaults map[string]any) error {
	w := NewMarkdownWriter()

	w.Frontmatter(def.ID, cleanDescription(def.Description))
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s - %s", def.ID, def.Name))
	w.Line(fmt.Sprintf("**Severity:** %s | **Group:** %s", InlineCode(def.Severity.String()), def.Group))
	w.Newline()
	w.Paragraph(def.Description)

	if def.Rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(def.Rationale)
	}
	if def.BadExample != "" {
		w.Header(2, "Bad")
		w.CodeBlock("python", def.BadExample)
	}
	if def.GoodExample != "" {
		w.Header(2, "Good")
		w.CodeBlock("python", def.GoodExample)
	}
	if def.Fix != "" {
		w.Header(2, "How to Fix")
		w.Paragraph(def.Fix)
	}

	if len(defaults) > 0 {
		w.Header(2, "Configuration")
		w.Paragraph(fmt.Sprintf("Options: %s. Defaults:", InlineCode(strings.Join(def.ConfigKeys, ", "))))
		doc := map[string]any{"lint": map[string]any{"rules": map[string]any{def.ID: defaults}}}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode defaults: %w", err)
		}
		w.CodeBlock("yaml", string(out))
	}

	return os.WriteFile(filepath.Join(outDir, strings.ToLower(def.ID)+".md"), w.Bytes(), 0600)
}
