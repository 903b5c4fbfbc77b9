package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/eblint/internal/cli"
	"github.com/leapstack-labs/eblint/internal/cli/config"
	"github.com/leapstack-labs/eblint/internal/cli/output"
	"github.com/leapstack-labs/eblint/pkg/core"
	"github.com/leapstack-labs/eblint/pkg/lint"
)

var exitCodes = []struct {
	code    int
	meaning string
}{
	{cli.ExitOK, "No diagnostics at or above the severity threshold"},
	{cli.ExitViolations, "Diagnostics were reported"},
	{cli.ExitFatal, "A file could not be parsed or linted, or the configuration is invalid"},
}

// generateCLIDocs writes index.md plus one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(root)}
	for _, cmd := range visibleCommands(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}

	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.IsAvailableCommand() {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line reference for eblint")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/eblint/cmd/eblint@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(root) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlags(w, root.PersistentFlags())

	w.Header(2, "Configuration")
	var files []string
	for _, name := range config.ConfigFileNames {
		files = append(files, InlineCode(name))
	}
	w.Paragraph(fmt.Sprintf("Settings are read from %s, searched upward from the working directory, "+
		"or from the file given with `--config`. Flags override environment variables, which override the file.",
		strings.Join(files, " or ")))
	w.Table([]string{"Variable", "Key", "Description"}, envRows(root))

	w.Header(2, "Exit Codes")
	rows = nil
	for _, ec := range exitCodes {
		rows = append(rows, []string{InlineCode(fmt.Sprint(ec.code)), ec.meaning})
	}
	w.Table([]string{"Code", "Meaning"}, rows)

	return w.Bytes()
}

// envRows lists one environment variable per scalar config key. Keys are
// documented with the usage text of the flag that sets them.
func envRows(root *cobra.Command) [][]string {
	lintCmd, _, _ := root.Find([]string{"lint"})

	var rows [][]string
	t := reflect.TypeOf(config.Config{})
	for i := range t.NumField() {
		key := t.Field(i).Tag.Get("koanf")
		if key == "" || key == "-" || t.Field(i).Type.Kind() == reflect.Pointer {
			continue
		}
		flagName := strings.ReplaceAll(key, "_", "-")
		usage := ""
		if f := root.PersistentFlags().Lookup(flagName); f != nil {
			usage = f.Usage
		} else if lintCmd != nil {
			if f := lintCmd.Flags().Lookup(flagName); f != nil {
				usage = f.Usage
			}
		}
		rows = append(rows, []string{
			InlineCode(config.EnvPrefix + strings.ToUpper(key)),
			InlineCode(key),
			cleanDescription(usage),
		})
	}
	return rows
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		w.Header(2, "Subcommands")
		var items []string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				items = append(items, InlineCode(sub.Name())+" - "+cleanDescription(sub.Short))
			}
		}
		w.BulletList(items)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlags(w, cmd.LocalFlags())
	}

	if cmd.Name() == "lint" {
		lintSections(w)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

// lintSections documents the values the lint flags accept.
func lintSections(w *MarkdownWriter) {
	w.Header(2, "Rule Selection")
	w.Paragraph("`--enable`, `--disable` and `--rule` take these IDs, case-insensitively. " +
		"A rule given to both `--enable` and `--disable` stays disabled.")
	var rows [][]string
	for _, def := range lint.AllRules() {
		enabled := "yes"
		if !def.Enabled {
			enabled = "opt-in"
		}
		link := fmt.Sprintf("[%s](/rules/%s)", InlineCode(def.ID), strings.ToLower(def.ID))
		rows = append(rows, []string{link, def.Name, def.Severity.String(), enabled})
	}
	w.Table([]string{"Rule", "Name", "Severity", "Default"}, rows)

	w.Header(2, "Severity Threshold")
	var sevs []string
	for _, sev := range []core.Severity{core.SeverityError, core.SeverityWarning, core.SeverityInfo, core.SeverityHint} {
		sevs = append(sevs, InlineCode(sev.String()))
	}
	w.Paragraph("`--severity` hides diagnostics below the threshold, from most to least severe: " +
		strings.Join(sevs, ", ") + ".")

	w.Header(2, "Output Formats")
	var modes []string
	for _, m := range output.Modes {
		modes = append(modes, InlineCode(m))
	}
	w.Paragraph("`--format` accepts " + strings.Join(modes, ", ") +
		". `auto` prints styled text on a terminal and `path:line:col: CODE: message` lines otherwise.")
}

func writeFlags(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if def != "" && def != "[]" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		} else if def == "[]" {
			def = ""
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

func dedent(example string) string {
	lines := strings.Split(strings.TrimSpace(example), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
