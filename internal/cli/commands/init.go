package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/eblint/internal/cli/config"
	"github.com/leapstack-labs/eblint/pkg/lint"
	"github.com/leapstack-labs/eblint/pkg/lint/rules"
)

const configHeader = `# eblint configuration.
#
# Precedence: command-line flags > EBLINT_* environment variables > this file.
# Rules listed under lint.enabled are turned on even when off by default;
# lint.disabled always wins. Run 'eblint rules <rule-id>' for documentation.
`

// initFile is the document written by the init command.
type initFile struct {
	Output string            `yaml:"output"`
	Jobs   int               `yaml:"jobs"`
	Lint   config.LintConfig `yaml:"lint"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default eblint.yaml",
		Long: `Write an eblint.yaml configuration file listing every rule with its
default severity and options, ready to be edited.`,
		Example: `  # Initialize in current directory
  eblint init

  # Initialize in another directory
  eblint init easybuild/easyconfigs

  # Overwrite an existing config
  eblint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			r := NewCommandContext(cmd, "").Renderer
			path, err := runInit(dir, force)
			if err != nil {
				return err
			}
			r.Success("Created " + path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

// runInit writes the default configuration into dir and returns its path.
func runInit(dir string, force bool) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.ConfigFileNames[0])
	if !force {
		for _, name := range config.ConfigFileNames {
			existing := filepath.Join(dir, name)
			if _, err := os.Stat(existing); err == nil {
				return "", fmt.Errorf("%s already exists. Use --force to overwrite", existing)
			}
		}
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// defaultConfigYAML renders the built-in configuration of every registered rule.
func defaultConfigYAML() ([]byte, error) {
	doc := initFile{
		Output: config.DefaultOutput,
		Jobs:   config.DefaultJobs,
		Lint: config.LintConfig{
			Severity: make(map[string]string),
			Rules:    make(map[string]config.RuleOptions),
		},
	}

	defaults := rules.DefaultOptions()
	for _, def := range lint.AllRules() {
		doc.Lint.Severity[def.ID] = def.Severity.String()
		if opts, ok := defaults[def.ID]; ok {
			doc.Lint.Rules[def.ID] = opts
		}
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
