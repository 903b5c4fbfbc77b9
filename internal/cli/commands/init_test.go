package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eblint/internal/cli/config"
	"github.com/leapstack-labs/eblint/pkg/lint"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string)
		args     []string
		wantErr  bool
	}{
		{
			name: "init empty directory",
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "eblint.yaml"), []byte("existing"), 0o600))
			},
			wantErr: true,
		},
		{
			name: "init existing yml config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "eblint.yml"), []byte("existing"), 0o600))
			},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "eblint.yaml"), []byte("existing"), 0o600))
			},
			args: []string{"--force"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "--force")
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "eblint.yaml")

			content, err := os.ReadFile(filepath.Join(tmpDir, "eblint.yaml"))
			require.NoError(t, err)
			assert.NotEqual(t, "existing", string(content))
		})
	}
}

func TestInitCommand_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "easyconfigs")

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(dir, "eblint.yaml"))
	require.NoError(t, err)
}

func TestInitCreatesLoadableConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Cleanup(config.ResetConfig)

	_, err := runInit(".", false)
	require.NoError(t, err)

	content, err := os.ReadFile("eblint.yaml")
	require.NoError(t, err)
	for _, expected := range []string{"# eblint configuration.", "output: auto", "lint:", "M001: error", "keywords:", "- builddependencies"} {
		assert.Contains(t, string(content), expected)
	}

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.Lint)
	assert.Len(t, cfg.Lint.Rules, lint.Count())

	lintCfg, err := lint.ConfigFromLint(*cfg.Lint)
	require.NoError(t, err)
	checkers, err := lint.NewCheckers(lintCfg)
	require.NoError(t, err)
	assert.Len(t, checkers, 4, "opt-in rules stay off")
}
