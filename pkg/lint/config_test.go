package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eblint/pkg/core"
	"github.com/leapstack-labs/eblint/pkg/lint"
)

func TestConfig_IsEnabled(t *testing.T) {
	on := lint.RuleDef{ID: "A001", Enabled: true}
	off := lint.RuleDef{ID: "B001"}

	tests := []struct {
		name    string
		cfg     *lint.Config
		wantOn  bool
		wantOff bool
	}{
		{"nil config", nil, true, false},
		{"defaults", lint.NewConfig(), true, false},
		{"disable default rule", lint.NewConfig().Disable("A001"), false, false},
		{"enable opt-in rule", lint.NewConfig().Enable("B001"), true, true},
		{"only opt-in rule", lint.NewConfig().Restrict("B001"), false, true},
		{"disable wins over only", lint.NewConfig().Restrict("A001").Disable("A001"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOn, tt.cfg.IsEnabled(on))
			assert.Equal(t, tt.wantOff, tt.cfg.IsEnabled(off))
		})
	}
}

func TestConfig_EnableClearsDisable(t *testing.T) {
	cfg := lint.NewConfig().Disable("A001").Enable("A001")
	assert.False(t, cfg.IsDisabled("A001"))
}

func TestConfig_NilSafe(t *testing.T) {
	var cfg *lint.Config
	assert.False(t, cfg.IsDisabled("A001"))
	assert.Equal(t, lint.SeverityInfo, cfg.GetSeverity("A001", lint.SeverityInfo))
	assert.Nil(t, cfg.GetRuleOptions("A001"))
}

func TestConfigFromLint(t *testing.T) {
	cfg, err := lint.ConfigFromLint(core.LintConfig{
		Disabled: []string{"F001"},
		Enabled:  []string{"O002"},
		Severity: map[string]string{"M001": "error", "D001": "WARN"},
		Rules: map[string]core.RuleOptions{
			"D001": {"keywords": []any{"dependencies"}},
		},
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsDisabled("F001"))
	assert.True(t, cfg.EnabledRules["O002"])
	assert.Equal(t, lint.SeverityError, cfg.GetSeverity("M001", lint.SeverityWarning))
	assert.Equal(t, lint.SeverityWarning, cfg.GetSeverity("D001", lint.SeverityInfo))
	assert.Equal(t, []string{"dependencies"},
		lint.GetStringSliceOption(cfg.GetRuleOptions("D001"), "keywords", nil))
}

func TestConfigFromLint_RuleIDs(t *testing.T) {
	optIn := lint.RuleDef{ID: "O002"}
	onByDefault := lint.RuleDef{ID: "M001", Enabled: true}

	tests := []struct {
		name        string
		lc          core.LintConfig
		def         lint.RuleDef
		wantEnabled bool
	}{
		{
			name:        "disable wins over enable",
			lc:          core.LintConfig{Enabled: []string{"O002"}, Disabled: []string{"O002"}},
			def:         optIn,
			wantEnabled: false,
		},
		{
			name:        "lower-case disable",
			lc:          core.LintConfig{Disabled: []string{"m001"}},
			def:         onByDefault,
			wantEnabled: false,
		},
		{
			name:        "padded lower-case enable",
			lc:          core.LintConfig{Enabled: []string{" o002 "}},
			def:         optIn,
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := lint.ConfigFromLint(tt.lc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnabled, cfg.IsEnabled(tt.def))
		})
	}
}

func TestConfigFromLint_LowerCaseKeys(t *testing.T) {
	cfg, err := lint.ConfigFromLint(core.LintConfig{
		Severity: map[string]string{"d001": "hint"},
		Rules:    map[string]core.RuleOptions{"d001": {"keywords": []any{"deps"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, lint.SeverityHint, cfg.GetSeverity("D001", lint.SeverityError))
	assert.Equal(t, []string{"deps"}, lint.GetStringSliceOption(cfg.GetRuleOptions("D001"), "keywords", nil))
}

func TestConfigFromLint_InvalidSeverity(t *testing.T) {
	_, err := lint.ConfigFromLint(core.LintConfig{Severity: map[string]string{"M001": "fatal"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"fatal"`)
}

func TestDecodeOptions(t *testing.T) {
	type opts struct {
		Fields []string `mapstructure:"fields"`
		Strict bool     `mapstructure:"strict"`
	}

	t.Run("defaults kept", func(t *testing.T) {
		o := opts{Fields: []string{"name"}}
		require.NoError(t, lint.DecodeOptions(nil, &o))
		assert.Equal(t, []string{"name"}, o.Fields)
	})

	t.Run("yaml shapes", func(t *testing.T) {
		o := opts{Fields: []string{"name"}}
		require.NoError(t, lint.DecodeOptions(map[string]any{
			"fields": []any{"a", "b"},
			"strict": "true",
		}, &o))
		assert.Equal(t, []string{"a", "b"}, o.Fields)
		assert.True(t, o.Strict)
	})

	t.Run("unknown key", func(t *testing.T) {
		var o opts
		err := lint.DecodeOptions(map[string]any{"feilds": []any{"a"}}, &o)
		require.Error(t, err)
	})
}
