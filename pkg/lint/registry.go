package lint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/eblint/pkg/core"
)

// RuleDef describes a registered rule and how to build its checker.
type RuleDef struct {
	ID          string
	Name        string
	Group       string
	Description string
	Severity    Severity
	ConfigKeys  []string

	// Enabled is the default enablement. Rules with Enabled false run only
	// when turned on through Config.
	Enabled bool

	// Documentation
	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string

	// New builds a fresh checker from rule options. Checkers are stateful,
	// so every file gets its own instance.
	New func(opts map[string]any) (Checker, error)
}

// Info returns the rule metadata as a core.RuleInfo.
func (d RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              d.ID,
		Name:            d.Name,
		Group:           d.Group,
		Description:     d.Description,
		DefaultSeverity: d.Severity,
		ConfigKeys:      d.ConfigKeys,
		Enabled:         d.Enabled,
		Rationale:       d.Rationale,
		BadExample:      d.BadExample,
		GoodExample:     d.GoodExample,
		Fix:             d.Fix,
	}
}

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	if rule.ID == "" || rule.New == nil {
		panic(fmt.Sprintf("lint: invalid rule definition %q", rule.ID))
	}
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID] = rule
}

// AllRules returns all registered rules sorted by ID.
func AllRules() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// AllRuleInfo returns metadata for all registered rules sorted by ID.
func AllRuleInfo() []core.RuleInfo {
	rules := AllRules()
	infos := make([]core.RuleInfo, len(rules))
	for i, r := range rules {
		infos[i] = r.Info()
	}
	return infos
}

// GetRuleByID returns a rule by its ID.
func GetRuleByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetByGroup returns all rules in a specific group sorted by ID.
func GetByGroup(group string) []RuleDef {
	var rules []RuleDef
	for _, rule := range AllRules() {
		if rule.Group == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
}

// NewCheckers builds fresh checkers for every rule enabled by cfg, in rule ID
// order. Rule IDs referenced by cfg that are not registered are an error.
func NewCheckers(cfg *Config) ([]Checker, error) {
	if err := ValidateRuleIDs(cfg); err != nil {
		return nil, err
	}
	var checkers []Checker
	for _, def := range AllRules() {
		if !cfg.IsEnabled(def) {
			continue
		}
		c, err := def.New(cfg.GetRuleOptions(def.ID))
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", def.ID, err)
		}
		checkers = append(checkers, c)
	}
	return checkers, nil
}

// ValidateRuleIDs reports rule IDs in cfg that no registered rule carries.
func ValidateRuleIDs(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	var unknown []string
	check := func(id string) {
		if _, ok := GetRuleByID(id); !ok {
			unknown = append(unknown, id)
		}
	}
	for id := range cfg.DisabledRules {
		check(id)
	}
	for id := range cfg.EnabledRules {
		check(id)
	}
	for id := range cfg.Only {
		check(id)
	}
	for id := range cfg.SeverityOverrides {
		check(id)
	}
	for id := range cfg.RuleOptions {
		check(id)
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown rule IDs: %v", dedupe(unknown))
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
