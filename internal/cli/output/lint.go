package output

// LintOutput is the JSON document produced by the lint command.
type LintOutput struct {
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
}

// LintSummary counts issues across all files.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	FilesFailed   int `json:"files_failed"`
	TotalIssues   int `json:"total_issues"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
	Hints         int `json:"hints"`
}

// LintFileResult holds the diagnostics of one file. Error is set when the
// file could not be linted.
type LintFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
}

// LintDiagnostic is one finding. Line is 1-based and Column 0-based; a
// diagnostic about the whole file reports 1:0.
type LintDiagnostic struct {
	RuleID           string `json:"rule_id"`
	Severity         string `json:"severity"`
	Message          string `json:"message"`
	Line             int    `json:"line"`
	Column           int    `json:"column"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}
