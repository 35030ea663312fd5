package job

// LintCategory is one of the four pylint-style message classes.
type LintCategory string

const (
	LintError      LintCategory = "error"
	LintWarning    LintCategory = "warning"
	LintRefactor   LintCategory = "refactor"
	LintConvention LintCategory = "convention"
)

// LintMessage is a single linter finding.
type LintMessage struct {
	Category    LintCategory `json:"type"`
	Line        int          `json:"line"`
	Column      int          `json:"column"`
	Symbol      string       `json:"symbol"`
	Message     string       `json:"message"`
	LineContent *string      `json:"line_content,omitempty"`
}

// LintSummary tallies LintMessages per category.
type LintSummary struct {
	ErrorCount      int `json:"error_count"`
	WarningCount    int `json:"warning_count"`
	RefactorCount   int `json:"refactor_count"`
	ConventionCount int `json:"convention_count"`
	TotalIssues     int `json:"total_issues"`
}

// LintResult is the Completed-state payload for a Lint job.
type LintResult struct {
	Summary     LintSummary   `json:"summary"`
	Errors      []LintMessage `json:"errors"`
	Warnings    []LintMessage `json:"warnings"`
	Refactors   []LintMessage `json:"refactors"`
	Conventions []LintMessage `json:"conventions"`
}

// StaticIssue is a single type-checker finding.
type StaticIssue struct {
	Line        int     `json:"line"`
	Column      int     `json:"column"`
	Message     string  `json:"message"`
	ErrorCode   *string `json:"error_code,omitempty"`
	LineContent *string `json:"line_content,omitempty"`
}

// StaticAnalysisSummary tallies StaticIssues.
type StaticAnalysisSummary struct {
	IssueCount int `json:"issue_count"`
}

// StaticAnalysisResult is the Completed-state payload for a StaticAnalysis job.
type StaticAnalysisResult struct {
	Summary StaticAnalysisSummary `json:"summary"`
	Issues  []StaticIssue         `json:"issues"`
}

// TestResult is the Completed-state payload for a Test job. Error is set
// when the test runner's output could not be parsed for pass/fail counts;
// that is reported data, not a job failure (see internal/processor/test).
type TestResult struct {
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
	Error  string `json:"error,omitempty"`
}
