// Package lint implements the Lint analysis driver (spec §4.3.1): it shells
// out to a pylint-compatible linter configured for JSON output, parses the
// report, and attaches a per-category LintResult to the job.
package lint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/analyzer-mcp/internal/job"
	"github.com/ternarybob/analyzer-mcp/internal/processor"
)

// Processor runs an external linter in JSON-report mode against a temp file.
type Processor struct {
	// Binary is the linter executable name (e.g. "pylint").
	Binary string
	// Timeout bounds a single invocation; zero uses processor.DefaultTimeout.
	Timeout time.Duration
	// MaxAttempts bounds retries of transient spawn/wait errors.
	MaxAttempts int
	// Exec is the command runner; overridable in tests.
	Exec processor.ExecFunc

	Logger arbor.ILogger
}

// New returns a Processor ready to register with a job.Factory.
func New(binary string, logger arbor.ILogger) *Processor {
	return &Processor{
		Binary:      binary,
		Timeout:     processor.DefaultTimeout,
		MaxAttempts: processor.DefaultMaxAttempts,
		Exec:        processor.RunCommand,
		Logger:      logger,
	}
}

// rawMessage is the shape of one object in the linter's JSON report.
type rawMessage struct {
	Type    string `json:"type"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

// Process implements job.Processor.
func (p *Processor) Process(ctx context.Context, j *job.Job) {
	if err := j.MarkRunning(); err != nil {
		_ = j.Fail(fmt.Sprintf("internal error: %v", err))
		return
	}

	tempPath, err := processor.WriteTempFile(j.Code(), ".py")
	if err != nil {
		_ = j.Fail(fmt.Sprintf("failed to write temp file: %v", err))
		return
	}
	defer os.Remove(tempPath)

	args := []string{"--output-format=json", tempPath}
	stdout, _, err := processor.RunWithRetry(ctx, p.Exec, p.Binary, args, p.Timeout, p.MaxAttempts)
	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, processor.ErrTimeout):
		_ = j.Fail("Process timed out")
		return
	case err != nil && errors.As(err, &exitErr):
		// The linter exits non-zero when it finds issues; that's not a
		// job failure, only a spawn/wait error is.
	case err != nil:
		_ = j.Fail(fmt.Sprintf("failed to run linter: %v", err))
		return
	}

	result, err := parse(strings.TrimSpace(string(stdout)), j.Code())
	if err != nil {
		_ = j.Fail(fmt.Sprintf("failed to parse linter output: %v", err))
		return
	}

	_ = j.Complete(result)
}

func parse(output string, code string) (*job.LintResult, error) {
	if output == "" {
		return &job.LintResult{
			Errors:      []job.LintMessage{},
			Warnings:    []job.LintMessage{},
			Refactors:   []job.LintMessage{},
			Conventions: []job.LintMessage{},
		}, nil
	}

	var raw []rawMessage
	if err := json.Unmarshal([]byte(output), &raw); err != nil {
		return nil, err
	}

	lines := strings.Split(code, "\n")

	result := &job.LintResult{
		Errors:      []job.LintMessage{},
		Warnings:    []job.LintMessage{},
		Refactors:   []job.LintMessage{},
		Conventions: []job.LintMessage{},
	}

	for _, raw := range raw {
		msg := job.LintMessage{
			Category: categorize(raw.Type),
			Line:     raw.Line,
			Column:   raw.Column,
			Symbol:   raw.Symbol,
			Message:  raw.Message,
		}
		if raw.Line >= 1 && raw.Line <= len(lines) {
			content := lines[raw.Line-1]
			msg.LineContent = &content
		}

		switch msg.Category {
		case job.LintError:
			result.Errors = append(result.Errors, msg)
		case job.LintWarning:
			result.Warnings = append(result.Warnings, msg)
		case job.LintRefactor:
			result.Refactors = append(result.Refactors, msg)
		default:
			result.Conventions = append(result.Conventions, msg)
		}
	}

	result.Summary = job.LintSummary{
		ErrorCount:      len(result.Errors),
		WarningCount:    len(result.Warnings),
		RefactorCount:   len(result.Refactors),
		ConventionCount: len(result.Conventions),
		TotalIssues:     len(result.Errors) + len(result.Warnings) + len(result.Refactors) + len(result.Conventions),
	}
	return result, nil
}

// categorize maps a raw linter type string to a LintCategory, falling back
// to convention for anything unrecognized (spec §4.3.1).
func categorize(raw string) job.LintCategory {
	switch job.LintCategory(raw) {
	case job.LintError, job.LintWarning, job.LintRefactor:
		return job.LintCategory(raw)
	default:
		return job.LintConvention
	}
}
