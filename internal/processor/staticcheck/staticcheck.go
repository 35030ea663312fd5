// Package staticcheck implements the Static-Analysis driver (spec §4.3.2):
// it runs a mypy-compatible type checker with machine-readable flags and
// parses its "path:line:column:message" output.
package staticcheck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/analyzer-mcp/internal/job"
	"github.com/ternarybob/analyzer-mcp/internal/processor"
)

// Processor runs an external type checker against a temp file.
type Processor struct {
	// Binary is the type-checker executable name (e.g. "mypy").
	Binary      string
	Timeout     time.Duration
	MaxAttempts int
	Exec        processor.ExecFunc
	Logger      arbor.ILogger
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

	args := []string{"--no-error-summary", "--show-column-numbers", "--show-error-codes", "--no-pretty", tempPath}
	stdout, stderr, err := processor.RunWithRetry(ctx, p.Exec, p.Binary, args, p.Timeout, p.MaxAttempts)

	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, processor.ErrTimeout):
		_ = j.Fail("Process timed out")
		return
	case err != nil && errors.As(err, &exitErr):
		// mypy exits non-zero when it finds type errors; not a job failure.
	case err != nil:
		_ = j.Fail(fmt.Sprintf("failed to run type checker: %v", err))
		return
	}

	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		_ = j.Fail(fmt.Sprintf("type checker error: %s", msg))
		return
	}

	result := parse(strings.TrimSpace(string(stdout)), j.Code())
	_ = j.Complete(result)
}

func parse(output string, code string) *job.StaticAnalysisResult {
	result := &job.StaticAnalysisResult{Issues: []job.StaticIssue{}}
	if output == "" {
		return result
	}

	lines := strings.Split(code, "\n")

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 4)
		if len(parts) < 4 {
			continue
		}

		lineNum, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		colNum, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}
		message := strings.TrimSpace(parts[3])

		issue := job.StaticIssue{
			Line:    lineNum,
			Column:  colNum,
			Message: message,
		}
		if errCode := extractErrorCode(message); errCode != "" {
			issue.ErrorCode = &errCode
		}
		if lineNum >= 1 && lineNum <= len(lines) {
			content := lines[lineNum-1]
			issue.LineContent = &content
		}

		result.Issues = append(result.Issues, issue)
	}

	result.Summary.IssueCount = len(result.Issues)
	return result
}

// extractErrorCode pulls a trailing "[code]" bracket off message, if present.
func extractErrorCode(message string) string {
	if !strings.HasSuffix(message, "]") {
		return ""
	}
	open := strings.LastIndex(message, "[")
	if open == -1 {
		return ""
	}
	return message[open+1 : len(message)-1]
}
