// Package test implements the Test analysis driver (spec §4.3.3): it runs a
// pytest-compatible test runner with a short-traceback flag and extracts
// pass/fail counts from its summary line.
package test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/analyzer-mcp/internal/job"
	"github.com/ternarybob/analyzer-mcp/internal/processor"
)

// Processor runs an external test runner against a temp file.
type Processor struct {
	// Binary is the test runner executable name (e.g. "pytest").
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

	args := []string{tempPath, "--tb=short"}
	stdout, stderr, err := processor.RunWithRetry(ctx, p.Exec, p.Binary, args, p.Timeout, p.MaxAttempts)

	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, processor.ErrTimeout):
		_ = j.Fail("Process timed out")
		return
	case err != nil && errors.As(err, &exitErr):
		// The test runner exits non-zero on test failures; not a job failure.
	case err != nil:
		_ = j.Fail(fmt.Sprintf("failed to run test runner: %v", err))
		return
	}

	combined := string(stdout) + "\n" + string(stderr)
	result := parse(combined)
	_ = j.Complete(result)
}

var (
	summaryPattern = regexp.MustCompile(`=+\s*(.+?)\s+in\s+[\d.]+s\s*=+`)
	failedPattern  = regexp.MustCompile(`(\d+)\s+failed`)
	passedPattern  = regexp.MustCompile(`(\d+)\s+passed`)
)

// parse extracts pass/fail counts from combined pytest stdout+stderr,
// following spec §4.3.3: prefer the "=== ... in X.YZs ===" summary line,
// fall back to searching the whole output, and report a diagnostic string
// (not a job failure) if neither yields counts.
func parse(output string) *job.TestResult {
	result := &job.TestResult{}

	if m := summaryPattern.FindStringSubmatch(output); m != nil {
		summary := m[1]
		failMatch := failedPattern.FindStringSubmatch(summary)
		passMatch := passedPattern.FindStringSubmatch(summary)
		if failMatch != nil {
			result.Failed, _ = strconv.Atoi(failMatch[1])
		}
		if passMatch != nil {
			result.Passed, _ = strconv.Atoi(passMatch[1])
		}
		if failMatch == nil && passMatch == nil {
			result.Error = "Summary found, but no pass/failed counts."
		}
		return result
	}

	failMatch := failedPattern.FindStringSubmatch(output)
	passMatch := passedPattern.FindStringSubmatch(output)
	if failMatch == nil && passMatch == nil {
		result.Error = "Unable to parse test runner output summary."
		return result
	}
	if failMatch != nil {
		result.Failed, _ = strconv.Atoi(failMatch[1])
	}
	if passMatch != nil {
		result.Passed, _ = strconv.Atoi(passMatch[1])
	}
	return result
}
