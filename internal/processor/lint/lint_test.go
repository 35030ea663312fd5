package lint

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/analyzer-mcp/internal/job"
	"github.com/ternarybob/analyzer-mcp/internal/processor"
)

func newTestProcessor(exec processor.ExecFunc) *Processor {
	p := New("pylint", arbor.NewLogger())
	p.Timeout = time.Second
	p.MaxAttempts = 1
	p.Exec = exec
	return p
}

func TestProcess_NoIssuesFound(t *testing.T) {
	p := newTestProcessor(func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		return []byte(""), nil, nil
	})

	j := job.New("j1", job.KindLint, "x = 1\n", time.Now())
	p.Process(context.Background(), j)

	require.Equal(t, job.StatusCompleted, j.Status())
	result, ok := j.Result()
	require.True(t, ok)
	lr := result.(*job.LintResult)
	assert.Equal(t, 0, lr.Summary.TotalIssues)
}

func TestProcess_NonZeroExitWithIssuesIsNotAFailure(t *testing.T) {
	report := `[{"type":"error","line":2,"column":0,"symbol":"syntax-error","message":"bad syntax"}]`
	p := newTestProcessor(func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		return []byte(report), nil, &exec.ExitError{}
	})

	j := job.New("j2", job.KindLint, "x = 1\ny=bad\n", time.Now())
	p.Process(context.Background(), j)

	require.Equal(t, job.StatusCompleted, j.Status(), "pylint's non-zero exit on findings must not fail the job")
	result, ok := j.Result()
	require.True(t, ok)
	lr := result.(*job.LintResult)
	require.Len(t, lr.Errors, 1)
	assert.Equal(t, "bad syntax", lr.Errors[0].Message)
	require.NotNil(t, lr.Errors[0].LineContent)
	assert.Equal(t, "y=bad", *lr.Errors[0].LineContent)
	assert.Equal(t, 1, lr.Summary.TotalIssues)
	assert.Equal(t, lr.Summary.TotalIssues,
		lr.Summary.ErrorCount+lr.Summary.WarningCount+lr.Summary.RefactorCount+lr.Summary.ConventionCount)
}

func TestProcess_SpawnErrorFailsJob(t *testing.T) {
	p := newTestProcessor(func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		return nil, nil, errors.New("executable not found")
	})

	j := job.New("j3", job.KindLint, "x = 1\n", time.Now())
	p.Process(context.Background(), j)

	require.Equal(t, job.StatusFailed, j.Status())
	msg, ok := j.Error()
	require.True(t, ok)
	assert.Contains(t, msg, "failed to run linter")
}

func TestProcess_TimeoutFailsJobWithSpecificMessage(t *testing.T) {
	p := newTestProcessor(func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	})
	p.Timeout = 10 * time.Millisecond

	j := job.New("j4", job.KindLint, "x = 1\n", time.Now())
	p.Process(context.Background(), j)

	require.Equal(t, job.StatusFailed, j.Status())
	msg, _ := j.Error()
	assert.Equal(t, "Process timed out", msg)
}

func TestProcess_FullResultShape(t *testing.T) {
	report := `[
		{"type":"error","line":1,"column":0,"symbol":"syntax-error","message":"bad syntax"},
		{"type":"convention","line":2,"column":4,"symbol":"missing-docstring","message":"no docstring"}
	]`
	p := newTestProcessor(func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		return []byte(report), nil, &exec.ExitError{}
	})

	line1, line2 := "bad(", "def f(): pass"
	j := job.New("j6", job.KindLint, line1+"\n"+line2+"\n", time.Now())
	p.Process(context.Background(), j)

	result, _ := j.Result()
	got := result.(*job.LintResult)

	want := &job.LintResult{
		Summary: job.LintSummary{ErrorCount: 1, ConventionCount: 1, TotalIssues: 2},
		Errors: []job.LintMessage{
			{Category: job.LintError, Line: 1, Column: 0, Symbol: "syntax-error", Message: "bad syntax", LineContent: &line1},
		},
		Warnings:  []job.LintMessage{},
		Refactors: []job.LintMessage{},
		Conventions: []job.LintMessage{
			{Category: job.LintConvention, Line: 2, Column: 4, Symbol: "missing-docstring", Message: "no docstring", LineContent: &line2},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("LintResult mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_LineContentOmittedOutOfRange(t *testing.T) {
	report := `[{"type":"warning","line":99,"column":0,"symbol":"unused","message":"unused var"}]`
	p := newTestProcessor(func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		return []byte(report), nil, &exec.ExitError{}
	})

	j := job.New("j5", job.KindLint, "x = 1\n", time.Now())
	p.Process(context.Background(), j)

	result, _ := j.Result()
	lr := result.(*job.LintResult)
	require.Len(t, lr.Warnings, 1)
	assert.Nil(t, lr.Warnings[0].LineContent)
}
