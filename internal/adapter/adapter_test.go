package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/analyzer-mcp/internal/job"
	"github.com/ternarybob/analyzer-mcp/internal/jobmanager"
)

type instantProcessor struct{}

func (instantProcessor) Process(ctx context.Context, j *job.Job) {
	_ = j.MarkRunning()
	_ = j.Complete(&job.LintResult{Summary: job.LintSummary{TotalIssues: 0}})
}

type failingProcessor struct{}

func (failingProcessor) Process(ctx context.Context, j *job.Job) {
	_ = j.MarkRunning()
	_ = j.Fail("tool crashed")
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	f := job.NewFactory()
	f.Register(job.KindLint, instantProcessor{})
	f.Register(job.KindTest, failingProcessor{})
	m := jobmanager.New(f, arbor.NewLogger())
	return New(m, arbor.NewLogger())
}

func TestSubmitCode_InvalidJobTypeRejected(t *testing.T) {
	a := newTestAdapter(t)
	resp := a.SubmitCode(SubmitCodeRequest{JobType: "bogus", Code: "x = 1"})
	assert.Equal(t, "error", resp["status"])
}

func TestSubmitCode_Accepted(t *testing.T) {
	a := newTestAdapter(t)
	resp := a.SubmitCode(SubmitCodeRequest{JobType: "lint", Code: "x = 1"})
	assert.Equal(t, "accepted", resp["status"])
	assert.NotEmpty(t, resp["job_id"])
}

func TestSubmitCodeForLinting_ConvenienceTool(t *testing.T) {
	a := newTestAdapter(t)
	resp := a.SubmitCodeForLinting("x = 1")
	assert.Equal(t, "accepted", resp["status"])
	assert.Equal(t, "lint", resp["job_type"])
}

func TestGetJobResults_UnknownJobID(t *testing.T) {
	a := newTestAdapter(t)
	resp := a.GetJobResults(GetJobResultsRequest{JobID: "does-not-exist"})
	assert.Equal(t, "error", resp["status"])
}

func TestGetJobResults_CompletedIncludesResultsAndExecutionTime(t *testing.T) {
	a := newTestAdapter(t)
	submit := a.SubmitCode(SubmitCodeRequest{JobType: "lint", Code: "x = 1"})
	jobID := submit["job_id"].(string)

	require.Eventually(t, func() bool {
		resp := a.GetJobResults(GetJobResultsRequest{JobID: jobID})
		return resp["status"] == "completed"
	}, time.Second, time.Millisecond)

	resp := a.GetJobResults(GetJobResultsRequest{JobID: jobID})
	assert.Equal(t, "completed", resp["status"])
	assert.NotNil(t, resp["results"])
	assert.IsType(t, float64(0), resp["execution_time"])
}

func TestGetJobResults_FailedIncludesError(t *testing.T) {
	a := newTestAdapter(t)
	submit := a.SubmitCode(SubmitCodeRequest{JobType: "test", Code: "x = 1"})
	jobID := submit["job_id"].(string)

	require.Eventually(t, func() bool {
		resp := a.GetJobResults(GetJobResultsRequest{JobID: jobID})
		return resp["status"] == "failed"
	}, time.Second, time.Millisecond)

	resp := a.GetJobResults(GetJobResultsRequest{JobID: jobID})
	assert.Equal(t, "failed", resp["status"])
	assert.Equal(t, "tool crashed", resp["error"])
}

func TestListJobs_FiltersAndReportsStats(t *testing.T) {
	a := newTestAdapter(t)
	a.SubmitCode(SubmitCodeRequest{JobType: "lint", Code: "a"})
	a.SubmitCode(SubmitCodeRequest{JobType: "test", Code: "b"})

	resp := a.ListJobs(ListJobsRequest{JobType: "lint"})
	jobs, ok := resp["jobs"].([]job.Summary)
	require.True(t, ok)
	assert.Len(t, jobs, 1)

	stats, ok := resp["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.NotNil(t, stats["total_jobs"])
}

func TestListJobs_InvalidFilterRejected(t *testing.T) {
	a := newTestAdapter(t)
	resp := a.ListJobs(ListJobsRequest{JobType: "bogus"})
	assert.Equal(t, "error", resp["status"])
}
