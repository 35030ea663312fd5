// Package adapter is the spec's Tool Adapter (§4.4, §6): a thin
// request/response surface that translates tool calls into Job Manager
// operations and serializes job state back out. It has no transport
// opinions of its own — cmd/analyzer-mcp wires it to an MCP stdio server.
package adapter

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/analyzer-mcp/internal/job"
	"github.com/ternarybob/analyzer-mcp/internal/jobmanager"
)

// Adapter wraps a jobmanager.Manager with the request/response shapes of
// spec §6.
type Adapter struct {
	manager  *jobmanager.Manager
	logger   arbor.ILogger
	validate *validator.Validate
}

// New returns an Adapter over manager.
func New(manager *jobmanager.Manager, logger arbor.ILogger) *Adapter {
	return &Adapter{manager: manager, logger: logger, validate: validator.New()}
}

// errorResponse is the shape returned by every tool on invalid input or an
// unknown job id (spec §7: InvalidKind / UnknownJob).
func errorResponse(message string) map[string]interface{} {
	return map[string]interface{}{
		"status":  "error",
		"message": message,
	}
}

// SubmitCode implements submit_code and the three convenience tools that
// call it with a fixed job_type.
func (a *Adapter) SubmitCode(req SubmitCodeRequest) map[string]interface{} {
	if err := a.validate.Struct(req); err != nil {
		a.logger.Warn().Str("job_type", req.JobType).Msg("Invalid submit_code request")
		return errorResponse(fmt.Sprintf("invalid request: %v", err))
	}

	kind := job.Kind(req.JobType)
	j, err := a.manager.Submit(kind, req.Code)
	if err != nil {
		a.logger.Warn().Str("job_type", req.JobType).Msg(fmt.Sprintf("Submit rejected: %v", err))
		return errorResponse(err.Error())
	}

	a.logger.Info().
		Str("job_id", j.ID()).
		Str("job_type", string(kind)).
		Int("code_bytes", len(req.Code)).
		Msg("Job submitted")

	return map[string]interface{}{
		"status":   "accepted",
		"job_id":   j.ID(),
		"job_type": string(kind),
		"message":  fmt.Sprintf("Code submitted for %s. Use get_job_results to check status.", kind),
	}
}

// SubmitCodeForLinting implements submit_code_for_linting.
func (a *Adapter) SubmitCodeForLinting(code string) map[string]interface{} {
	return a.SubmitCode(SubmitCodeRequest{JobType: string(job.KindLint), Code: code})
}

// SubmitCodeForStaticAnalysis implements submit_code_for_static_analysis.
func (a *Adapter) SubmitCodeForStaticAnalysis(code string) map[string]interface{} {
	return a.SubmitCode(SubmitCodeRequest{JobType: string(job.KindStaticAnalysis), Code: code})
}

// SubmitCodeForTesting implements submit_code_for_testing.
func (a *Adapter) SubmitCodeForTesting(code string) map[string]interface{} {
	return a.SubmitCode(SubmitCodeRequest{JobType: string(job.KindTest), Code: code})
}

// GetJobResults implements get_job_results.
func (a *Adapter) GetJobResults(req GetJobResultsRequest) map[string]interface{} {
	if err := a.validate.Struct(req); err != nil {
		return errorResponse(fmt.Sprintf("invalid request: %v", err))
	}

	j := a.manager.Get(req.JobID)
	if j == nil {
		a.logger.Warn().Str("job_id", req.JobID).Msg("Requested unknown job")
		return errorResponse(fmt.Sprintf("no job found with ID: %s", req.JobID))
	}

	status := j.Status()
	a.logger.Info().Str("job_id", req.JobID).Str("status", string(status)).Msg("Job status check")

	switch status {
	case job.StatusCompleted:
		result, _ := j.Result()
		execTime, _ := j.ExecutionTime()
		return map[string]interface{}{
			"status":         "completed",
			"job_type":       string(j.Kind()),
			"results":        result,
			"execution_time": execTime.Seconds(),
		}
	case job.StatusFailed:
		errMsg, _ := j.Error()
		execTime, _ := j.ExecutionTime()
		return map[string]interface{}{
			"status":         "failed",
			"job_type":       string(j.Kind()),
			"error":          errMsg,
			"execution_time": execTime.Seconds(),
		}
	default:
		return map[string]interface{}{
			"status":   string(status),
			"job_type": string(j.Kind()),
			"message":  fmt.Sprintf("Job is %s. Please check again later.", status),
		}
	}
}

// ListJobs implements list_jobs.
func (a *Adapter) ListJobs(req ListJobsRequest) map[string]interface{} {
	if err := a.validate.Struct(req); err != nil {
		return errorResponse(fmt.Sprintf("invalid job_type filter: %s", req.JobType))
	}

	var kindFilter *job.Kind
	if req.JobType != "" {
		k := job.Kind(req.JobType)
		kindFilter = &k
	}

	summaries := a.manager.List(kindFilter)
	stats := a.manager.Stats()

	return map[string]interface{}{
		"jobs": summaries,
		"stats": map[string]interface{}{
			"total_jobs": stats.Total,
			"by_status":  stats.ByStatus,
			"by_kind":    stats.ByKind,
		},
	}
}
