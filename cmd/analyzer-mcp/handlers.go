package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/analyzer-mcp/internal/adapter"
)

// jsonResult marshals v and wraps it as the tool's text content, matching
// spec §6's "JSON-serialized" tool surface.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("failed to encode response: %v", err))},
			IsError: true,
		}, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(body))},
	}, nil
}

func handleSubmitCode(a *adapter.Adapter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jobType, err := request.RequireString("job_type")
		if err != nil {
			return jsonResult(map[string]interface{}{"status": "error", "message": "job_type parameter is required"})
		}
		code, err := request.RequireString("code")
		if err != nil {
			return jsonResult(map[string]interface{}{"status": "error", "message": "code parameter is required"})
		}
		return jsonResult(a.SubmitCode(adapter.SubmitCodeRequest{JobType: jobType, Code: code}))
	}
}

func handleSubmitCodeForLinting(a *adapter.Adapter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return jsonResult(map[string]interface{}{"status": "error", "message": "code parameter is required"})
		}
		return jsonResult(a.SubmitCodeForLinting(code))
	}
}

func handleSubmitCodeForStaticAnalysis(a *adapter.Adapter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return jsonResult(map[string]interface{}{"status": "error", "message": "code parameter is required"})
		}
		return jsonResult(a.SubmitCodeForStaticAnalysis(code))
	}
}

func handleSubmitCodeForTesting(a *adapter.Adapter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := request.RequireString("code")
		if err != nil {
			return jsonResult(map[string]interface{}{"status": "error", "message": "code parameter is required"})
		}
		return jsonResult(a.SubmitCodeForTesting(code))
	}
}

func handleGetJobResults(a *adapter.Adapter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jobID, err := request.RequireString("job_id")
		if err != nil {
			return jsonResult(map[string]interface{}{"status": "error", "message": "job_id parameter is required"})
		}
		return jsonResult(a.GetJobResults(adapter.GetJobResultsRequest{JobID: jobID}))
	}
}

func handleListJobs(a *adapter.Adapter) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jobType := request.GetString("job_type", "")
		return jsonResult(a.ListJobs(adapter.ListJobsRequest{JobType: jobType}))
	}
}
