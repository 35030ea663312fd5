package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createSubmitCodeTool returns the submit_code tool definition (spec §6).
func createSubmitCodeTool() mcp.Tool {
	return mcp.NewTool("submit_code",
		mcp.WithDescription("Submit source code for asynchronous analysis (lint, static_analysis, or test)"),
		mcp.WithString("job_type",
			mcp.Required(),
			mcp.Description("Type of analysis: lint, static_analysis, or test"),
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to analyze"),
		),
	)
}

// createSubmitCodeForLintingTool returns the submit_code_for_linting tool definition.
func createSubmitCodeForLintingTool() mcp.Tool {
	return mcp.NewTool("submit_code_for_linting",
		mcp.WithDescription("Submit source code for linting analysis"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to analyze"),
		),
	)
}

// createSubmitCodeForStaticAnalysisTool returns the submit_code_for_static_analysis tool definition.
func createSubmitCodeForStaticAnalysisTool() mcp.Tool {
	return mcp.NewTool("submit_code_for_static_analysis",
		mcp.WithDescription("Submit source code for static type analysis"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to analyze"),
		),
	)
}

// createSubmitCodeForTestingTool returns the submit_code_for_testing tool definition.
func createSubmitCodeForTestingTool() mcp.Tool {
	return mcp.NewTool("submit_code_for_testing",
		mcp.WithDescription("Submit source code for test execution"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Source code to analyze"),
		),
	)
}

// createGetJobResultsTool returns the get_job_results tool definition.
func createGetJobResultsTool() mcp.Tool {
	return mcp.NewTool("get_job_results",
		mcp.WithDescription("Retrieve the results of a previously submitted analysis job"),
		mcp.WithString("job_id",
			mcp.Required(),
			mcp.Description("ID of the job returned by a submit tool"),
		),
	)
}

// createListJobsTool returns the list_jobs tool definition.
func createListJobsTool() mcp.Tool {
	return mcp.NewTool("list_jobs",
		mcp.WithDescription("List all jobs and their statuses, with aggregate stats"),
		mcp.WithString("job_type",
			mcp.Description("Optional filter: lint, static_analysis, or test"),
		),
	)
}
