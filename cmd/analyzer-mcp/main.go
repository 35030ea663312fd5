package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"golang.org/x/time/rate"

	"github.com/ternarybob/analyzer-mcp/internal/adapter"
	"github.com/ternarybob/analyzer-mcp/internal/config"
	"github.com/ternarybob/analyzer-mcp/internal/job"
	"github.com/ternarybob/analyzer-mcp/internal/jobmanager"
	"github.com/ternarybob/analyzer-mcp/internal/processor"
	"github.com/ternarybob/analyzer-mcp/internal/processor/lint"
	"github.com/ternarybob/analyzer-mcp/internal/processor/staticcheck"
	"github.com/ternarybob/analyzer-mcp/internal/processor/test"
)

const version = "0.1.0"

func main() {
	configPath := os.Getenv("ANALYZER_CONFIG")
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Stdio carries the MCP JSON-RPC framing, so an unset or "info" log
	// level is raised to warn, matching cmd/quaero-mcp/main.go's rationale
	// in the teacher repo. Any other configured level (e.g. debug) is kept.
	logLevel := cfg.Logging.Level
	if logLevel == "" || logLevel == "info" {
		logLevel = "warn"
	}
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString(logLevel)

	lintProcessor := lint.New(cfg.Analyzers.Lint.Binary, logger)
	lintProcessor.Timeout = cfg.Analyzers.Lint.Timeout(processor.DefaultTimeout)
	if cfg.Analyzers.Lint.MaxAttempts > 0 {
		lintProcessor.MaxAttempts = cfg.Analyzers.Lint.MaxAttempts
	}

	staticProcessor := staticcheck.New(cfg.Analyzers.StaticAnalysis.Binary, logger)
	staticProcessor.Timeout = cfg.Analyzers.StaticAnalysis.Timeout(processor.DefaultTimeout)
	if cfg.Analyzers.StaticAnalysis.MaxAttempts > 0 {
		staticProcessor.MaxAttempts = cfg.Analyzers.StaticAnalysis.MaxAttempts
	}

	testProcessor := test.New(cfg.Analyzers.Test.Binary, logger)
	testProcessor.Timeout = cfg.Analyzers.Test.Timeout(processor.DefaultTimeout)
	if cfg.Analyzers.Test.MaxAttempts > 0 {
		testProcessor.MaxAttempts = cfg.Analyzers.Test.MaxAttempts
	}

	factory := job.NewFactory()
	factory.Register(job.KindLint, lintProcessor)
	factory.Register(job.KindStaticAnalysis, staticProcessor)
	factory.Register(job.KindTest, testProcessor)

	managerOpts := []jobmanager.Option{jobmanager.WithMaxHistory(cfg.Jobs.MaxHistory)}
	if cfg.Jobs.RateLimitPerSecond > 0 {
		burst := cfg.Jobs.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		managerOpts = append(managerOpts, jobmanager.WithRateLimit(rate.Limit(cfg.Jobs.RateLimitPerSecond), burst))
	}

	manager := jobmanager.New(factory, logger, managerOpts...)
	toolAdapter := adapter.New(manager, logger)

	mcpServer := server.NewMCPServer(
		"analyzer",
		version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createSubmitCodeTool(), handleSubmitCode(toolAdapter))
	mcpServer.AddTool(createSubmitCodeForLintingTool(), handleSubmitCodeForLinting(toolAdapter))
	mcpServer.AddTool(createSubmitCodeForStaticAnalysisTool(), handleSubmitCodeForStaticAnalysis(toolAdapter))
	mcpServer.AddTool(createSubmitCodeForTestingTool(), handleSubmitCodeForTesting(toolAdapter))
	mcpServer.AddTool(createGetJobResultsTool(), handleGetJobResults(toolAdapter))
	mcpServer.AddTool(createListJobsTool(), handleListJobs(toolAdapter))

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
