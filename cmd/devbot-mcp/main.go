package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cexll/devbot/internal/config"
	"github.com/cexll/devbot/internal/runner"
	"github.com/cexll/devbot/internal/runstore"
)

func main() {
	// Load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MCP] Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agentRunner, err := runner.NewFromConfig(ctx, cfg, runstore.NewStore(), log.Default())
	if err != nil {
		log.Fatalf("[MCP] Failed to initialize runner: %v", err)
	}

	tools := &toolServer{runner: agentRunner, plansDir: cfg.PlansPath()}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "devbot",
		Version: "v1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_plan",
		Description: "Execute a markdown change plan against the configured repository and open a pull request. Blocks until the run finishes. Relative paths resolve against the plans directory.",
	}, tools.handleRunPlan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_feedback",
		Description: "Apply review feedback to an existing pull request branch and push the revision. Blocks until the run finishes.",
	}, tools.handleRunFeedback)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_plans",
		Description: "List the markdown change plans in the plans directory.",
	}, tools.handleListPlans)

	log.Printf("[MCP] Repository: %s", cfg.RepoName)
	log.Printf("[MCP] Plans directory: %s", cfg.PlansPath())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[MCP] Received shutdown signal")
		cancel()
	}()

	log.Println("[MCP] Starting on stdio transport...")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("[MCP] Server error: %v", err)
	}
	log.Println("[MCP] Server stopped gracefully")
}
