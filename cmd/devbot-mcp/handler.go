package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cexll/devbot/internal/runner"
)

// jobRunner is the slice of the runner the tools need. *runner.Runner
// satisfies it.
type jobRunner interface {
	RunPlan(ctx context.Context, planPath string) (runner.RunResult, error)
	RunFeedback(ctx context.Context, branch, feedback string) (runner.RunResult, error)
}

// toolServer exposes devbot runs as MCP tools.
type toolServer struct {
	runner   jobRunner
	plansDir string
}

// RunPlanParams defines the input parameters for the run_plan tool
type RunPlanParams struct {
	PlanPath string `json:"plan_path" jsonschema:"Path to the markdown change plan. Relative paths resolve against the plans directory."`
}

// RunFeedbackParams defines the input parameters for the run_feedback tool
type RunFeedbackParams struct {
	Branch   string `json:"branch" jsonschema:"Branch of the pull request under review"`
	Feedback string `json:"feedback" jsonschema:"Review feedback for the model to apply"`
}

// ListPlansParams defines the input parameters for the list_plans tool
type ListPlansParams struct{}

// handleRunPlan runs a change plan to completion and reports how it
// ended. The call blocks for the whole run.
func (s *toolServer) handleRunPlan(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params RunPlanParams,
) (*mcp.CallToolResult, any, error) {
	if params.PlanPath == "" {
		return nil, nil, fmt.Errorf("plan_path parameter is required")
	}

	planPath := params.PlanPath
	if !filepath.IsAbs(planPath) {
		planPath = filepath.Join(s.plansDir, planPath)
	}

	log.Printf("[MCP] Received run_plan request for %s", planPath)

	res, err := s.runner.RunPlan(ctx, planPath)
	if err != nil {
		log.Printf("[MCP] Run failed: %v", err)
		return errorResult(err), nil, nil
	}
	return textResult(formatResult(res)), nil, nil
}

// handleRunFeedback applies review feedback to an existing branch.
func (s *toolServer) handleRunFeedback(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params RunFeedbackParams,
) (*mcp.CallToolResult, any, error) {
	if params.Branch == "" {
		return nil, nil, fmt.Errorf("branch parameter is required")
	}
	if params.Feedback == "" {
		return nil, nil, fmt.Errorf("feedback parameter is required")
	}

	log.Printf("[MCP] Received run_feedback request for %s", params.Branch)

	res, err := s.runner.RunFeedback(ctx, params.Branch, params.Feedback)
	if err != nil {
		log.Printf("[MCP] Run failed: %v", err)
		return errorResult(err), nil, nil
	}
	return textResult(formatResult(res)), nil, nil
}

// handleListPlans lists the markdown plans waiting in the plans
// directory.
func (s *toolServer) handleListPlans(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params ListPlansParams,
) (*mcp.CallToolResult, any, error) {
	entries, err := os.ReadDir(s.plansDir)
	if err != nil {
		if os.IsNotExist(err) {
			return textResult(fmt.Sprintf("No plans directory at %s", s.plansDir)), nil, nil
		}
		return errorResult(err), nil, nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return textResult(fmt.Sprintf("No plans in %s", s.plansDir)), nil, nil
	}
	return textResult(fmt.Sprintf("Plans in %s:\n%s", s.plansDir, strings.Join(names, "\n"))), nil, nil
}

func formatResult(res runner.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Outcome: %s\nBranch: %s", res.Outcome, res.Branch)
	if res.PRURL != "" {
		fmt.Fprintf(&b, "\nPull request: %s", res.PRURL)
	}
	return b.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
		IsError: true,
	}
}
