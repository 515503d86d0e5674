package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/spec-kit/support-agent/internal/monitor"
	"github.com/spec-kit/support-agent/pkg/util"
)

type queryRunner interface {
	Run(ctx context.Context, query, customerID string) monitor.Result
	GetMetrics() monitor.Snapshot
}

type caseResult struct {
	Case      evalCase
	Result    monitor.Result
	ToolsUsed []string
}

// Passed reports whether the run succeeded and used the expected tool.
func (r caseResult) Passed() bool {
	if r.Result.Status != monitor.StatusSuccess {
		return false
	}
	for _, name := range r.ToolsUsed {
		if name == r.Case.ExpectedTool {
			return true
		}
	}
	return false
}

func runCases(ctx context.Context, runner queryRunner, cases []evalCase) []caseResult {
	results := make([]caseResult, 0, len(cases))
	for _, c := range cases {
		res := runner.Run(ctx, c.Query, c.CustomerID)
		used := make([]string, 0, len(res.ToolCalls))
		for _, call := range res.ToolCalls {
			used = append(used, call.Tool)
		}
		results = append(results, caseResult{Case: c, Result: res, ToolsUsed: used})
	}
	return results
}

var (
	colorAccent = color.RGB(240, 150, 0)
	faint       = color.New(color.Faint)
	pass        = color.New(color.FgGreen, color.Bold)
	fail        = color.New(color.FgRed, color.Bold)
)

func printReport(w io.Writer, results []caseResult, metrics monitor.Snapshot) int {
	failures := 0
	for _, r := range results {
		verdict := pass.Sprint("PASS")
		if !r.Passed() {
			verdict = fail.Sprint("FAIL")
			failures++
		}
		fmt.Fprintf(w, "%s %s %s\n", colorAccent.Sprint("\u25CF"), verdict, color.New(color.Bold).Sprint(r.Case.Query))

		tools := "none"
		if len(r.ToolsUsed) > 0 {
			tools = strings.Join(r.ToolsUsed, ", ")
		}
		fmt.Fprintf(w, "  %s %s %s\n", faint.Sprint("\u2514 tools:"), tools, faint.Sprintf("(expected %s)", r.Case.ExpectedTool))
		fmt.Fprintf(w, "    %s %s\n", faint.Sprint("response:"), util.Preview(r.Result.Response, 100))
		if r.Result.ResponseTime != nil {
			fmt.Fprintf(w, "    %s %.2fs\n", faint.Sprint("time:"), *r.Result.ResponseTime)
		}
		if r.Result.Error != "" {
			fmt.Fprintf(w, "    %s %s\n", fail.Sprint("error:"), r.Result.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Agent Performance Dashboard:"))
	fmt.Fprintf(w, "Total Queries Processed: %d\n", metrics.TotalQueries)
	fmt.Fprintf(w, "Resolution Rate: %.1f%%\n", metrics.ResolutionRate)
	fmt.Fprintf(w, "Escalation Rate: %.1f%%\n", metrics.EscalationRate)
	fmt.Fprintf(w, "Average Response Time: %vs\n", metrics.AverageResponseTime)
	fmt.Fprintf(w, "Errors: %d\n", metrics.ErrorCount)
	return failures
}
