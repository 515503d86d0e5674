package main

import "github.com/spec-kit/support-agent/internal/tools"

type evalCase struct {
	Query           string
	CustomerID      string
	ExpectedTool    string
	ExpectedOutcome string
}

var defaultCases = []evalCase{
	{
		Query:           "Where is order #12345?",
		ExpectedTool:    tools.ToolCheckOrderStatus,
		ExpectedOutcome: "Order status provided",
	},
	{
		Query:           "Can I return electronics after 45 days?",
		ExpectedTool:    tools.ToolCheckReturnPolicy,
		ExpectedOutcome: "Policy clearly explained",
	},
	{
		Query:           "My $800 refund hasn't arrived and I'm furious!",
		ExpectedTool:    tools.ToolCreateSupportTicket,
		ExpectedOutcome: "Empathetic escalation",
	},
	{
		Query:           "Is product XYZ in stock?",
		ExpectedTool:    tools.ToolCheckInventory,
		ExpectedOutcome: "Inventory status provided",
	},
}
