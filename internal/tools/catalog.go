package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/support-agent/internal/llm"
	"github.com/spec-kit/support-agent/internal/policy"
)

// Tool names offered to the dispatcher.
const (
	ToolCheckOrderStatus    = "check_order_status"
	ToolCheckReturnPolicy   = "check_return_policy"
	ToolCheckInventory      = "check_inventory"
	ToolCreateSupportTicket = "create_support_ticket"
)

var checkOrderStatusTool = llm.Tool{
	Name:        ToolCheckOrderStatus,
	Description: "Checks the current status of an order. Returns order_id, status, order_date and total_amount, or {\"error\":\"Order not found\"}.",
	InputSchema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"order_id": {"type": "string", "description": "Order identifier, e.g. 12345"}
		},
		"required": ["order_id"]
	}`),
}

var checkInventoryTool = llm.Tool{
	Name:        ToolCheckInventory,
	Description: "Checks if a product is in stock. Returns product_id, name, in_stock, quantity and next_restock, or {\"error\":\"Product not found\"}.",
	InputSchema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"product_id": {"type": "string", "description": "Product identifier"}
		},
		"required": ["product_id"]
	}`),
}

var createSupportTicketTool = llm.Tool{
	Name:        ToolCreateSupportTicket,
	Description: "Creates a support ticket for human follow-up. Use for issues the other tools cannot resolve, refunds over $500, and upset customers.",
	InputSchema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"customer_email": {"type": "string", "description": "Customer email for follow-up"},
			"issue":          {"type": "string", "description": "Full description of the customer's problem"},
			"priority":       {"type": "string", "enum": ["low", "medium", "high", "urgent"], "description": "Urgency for queue routing"}
		},
		"required": ["customer_email", "issue", "priority"]
	}`),
}

// returnPolicyTool is built from the policy table so the schema lists the
// categories that have a dedicated policy.
func returnPolicyTool() llm.Tool {
	return llm.Tool{
		Name:        ToolCheckReturnPolicy,
		Description: "Gets the return policy for a product category. Matching ignores case and surrounding spaces (\"Electronics\" matches \"electronics\"). Unknown categories get the standard policy.",
		InputSchema: json.RawMessage(fmt.Sprintf(`{
		"type": "object",
		"properties": {
			"product_type": {"type": "string", "description": "Product category, case-insensitive, e.g. %s"}
		},
		"required": ["product_type"]
	}`, strings.Join(policy.Categories(), ", "))),
	}
}

// Catalog returns the closed set of tools in a stable order.
func Catalog() []llm.Tool {
	return []llm.Tool{
		checkOrderStatusTool,
		returnPolicyTool(),
		createSupportTicketTool,
		checkInventoryTool,
	}
}
