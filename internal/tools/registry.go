package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/llm"
	"github.com/spec-kit/support-agent/internal/service"
)

// ErrUnknownTool is reported to the model when it names a tool outside the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// Support is the set of operations the tools expose.
type Support interface {
	CheckOrderStatus(ctx context.Context, orderID string) (service.OrderLookup, error)
	CheckReturnPolicy(category string) string
	CheckInventory(ctx context.Context, productID string) (service.InventoryLookup, error)
	CreateSupportTicket(ctx context.Context, customerEmail, issue, priority string) (service.TicketConfirmation, error)
}

// Result is the outcome of one tool call.
type Result struct {
	Tool   string
	Input  string
	Output string
	// TicketID is set when the call stored a support ticket.
	TicketID string
}

// Registry executes tool calls against the support service.
// Execute returns a Go error only for storage faults; bad arguments and
// unknown tools are reported to the model inside Output.
type Registry struct {
	support Support
	tools   []llm.Tool
}

// NewRegistry builds the registry over the full catalog.
func NewRegistry(support Support) *Registry {
	return &Registry{support: support, tools: Catalog()}
}

// Tools returns the catalog offered to the model.
func (r *Registry) Tools() []llm.Tool {
	return r.tools
}

// Execute runs one tool call.
func (r *Registry) Execute(ctx context.Context, call llm.ToolCall) (Result, error) {
	res := Result{Tool: call.Name, Input: string(call.Input)}

	raw := call.Input
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if !gjson.ValidBytes(raw) {
		res.Output = errJSON("invalid input: arguments are not valid JSON")
		return res, nil
	}
	args := gjson.ParseBytes(raw)

	switch call.Name {
	case ToolCheckOrderStatus:
		id, ok := requireString(args, "order_id")
		if !ok {
			res.Output = missingArg("order_id")
			return res, nil
		}
		lookup, err := r.support.CheckOrderStatus(ctx, id)
		if err != nil {
			return res, err
		}
		res.Output = toJSON(lookup)

	case ToolCheckReturnPolicy:
		category, ok := requireString(args, "product_type")
		if !ok {
			res.Output = missingArg("product_type")
			return res, nil
		}
		res.Output = r.support.CheckReturnPolicy(category)

	case ToolCheckInventory:
		id, ok := requireString(args, "product_id")
		if !ok {
			res.Output = missingArg("product_id")
			return res, nil
		}
		lookup, err := r.support.CheckInventory(ctx, id)
		if err != nil {
			return res, err
		}
		res.Output = toJSON(lookup)

	case ToolCreateSupportTicket:
		for _, key := range []string{"customer_email", "issue", "priority"} {
			if !args.Get(key).Exists() {
				res.Output = missingArg(key)
				return res, nil
			}
		}
		conf, err := r.support.CreateSupportTicket(ctx,
			args.Get("customer_email").String(),
			args.Get("issue").String(),
			args.Get("priority").String(),
		)
		if err != nil {
			return res, err
		}
		res.Output = conf.Message
		res.TicketID = conf.TicketID

	default:
		res.Output = errJSON(fmt.Sprintf("%s: %s", ErrUnknownTool, call.Name))
	}
	return res, nil
}

// maxExactInt is the largest integer a JSON number carries without loss.
const maxExactInt = 1 << 53

// requireString reads a string-or-number argument. Integral numbers are
// rendered canonically so 12345, 12345.0 and "12345" address the same
// record; other numbers keep their literal form.
func requireString(args gjson.Result, key string) (string, bool) {
	v := args.Get(key)
	switch v.Type {
	case gjson.String:
		return v.String(), true
	case gjson.Number:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) <= maxExactInt {
			return domain.IDFromInt(int64(v.Num)), true
		}
		return v.Raw, true
	default:
		return "", false
	}
}

func missingArg(key string) string {
	return errJSON("missing required argument: " + key)
}

func toJSON(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return errJSON("encode result: " + err.Error())
	}
	return string(out)
}

func errJSON(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}
