package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/llm"
	"github.com/spec-kit/support-agent/internal/policy"
	"github.com/spec-kit/support-agent/internal/service"
)

type stubSupport struct {
	orderIDs   []string
	productIDs []string
	tickets    [][3]string
	fault      error
}

func (s *stubSupport) CheckOrderStatus(_ context.Context, id string) (service.OrderLookup, error) {
	s.orderIDs = append(s.orderIDs, id)
	if s.fault != nil {
		return service.OrderLookup{}, s.fault
	}
	if id != "12345" {
		return service.OrderLookup{}, nil
	}
	return service.OrderLookup{Order: &domain.Order{ID: id, Status: domain.OrderStatusShipped}}, nil
}

func (s *stubSupport) CheckReturnPolicy(category string) string {
	return policy.Lookup(category)
}

func (s *stubSupport) CheckInventory(_ context.Context, id string) (service.InventoryLookup, error) {
	s.productIDs = append(s.productIDs, id)
	if s.fault != nil {
		return service.InventoryLookup{}, s.fault
	}
	return service.InventoryLookup{}, nil
}

func (s *stubSupport) CreateSupportTicket(_ context.Context, email, issue, priority string) (service.TicketConfirmation, error) {
	if s.fault != nil {
		return service.TicketConfirmation{}, s.fault
	}
	s.tickets = append(s.tickets, [3]string{email, issue, priority})
	return service.TicketConfirmation{TicketID: "TKT-1", Message: "Support ticket TKT-1 created. Team will respond within 24 hours."}, nil
}

func call(name, input string) llm.ToolCall {
	return llm.ToolCall{ID: "c1", Name: name, Input: json.RawMessage(input)}
}

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	want := []string{ToolCheckOrderStatus, ToolCheckReturnPolicy, ToolCreateSupportTicket, ToolCheckInventory}
	if len(catalog) != len(want) {
		t.Fatalf("catalog has %d tools, want %d", len(catalog), len(want))
	}
	for i, tool := range catalog {
		if tool.Name != want[i] {
			t.Errorf("tool[%d] = %s, want %s", i, tool.Name, want[i])
		}
		if !json.Valid(tool.InputSchema) {
			t.Errorf("%s schema is not valid JSON", tool.Name)
		}
		if tool.Description == "" {
			t.Errorf("%s has no description", tool.Name)
		}
	}
	if !strings.Contains(string(catalog[1].InputSchema), "electronics") {
		t.Error("return policy schema should list known categories")
	}
	if !strings.Contains(catalog[1].Description, "ignores case") {
		t.Errorf("return policy description = %q, want case-folding noted", catalog[1].Description)
	}
}

func TestExecuteOrderStatusCoercesNumericID(t *testing.T) {
	support := &stubSupport{}
	r := NewRegistry(support)

	res, err := r.Execute(context.Background(), call(ToolCheckOrderStatus, `{"order_id": 12345}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(support.orderIDs) != 1 || support.orderIDs[0] != "12345" {
		t.Errorf("order ids = %v", support.orderIDs)
	}
	if !strings.Contains(res.Output, `"order_id":"12345"`) {
		t.Errorf("output = %s", res.Output)
	}

	res, _ = r.Execute(context.Background(), call(ToolCheckOrderStatus, `{"order_id": "777"}`))
	if res.Output != `{"error":"Order not found"}` {
		t.Errorf("not found output = %s", res.Output)
	}
}

func TestExecuteCanonicalNumericIDs(t *testing.T) {
	tests := map[string]string{
		`{"order_id": 12345.0}`:  "12345",
		`{"order_id": 1.2345e4}`: "12345",
		`{"order_id": 12.5}`:     "12.5",
	}
	for args, want := range tests {
		support := &stubSupport{}
		if _, err := NewRegistry(support).Execute(context.Background(), call(ToolCheckOrderStatus, args)); err != nil {
			t.Fatalf("Execute(%s) error = %v", args, err)
		}
		if len(support.orderIDs) != 1 || support.orderIDs[0] != want {
			t.Errorf("Execute(%s) order ids = %v, want %q", args, support.orderIDs, want)
		}
	}
}

func TestExecuteReturnPolicy(t *testing.T) {
	r := NewRegistry(&stubSupport{})
	res, err := r.Execute(context.Background(), call(ToolCheckReturnPolicy, `{"product_type":"furniture"}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(res.Output, "14-day") {
		t.Errorf("output = %s", res.Output)
	}
}

func TestExecuteCreateTicket(t *testing.T) {
	support := &stubSupport{}
	r := NewRegistry(support)
	res, err := r.Execute(context.Background(), call(ToolCreateSupportTicket,
		`{"customer_email":"jane@example.com","issue":"refund missing","priority":"high"}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.TicketID != "TKT-1" {
		t.Errorf("ticket id = %q", res.TicketID)
	}
	if len(support.tickets) != 1 || support.tickets[0][2] != "high" {
		t.Errorf("tickets = %v", support.tickets)
	}
}

func TestExecuteArgumentErrorsGoBackToModel(t *testing.T) {
	support := &stubSupport{}
	r := NewRegistry(support)
	cases := []struct {
		name  string
		call  llm.ToolCall
		error string
	}{
		{"invalid json", call(ToolCheckInventory, `{"product_id":`), "not valid JSON"},
		{"missing arg", call(ToolCheckInventory, `{}`), "product_id"},
		{"wrong type", call(ToolCheckOrderStatus, `{"order_id": {"x":1}}`), "order_id"},
		{"ticket missing priority", call(ToolCreateSupportTicket, `{"customer_email":"a","issue":"b"}`), "priority"},
		{"unknown tool", call("delete_orders", `{}`), "unknown tool"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := r.Execute(context.Background(), tc.call)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			var out map[string]string
			if err := json.Unmarshal([]byte(res.Output), &out); err != nil {
				t.Fatalf("output %s is not JSON: %v", res.Output, err)
			}
			if !strings.Contains(out["error"], tc.error) {
				t.Errorf("error = %q, want it to mention %q", out["error"], tc.error)
			}
		})
	}
	if len(support.tickets) != 0 || len(support.productIDs) != 0 {
		t.Error("support must not be called for rejected arguments")
	}
}

func TestExecuteStorageFaultPropagates(t *testing.T) {
	fault := errors.New("connection reset")
	r := NewRegistry(&stubSupport{fault: fault})
	for _, c := range []llm.ToolCall{
		call(ToolCheckOrderStatus, `{"order_id":"1"}`),
		call(ToolCheckInventory, `{"product_id":"1"}`),
		call(ToolCreateSupportTicket, `{"customer_email":"a","issue":"b","priority":"low"}`),
	} {
		if _, err := r.Execute(context.Background(), c); !errors.Is(err, fault) {
			t.Errorf("%s: err = %v, want fault", c.Name, err)
		}
	}
}
