package conversation

import (
	"context"
	"testing"

	"github.com/spec-kit/support-agent/internal/llm"
)

func TestMemoryStoreCapsHistory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	for i, text := range []string{"q1", "a1", "q2", "a2", "q3", "a3"} {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		if err := s.Append(ctx, "CUST_001", llm.Message{Role: role, Content: text}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := s.Load(ctx, "CUST_001")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 4 || got[0].Content != "q2" || got[3].Content != "a3" {
		t.Errorf("history = %+v", got)
	}

	other, _ := s.Load(ctx, "CUST_002")
	if len(other) != 0 {
		t.Errorf("unrelated customer has history %+v", other)
	}
}

func TestMemoryStoreLoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(5)
	_ = s.Append(ctx, "c", llm.Message{Role: llm.RoleUser, Content: "hi"})

	got, _ := s.Load(ctx, "c")
	got[0].Content = "changed"

	again, _ := s.Load(ctx, "c")
	if again[0].Content != "hi" {
		t.Error("Load exposed internal slice")
	}
}
