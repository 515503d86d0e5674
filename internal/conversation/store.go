// Package conversation keeps the recent user/assistant turns per customer
// so follow-up questions reach the dispatcher with context.
package conversation

import (
	"context"
	"sync"

	"github.com/spec-kit/support-agent/internal/llm"
)

// Store persists conversation turns keyed by customer.
type Store interface {
	Load(ctx context.Context, customerID string) ([]llm.Message, error)
	Append(ctx context.Context, customerID string, turns ...llm.Message) error
}

// MemoryStore is an in-process Store keeping at most maxMessages per customer.
type MemoryStore struct {
	mu          sync.Mutex
	maxMessages int
	history     map[string][]llm.Message
}

// NewMemoryStore builds a store. maxTurns counts user+assistant pairs.
func NewMemoryStore(maxTurns int) *MemoryStore {
	return &MemoryStore{
		maxMessages: maxTurns * 2,
		history:     make(map[string][]llm.Message),
	}
}

// Load returns a copy of the stored turns.
func (s *MemoryStore) Load(_ context.Context, customerID string) ([]llm.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history[customerID]...), nil
}

// Append adds turns and drops the oldest beyond the cap.
func (s *MemoryStore) Append(_ context.Context, customerID string, turns ...llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.history[customerID], turns...)
	if s.maxMessages > 0 && len(msgs) > s.maxMessages {
		msgs = msgs[len(msgs)-s.maxMessages:]
	}
	s.history[customerID] = msgs
	return nil
}
