package store

import (
	"context"
	"sync"

	"github.com/mikey/mailrisk/internal/core"
)

// MemoryStore is an in-memory MessageStore and SearchIndex for development
// and tests. FailPrimary forces the canonical lookup to error, exercising
// the fallback path.
type MemoryStore struct {
	mu          sync.RWMutex
	byID        map[string]*core.NormalizedMessage
	byProvider  map[string]*core.NormalizedMessage
	FailPrimary error
}

// NewMemoryStore creates an empty in-memory message store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]*core.NormalizedMessage),
		byProvider: make(map[string]*core.NormalizedMessage),
	}
}

// GetMessage retrieves a message record by canonical id.
func (s *MemoryStore) GetMessage(ctx context.Context, messageID string) (*core.NormalizedMessage, error) {
	if s.FailPrimary != nil {
		return nil, s.FailPrimary
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[messageID], nil
}

// Search matches either identity of the message.
func (s *MemoryStore) Search(ctx context.Context, messageID string) (*core.NormalizedMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if msg, ok := s.byProvider[messageID]; ok {
		return msg, nil
	}
	return s.byID[messageID], nil
}

// PutMessage stores a message record.
func (s *MemoryStore) PutMessage(_ context.Context, msg *core.NormalizedMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[msg.MessageID] = msg
	if msg.ProviderMessageID != "" {
		s.byProvider[msg.ProviderMessageID] = msg
	}
	return nil
}
