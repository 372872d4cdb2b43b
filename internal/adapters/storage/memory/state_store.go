package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/PabloGalante/lumen-console/internal/domain"
)

// StateStore holds the console-state blob in memory. It round-trips through
// JSON so it behaves exactly like the durable backends, corrupt-data path
// included.
type StateStore struct {
	mu   sync.RWMutex
	blob []byte
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (s *StateStore) Load(ctx context.Context) (*domain.ConsoleState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.blob == nil {
		return nil, domain.ErrStateNotFound
	}

	var state domain.ConsoleState
	if err := json.Unmarshal(s.blob, &state); err != nil {
		return nil, fmt.Errorf("decoding console state: %w", err)
	}
	return &state, nil
}

func (s *StateStore) Save(ctx context.Context, state *domain.ConsoleState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding console state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = blob
	return nil
}
