package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryChainStore provides an in-memory ChainStore.
type MemoryChainStore struct {
	mu     sync.RWMutex
	chains map[string]*Chain
}

// NewMemoryChainStore creates an in-memory chain store.
func NewMemoryChainStore() *MemoryChainStore {
	return &MemoryChainStore{chains: make(map[string]*Chain)}
}

// NewMemoryStores returns a store set backed by memory.
func NewMemoryStores() StoreSet {
	return StoreSet{Chains: NewMemoryChainStore()}
}

func (s *MemoryChainStore) Create(ctx context.Context, chain *Chain) error {
	if chain == nil || chain.Name == "" {
		return fmt.Errorf("chain name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.chains[chain.Name]; exists {
		return ErrAlreadyExists
	}
	if chain.ID == "" {
		chain.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if chain.CreatedAt.IsZero() {
		chain.CreatedAt = now
	}
	chain.UpdatedAt = now
	s.chains[chain.Name] = chain.clone()
	return nil
}

func (s *MemoryChainStore) Get(ctx context.Context, name string) (*Chain, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain, ok := s.chains[name]
	if !ok {
		return nil, ErrNotFound
	}
	return chain.clone(), nil
}

func (s *MemoryChainStore) List(ctx context.Context, guildID string, limit, offset int) ([]*Chain, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chains := make([]*Chain, 0, len(s.chains))
	for _, chain := range s.chains {
		if guildID != "" && chain.GuildID != guildID {
			continue
		}
		chains = append(chains, chain.clone())
	}
	sort.Slice(chains, func(i, j int) bool {
		return chains[i].Name < chains[j].Name
	})
	return paginate(chains, limit, offset), len(chains), nil
}

func paginate(chains []*Chain, limit, offset int) []*Chain {
	if offset < 0 {
		offset = 0
	}
	if offset > len(chains) {
		offset = len(chains)
	}
	end := len(chains)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return chains[offset:end]
}

func (s *MemoryChainStore) Update(ctx context.Context, chain *Chain) error {
	if chain == nil || chain.Name == "" {
		return fmt.Errorf("chain name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, exists := s.chains[chain.Name]
	if !exists {
		return ErrNotFound
	}
	chain.ID = existing.ID
	chain.CreatedAt = existing.CreatedAt
	chain.UpdatedAt = time.Now().UTC()
	s.chains[chain.Name] = chain.clone()
	return nil
}

func (s *MemoryChainStore) Delete(ctx context.Context, name string) error {
	if name == "" {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.chains[name]; !exists {
		return ErrNotFound
	}
	delete(s.chains, name)
	return nil
}
