// Package storage persists action chains authored in the editor.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Chain is a named, ordered list of action data.
type Chain struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	GuildID   string           `json:"guild_id,omitempty" yaml:"guild_id,omitempty"`
	Actions   []actionsdk.Data `json:"actions" yaml:"actions"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" yaml:"updated_at"`
}

func (c *Chain) clone() *Chain {
	out := *c
	out.Actions = make([]actionsdk.Data, len(c.Actions))
	for i, data := range c.Actions {
		out.Actions[i] = data.Clone()
	}
	return &out
}

// ChainStore persists chains. Names are unique.
type ChainStore interface {
	Create(ctx context.Context, chain *Chain) error
	Get(ctx context.Context, name string) (*Chain, error)
	List(ctx context.Context, guildID string, limit, offset int) ([]*Chain, int, error)
	Update(ctx context.Context, chain *Chain) error
	Delete(ctx context.Context, name string) error
}

// Save creates chain or replaces the stored chain of the same name.
func Save(ctx context.Context, store ChainStore, chain *Chain) error {
	err := store.Create(ctx, chain)
	if errors.Is(err, ErrAlreadyExists) {
		existing, getErr := store.Get(ctx, chain.Name)
		if getErr != nil {
			return getErr
		}
		chain.ID = existing.ID
		chain.CreatedAt = existing.CreatedAt
		return store.Update(ctx, chain)
	}
	return err
}

// StoreSet groups storage dependencies.
type StoreSet struct {
	Chains ChainStore
	closer func() error
}

// Close closes any underlying resources.
func (s StoreSet) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
