// Package actions keeps the set of actions a chain runner can execute,
// indexed by the name persisted in each action's data.
package actions

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/haasonsaas/embedinfo/internal/actions/storeembedinfo"
	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

// Registry maps action names to actions.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]actionsdk.Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]actionsdk.Action)}
}

// NewDefaultRegistry returns a registry holding every built-in action.
// observer may be nil.
func NewDefaultRegistry(logger *slog.Logger, observer storeembedinfo.ExtractionObserver) (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(storeembedinfo.New(storeembedinfo.Config{Logger: logger, Observer: observer})); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds an action. Its manifest must validate and its name must be
// unused.
func (r *Registry) Register(action actionsdk.Action) error {
	if action == nil {
		return fmt.Errorf("action is nil")
	}
	if err := action.Manifest().Validate(); err != nil {
		return fmt.Errorf("register %q: %w", action.Name(), err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[action.Name()]; exists {
		return fmt.Errorf("action %q already registered", action.Name())
	}
	r.actions[action.Name()] = action
	return nil
}

// Get returns the action registered under name.
func (r *Registry) Get(name string) (actionsdk.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every action data of a chain against its action's schema.
func (r *Registry) Validate(chain []actionsdk.Data) error {
	for i, data := range chain {
		a, ok := r.Get(data.Name())
		if !ok {
			return fmt.Errorf("action #%d: unknown action %q", i, data.Name())
		}
		if err := a.Manifest().ValidateConfig(data); err != nil {
			return fmt.Errorf("action #%d (%s): %w", i, data.Name(), err)
		}
	}
	return nil
}

// VariableDeclarations collects the variables a chain declares for scope, in
// chain order.
func (r *Registry) VariableDeclarations(chain []actionsdk.Data, scope actionsdk.VarScope) []actionsdk.StorageDecl {
	var decls []actionsdk.StorageDecl
	for _, data := range chain {
		a, ok := r.Get(data.Name())
		if !ok {
			continue
		}
		if decl, ok := a.VariableStorage(data, scope); ok {
			decls = append(decls, decl)
		}
	}
	return decls
}
