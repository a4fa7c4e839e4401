package pipeline

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

var (
	// ErrNoGuild is returned for a server variable write outside a guild.
	ErrNoGuild = errors.New("run has no guild")
	// ErrUnknownScope is returned for a write to a scope with no storage.
	ErrUnknownScope = errors.New("unsupported variable scope")
)

// Variables holds the three variable scopes of the host. Temp variables live
// for one run, server variables per guild, global variables for the process.
type Variables struct {
	mu     sync.RWMutex
	temp   map[string]map[string]any
	server map[string]map[string]any
	global map[string]any
}

// NewVariables creates empty scopes.
func NewVariables() *Variables {
	return &Variables{
		temp:   make(map[string]map[string]any),
		server: make(map[string]map[string]any),
		global: make(map[string]any),
	}
}

// Set writes value into the named slot, overwriting any previous value.
func (v *Variables) Set(scope actionsdk.VarScope, cache *actionsdk.Cache, name string, value any) error {
	if name == "" {
		return fmt.Errorf("variable name is empty")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	switch scope {
	case actionsdk.ScopeTemp:
		bucket(v.temp, cache.RunID)[name] = value
	case actionsdk.ScopeServer:
		if cache.GuildID == "" {
			return fmt.Errorf("server variable %q: %w", name, ErrNoGuild)
		}
		bucket(v.server, cache.GuildID)[name] = value
	case actionsdk.ScopeGlobal:
		v.global[name] = value
	default:
		return fmt.Errorf("variable %q: %w %s", name, ErrUnknownScope, scope)
	}
	return nil
}

// Get reads the named slot.
func (v *Variables) Get(scope actionsdk.VarScope, cache *actionsdk.Cache, name string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var value any
	var ok bool
	switch scope {
	case actionsdk.ScopeTemp:
		value, ok = v.temp[cache.RunID][name]
	case actionsdk.ScopeServer:
		value, ok = v.server[cache.GuildID][name]
	case actionsdk.ScopeGlobal:
		value, ok = v.global[name]
	}
	return value, ok
}

// Snapshot copies the variables of scope visible to cache.
func (v *Variables) Snapshot(scope actionsdk.VarScope, cache *actionsdk.Cache) map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()

	switch scope {
	case actionsdk.ScopeTemp:
		return maps.Clone(v.temp[cache.RunID])
	case actionsdk.ScopeServer:
		return maps.Clone(v.server[cache.GuildID])
	case actionsdk.ScopeGlobal:
		return maps.Clone(v.global)
	}
	return nil
}

// ClearRun drops the temp variables of a finished run.
func (v *Variables) ClearRun(runID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.temp, runID)
}

func bucket(scopes map[string]map[string]any, key string) map[string]any {
	b, ok := scopes[key]
	if !ok {
		b = make(map[string]any)
		scopes[key] = b
	}
	return b
}
