package actionsdk

import (
	"context"

	"github.com/haasonsaas/embedinfo/pkg/models"
)

// Data is the persisted configuration of one action in a chain. Keys are the
// descriptor's field names plus "name", which selects the action.
type Data map[string]string

// Name returns the action name the data was authored for.
func (d Data) Name() string {
	return d["name"]
}

// Clone returns a copy of the data.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Cache is the execution context of one chain run. The host owns it; actions
// read their configuration from Actions[Index].
type Cache struct {
	RunID   string
	Actions []Data
	Index   int

	// Message is the triggering message. It is nil for event chains.
	Message *models.Message
	GuildID string
	IsEvent bool
}

// Current returns the data of the action being executed.
func (c *Cache) Current() Data {
	if c == nil || c.Index < 0 || c.Index >= len(c.Actions) {
		return nil
	}
	return c.Actions[c.Index]
}

// =============================================================================
// Host capabilities
// =============================================================================

// MessageResolver resolves a configured message reference. It returns a nil
// message and nil error when nothing is referenced.
type MessageResolver interface {
	GetMessage(ctx context.Context, ref MessageRef, varName string, cache *Cache) (*models.Message, error)
}

// VariableStore writes a value into a scoped variable slot, overwriting any
// previous value.
type VariableStore interface {
	StoreValue(ctx context.Context, value any, scope VarScope, name string, cache *Cache) error
}

// Evaluator interpolates variables into an authored string.
type Evaluator interface {
	EvalMessage(text string, cache *Cache) (string, error)
}

// Continuer advances the chain to the next action.
type Continuer interface {
	CallNextAction(ctx context.Context, cache *Cache) error
}

// Host bundles the capabilities an action may call back into.
type Host interface {
	MessageResolver
	VariableStore
	Evaluator
	Continuer
}

// =============================================================================
// Editor contract
// =============================================================================

// Element is a mounted form element in the action editor.
type Element interface {
	ID() string
	Value() string
}

// Editor is the surface the init hook sees after the form is mounted.
type Editor interface {
	ElementByID(id string) Element
	// MessageChange shows or hides the container holding the variable name
	// input, depending on the selected message reference.
	MessageChange(el Element, containerID string)
}

// StorageDecl is the variable an action declares for a storage scope.
type StorageDecl struct {
	VarName  string
	Datatype Datatype
}

// Descriptor is the declarative side of an action consumed by the editor.
type Descriptor interface {
	Name() string
	Section() string
	Subtitle(data Data) string
	Fields() []string
	HTML(isEvent bool, opts HostOptions) (string, error)
	Init(editor Editor) error
	// VariableStorage returns false when the configured scope does not match
	// the scope being queried.
	VariableStorage(data Data, scope VarScope) (StorageDecl, bool)
	Manifest() *Manifest
}

// Action is a descriptor the chain runner can execute.
type Action interface {
	Descriptor
	Execute(ctx context.Context, host Host, cache *Cache) error
}
