package actionsdk

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldError reports the persisted fields of an action that failed schema
// validation, keyed by field name.
type FieldError struct {
	Action string
	Fields map[string]string
}

func (e *FieldError) Error() string {
	names := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("%s: invalid fields: %s", e.Action, strings.Join(parts, "; "))
}

// Invalid reports whether field failed validation.
func (e *FieldError) Invalid(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// ValidateConfig validates persisted action data against the manifest schema.
// Schema violations are returned as a *FieldError.
func (m *Manifest) ValidateConfig(data Data) error {
	if err := m.Validate(); err != nil {
		return err
	}

	schema, err := compileSchema(m.ConfigSchema)
	if err != nil {
		return fmt.Errorf("compile action schema: %w", err)
	}

	instance := make(map[string]any, len(data))
	for k, v := range data {
		instance[k] = v
	}

	err = schema.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("validate %s data: %w", m.Name, err)
	}
	fe := &FieldError{Action: m.Name, Fields: map[string]string{}}
	m.collectFieldErrors(verr, fe.Fields)
	return fe
}

// collectFieldErrors attributes every leaf violation to the persisted field it
// concerns. Root-level violations name their fields only in the message.
func (m *Manifest) collectFieldErrors(verr *jsonschema.ValidationError, out map[string]string) {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			m.collectFieldErrors(cause, out)
		}
		return
	}

	field, _, _ := strings.Cut(strings.TrimPrefix(verr.InstanceLocation, "/"), "/")
	if field != "" {
		out[field] = verr.Message
		return
	}
	var matched bool
	for _, name := range m.Fields {
		if strings.Contains(verr.Message, "'"+name+"'") {
			out[name] = "missing"
			matched = true
		}
	}
	if !matched {
		out["(data)"] = verr.Message
	}
}

var schemaCache sync.Map

func compileSchema(schema []byte) (*jsonschema.Schema, error) {
	key := string(schema)
	if cached, ok := schemaCache.Load(key); ok {
		if compiled, ok := cached.(*jsonschema.Schema); ok {
			return compiled, nil
		}
	}

	compiled, err := jsonschema.CompileString("action.schema.json", key)
	if err != nil {
		return nil, err
	}
	schemaCache.Store(key, compiled)
	return compiled, nil
}
