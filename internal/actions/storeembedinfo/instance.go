package storeembedinfo

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/haasonsaas/embedinfo/internal/embedinfo"
	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

// Persisted field names, in editor order.
const (
	FieldMessage  = "message"
	FieldVarName  = "varName"
	FieldInfo     = "info"
	FieldStorage  = "storage"
	FieldVarName2 = "varName2"
)

var fields = []string{FieldMessage, FieldVarName, FieldInfo, FieldStorage, FieldVarName2}

// Instance is the typed form of the action's persisted data.
type Instance struct {
	MessageRef    string `json:"message" jsonschema:"pattern=^[0-9]+$"`
	SourceVarName string `json:"varName,omitempty"`
	InfoKey       string `json:"info"`
	StorageTarget string `json:"storage" jsonschema:"pattern=^[0-9]+$"`
	DestVarName   string `json:"varName2,omitempty"`
}

// JSONSchemaExtend restricts info to the catalog keys.
func (Instance) JSONSchemaExtend(schema *jsonschema.Schema) {
	prop, ok := schema.Properties.Get(FieldInfo)
	if !ok {
		return
	}
	for _, key := range embedinfo.Keys() {
		prop.Enum = append(prop.Enum, string(key))
	}
}

// FromData reads an Instance out of persisted data. Missing fields are empty.
func FromData(d actionsdk.Data) Instance {
	return Instance{
		MessageRef:    d[FieldMessage],
		SourceVarName: d[FieldVarName],
		InfoKey:       d[FieldInfo],
		StorageTarget: d[FieldStorage],
		DestVarName:   d[FieldVarName2],
	}
}

// Data converts the instance back to persisted data for this action.
func (i Instance) Data() actionsdk.Data {
	return actionsdk.Data{
		"name":        Name,
		FieldMessage:  i.MessageRef,
		FieldVarName:  i.SourceVarName,
		FieldInfo:     i.InfoKey,
		FieldStorage:  i.StorageTarget,
		FieldVarName2: i.DestVarName,
	}
}

var (
	schemaOnce sync.Once
	schemaJSON []byte
	schemaErr  error
)

// ConfigSchema returns the JSON Schema of the persisted data.
func ConfigSchema() ([]byte, error) {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			ExpandedStruct:            true,
			DoNotReference:            true,
			AllowAdditionalProperties: true,
		}
		schema := r.Reflect(&Instance{})
		schemaJSON, schemaErr = json.MarshalIndent(schema, "", "  ")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("encode schema: %w", schemaErr)
		}
	})
	return schemaJSON, schemaErr
}
