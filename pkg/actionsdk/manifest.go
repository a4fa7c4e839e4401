package actionsdk

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Manifest describes an action and the schema of its persisted fields.
type Manifest struct {
	ID               string          `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	Section          string          `json:"section,omitempty" yaml:"section,omitempty"`
	Author           string          `json:"author,omitempty" yaml:"author,omitempty"`
	Version          string          `json:"version,omitempty" yaml:"version,omitempty"`
	ShortDescription string          `json:"shortDescription,omitempty" yaml:"shortDescription,omitempty"`
	Fields           []string        `json:"fields" yaml:"fields"`
	ConfigSchema     json.RawMessage `json:"configSchema" yaml:"-"`
}

func DecodeManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &manifest, nil
}

func DecodeManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return DecodeManifest(data)
}

func (m *Manifest) Validate() error {
	if m == nil {
		return fmt.Errorf("manifest is nil")
	}
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("manifest id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("manifest name is required")
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("manifest fields are required")
	}
	if len(m.ConfigSchema) == 0 {
		return fmt.Errorf("manifest configSchema is required")
	}
	return nil
}
