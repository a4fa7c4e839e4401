package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// includeKey lists further files merged underneath the including file.
// "include" is accepted as an alias.
const includeKey = "$include"

// LoadRaw reads a configuration file into a raw map. $include files are merged
// first, so keys of the including file win. Environment variables are expanded
// in string values after decoding.
func LoadRaw(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path is required")
	}
	return loadFile(path, map[string]bool{})
}

func loadFile(path string, active map[string]bool) (map[string]any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if active[abs] {
		return nil, fmt.Errorf("config include cycle at %s", abs)
	}
	active[abs] = true
	defer delete(active, abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	raw, err := parse(data, abs)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", abs, err)
	}
	expandEnv(raw)

	includes, err := popIncludes(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	merged := map[string]any{}
	for _, inc := range includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(abs), inc)
		}
		sub, err := loadFile(inc, active)
		if err != nil {
			return nil, err
		}
		merged = merge(merged, sub)
	}
	return merge(merged, raw), nil
}

// parse decodes JSON/JSON5 by extension and YAML otherwise.
func parse(data []byte, path string) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		if err := json5.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil && err != io.EOF {
			return nil, err
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			return nil, fmt.Errorf("expected a single YAML document")
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// expandEnv replaces ${VAR} references in every string value of raw.
// Keys are left alone.
func expandEnv(raw map[string]any) {
	for k, v := range raw {
		raw[k] = expandValue(v)
	}
}

func expandValue(v any) any {
	switch typed := v.(type) {
	case string:
		return os.ExpandEnv(typed)
	case map[string]any:
		expandEnv(typed)
		return typed
	case []any:
		for i, item := range typed {
			typed[i] = expandValue(item)
		}
		return typed
	}
	return v
}

func popIncludes(raw map[string]any) ([]string, error) {
	var val any
	if v, ok := raw[includeKey]; ok {
		val = v
		delete(raw, includeKey)
	} else if v, ok := raw["include"]; ok {
		val = v
		delete(raw, "include")
	} else {
		return nil, nil
	}

	switch v := val.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s entries must be strings", includeKey)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s must be a string or a list of strings", includeKey)
}

// merge copies src into dst, recursing into nested maps.
func merge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				dst[k] = merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// decodeRawConfig round-trips the merged map through YAML so unknown keys
// are rejected.
func decodeRawConfig(raw map[string]any) (*Config, error) {
	payload, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(payload))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
