package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a parsed structural model from a JSON or YAML file.
// Only shape is checked here; reference integrity is the MCP's concern.
func LoadFile(path string) (*StructuralModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeJSON parses a model document
func DecodeJSON(data []byte) (*StructuralModel, error) {
	var m StructuralModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model JSON: %w", err)
	}
	return normalize(&m)
}

// DecodeYAML parses a model document
func DecodeYAML(data []byte) (*StructuralModel, error) {
	var m StructuralModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model YAML: %w", err)
	}
	return normalize(&m)
}

func normalize(m *StructuralModel) (*StructuralModel, error) {
	if m.ID == "" {
		return nil, fmt.Errorf("model id is required")
	}
	switch UnitsSystem(strings.ToUpper(string(m.UnitsSystem))) {
	case Metric:
		m.UnitsSystem = Metric
	case Imperial, "":
		m.UnitsSystem = Imperial
	default:
		return nil, fmt.Errorf("unknown units system %q", m.UnitsSystem)
	}
	return m, nil
}
