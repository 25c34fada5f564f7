package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SaveToFile writes the scenario to path. Format "json" produces
// indented JSON; anything else produces YAML. A successful save stamps
// the modification time, records the path, and clears the dirty flag.
func (s *Scenario) SaveToFile(path, format string) error {
	s.Metadata.ModifiedAt = time.Now().UTC().Format(time.RFC3339)
	doc := s.ToMap()

	var raw []byte
	var err error
	if strings.EqualFold(format, "json") {
		raw, err = json.MarshalIndent(doc, "", "  ")
	} else {
		raw, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing scenario file: %w", err)
	}

	s.filePath = path
	s.modified = false
	return nil
}

// LoadDocument reads and decodes a scenario file into its loose document
// form without binding it to typed structures, picking the codec by file
// extension: .json decodes as JSON, everything else as YAML. Validation
// surfaces use it to inspect a file before a full load.
func LoadDocument(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var doc map[string]any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing scenario JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing scenario YAML: %w", err)
		}
	}
	return doc, nil
}

// LoadFromFile reads a scenario from path. On any failure no scenario is
// returned.
func LoadFromFile(path string) (*Scenario, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	s, err := FromMap(doc)
	if err != nil {
		return nil, err
	}
	s.filePath = path
	return s, nil
}
