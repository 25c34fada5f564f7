package validation

import (
	"fmt"
	"sort"

	"github.com/Benkess/CrossSim/pkg/dict"
)

// sectionKeys are top-level keys that must decode to mappings when present.
var sectionKeys = []string{"metadata", "environment_config", "simulation_config", "environment_data"}

// collectionKeys are top-level keys holding id-keyed entity mappings.
var collectionKeys = []string{"agents", "robots", "static_objects", "goals"}

// ValidateDocument performs schema-level validation on a decoded scenario
// document before it is bound to typed structures. It checks shape only;
// value ranges are the scenario's own Validate, and enum membership is
// enforced by the entity loaders.
func ValidateDocument(doc map[string]any) *Report {
	r := NewReport()

	checkSections(doc, r)
	checkCollections(doc, r)
	checkMetadata(doc, r)
	checkNumericConfig(doc, "environment_config", []string{"resolution"}, r)
	checkNumericConfig(doc, "simulation_config", []string{"time_step", "duration", "real_time_factor"}, r)
	checkUnknownKeys(doc, r)

	return r
}

func checkSections(doc map[string]any, r *Report) {
	for _, key := range sectionKeys {
		raw, ok := doc[key]
		if !ok || raw == nil {
			continue
		}
		if _, ok := raw.(map[string]any); !ok {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s must be a mapping", key),
				FieldPath:   key,
				ActualValue: typeName(raw),
				Expected:    "mapping",
			})
		}
	}
}

func checkCollections(doc map[string]any, r *Report) {
	for _, key := range collectionKeys {
		raw, ok := doc[key]
		if !ok || raw == nil {
			continue
		}
		entries, ok := raw.(map[string]any)
		if !ok {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s must be a mapping of id to entity", key),
				FieldPath:   key,
				ActualValue: typeName(raw),
				Expected:    "mapping",
			})
			continue
		}
		for _, id := range sortedKeys(entries) {
			if _, ok := entries[id].(map[string]any); !ok {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("%s entry %q must be a mapping", key, id),
					FieldPath:   fmt.Sprintf("%s.%s", key, id),
					ActualValue: typeName(entries[id]),
					Expected:    "mapping",
				})
			}
		}
	}
}

func checkMetadata(doc map[string]any, r *Report) {
	meta := dict.Map(doc, "metadata")
	if meta == nil {
		return
	}
	if raw, ok := meta["name"]; ok && raw != nil {
		if _, ok := raw.(string); !ok {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "metadata.name must be a string",
				FieldPath:   "metadata.name",
				ActualValue: typeName(raw),
				Expected:    "string",
			})
		}
	}
	if raw, ok := meta["version"]; ok && raw != nil {
		if _, ok := raw.(string); !ok {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     "metadata.version should be a string",
				FieldPath:   "metadata.version",
				ActualValue: typeName(raw),
				Expected:    "string",
			})
		}
	}
	if raw, ok := meta["tags"]; ok && raw != nil {
		if _, ok := raw.([]any); !ok {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     "metadata.tags should be a list",
				FieldPath:   "metadata.tags",
				ActualValue: typeName(raw),
				Expected:    "list",
			})
		}
	}
}

func checkNumericConfig(doc map[string]any, section string, fields []string, r *Report) {
	cfg := dict.Map(doc, section)
	if cfg == nil {
		return
	}
	for _, field := range fields {
		raw, ok := cfg[field]
		if !ok || raw == nil {
			continue
		}
		if _, ok := dict.AsFloat(raw); !ok {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s.%s must be a number", section, field),
				FieldPath:   fmt.Sprintf("%s.%s", section, field),
				ActualValue: typeName(raw),
				Expected:    "number",
			})
		}
	}
}

func checkUnknownKeys(doc map[string]any, r *Report) {
	known := map[string]bool{}
	for _, key := range sectionKeys {
		known[key] = true
	}
	for _, key := range collectionKeys {
		known[key] = true
	}
	for _, key := range sortedKeys(doc) {
		if !known[key] {
			r.AddWarning(Result{
				Level:     LevelSchema,
				Message:   fmt.Sprintf("unknown top-level key %q is ignored on load", key),
				FieldPath: key,
			})
		}
	}
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// sortedKeys keeps report ordering deterministic across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
