package scenario

import (
	"fmt"

	"github.com/Benkess/CrossSim/pkg/agent"
	"github.com/Benkess/CrossSim/pkg/dict"
	"github.com/Benkess/CrossSim/pkg/geo"
)

// ToMap renders the scenario as a plain document for YAML or JSON
// encoding. Timestamps that were never stamped serialize as null.
func (s *Scenario) ToMap() map[string]any {
	agents := map[string]any{}
	for id, a := range s.Agents {
		agents[id] = a.ToMap()
	}
	robots := map[string]any{}
	for id, r := range s.Robots {
		robots[id] = r.ToMap()
	}
	statics := map[string]any{}
	for id, obj := range s.StaticObjects {
		statics[id] = obj.ToMap()
	}
	goals := map[string]any{}
	for id, g := range s.Goals {
		goals[id] = g.ToMap()
	}

	tags := make([]any, 0, len(s.Metadata.Tags))
	for _, tag := range s.Metadata.Tags {
		tags = append(tags, tag)
	}

	return map[string]any{
		"metadata": map[string]any{
			"name":        s.Metadata.Name,
			"description": s.Metadata.Description,
			"author":      s.Metadata.Author,
			"version":     s.Metadata.Version,
			"tags":        tags,
			"created_at":  nullableString(s.Metadata.CreatedAt),
			"modified_at": nullableString(s.Metadata.ModifiedAt),
		},
		"environment_config": map[string]any{
			"size": map[string]any{
				"width":  s.EnvironmentConfig.Size.Width,
				"height": s.EnvironmentConfig.Size.Height,
			},
			"resolution": s.EnvironmentConfig.Resolution,
			"origin": map[string]any{
				"x": s.EnvironmentConfig.Origin.X,
				"y": s.EnvironmentConfig.Origin.Y,
			},
		},
		"simulation_config": map[string]any{
			"time_step":        s.SimulationConfig.TimeStep,
			"duration":         s.SimulationConfig.Duration,
			"real_time_factor": s.SimulationConfig.RealTimeFactor,
			"record_data":      s.SimulationConfig.RecordData,
			"output_format":    s.SimulationConfig.OutputFormat,
		},
		"environment_data": s.environmentData,
		"agents":           agents,
		"robots":           robots,
		"static_objects":   statics,
		"goals":            goals,
	}
}

// FromMap builds a scenario from a decoded document. Missing sections
// fall back to defaults; malformed entity entries abort the whole load,
// never yielding a partial scenario.
func FromMap(doc map[string]any) (*Scenario, error) {
	s := New("")

	meta := dict.Map(doc, "metadata")
	s.Metadata = Metadata{
		Name:        dict.Str(meta, "name", "Untitled Scenario"),
		Description: dict.Str(meta, "description", ""),
		Author:      dict.Str(meta, "author", ""),
		Version:     dict.Str(meta, "version", "1.0.0"),
		Tags:        dict.StrSlice(meta, "tags"),
		CreatedAt:   dict.Str(meta, "created_at", ""),
		ModifiedAt:  dict.Str(meta, "modified_at", ""),
	}

	env := dict.Map(doc, "environment_config")
	size := dict.Map(env, "size")
	origin := dict.Map(env, "origin")
	s.EnvironmentConfig = EnvironmentConfig{
		Size: Size{
			Width:  dict.Float(size, "width", 10.0),
			Height: dict.Float(size, "height", 10.0),
		},
		Resolution: dict.Float(env, "resolution", 0.05),
		Origin: geo.Point2D{
			X: dict.Float(origin, "x", 0),
			Y: dict.Float(origin, "y", 0),
		},
	}

	sim := dict.Map(doc, "simulation_config")
	s.SimulationConfig = SimulationConfig{
		TimeStep:       dict.Float(sim, "time_step", 0.1),
		Duration:       dict.Float(sim, "duration", 60.0),
		RealTimeFactor: dict.Float(sim, "real_time_factor", 1.0),
		RecordData:     dict.Bool(sim, "record_data", true),
		OutputFormat:   dict.Str(sim, "output_format", "json"),
	}

	if data := dict.Map(doc, "environment_data"); data != nil {
		s.environmentData = data
	}

	for id, raw := range dict.Map(doc, "agents") {
		am, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("agent %q: not a mapping", id)
		}
		a, err := agent.FromMap(am)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", id, err)
		}
		s.Agents[id] = a
	}

	for id, raw := range dict.Map(doc, "robots") {
		rm, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("robot %q: not a mapping", id)
		}
		r, err := agent.RobotFromMap(rm)
		if err != nil {
			return nil, fmt.Errorf("robot %q: %w", id, err)
		}
		s.Robots[id] = r
	}

	for id, raw := range dict.Map(doc, "static_objects") {
		om, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("static object %q: not a mapping", id)
		}
		obj, err := agent.FromMap(om)
		if err != nil {
			return nil, fmt.Errorf("static object %q: %w", id, err)
		}
		s.StaticObjects[id] = obj
	}

	for id, raw := range dict.Map(doc, "goals") {
		gm, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("goal %q: not a mapping", id)
		}
		g := agent.GoalFromMap(gm)
		s.Goals[id] = &g
	}

	s.modified = false
	return s, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
