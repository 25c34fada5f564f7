package world

import (
	"fmt"

	"github.com/Benkess/CrossSim/pkg/dict"
	"github.com/Benkess/CrossSim/pkg/geo"
	"github.com/Benkess/CrossSim/pkg/grid"
)

// ToMap converts the environment to its document form, the free-form
// environment_data payload carried inside a scenario file.
func (e *Environment) ToMap() map[string]any {
	var gridDoc any
	if e.Grid != nil {
		gridDoc = e.Grid.ToMap()
	}

	walls := make(map[string]any, len(e.Walls))
	for id, w := range e.Walls {
		walls[id] = map[string]any{
			"start":     pointDoc(w.Start),
			"end":       pointDoc(w.End),
			"thickness": w.Thickness,
			"type":      "wall",
		}
	}

	obstacles := make(map[string]any, len(e.Obstacles))
	for id, o := range e.Obstacles {
		size := map[string]any{
			"width":  o.Size.Width,
			"height": o.Size.Height,
		}
		if o.Size.Radius != 0 {
			size["radius"] = o.Size.Radius
		}
		obstacles[id] = map[string]any{
			"position":  pointDoc(o.Position),
			"shape":     string(o.Shape),
			"size":      size,
			"is_static": o.Static,
			"type":      "obstacle",
		}
	}

	zones := make(map[string]any, len(e.Zones))
	for id, z := range e.Zones {
		zones[id] = map[string]any{
			"type": z.Type,
			"bounds": map[string]any{
				"x":      z.Bounds.X,
				"y":      z.Bounds.Y,
				"width":  z.Bounds.Width,
				"height": z.Bounds.Height,
			},
			"properties": z.Properties,
		}
	}

	landmarks := make(map[string]any, len(e.Landmarks))
	for id, l := range e.Landmarks {
		landmarks[id] = map[string]any{
			"position":   pointDoc(l.Position),
			"kind":       l.Kind,
			"properties": l.Properties,
		}
	}

	return map[string]any{
		"name":             e.Name,
		"occupancy_grid":   gridDoc,
		"static_obstacles": obstacles,
		"walls":            walls,
		"landmarks":        landmarks,
		"zones":            zones,
		"properties":       e.Properties,
	}
}

// FromMap rebuilds an environment from its document form. Missing fields
// take their defaults; a malformed grid document or an obstacle shape
// outside the closed set is an error.
func FromMap(m map[string]any) (*Environment, error) {
	e := New(dict.Str(m, "name", DefaultName))
	// A document without properties yields an empty set, not the seeded
	// physical defaults.
	e.Properties = map[string]any{}
	if p := dict.Map(m, "properties"); p != nil {
		e.Properties = p
	}

	if gm := dict.Map(m, "occupancy_grid"); gm != nil {
		g, err := grid.FromMap(gm)
		if err != nil {
			return nil, fmt.Errorf("occupancy grid: %w", err)
		}
		e.Grid = g
	}

	for id, v := range dict.Map(m, "walls") {
		wm, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("wall %q: not a mapping", id)
		}
		e.Walls[id] = Wall{
			Start:     pointFrom(dict.Map(wm, "start")),
			End:       pointFrom(dict.Map(wm, "end")),
			Thickness: dict.Float(wm, "thickness", 0.1),
		}
	}

	for id, v := range dict.Map(m, "static_obstacles") {
		om, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("obstacle %q: not a mapping", id)
		}
		shape, err := ParseShape(dict.Str(om, "shape", string(ShapeRectangle)))
		if err != nil {
			return nil, fmt.Errorf("obstacle %q: %w", id, err)
		}
		size := dict.Map(om, "size")
		e.Obstacles[id] = Obstacle{
			Position: pointFrom(dict.Map(om, "position")),
			Shape:    shape,
			Size: Extent{
				Width:  dict.Float(size, "width", 0),
				Height: dict.Float(size, "height", 0),
				Radius: dict.Float(size, "radius", 0),
			},
			Static: dict.Bool(om, "is_static", true),
		}
	}

	for id, v := range dict.Map(m, "zones") {
		zm, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("zone %q: not a mapping", id)
		}
		bounds := dict.Map(zm, "bounds")
		props := dict.Map(zm, "properties")
		if props == nil {
			props = map[string]any{}
		}
		e.Zones[id] = Zone{
			Type: dict.Str(zm, "type", ""),
			Bounds: Bounds{
				X:      dict.Float(bounds, "x", 0),
				Y:      dict.Float(bounds, "y", 0),
				Width:  dict.Float(bounds, "width", 0),
				Height: dict.Float(bounds, "height", 0),
			},
			Properties: props,
		}
	}

	for id, v := range dict.Map(m, "landmarks") {
		lm, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("landmark %q: not a mapping", id)
		}
		props := dict.Map(lm, "properties")
		if props == nil {
			props = map[string]any{}
		}
		e.Landmarks[id] = Landmark{
			Position:   pointFrom(dict.Map(lm, "position")),
			Kind:       dict.Str(lm, "kind", ""),
			Properties: props,
		}
	}

	return e, nil
}

func pointDoc(p geo.Point2D) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}

func pointFrom(m map[string]any) geo.Point2D {
	return geo.Pt(dict.Float(m, "x", 0), dict.Float(m, "y", 0))
}
