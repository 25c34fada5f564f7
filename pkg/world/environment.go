// Package world models the simulation environment: an optional occupancy
// grid plus keyed vector collections of walls, obstacles, zones, and
// landmarks. Mutations on walls and static obstacles rasterize into the
// grid when one exists; the grid only ever accumulates occupied cells, and
// removing a vector entry never erases what it rasterized.
package world

import (
	"errors"
	"fmt"

	"github.com/Benkess/CrossSim/pkg/geo"
	"github.com/Benkess/CrossSim/pkg/grid"
)

// DefaultName is used when an environment is created without a name.
const DefaultName = "Environment"

// Shape classifies an obstacle footprint. The set is closed; persisted
// values outside it are rejected at parse time.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
	ShapePolygon   Shape = "polygon"
)

// ErrUnknownShape reports an obstacle shape outside the closed set.
var ErrUnknownShape = errors.New("unknown obstacle shape")

// ParseShape validates an obstacle shape tag.
func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case ShapeRectangle, ShapeCircle, ShapePolygon:
		return Shape(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// Extent is a shape-specific metric size. Rectangles (and polygons, which
// rasterize as their bounding rectangle) use Width and Height; circles use
// Radius.
type Extent struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Radius float64 `yaml:"radius,omitempty" json:"radius,omitempty"`
}

// Wall is a straight segment between two world points. Thickness is export
// metadata only: rasterization marks the centerline, never the width.
type Wall struct {
	Start     geo.Point2D
	End       geo.Point2D
	Thickness float64
}

// Obstacle is a shaped footprint at a world position. Only static obstacles
// rasterize.
type Obstacle struct {
	Position geo.Point2D
	Shape    Shape
	Size     Extent
	Static   bool
}

// Bounds is a zone rectangle: corner position plus extent, in meters.
type Bounds struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Zone marks a rectangular region with a caller-defined role ("start",
// "goal", "restricted", ...). Zones are vector data only and never touch
// the grid.
type Zone struct {
	Type       string
	Bounds     Bounds
	Properties map[string]any
}

// Landmark is a named reference point used by localization tooling.
type Landmark struct {
	Position   geo.Point2D
	Kind       string
	Properties map[string]any
}

// Environment aggregates the grid and the vector collections. It is not
// safe for concurrent mutation; the owning editor layer serializes access.
type Environment struct {
	Name       string
	Grid       *grid.Grid
	Walls      map[string]Wall
	Obstacles  map[string]Obstacle
	Zones      map[string]Zone
	Landmarks  map[string]Landmark
	Properties map[string]any
}

// New creates an empty environment. An empty name falls back to
// DefaultName. Properties are seeded with the standard physical defaults.
func New(name string) *Environment {
	if name == "" {
		name = DefaultName
	}
	return &Environment{
		Name:      name,
		Walls:     map[string]Wall{},
		Obstacles: map[string]Obstacle{},
		Zones:     map[string]Zone{},
		Landmarks: map[string]Landmark{},
		Properties: map[string]any{
			"gravity":              9.81,
			"air_density":          1.225,
			"friction_coefficient": 0.1,
		},
	}
}

// CreateOccupancyGrid replaces any existing grid with a fresh one.
// Previously rasterized cells are discarded with the old grid; the vector
// collections are untouched and are not re-rasterized into the new grid.
func (e *Environment) CreateOccupancyGrid(width, height int, resolution float64, origin geo.Point2D) error {
	g, err := grid.New(width, height, resolution, origin)
	if err != nil {
		return err
	}
	e.Grid = g
	return nil
}

// AddWall stores a wall and, when a grid exists, rasterizes its centerline
// as occupied. An existing id is overwritten.
func (e *Environment) AddWall(id string, start, end geo.Point2D, thickness float64) {
	e.Walls[id] = Wall{Start: start, End: end, Thickness: thickness}
	if e.Grid != nil {
		x0, y0 := e.Grid.WorldToGrid(start.X, start.Y)
		x1, y1 := e.Grid.WorldToGrid(end.X, end.Y)
		e.Grid.SetLine(x0, y0, x1, y1, grid.Occupied)
	}
}

// AddObstacle stores an obstacle and, when a grid exists and the obstacle
// is static, rasterizes its footprint as occupied. Circles use
// radius/resolution truncated to whole cells; every other shape uses a
// rectangle of width/resolution x height/resolution cells centered on the
// position, also truncated, so a footprint smaller than one cell collapses
// rather than being padded to a minimum size.
func (e *Environment) AddObstacle(id string, position geo.Point2D, shape Shape, size Extent, static bool) error {
	if _, err := ParseShape(string(shape)); err != nil {
		return err
	}
	e.Obstacles[id] = Obstacle{Position: position, Shape: shape, Size: size, Static: static}

	if e.Grid == nil || !static {
		return nil
	}
	gx, gy := e.Grid.WorldToGrid(position.X, position.Y)
	res := e.Grid.Info.Resolution
	if shape == ShapeCircle {
		e.Grid.SetCircle(gx, gy, int(size.Radius/res), grid.Occupied, true)
		return nil
	}
	halfW := int(size.Width/res) / 2
	halfH := int(size.Height/res) / 2
	e.Grid.SetRectangle(gx-halfW, gy-halfH, gx+halfW, gy+halfH, grid.Occupied, true)
	return nil
}

// AddZone stores a zone. Pure vector data; the grid is never touched.
func (e *Environment) AddZone(id, zoneType string, bounds Bounds, properties map[string]any) {
	if properties == nil {
		properties = map[string]any{}
	}
	e.Zones[id] = Zone{Type: zoneType, Bounds: bounds, Properties: properties}
}

// AddLandmark stores a landmark. Pure vector data.
func (e *Environment) AddLandmark(id string, position geo.Point2D, kind string, properties map[string]any) {
	if properties == nil {
		properties = map[string]any{}
	}
	e.Landmarks[id] = Landmark{Position: position, Kind: kind, Properties: properties}
}

// RemoveWall deletes a wall record and reports whether it existed. Cells
// the wall rasterized stay occupied.
func (e *Environment) RemoveWall(id string) bool {
	_, ok := e.Walls[id]
	delete(e.Walls, id)
	return ok
}

// RemoveObstacle deletes an obstacle record and reports whether it existed.
// Cells the obstacle rasterized stay occupied.
func (e *Environment) RemoveObstacle(id string) bool {
	_, ok := e.Obstacles[id]
	delete(e.Obstacles, id)
	return ok
}

// RemoveZone deletes a zone record and reports whether it existed.
func (e *Environment) RemoveZone(id string) bool {
	_, ok := e.Zones[id]
	delete(e.Zones, id)
	return ok
}

// RemoveLandmark deletes a landmark record and reports whether it existed.
func (e *Environment) RemoveLandmark(id string) bool {
	_, ok := e.Landmarks[id]
	delete(e.Landmarks, id)
	return ok
}

// IsPositionFree reports whether the square neighborhood of the position,
// grown by the buffer distance, contains no occupied cell. Without a grid
// every position is free. Scanned cells outside the grid are ignored, not
// treated as blocking.
func (e *Environment) IsPositionFree(position geo.Point2D, buffer float64) bool {
	if e.Grid == nil {
		return true
	}
	gx, gy := e.Grid.WorldToGrid(position.X, position.Y)
	cells := int(buffer / e.Grid.Info.Resolution)
	for dy := -cells; dy <= cells; dy++ {
		for dx := -cells; dx <= cells; dx++ {
			if s, ok := e.Grid.CellAt(gx+dx, gy+dy); ok && s == grid.Occupied {
				return false
			}
		}
	}
	return true
}

// FreeSpace returns the world coordinates of every cell that is exactly
// Free; Unknown cells are excluded. Empty without a grid. This scans the
// whole grid.
func (e *Environment) FreeSpace() []geo.Point2D {
	if e.Grid == nil {
		return nil
	}
	var out []geo.Point2D
	for y := 0; y < e.Grid.Info.Height; y++ {
		for x := 0; x < e.Grid.Info.Width; x++ {
			if s, _ := e.Grid.CellAt(x, y); s == grid.Free {
				wx, wy := e.Grid.GridToWorld(x, y)
				out = append(out, geo.Pt(wx, wy))
			}
		}
	}
	return out
}

// Bounds returns the environment's world rectangle: the grid's rectangle
// when a grid exists, otherwise the bounding box over wall endpoints and
// obstacle footprints, otherwise a fixed 10x10 meter square around the
// origin.
func (e *Environment) Bounds() geo.Rect {
	if e.Grid != nil {
		info := e.Grid.Info
		return geo.Rect{
			MinX: info.OriginX,
			MinY: info.OriginY,
			MaxX: info.OriginX + float64(info.Width)*info.Resolution,
			MaxY: info.OriginY + float64(info.Height)*info.Resolution,
		}
	}

	var r geo.Rect
	first := true
	expand := func(p geo.Point2D) {
		if first {
			r = geo.Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			first = false
			return
		}
		r = r.ExpandTo(p)
	}
	for _, w := range e.Walls {
		expand(w.Start)
		expand(w.End)
	}
	for _, o := range e.Obstacles {
		half := geo.Pt(o.Size.Width/2, o.Size.Height/2)
		expand(o.Position.Sub(half))
		expand(o.Position.Add(half))
	}
	if first {
		return geo.Rect{MinX: -5, MinY: -5, MaxX: 5, MaxY: 5}
	}
	return r
}
