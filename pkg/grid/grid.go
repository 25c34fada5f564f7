// Package grid implements the 2D occupancy grid underlying CrossSim
// environments: bounds-checked cell access, world/grid coordinate
// transforms, shape rasterization, and the grid's file formats.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/Benkess/CrossSim/pkg/dict"
	"github.com/Benkess/CrossSim/pkg/geo"
)

// CellState is the occupancy classification of a single grid cell. The
// numeric values are the persisted wire encoding and must not be reordered.
type CellState int8

const (
	Free     CellState = 0
	Occupied CellState = 1
	Unknown  CellState = 2
)

// ErrInvalidCellValue reports a persisted cell value outside the closed set.
var ErrInvalidCellValue = errors.New("invalid cell value")

// ParseCellState validates a persisted cell value.
func ParseCellState(v int) (CellState, error) {
	switch CellState(v) {
	case Free, Occupied, Unknown:
		return CellState(v), nil
	}
	return Unknown, fmt.Errorf("%w: %d", ErrInvalidCellValue, v)
}

func (s CellState) String() string {
	switch s {
	case Free:
		return "free"
	case Occupied:
		return "occupied"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("CellState(%d)", int8(s))
}

// MapInfo describes grid geometry: cell size in meters and the world
// position of the grid's (0,0) cell corner.
type MapInfo struct {
	Resolution float64 `yaml:"resolution" json:"resolution"`
	Width      int     `yaml:"width" json:"width"`
	Height     int     `yaml:"height" json:"height"`
	OriginX    float64 `yaml:"origin_x" json:"origin_x"`
	OriginY    float64 `yaml:"origin_y" json:"origin_y"`
}

// Grid is a dense 2D occupancy grid. Cells are stored row-major; the cell at
// grid coordinates (x, y) lives at index y*Width+x. A fresh grid is entirely
// Unknown.
//
// Grid is not safe for concurrent mutation; the owning editor layer
// serializes access.
type Grid struct {
	Info  MapInfo
	cells []CellState
}

// New creates a grid of width x height cells, all Unknown. Dimensions and
// resolution must be positive.
func New(width, height int, resolution float64, origin geo.Point2D) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("grid resolution must be positive, got %v", resolution)
	}
	g := &Grid{
		Info: MapInfo{
			Resolution: resolution,
			Width:      width,
			Height:     height,
			OriginX:    origin.X,
			OriginY:    origin.Y,
		},
		cells: make([]CellState, width*height),
	}
	for i := range g.cells {
		g.cells[i] = Unknown
	}
	return g, nil
}

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Info.Width && y >= 0 && y < g.Info.Height
}

// SetCell writes one cell. Out-of-range coordinates are a silent no-op and
// return false.
func (g *Grid) SetCell(x, y int, s CellState) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y*g.Info.Width+x] = s
	return true
}

// CellAt reads one cell. The second result is false when the coordinates are
// out of range.
func (g *Grid) CellAt(x, y int) (CellState, bool) {
	if !g.InBounds(x, y) {
		return Unknown, false
	}
	return g.cells[y*g.Info.Width+x], true
}

// WorldToGrid maps world coordinates in meters to the grid cell containing
// them. The mapping floors, so positions inside a cell all land on the same
// cell and the sub-cell offset is lost.
func (g *Grid) WorldToGrid(wx, wy float64) (int, int) {
	gx := int(math.Floor((wx - g.Info.OriginX) / g.Info.Resolution))
	gy := int(math.Floor((wy - g.Info.OriginY) / g.Info.Resolution))
	return gx, gy
}

// GridToWorld maps grid coordinates to the world position of the cell's
// lower-left corner, not its center.
func (g *Grid) GridToWorld(gx, gy int) (float64, float64) {
	wx := float64(gx)*g.Info.Resolution + g.Info.OriginX
	wy := float64(gy)*g.Info.Resolution + g.Info.OriginY
	return wx, wy
}

// ToMap converts the grid to its document form: an info mapping plus the
// cell data as rows of integers.
func (g *Grid) ToMap() map[string]any {
	rows := make([]any, g.Info.Height)
	for y := 0; y < g.Info.Height; y++ {
		row := make([]any, g.Info.Width)
		for x := 0; x < g.Info.Width; x++ {
			row[x] = int(g.cells[y*g.Info.Width+x])
		}
		rows[y] = row
	}
	return map[string]any{
		"info": map[string]any{
			"resolution": g.Info.Resolution,
			"width":      g.Info.Width,
			"height":     g.Info.Height,
			"origin_x":   g.Info.OriginX,
			"origin_y":   g.Info.OriginY,
		},
		"data": rows,
	}
}

// FromMap rebuilds a grid from its document form. Cell values outside the
// closed set are rejected; rows shorter than the grid width leave the
// remaining cells Unknown.
func FromMap(m map[string]any) (*Grid, error) {
	info := dict.Map(m, "info")
	if info == nil {
		return nil, errors.New("occupancy grid document missing info")
	}
	g, err := New(
		dict.Int(info, "width", 0),
		dict.Int(info, "height", 0),
		dict.Float(info, "resolution", 0),
		geo.Pt(dict.Float(info, "origin_x", 0), dict.Float(info, "origin_y", 0)),
	)
	if err != nil {
		return nil, err
	}
	for y, rowVal := range dict.Slice(m, "data") {
		if y >= g.Info.Height {
			break
		}
		row, _ := rowVal.([]any)
		for x, cellVal := range row {
			if x >= g.Info.Width {
				break
			}
			n, ok := dict.AsInt(cellVal)
			if !ok {
				return nil, fmt.Errorf("cell (%d,%d): %w: %v", x, y, ErrInvalidCellValue, cellVal)
			}
			s, err := ParseCellState(n)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}
			g.cells[y*g.Info.Width+x] = s
		}
	}
	return g, nil
}
