package world

import (
	"errors"
	"testing"

	"github.com/Benkess/CrossSim/pkg/geo"
	"github.com/Benkess/CrossSim/pkg/grid"
)

// testEnv returns an environment with a 20x20 cell grid at 0.5 m resolution
// anchored at the world origin (a 10x10 m map).
func testEnv(t *testing.T) *Environment {
	t.Helper()
	e := New("test")
	if err := e.CreateOccupancyGrid(20, 20, 0.5, geo.Origin); err != nil {
		t.Fatalf("CreateOccupancyGrid failed: %v", err)
	}
	return e
}

func cellState(t *testing.T, e *Environment, x, y int) grid.CellState {
	t.Helper()
	s, ok := e.Grid.CellAt(x, y)
	if !ok {
		t.Fatalf("cell (%d,%d) out of range", x, y)
	}
	return s
}

func TestNewDefaults(t *testing.T) {
	e := New("")
	if e.Name != "Environment" {
		t.Errorf("name = %q, want Environment", e.Name)
	}
	if e.Grid != nil {
		t.Error("fresh environment should have no grid")
	}
	if g, ok := e.Properties["gravity"].(float64); !ok || g != 9.81 {
		t.Errorf("gravity = %v, want 9.81", e.Properties["gravity"])
	}
	if f, ok := e.Properties["friction_coefficient"].(float64); !ok || f != 0.1 {
		t.Errorf("friction_coefficient = %v, want 0.1", e.Properties["friction_coefficient"])
	}
}

func TestCreateOccupancyGridReplaces(t *testing.T) {
	e := testEnv(t)
	e.AddWall("w1", geo.Pt(1, 1), geo.Pt(4, 1), 0.1)
	if cellState(t, e, 2, 2) != grid.Occupied {
		t.Fatal("wall did not rasterize")
	}

	// A new grid starts clean; the wall stays as vector data but is not
	// re-rasterized.
	if err := e.CreateOccupancyGrid(20, 20, 0.5, geo.Origin); err != nil {
		t.Fatalf("CreateOccupancyGrid failed: %v", err)
	}
	if cellState(t, e, 2, 2) != grid.Unknown {
		t.Error("replacement grid should start unknown")
	}
	if len(e.Walls) != 1 {
		t.Errorf("walls = %d, want 1", len(e.Walls))
	}
}

func TestAddWallRasterizesCenterlineOnly(t *testing.T) {
	e := testEnv(t)
	e.AddWall("w1", geo.Pt(1, 1), geo.Pt(4, 1), 0.8)

	for x := 2; x <= 8; x++ {
		if cellState(t, e, x, 2) != grid.Occupied {
			t.Errorf("centerline cell (%d,2) not occupied", x)
		}
	}
	// Thickness is stored, never rasterized: rows beside the centerline
	// stay unknown even with a wall 0.8 m thick.
	for x := 2; x <= 8; x++ {
		if cellState(t, e, x, 1) != grid.Unknown || cellState(t, e, x, 3) != grid.Unknown {
			t.Errorf("cells around centerline at x=%d were rasterized", x)
		}
	}
	if w := e.Walls["w1"]; w.Thickness != 0.8 {
		t.Errorf("thickness = %v, want 0.8", w.Thickness)
	}
}

func TestAddObstacleRectangleFootprint(t *testing.T) {
	e := testEnv(t)
	if err := e.AddObstacle("box", geo.Pt(5, 5), ShapeRectangle, Extent{Width: 2, Height: 1}, true); err != nil {
		t.Fatalf("AddObstacle failed: %v", err)
	}

	// 2 m / 0.5 m = 4 cells wide (half 2), 1 m / 0.5 m = 2 cells high
	// (half 1), centered on cell (10,10).
	for y := 9; y <= 11; y++ {
		for x := 8; x <= 12; x++ {
			if cellState(t, e, x, y) != grid.Occupied {
				t.Errorf("footprint cell (%d,%d) not occupied", x, y)
			}
		}
	}
	if cellState(t, e, 7, 10) != grid.Unknown || cellState(t, e, 10, 12) != grid.Unknown {
		t.Error("cells outside the footprint were rasterized")
	}
}

func TestAddObstacleCircleFootprint(t *testing.T) {
	e := testEnv(t)
	if err := e.AddObstacle("pillar", geo.Pt(5, 5), ShapeCircle, Extent{Radius: 1}, true); err != nil {
		t.Fatalf("AddObstacle failed: %v", err)
	}

	// 1 m / 0.5 m = 2 cell radius around (10,10).
	if cellState(t, e, 10, 10) != grid.Occupied {
		t.Error("circle center not occupied")
	}
	if cellState(t, e, 12, 10) != grid.Occupied || cellState(t, e, 10, 8) != grid.Occupied {
		t.Error("circle rim not occupied")
	}
	if cellState(t, e, 12, 12) != grid.Unknown {
		t.Error("cell outside circle was rasterized")
	}
}

func TestAddObstacleSubCellFootprintTruncates(t *testing.T) {
	e := testEnv(t)
	// 0.4 m at 0.5 m resolution truncates to zero cells: the footprint
	// collapses to the single center cell, no minimum padding.
	if err := e.AddObstacle("pebble", geo.Pt(5, 5), ShapeRectangle, Extent{Width: 0.4, Height: 0.4}, true); err != nil {
		t.Fatalf("AddObstacle failed: %v", err)
	}

	occupied := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if cellState(t, e, x, y) == grid.Occupied {
				occupied++
			}
		}
	}
	if occupied != 1 {
		t.Errorf("occupied cells = %d, want 1", occupied)
	}
	if cellState(t, e, 10, 10) != grid.Occupied {
		t.Error("center cell not occupied")
	}
}

func TestAddObstacleDynamicSkipsGrid(t *testing.T) {
	e := testEnv(t)
	if err := e.AddObstacle("cart", geo.Pt(5, 5), ShapeRectangle, Extent{Width: 2, Height: 2}, false); err != nil {
		t.Fatalf("AddObstacle failed: %v", err)
	}
	if cellState(t, e, 10, 10) != grid.Unknown {
		t.Error("dynamic obstacle must not rasterize")
	}
	if o := e.Obstacles["cart"]; o.Static {
		t.Error("obstacle stored as static")
	}
}

func TestAddObstacleRejectsUnknownShape(t *testing.T) {
	e := testEnv(t)
	err := e.AddObstacle("blob", geo.Pt(1, 1), Shape("hexagon"), Extent{}, true)
	if !errors.Is(err, ErrUnknownShape) {
		t.Errorf("error = %v, want ErrUnknownShape", err)
	}
	if _, ok := e.Obstacles["blob"]; ok {
		t.Error("rejected obstacle was stored")
	}
}

func TestRemoveKeepsRasterizedCells(t *testing.T) {
	e := testEnv(t)
	e.AddWall("w1", geo.Pt(1, 1), geo.Pt(4, 1), 0.1)
	if err := e.AddObstacle("box", geo.Pt(8, 8), ShapeRectangle, Extent{Width: 1, Height: 1}, true); err != nil {
		t.Fatalf("AddObstacle failed: %v", err)
	}

	if !e.RemoveWall("w1") {
		t.Error("RemoveWall = false, want true")
	}
	if e.RemoveWall("w1") {
		t.Error("second RemoveWall = true, want false")
	}
	if !e.RemoveObstacle("box") {
		t.Error("RemoveObstacle = false, want true")
	}

	// The grid only accumulates: removal never erases cells.
	if cellState(t, e, 2, 2) != grid.Occupied {
		t.Error("wall cells were erased on removal")
	}
	if cellState(t, e, 16, 16) != grid.Occupied {
		t.Error("obstacle cells were erased on removal")
	}
}

func TestZonesAndLandmarksAreVectorOnly(t *testing.T) {
	e := testEnv(t)
	e.AddZone("start", "start", Bounds{X: 1, Y: 1, Width: 2, Height: 2}, nil)
	e.AddLandmark("door", geo.Pt(3, 3), "doorway", nil)

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if cellState(t, e, x, y) != grid.Unknown {
				t.Fatalf("cell (%d,%d) touched by zone/landmark", x, y)
			}
		}
	}
	if z := e.Zones["start"]; z.Type != "start" || z.Properties == nil {
		t.Errorf("zone = %+v, want type start with non-nil properties", z)
	}
	if !e.RemoveZone("start") || !e.RemoveLandmark("door") {
		t.Error("removals should report existing entries")
	}
}

func TestIsPositionFree(t *testing.T) {
	e := testEnv(t)
	if err := e.AddObstacle("box", geo.Pt(5, 5), ShapeRectangle, Extent{Width: 2, Height: 2}, true); err != nil {
		t.Fatalf("AddObstacle failed: %v", err)
	}

	if e.IsPositionFree(geo.Pt(5, 5), 0) {
		t.Error("center of obstacle reported free")
	}
	if e.IsPositionFree(geo.Pt(4.1, 5), 0) {
		t.Error("inside footprint edge reported free")
	}
	if !e.IsPositionFree(geo.Pt(6.75, 5), 0) {
		t.Error("point one cell outside footprint reported blocked")
	}
	// Growing the buffer pulls the occupied footprint into the scan.
	if e.IsPositionFree(geo.Pt(6.75, 5), 0.5) {
		t.Error("buffered scan missed adjacent occupied cell")
	}
}

func TestIsPositionFreeWithoutGrid(t *testing.T) {
	e := New("empty")
	if !e.IsPositionFree(geo.Pt(100, 100), 5) {
		t.Error("environment without grid must report free")
	}
}

func TestFreeSpaceExcludesUnknown(t *testing.T) {
	e := testEnv(t)
	e.Grid.SetCell(3, 4, grid.Free)
	e.Grid.SetCell(5, 6, grid.Free)
	e.Grid.SetCell(1, 1, grid.Occupied)

	pts := e.FreeSpace()
	if len(pts) != 2 {
		t.Fatalf("free points = %d, want 2", len(pts))
	}
	// Scan order is row-major from the bottom row.
	if pts[0] != geo.Pt(1.5, 2) {
		t.Errorf("pts[0] = %v, want (1.5,2)", pts[0])
	}
	if pts[1] != geo.Pt(2.5, 3) {
		t.Errorf("pts[1] = %v, want (2.5,3)", pts[1])
	}

	if got := New("bare").FreeSpace(); len(got) != 0 {
		t.Errorf("FreeSpace without grid = %v, want empty", got)
	}
}

func TestBounds(t *testing.T) {
	e := testEnv(t)
	want := geo.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	if got := e.Bounds(); got != want {
		t.Errorf("grid bounds = %v, want %v", got, want)
	}
}

func TestBoundsFromVectors(t *testing.T) {
	e := New("no-grid")
	e.AddWall("w1", geo.Pt(-3, -1), geo.Pt(2, 1), 0.1)
	if err := e.AddObstacle("box", geo.Pt(4, 4), ShapeRectangle, Extent{Width: 2, Height: 2}, true); err != nil {
		t.Fatalf("AddObstacle failed: %v", err)
	}

	want := geo.Rect{MinX: -3, MinY: -1, MaxX: 5, MaxY: 5}
	if got := e.Bounds(); got != want {
		t.Errorf("vector bounds = %v, want %v", got, want)
	}
}

func TestBoundsDefault(t *testing.T) {
	want := geo.Rect{MinX: -5, MinY: -5, MaxX: 5, MaxY: 5}
	if got := New("empty").Bounds(); got != want {
		t.Errorf("default bounds = %v, want %v", got, want)
	}
}
