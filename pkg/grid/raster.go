package grid

import "math"

// SetLine rasterizes the 8-connected line from (x0,y0) to (x1,y1) inclusive
// using Bresenham's integer algorithm. On diagonal ties x steps before y.
// Cells falling outside the grid are skipped without aborting the walk.
func (g *Grid) SetLine(x0, y0, x1, y1 int, s CellState) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		g.SetCell(x, y, s)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// SetRectangle rasterizes the axis-aligned rectangle spanned by the two
// corners, inclusive. Corners may be given in any order. Filled writes the
// whole block; unfilled writes only the four edge lines.
func (g *Grid) SetRectangle(x0, y0, x1, y1 int, s CellState, filled bool) {
	minX, maxX := minmax(x0, x1)
	minY, maxY := minmax(y0, y1)

	if filled {
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				g.SetCell(x, y, s)
			}
		}
		return
	}
	for x := minX; x <= maxX; x++ {
		g.SetCell(x, minY, s)
		g.SetCell(x, maxY, s)
	}
	for y := minY; y <= maxY; y++ {
		g.SetCell(minX, y, s)
		g.SetCell(maxX, y, s)
	}
}

// SetCircle rasterizes a circle of the given cell radius centered on
// (cx,cy), scanning the circle's inclusive bounding box. Filled writes
// every cell within Euclidean distance radius; unfilled writes the ring of
// cells within half a cell of the radius. A negative radius writes nothing.
func (g *Grid) SetCircle(cx, cy, radius int, s CellState, filled bool) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if filled && d <= float64(radius) {
				g.SetCell(x, y, s)
			} else if !filled && math.Abs(d-float64(radius)) < 0.5 {
				g.SetCell(x, y, s)
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func minmax(a, b int) (int, int) {
	if a <= b {
		return a, b
	}
	return b, a
}
