package geo

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// --- Point2D tests ---

func TestPointDistance(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(3, 4)
	if !approxEqual(a.Distance(b), 5.0, tolerance) {
		t.Errorf("expected distance 5.0, got %f", a.Distance(b))
	}
}

func TestPointAddSubScale(t *testing.T) {
	p := Pt(1, 2).Add(Pt(3, 4))
	if p != Pt(4, 6) {
		t.Errorf("Add = %v, want (4,6)", p)
	}
	p = Pt(5, 5).Sub(Pt(2, 3))
	if p != Pt(3, 2) {
		t.Errorf("Sub = %v, want (3,2)", p)
	}
	p = Pt(1.5, -2).Scale(2)
	if p != Pt(3, -4) {
		t.Errorf("Scale = %v, want (3,-4)", p)
	}
}

func TestPointLength(t *testing.T) {
	if l := Pt(-3, 4).Length(); !approxEqual(l, 5, tolerance) {
		t.Errorf("expected length 5, got %f", l)
	}
	if l := Origin.Length(); l != 0 {
		t.Errorf("expected zero length at origin, got %f", l)
	}
}

// --- Rect tests ---

func TestRectAround(t *testing.T) {
	r := RectAround(Pt(1, 2), 4, 6)
	want := Rect{MinX: -1, MinY: -1, MaxX: 3, MaxY: 5}
	if r != want {
		t.Errorf("RectAround = %v, want %v", r, want)
	}
	if !approxEqual(r.Width(), 4, tolerance) || !approxEqual(r.Height(), 6, tolerance) {
		t.Errorf("extent = %fx%f, want 4x6", r.Width(), r.Height())
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}
	b := Rect{MinX: -1, MinY: 1, MaxX: 1, MaxY: 5}
	u := a.Union(b)
	want := Rect{MinX: -1, MinY: 0, MaxX: 2, MaxY: 5}
	if u != want {
		t.Errorf("Union = %v, want %v", u, want)
	}
}

func TestRectExpandTo(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	r = r.ExpandTo(Pt(-2, 3))
	want := Rect{MinX: -2, MinY: 0, MaxX: 1, MaxY: 3}
	if r != want {
		t.Errorf("ExpandTo = %v, want %v", r, want)
	}
	// A contained point leaves the rectangle unchanged.
	if got := r.ExpandTo(Pt(0, 0)); got != r {
		t.Errorf("ExpandTo(contained) = %v, want %v", got, r)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{MinX: -5, MinY: -5, MaxX: 5, MaxY: 5}
	if !r.Contains(Pt(0, 0)) {
		t.Error("expected (0,0) inside rect")
	}
	if !r.Contains(Pt(5, -5)) {
		t.Error("expected edge point (5,-5) inside rect")
	}
	if r.Contains(Pt(5.001, 0)) {
		t.Error("expected (5.001,0) outside rect")
	}
}
