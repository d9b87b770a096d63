package wvgpath

import (
	"math"
	"testing"
)

func almostEqual(r, exp Rect, tol float64) bool {
	return math.Abs(r.MinX-exp.MinX) <= tol && math.Abs(r.MinY-exp.MinY) <= tol &&
		math.Abs(r.MaxX-exp.MaxX) <= tol && math.Abs(r.MaxY-exp.MaxY) <= tol
}

func TestBounds(t *testing.T) {
	var p Path
	if _, ok := p.Bounds(Identity); ok {
		t.Fatal("expected no bounds for an empty path")
	}

	p.Start(ToFixedP(2, 3))
	p.Line(ToFixedP(10, 1))
	r, ok := p.Bounds(Identity.Translate(1, 1))
	if !ok || r != (Rect{3, 2, 11, 4}) {
		t.Fatalf("unexpected bounds %v", r)
	}
	if r.Width() != 8 || r.Height() != 2 {
		t.Fatalf("unexpected size %v x %v", r.Width(), r.Height())
	}
}

func TestBoundsCurves(t *testing.T) {
	var p Path
	p.AddCircle(20, 10, 5)
	r, ok := p.Bounds(Identity)
	if !ok {
		t.Fatal("expected bounds")
	}
	// control points lie outside of the circle, but must not be included
	if !almostEqual(r, Rect{15, 5, 25, 15}, 2.0/64) {
		t.Fatalf("unexpected bounds %v", r)
	}

	r, _ = p.Bounds(Identity.Scale(2, 1))
	if !almostEqual(r, Rect{30, 5, 50, 15}, 4.0/64) {
		t.Fatalf("unexpected bounds %v", r)
	}
}

func TestQuadraticRoots(t *testing.T) {
	for _, test := range []struct {
		a, b, c float64
		exp     int
	}{
		{1, 0, -1, 2},
		{1, 2, 1, 1},
		{1, 0, 1, 0},
		{0, 2, -1, 1},
		{0, 0, 1, 0},
	} {
		roots := quadraticRoots(test.a, test.b, test.c)
		if len(roots) != test.exp {
			t.Fatalf("%v: expected %d roots, got %v", test, test.exp, roots)
		}
		for _, x := range roots {
			if v := test.a*x*x + test.b*x + test.c; math.Abs(v) > 1e-12 {
				t.Fatalf("%v: %v is not a root", test, x)
			}
		}
	}
}

func TestRectUnion(t *testing.T) {
	r := Rect{0, 0, 1, 1}.Union(Rect{-1, 0.5, 0.5, 3})
	if r != (Rect{-1, 0, 1, 3}) {
		t.Fatalf("unexpected union %v", r)
	}
	if e := r.Expand(1); e != (Rect{-2, -1, 2, 4}) {
		t.Fatalf("unexpected expansion %v", e)
	}
}
