package wvgpath

import (
	"fmt"
	"math"
	"testing"
)

func TestCurveArc(t *testing.T) {
	for _, test := range []struct {
		x1, y1, x2, y2 float64
		offset         int32
		bits           int
		radius         string
		large, sweep   bool
	}{
		{16, 15, 3, 15, -6, 4, "6.58", false, false},
		{3, 15, 16, 22, -4, 4, "8.57", false, false},
		{41, 10, 49, 10, 5, 4, "4.23", false, true},
		{0, 0, 10, 0, 16, 5, "5.01", true, true},
	} {
		arc, ok := CurveArc(test.x1, test.y1, test.x2, test.y2, test.offset, test.bits)
		if !ok {
			t.Fatalf("unexpected degenerate arc for %v", test)
		}
		if r := fmt.Sprintf("%.2f", arc.Radius); r != test.radius {
			t.Fatalf("expected radius %s, got %s", test.radius, r)
		}
		if arc.Large != test.large || arc.Sweep != test.sweep {
			t.Fatalf("unexpected flags %v", arc)
		}
	}
}

func TestCurveArcDegenerate(t *testing.T) {
	if _, ok := CurveArc(5, 5, 5, 5, 3, 4); ok {
		t.Fatal("expected degenerate arc for a null chord")
	}
	if _, ok := CurveArc(0, 0, 10, 0, 0, 4); ok {
		t.Fatal("expected degenerate arc for a null offset")
	}
}

func onCircle(t *testing.T, p Path, cx, cy, r float64) {
	t.Helper()
	const tolerance = 2.0 / 64 // fixed point rounding
	for _, op := range p {
		curve, ok := op.(CubicTo)
		if !ok {
			continue
		}
		x, y := FromFixedP(curve[2])
		if d := math.Hypot(x-cx, y-cy); math.Abs(d-r) > tolerance {
			t.Fatalf("point (%v, %v) is at distance %v from center, expected %v", x, y, d, r)
		}
	}
}

func TestArcTo(t *testing.T) {
	arc, _ := CurveArc(16, 15, 3, 15, -6, 4)
	var p Path
	p.Start(ToFixedP(16, 15))
	p.ArcTo(16, 15, 3, 15, arc)
	if len(p) < 2 {
		t.Fatalf("expected curves, got %s", p)
	}
	last := p[len(p)-1].(CubicTo)
	if last[2] != ToFixedP(3, 15) {
		t.Fatalf("unexpected end point %v", last[2])
	}
	// small arc bulging upward: the center is below the chord
	cx := 9.5
	cy := 15 + math.Sqrt(arc.Radius*arc.Radius-6.5*6.5)
	onCircle(t, p, cx, cy, arc.Radius)
}

// The distance between the chord and the farthest point
// of the arc is offset / (2^bits - 2) times the chord length,
// for small and large arcs alike.
func TestArcToBulge(t *testing.T) {
	const tolerance = 2.0 / 64
	for _, test := range []struct {
		x1, y1, x2, y2 float64
		offset         int32
		bits           int
		minY, maxY     float64
	}{
		{0, 0, 10, 0, 3, 4, -30. / 14, 0},
		{0, 0, 10, 0, -3, 4, 0, 30. / 14},
		{0, 0, 10, 0, 10, 4, -100. / 14, 0},
		{0, 0, 10, 0, -10, 4, 0, 100. / 14},
		{0, 0, 10, 0, 16, 5, -160. / 30, 0},
		{16, 15, 3, 15, -6, 4, 15 - 78./14, 15},
		{41, 10, 49, 10, 4, 4, 10 - 32./14, 10},
	} {
		arc, ok := CurveArc(test.x1, test.y1, test.x2, test.y2, test.offset, test.bits)
		if !ok {
			t.Fatalf("unexpected degenerate arc for %v", test)
		}
		var p Path
		p.Start(ToFixedP(test.x1, test.y1))
		p.ArcTo(test.x1, test.y1, test.x2, test.y2, arc)
		r, _ := p.Bounds(Identity)
		if math.Abs(r.MinY-test.minY) > tolerance || math.Abs(r.MaxY-test.maxY) > tolerance {
			t.Fatalf("%v (%v): expected y in [%v, %v], got [%v, %v]",
				test, arc, test.minY, test.maxY, r.MinY, r.MaxY)
		}
	}
}

func TestAddCircle(t *testing.T) {
	var p Path
	p.AddCircle(20, 10, 5)
	if _, ok := p[len(p)-1].(Close); !ok {
		t.Fatalf("expected a closed path, got %s", p)
	}
	onCircle(t, p, 20, 10, 5)
	// two half circles of 9 splices each
	if len(p) != 1+2*9+1 {
		t.Fatalf("unexpected number of operations: %d", len(p))
	}
}

func TestAddRect(t *testing.T) {
	var p Path
	p.AddRect(1, 2, 3, 4)
	exp := "M1.000,2.000 L3.000,2.000 L3.000,4.000 L1.000,4.000 Z"
	if p.String() != exp {
		t.Fatalf("expected %s, got %s", exp, p)
	}
	p.Clear()
	if len(p) != 0 {
		t.Fatal("expected empty path")
	}
}

func TestScaling(t *testing.T) {
	m := Identity.Scale(2, 8).Rotate(0.3)
	if s := Scaling(m); math.Abs(s-4) > 1e-9 {
		t.Fatalf("expected 4, got %v", s)
	}
}
