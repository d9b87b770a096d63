package wvgpath

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Rect is an axis aligned rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Union returns the smallest rectangle containing `r` and `o`.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX), MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX), MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Expand returns `r` grown by `d` on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{r.MinX - d, r.MinY - d, r.MaxX + d, r.MaxY + d}
}

type boundsBuilder struct {
	r   Rect
	set bool
}

func (b *boundsBuilder) add(x, y float64) {
	if !b.set {
		b.r, b.set = Rect{x, y, x, y}, true
		return
	}
	b.r = b.r.Union(Rect{x, y, x, y})
}

// Bounds returns the bounding box of the path after applying `m`,
// or false for an empty path.
// Curves are bounded exactly, not by their control points.
func (p Path) Bounds(m Matrix2D) (Rect, bool) {
	var (
		b       boundsBuilder
		current [2]float64
	)
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current[0], current[1] = FromFixedP(m.TFixed(fixed.Point26_6(op)))
			b.add(current[0], current[1])
		case LineTo:
			current[0], current[1] = FromFixedP(m.TFixed(fixed.Point26_6(op)))
			b.add(current[0], current[1])
		case CubicTo:
			var pts [4][2]float64
			pts[0] = current
			for i, c := range op {
				pts[i+1][0], pts[i+1][1] = FromFixedP(m.TFixed(c))
			}
			for _, t := range cubicCriticalPoints(pts) {
				b.add(cubicAt(pts, t))
			}
			current = pts[3]
			b.add(current[0], current[1])
		}
	}
	return b.r, b.set
}

// cubicCriticalPoints returns the parameters in ]0, 1[ zeroing
// the derivative of the curve, on each axis.
func cubicCriticalPoints(pts [4][2]float64) []float64 {
	var out []float64
	for axis := 0; axis < 2; axis++ {
		a, b, c := cubicDerivative(pts[0][axis], pts[1][axis], pts[2][axis], pts[3][axis])
		for _, t := range quadraticRoots(a, b, c) {
			if 0 < t && t < 1 {
				out = append(out, t)
			}
		}
	}
	return out
}

func cubicAt(pts [4][2]float64, t float64) (x, y float64) {
	return bezierSpline(pts[0][0], pts[1][0], pts[2][0], pts[3][0], t),
		bezierSpline(pts[0][1], pts[1][1], pts[2][1], pts[3][1], t)
}

// cubic polynomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		p0
}

// derivative of bezierSpline, as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

// quadraticRoots solves at^2 + bt + c = 0
func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	switch {
	case d < 0:
		return nil
	case d == 0:
		return []float64{-b / (2 * a)}
	default:
		sq := math.Sqrt(d)
		return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
	}
}
