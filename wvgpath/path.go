// Package wvgpath implements the geometry shared by the WVG renderers:
// paths of fixed point operations, affine transforms, and the
// reconstruction of circular arcs from quantized curve offsets.
package wvgpath

import (
	"fmt"
	"math"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Adder accepts path commands, such as a rasterizer or a pdf writer.
type Adder interface {
	Start(a fixed.Point26_6)            // begins a subpath at `a`
	Line(b fixed.Point26_6)             // straight segment to `b`
	CubeBezier(b, c, d fixed.Point26_6) // cubic segment to `d`
	Stop(closeLoop bool)                // ends the subpath, closing it if asked
}

// Matrix2D is an affine transform.
type Matrix2D = rasterx.Matrix2D

// Identity is the identity transform.
var Identity = rasterx.Identity

// Scaling returns an approximation of the factor applied
// by `m` to lengths.
func Scaling(m Matrix2D) float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}

// Operation is one of MoveTo, LineTo, CubicTo or Close.
type Operation interface {
	addTo(q Adder, m Matrix2D)
}

type (
	MoveTo  fixed.Point26_6
	LineTo  fixed.Point26_6
	CubicTo [3]fixed.Point26_6 // two control points and the end point
	Close   struct{}
)

func (op MoveTo) addTo(q Adder, m Matrix2D) {
	q.Stop(false) // ends the previous subpath, if any
	q.Start(m.TFixed(fixed.Point26_6(op)))
}

func (op LineTo) addTo(q Adder, m Matrix2D) {
	q.Line(m.TFixed(fixed.Point26_6(op)))
}

func (op CubicTo) addTo(q Adder, m Matrix2D) {
	q.CubeBezier(m.TFixed(op[0]), m.TFixed(op[1]), m.TFixed(op[2]))
}

func (op Close) addTo(q Adder, _ Matrix2D) {
	q.Stop(true)
}

// Path is a recorded sequence of operations, in drawing units.
// *Path implements Adder.
type Path []Operation

// AddTo sends the path to `q`, transformed by `m`.
func (p Path) AddTo(q Adder, m Matrix2D) {
	for _, op := range p {
		op.addTo(q, m)
	}
}

// String returns the path in SVG path data syntax,
// with absolute commands and three decimals.
func (p Path) String() string {
	var b strings.Builder
	for i, op := range p {
		if i != 0 {
			b.WriteByte(' ')
		}
		switch op := op.(type) {
		case MoveTo:
			writeCommand(&b, 'M', fixed.Point26_6(op))
		case LineTo:
			writeCommand(&b, 'L', fixed.Point26_6(op))
		case CubicTo:
			writeCommand(&b, 'C', op[:]...)
		case Close:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func writeCommand(b *strings.Builder, command byte, points ...fixed.Point26_6) {
	b.WriteByte(command)
	for i, pt := range points {
		if i != 0 {
			b.WriteByte(',')
		}
		x, y := FromFixedP(pt)
		fmt.Fprintf(b, "%.3f,%.3f", x, y)
	}
}

// Clear empties the path, keeping its storage.
func (p *Path) Clear() { *p = (*p)[:0] }

// Start records a MoveTo.
func (p *Path) Start(a fixed.Point26_6) { *p = append(*p, MoveTo(a)) }

// Line records a LineTo.
func (p *Path) Line(b fixed.Point26_6) { *p = append(*p, LineTo(b)) }

// CubeBezier records a CubicTo, ending at `d`.
func (p *Path) CubeBezier(b, c, d fixed.Point26_6) { *p = append(*p, CubicTo{b, c, d}) }

// Stop records a Close when `closeLoop` is true.
// Open subpaths need no marker.
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// ToFixedP converts two floats to a fixed point.
func ToFixedP(x, y float64) (p fixed.Point26_6) {
	p.X = fixed.Int26_6(x * 64)
	p.Y = fixed.Int26_6(y * 64)
	return
}

// FromFixedP converts a fixed point to floats.
func FromFixedP(p fixed.Point26_6) (x, y float64) {
	return float64(p.X) / 64, float64(p.Y) / 64
}

// AddRect adds a closed rectangle.
func (p *Path) AddRect(minX, minY, maxX, maxY float64) {
	p.Start(ToFixedP(minX, minY))
	p.Line(ToFixedP(maxX, minY))
	p.Line(ToFixedP(maxX, maxY))
	p.Line(ToFixedP(minX, maxY))
	p.Stop(true)
}

// AddCircle adds a closed circle, made of two half circles.
func (p *Path) AddCircle(cx, cy, r float64) {
	half := Arc{Radius: r, Sweep: true}
	p.Start(ToFixedP(cx+r, cy))
	p.ArcTo(cx+r, cy, cx-r, cy, half)
	p.ArcTo(cx-r, cy, cx+r, cy, half)
	p.Stop(true)
}
