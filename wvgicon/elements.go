package wvgicon

import (
	"fmt"
	"math/bits"
)

// ElementKind identifies one of the 13 element types
// which may be enabled by the element mask.
type ElementKind uint8

const (
	KindLocalEnvelope ElementKind = iota
	KindPolyline
	KindCircularPolyline
	KindBezierPolyline
	KindSimpleShape
	KindReuse
	KindGroup
	KindAnimation
	KindPolygon
	KindSpecialShape
	KindFrame
	KindText
	KindExtended

	numElementKinds
)

var kindNames = [...]string{
	KindLocalEnvelope:    "LocalEnvelope",
	KindPolyline:         "Polyline",
	KindCircularPolyline: "CircularPolyline",
	KindBezierPolyline:   "BezierPolyline",
	KindSimpleShape:      "SimpleShape",
	KindReuse:            "Reuse",
	KindGroup:            "Group",
	KindAnimation:        "Animation",
	KindPolygon:          "Polygon",
	KindSpecialShape:     "SpecialShape",
	KindFrame:            "Frame",
	KindText:             "Text",
	KindExtended:         "Extended",
}

func (k ElementKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("<unknown ElementKind %d>", uint8(k))
}

// ElementMask is the set of element kinds used by a document,
// stored as a bitset indexed by ElementKind.
type ElementMask uint16

// Has returns true if `kind` is enabled.
func (m ElementMask) Has(kind ElementKind) bool { return m&(1<<kind) != 0 }

// With returns the mask with `kind` enabled.
func (m ElementMask) With(kind ElementKind) ElementMask { return m | 1<<kind }

// Count returns the number of enabled kinds.
func (m ElementMask) Count() int { return bits.OnesCount16(uint16(m & (1<<numElementKinds - 1))) }

// Nth returns the `index`-th enabled kind, in mask order.
func (m ElementMask) Nth(index int) (ElementKind, bool) {
	for k := ElementKind(0); k < numElementKinds; k++ {
		if !m.Has(k) {
			continue
		}
		if index == 0 {
			return k, true
		}
		index--
	}
	return 0, false
}

// TypeIndexBits returns the width of the element type index,
// which is the number of bits needed to address every enabled kind.
func (m ElementMask) TypeIndexBits() int {
	return typeIndexBits(m.Count())
}

func typeIndexBits(active int) int {
	if active <= 1 {
		return 0
	}
	return bits.Len(uint(active - 1))
}

// Element is one drawing primitive of a document.
type Element struct {
	ID   int // position in the document, used by Reuse
	Data ElementData
}

// Name returns the identifier used in markup outputs.
func (e Element) Name() string { return ElementName(e.ID) }

// ElementName returns the markup identifier of the element at `index`.
func ElementName(index int) string { return fmt.Sprintf("el_%d", index) }

// ElementData is one of Polyline, CircularPolyline, SimpleShape,
// Reuse, GroupStart or GroupEnd.
type ElementData interface {
	Kind() ElementKind
}

// Point is a position in drawing units.
type Point struct{ X, Y int32 }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Polyline is a list of absolute points.
type Polyline struct {
	Attributes Attributes
	Points     []Point
}

// CircularPoint is one vertex of a circular polyline.
// The curve offset describes the bulge of the segment ending at Point.
type CircularPoint struct {
	CurveOffset int32
	Point       Point
	Absolute    bool // if false, Point is relative to the previous one
}

// CircularPolyline is a sequence of arcs and lines.
// The first two points are absolute.
type CircularPolyline struct {
	Attributes Attributes
	Points     []CircularPoint
}

type ShapeKind uint8

const (
	Rectangle ShapeKind = iota
	Ellipse
)

func (s ShapeKind) String() string {
	if s == Ellipse {
		return "Ellipse"
	}
	return "Rectangle"
}

// SimpleShape only stores the shape kind: its geometry is
// not decoded.
type SimpleShape struct {
	Shape      ShapeKind
	Attributes Attributes
}

// ArrayParams replicates a reused element on a grid.
type ArrayParams struct {
	Columns, Rows uint8
	Width         Optional[int32]
	Height        Optional[int32]
}

// Reuse draws again a previous element, identified by its index.
type Reuse struct {
	Index     int
	Transform Transform
	Array     Optional[ArrayParams]
	Override  Optional[Attributes]
}

// GroupStart opens a group, closed by the next unmatched GroupEnd.
type GroupStart struct {
	Transform Optional[Transform]
	Visible   bool
}

type GroupEnd struct{}

func (Polyline) Kind() ElementKind         { return KindPolyline }
func (CircularPolyline) Kind() ElementKind { return KindCircularPolyline }
func (SimpleShape) Kind() ElementKind      { return KindSimpleShape }
func (Reuse) Kind() ElementKind            { return KindReuse }
func (GroupStart) Kind() ElementKind       { return KindGroup }
func (GroupEnd) Kind() ElementKind         { return KindGroup }

// LineType is the dash style of the stroke.
type LineType uint8

const (
	Solid LineType = iota
	Dashed
	Dotted
	DashDot
)

func (l LineType) String() string {
	switch l {
	case Dashed:
		return "Dashed"
	case Dotted:
		return "Dotted"
	case DashDot:
		return "DashDot"
	default:
		return "Solid"
	}
}

// Dash returns the dash pattern, in drawing units, or nil for solid lines.
func (l LineType) Dash() []float64 {
	switch l {
	case Dotted:
		return []float64{1, 3}
	case Dashed:
		return []float64{5, 3}
	case DashDot:
		return []float64{5, 2, 1, 2}
	default:
		return nil
	}
}

// LineWidth is one of the four predefined stroke widths.
type LineWidth uint8

const (
	NoLine LineWidth = iota
	Fine
	Normal
	Thick
)

func (l LineWidth) String() string {
	switch l {
	case NoLine:
		return "None"
	case Normal:
		return "Normal"
	case Thick:
		return "Thick"
	default:
		return "Fine"
	}
}

// Width returns the stroke width multiplier.
func (l LineWidth) Width() float64 { return float64(l) }

// Attributes holds the optional styling of an element.
type Attributes struct {
	LineType  Optional[LineType]
	LineWidth Optional[LineWidth]
	LineColor Optional[Color]
	Fill      Optional[bool]
	FillColor Optional[Color]
}

// IsEmpty returns true if no attribute is set.
func (a Attributes) IsEmpty() bool {
	return !(a.LineType.Set || a.LineWidth.Set || a.LineColor.Set || a.Fill.Set || a.FillColor.Set)
}

// Merge returns `a`, completed by the fields of `fallback`
// missing in `a`.
func (a Attributes) Merge(fallback Attributes) Attributes {
	if !a.LineType.Set {
		a.LineType = fallback.LineType
	}
	if !a.LineWidth.Set {
		a.LineWidth = fallback.LineWidth
	}
	if !a.LineColor.Set {
		a.LineColor = fallback.LineColor
	}
	if !a.Fill.Set {
		a.Fill = fallback.Fill
		if !a.FillColor.Set {
			a.FillColor = fallback.FillColor
		}
	}
	return a
}

// Transform is an affine transformation, made of optional
// translation, rotation around a center, and scaling.
// Absent fields are identity for their component.
// Values are in stream units: see GenericParams.AngleUnit and ScaleUnit.
type Transform struct {
	TranslateX, TranslateY Optional[int32]
	Angle                  Optional[int32]
	ScaleX, ScaleY         Optional[int32]
	CenterX, CenterY       Optional[int32]
}
