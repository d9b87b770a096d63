package wvgicon

import (
	"math"

	"github.com/benoitkugler/okwvg/wvgpath"
	"golang.org/x/image/math/fixed"
)

// Given a decoded document, implements how to
// draw it on screen.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images or a pdf writer.

// Drawer knows how to do the actual draw operations
// but doesn't need any WVG knowledge.
// In particular, transformation matrices are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	wvgpath.Adder

	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// SetColor set the color for the current path
	SetColor(color Color)

	// Draw fills or strokes the accumulated path using the current settings
	Draw()
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the begining of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	// When both booleans are true, the exact same draw operations
	// will be performed on the filler first and then on the Stroker.
	// Colors and stroke options are always set before the path.
	SetupDrawers(willFill, willStroke bool) (filler Drawer, stroker Stroker)
}

type StrokeOptions struct {
	LineWidth  fixed.Int26_6 // width of the line
	Dash       []float64     // values for the dash pattern (nil for solid lines)
	DashOffset float64       // starting offset into the dash array
}

// Shape is a path with its resolved style.
type Shape struct {
	ID        int // element drawn
	Path      wvgpath.Path
	Transform wvgpath.Matrix2D
	Fill      Optional[Color]
	Stroke    Optional[Color]
	LineWidth float64
	Dash      []float64
}

// Size returns the dimensions of the drawing area.
// Documents without flat coordinates use a 100x100 area.
func (doc *Document) Size() (width, height float64) {
	if flat, ok := doc.Header.Codec.Coordinates.(FlatCoordinates); ok {
		return float64(flat.Width), float64(flat.Height)
	}
	return 100, 100
}

// Matrix returns the affine transform described by `t`:
// translation, then rotation, then scaling.
func (g GenericParams) Matrix(t Transform) wvgpath.Matrix2D {
	m := wvgpath.Identity
	if tx, ty := t.TranslateX.Or(0), t.TranslateY.Or(0); tx != 0 || ty != 0 {
		m = m.Translate(float64(tx), float64(ty))
	}
	if angle, ok := t.Angle.Get(); ok {
		theta := float64(angle) * g.AngleUnit() * math.Pi / 180
		if t.CenterX.Or(0) != 0 || t.CenterY.Or(0) != 0 {
			cx, cy := float64(t.CenterX.Or(0)), float64(t.CenterY.Or(0))
			m = m.Translate(cx, cy).Rotate(theta).Translate(-cx, -cy)
		} else {
			m = m.Rotate(theta)
		}
	}
	if sx, sy, ok := g.Scales(t); ok {
		m = m.Scale(sx, sy)
	}
	return m
}

// Scale converts a scale value to a factor.
func (g GenericParams) Scale(v int32) float64 { return 1 + float64(v)*g.ScaleUnit() }

// Scales returns the scale factors of `t`, or false if `t` has no scaling.
// A lone X value scales uniformly, a lone Y value leaves X unchanged.
func (g GenericParams) Scales(t Transform) (sx, sy float64, ok bool) {
	switch {
	case t.ScaleX.Set && t.ScaleY.Set:
		return g.Scale(t.ScaleX.Val), g.Scale(t.ScaleY.Val), true
	case t.ScaleX.Set:
		s := g.Scale(t.ScaleX.Val)
		return s, s, true
	case t.ScaleY.Set:
		return 1, g.Scale(t.ScaleY.Val), true
	default:
		return 1, 1, false
	}
}

// Draw paints the document into the driver `d`, after applying `t`,
// which usually maps the drawing area to the output.
func (doc *Document) Draw(d Driver, opts Options, t wvgpath.Matrix2D) {
	if bg, ok := doc.Header.Colors.Background.Get(); ok {
		w, h := doc.Size()
		var path wvgpath.Path
		path.AddRect(0, 0, w, h)
		Shape{ID: -1, Path: path, Transform: wvgpath.Identity, Fill: Some(bg)}.drawTransformed(d, t)
	}
	for _, sh := range doc.Shapes(opts) {
		sh.drawTransformed(d, t)
	}
}

// Bounds returns the extent of the painted shapes, strokes included,
// or false if nothing is painted. The background is ignored.
func (doc *Document) Bounds(opts Options) (wvgpath.Rect, bool) {
	var (
		out wvgpath.Rect
		set bool
	)
	for _, sh := range doc.Shapes(opts) {
		r, ok := sh.Path.Bounds(sh.Transform)
		if !ok {
			continue
		}
		if sh.Stroke.Set {
			r = r.Expand(sh.LineWidth * wvgpath.Scaling(sh.Transform) / 2)
		}
		if set {
			out = out.Union(r)
		} else {
			out, set = r, true
		}
	}
	return out, set
}

// drawTransformed draws the shape into the driver while applying transform t.
func (sh Shape) drawTransformed(d Driver, t wvgpath.Matrix2D) {
	m := t.Mult(sh.Transform)
	filler, stroker := d.SetupDrawers(sh.Fill.Set, sh.Stroke.Set)
	if filler != nil {
		filler.Clear()
		filler.SetColor(sh.Fill.Val)
		sh.Path.AddTo(filler, m)
		filler.Stop(false)
		filler.Draw()
	}
	if stroker != nil {
		stroker.Clear()
		scale := wvgpath.Scaling(m)
		var dash []float64
		for _, v := range sh.Dash {
			dash = append(dash, v*scale)
		}
		stroker.SetStrokeOptions(StrokeOptions{
			LineWidth: fixed.Int26_6(sh.LineWidth * scale * 64),
			Dash:      dash,
		})
		stroker.SetColor(sh.Stroke.Val)
		sh.Path.AddTo(stroker, m)
		stroker.Stop(false)
		stroker.Draw()
	}
}

// Shapes flattens the document into paintable shapes, in painting order:
// groups are expanded (hidden ones skipped), and reuse elements are
// replaced by the elements they reference.
// At most MaxInstances elements are visited: the remaining
// ones are dropped.
func (doc *Document) Shapes(opts Options) []Shape {
	w := walker{
		doc:    doc,
		opts:   opts,
		ends:   groupEnds(doc.Elements),
		active: make([]bool, len(doc.Elements)),
	}
	w.drawRange(0, len(doc.Elements), wvgpath.Identity, Attributes{})
	return w.shapes
}

// groupEnds returns, for each group start, the index of its end,
// or the number of elements if it is never closed.
func groupEnds(elements []Element) []int {
	ends := make([]int, len(elements))
	var stack []int
	for i, el := range elements {
		ends[i] = len(elements)
		switch el.Data.(type) {
		case GroupStart:
			stack = append(stack, i)
		case GroupEnd:
			if len(stack) != 0 {
				ends[stack[len(stack)-1]] = i
				stack = stack[:len(stack)-1]
			}
		}
	}
	return ends
}

// MaxInstances bounds the number of elements visited when flattening
// a document. Nested reuse arrays multiply the instances, so that a
// few elements may otherwise expand to millions of shapes.
const MaxInstances = 1 << 16

type walker struct {
	doc    *Document
	opts   Options
	ends   []int
	active []bool // groups being expanded, to break reuse cycles
	shapes []Shape

	instances int
	truncated bool
}

func (w *walker) drawRange(start, end int, m wvgpath.Matrix2D, override Attributes) {
	for i := start; i < end; i++ {
		if _, isGroup := w.doc.Elements[i].Data.(GroupStart); isGroup {
			w.drawElement(i, m, override)
			i = w.ends[i]
			continue
		}
		w.drawElement(i, m, override)
	}
}

func (w *walker) drawElement(index int, m wvgpath.Matrix2D, override Attributes) {
	if w.instances >= MaxInstances {
		if !w.truncated {
			Logger().Warn("too many element instances, drawing truncated", "max", MaxInstances)
			w.truncated = true
		}
		return
	}
	w.instances++

	generic := w.doc.Header.Codec.Generic
	switch data := w.doc.Elements[index].Data.(type) {
	case GroupStart:
		if !data.Visible {
			return
		}
		if w.active[index] {
			Logger().Warn("recursive reuse of a group, skipping", "group", ElementName(index))
			return
		}
		if t, ok := data.Transform.Get(); ok {
			m = m.Mult(generic.Matrix(t))
		}
		w.active[index] = true
		w.drawRange(index+1, w.ends[index], m, override)
		w.active[index] = false
	case GroupEnd: // unmatched
	case Reuse:
		m = m.Mult(generic.Matrix(data.Transform))
		override = data.Override.Or(Attributes{}).Merge(override)
		array, ok := data.Array.Get()
		if !ok {
			w.drawElement(data.Index, m, override)
			return
		}
		width := array.Width.Or(0)
		height := array.Height.Or(width)
		for row := 0; row < int(array.Rows); row++ {
			for col := 0; col < int(array.Columns); col++ {
				tx, ty := float64(int32(col)*width), float64(int32(row)*height)
				w.drawElement(data.Index, m.Translate(tx, ty), override)
			}
		}
	default:
		w.drawPrimitive(index, data, m, override)
	}
}

func (w *walker) drawPrimitive(index int, data ElementData, m wvgpath.Matrix2D, override Attributes) {
	var (
		path  wvgpath.Path
		attrs Attributes
	)
	switch data := data.(type) {
	case Polyline:
		attrs = data.Attributes
		path = polylinePath(data)
	case CircularPolyline:
		attrs = data.Attributes
		path = circularPolylinePath(data, int(w.doc.Header.Codec.Generic.CurveOffsetBits.Or(4)))
	case SimpleShape:
		attrs = data.Attributes
		if data.Shape == Ellipse {
			path.AddCircle(5, 5, 5)
		} else {
			path.AddRect(0, 0, 10, 10)
		}
	}
	if len(path) == 0 {
		return
	}
	sh := w.style(attrs.Merge(override))
	sh.ID, sh.Path, sh.Transform = index, path, m
	w.shapes = append(w.shapes, sh)
}

// style resolves the attributes against the document defaults.
func (w *walker) style(attrs Attributes) Shape {
	colors := w.doc.Header.Colors
	var sh Shape
	sh.LineWidth = 1
	if lw, ok := attrs.LineWidth.Get(); ok {
		sh.LineWidth = w.opts.LineWidth(lw)
	}
	if sh.LineWidth > 0 {
		sh.Stroke = Some(attrs.LineColor.Or(colors.Line.Or(Black)))
	}
	if lt, ok := attrs.LineType.Get(); ok {
		sh.Dash = lt.Dash()
	}
	sh.Fill = colors.Fill
	if fill, ok := attrs.Fill.Get(); ok {
		if !fill {
			sh.Fill = Optional[Color]{}
		} else if fc, ok := attrs.FillColor.Get(); ok {
			sh.Fill = Some(fc)
		}
	}
	return sh
}

// dotRadius is the radius of the marker drawn for single point polylines.
const dotRadius = 1

func polylinePath(pl Polyline) wvgpath.Path {
	var path wvgpath.Path
	switch len(pl.Points) {
	case 0:
	case 1:
		p := pl.Points[0]
		path.AddCircle(float64(p.X), float64(p.Y), dotRadius)
	default:
		for i, p := range pl.Points {
			if i == 0 {
				path.Start(wvgpath.ToFixedP(float64(p.X), float64(p.Y)))
			} else {
				path.Line(wvgpath.ToFixedP(float64(p.X), float64(p.Y)))
			}
		}
	}
	return path
}

// CircularPath resolves the relative points of a circular polyline.
func CircularPath(points []CircularPoint) []Point {
	out := make([]Point, len(points))
	var current Point
	for i, p := range points {
		if p.Absolute || i < 2 {
			current = p.Point
		} else {
			current = current.Add(p.Point)
		}
		out[i] = current
	}
	return out
}

func circularPolylinePath(cp CircularPolyline, curveBits int) wvgpath.Path {
	var path wvgpath.Path
	if len(cp.Points) < 2 {
		return path
	}
	abs := CircularPath(cp.Points)
	path.Start(wvgpath.ToFixedP(float64(abs[0].X), float64(abs[0].Y)))
	for i := 1; i < len(abs); i++ {
		x1, y1 := float64(abs[i-1].X), float64(abs[i-1].Y)
		x2, y2 := float64(abs[i].X), float64(abs[i].Y)
		if offset := cp.Points[i].CurveOffset; offset != 0 {
			if arc, ok := wvgpath.CurveArc(x1, y1, x2, y2, offset, curveBits); ok {
				path.ArcTo(x1, y1, x2, y2, arc)
				continue
			}
		}
		path.Line(wvgpath.ToFixedP(x2, y2))
	}
	return path
}
