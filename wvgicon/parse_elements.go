package wvgicon

// elementFunc decodes the body of one element, after its type index.
type elementFunc func(c *decoder) ElementData

// elementFuncs lists the supported element kinds.
var elementFuncs = map[ElementKind]elementFunc{
	KindPolyline:         polylineF,
	KindCircularPolyline: circularPolylineF,
	KindSimpleShape:      simpleShapeF,
	KindReuse:            reuseF,
	KindGroup:            groupF,
}

func polylineF(c *decoder) ElementData {
	attrs := c.readElementHeader()
	n := int(c.bits(int(c.flat.NumPointsBits)))
	if c.err != nil {
		return nil
	}
	points := make([]Point, 1, n+1)
	points[0] = c.readPoint()
	for i := 0; i < n && c.err == nil; i++ {
		points = append(points, points[i].Add(c.readOffset()))
	}
	return Polyline{Attributes: attrs, Points: points}
}

func circularPolylineF(c *decoder) ElementData {
	attrs := c.readElementHeader()
	hint := c.bit()
	n := int(c.bits(int(c.flat.NumPointsBits)))
	if c.err != nil {
		return nil
	}
	points := make([]CircularPoint, 0, n+2)
	points = append(points, CircularPoint{Point: c.readPoint(), Absolute: true})
	offset := c.readCurveOffset(hint)
	points = append(points, CircularPoint{CurveOffset: offset, Point: c.readPoint(), Absolute: true})
	for i := 0; i < n && c.err == nil; i++ {
		offset := c.readCurveOffset(hint)
		points = append(points, CircularPoint{CurveOffset: offset, Point: c.readOffset()})
	}
	return CircularPolyline{Attributes: attrs, Points: points}
}

func simpleShapeF(c *decoder) ElementData {
	attrs := c.readElementHeader()
	shape := Rectangle
	if c.bit() {
		shape = Ellipse
	}
	c.log.Warn("simple shape geometry is not decoded", "shape", shape)
	return SimpleShape{Shape: shape, Attributes: attrs}
}

func reuseF(c *decoder) ElementData {
	width := int(c.doc.Header.Codec.Generic.IndexBits) + 1
	raw := c.bits(width)
	if c.err != nil {
		return nil
	}
	index, n := raw, len(c.doc.Elements)
	if int(index) >= n {
		// recover from encoders setting the most significant bit
		masked := index & (1<<(width-1) - 1)
		if int(masked) >= n {
			c.fail(ElementIndexOutOfBoundsError{Index: raw, Max: n - 1})
			return nil
		}
		c.log.Warn("reuse index out of bounds, masking most significant bit",
			"index", raw, "masked", masked, "max", n-1)
		index = masked
	}

	out := Reuse{Index: int(index), Transform: c.readTransform()}
	if c.bit() {
		out.Array = Some(c.readArrayParams())
	}
	if c.bit() {
		out.Override = Some(c.readOverrideAttributes())
	}
	return out
}

func groupF(c *decoder) ElementData {
	if c.bit() {
		return GroupEnd{}
	}
	var g GroupStart
	if c.bit() {
		g.Transform = Some(c.readTransform())
	}
	g.Visible = c.bit()
	return g
}

// readElementHeader reads the offset widths selection and
// the optional attributes, shared by positional elements.
func (c *decoder) readElementHeader() Attributes {
	c.offsetXUse = c.bit()
	c.offsetYUse = c.bit()
	mask := c.doc.Header.Codec.Attributes
	if !mask.Any() || !c.bit() {
		return Attributes{}
	}
	var a Attributes
	if mask.LineType {
		a.LineType = Some(LineType(c.bits(2)))
	}
	if mask.LineWidth {
		a.LineWidth = Some(LineWidth(c.bits(2)))
	}
	if mask.LineColor && a.LineWidth.Or(Fine) != NoLine && c.bit() {
		a.LineColor = Some(c.readColor())
	}
	if mask.Fill {
		if c.bit() {
			a.Fill = Some(true)
			if c.bit() {
				a.FillColor = Some(c.readColor())
			}
		} else {
			a.Fill = Some(false)
		}
	}
	return a
}

// readOverrideAttributes reads the attributes of a reuse element,
// which do not depend on the attribute mask.
func (c *decoder) readOverrideAttributes() Attributes {
	var a Attributes
	if c.bit() {
		a.LineType = Some(LineType(c.bits(2)))
	}
	if c.bit() {
		a.LineWidth = Some(LineWidth(c.bits(2)))
	}
	if c.bit() {
		a.LineColor = Some(c.readColor())
	}
	if c.bit() {
		a.Fill = Some(c.bit())
	}
	if c.bit() {
		a.FillColor = Some(c.readColor())
	}
	return a
}

func (c *decoder) readCoordinate(bits uint8) int32 {
	if c.flat.AllPositive {
		return int32(c.bits(int(bits)))
	}
	return c.signed(int(bits))
}

// readPoint reads an absolute position.
func (c *decoder) readPoint() Point {
	x := c.readCoordinate(c.flat.XBits)
	y := c.readCoordinate(c.flat.YBits)
	return Point{x, y}
}

// readOffset reads a relative position, using the level 1 or level 2
// widths as selected by the element header.
func (c *decoder) readOffset() Point {
	xBits, yBits := c.flat.OffsetXBitsL1, c.flat.OffsetYBitsL1
	if c.offsetXUse {
		xBits = c.flat.OffsetXBitsL2
	}
	if c.offsetYUse {
		yBits = c.flat.OffsetYBitsL2
	}
	dx := c.signed(int(xBits))
	dy := c.signed(int(yBits))
	return Point{dx, dy}
}

// readCurveOffset reads a signed offset, which may be omitted
// when `hint` is set.
func (c *decoder) readCurveOffset(hint bool) int32 {
	if hint && !c.bit() {
		return 0
	}
	return c.signed(int(c.doc.Header.Codec.Generic.CurveOffsetBits.Or(4)))
}

func (c *decoder) readTranslate() int32 { return c.signed(int(c.flat.TranslateBits)) }

func (c *decoder) readTransform() Transform {
	g := c.doc.Header.Codec.Generic
	var t Transform
	if c.bit() {
		t.TranslateX = Some(c.readTranslate())
	}
	if c.bit() {
		t.TranslateY = Some(c.readTranslate())
	}
	if !c.bit() {
		return t
	}
	if c.bit() {
		t.Angle = Some(c.signed(int(g.AngleBits) + 1))
	}
	if c.bit() {
		t.ScaleX = Some(c.signed(int(g.ScaleBits) + 1))
	}
	if c.bit() {
		t.ScaleY = Some(c.signed(int(g.ScaleBits) + 1))
	}
	if c.bit() {
		t.CenterX = Some(c.readTranslate())
	}
	if c.bit() {
		t.CenterY = Some(c.readTranslate())
	}
	return t
}

func (c *decoder) readArrayParams() ArrayParams {
	var a ArrayParams
	a.Columns = uint8(c.bits(4) + 1)
	if a.Columns > 1 {
		a.Width = Some(c.readCoordinate(c.flat.XBits))
	}
	a.Rows = uint8(c.bits(4) + 1)
	if a.Rows > 1 {
		if c.bit() {
			a.Height = Some(c.readCoordinate(c.flat.YBits))
		} else {
			a.Height = a.Width
		}
	}
	return a
}
