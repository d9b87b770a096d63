package wvgicon

import (
	"log/slog"

	"github.com/benoitkugler/okwvg/bitstream"
)

// decoder holds the state of one decoding pass.
// Read errors are sticky: once `err` is set, every read returns
// a zero value and the pass stops at the next check.
type decoder struct {
	r   *bitstream.Reader
	log *slog.Logger

	err             error
	errByte, errBit int // cursor position when err was set

	doc  *Document
	flat FlatCoordinates

	// offset widths selection of the current element
	offsetXUse, offsetYUse bool
}

// Decode parses a complete WVG image.
// Unsupported parts of the format are reported with an UnsupportedFeatureError
// and truncated input with bitstream.ErrEndOfStream, both wrapped in a *MalformedError.
func Decode(data []byte) (*Document, error) {
	c := decoder{
		r:   bitstream.NewReader(data),
		log: Logger(),
		doc: new(Document),
	}
	c.readHeader()
	c.readElements()
	if c.err != nil {
		return nil, &MalformedError{Byte: c.errByte, Bit: c.errBit, Err: c.err}
	}
	return c.doc, nil
}

func (c *decoder) fail(err error) {
	if c.err == nil {
		c.err = err
		c.errByte, c.errBit = c.r.BytePos(), c.r.BitPos()
	}
}

func (c *decoder) bit() bool {
	if c.err != nil {
		return false
	}
	b, err := c.r.ReadBit()
	if err != nil {
		c.fail(err)
	}
	return b == 1
}

func (c *decoder) bits(n int) uint32 {
	if c.err != nil {
		return 0
	}
	v, err := c.r.ReadBits(n)
	if err != nil {
		c.fail(err)
	}
	return v
}

func (c *decoder) signed(n int) int32 {
	if c.err != nil {
		return 0
	}
	v, err := c.r.ReadSigned(n)
	if err != nil {
		c.fail(err)
	}
	return v
}

func (c *decoder) readHeader() {
	if !c.bit() {
		c.fail(UnsupportedFeatureError{Feature: CharacterSizeWVG})
		return
	}
	h := &c.doc.Header
	h.Info = c.readGeneralInfo()

	scheme, palette, err := c.readColorScheme()
	if err != nil {
		c.fail(err)
		return
	}
	h.Colors = ColorConfig{Scheme: scheme, Palette: palette}
	if c.bit() {
		h.Colors.Line = Some(c.readColor())
	}
	if c.bit() {
		h.Colors.Fill = Some(c.readColor())
	}
	if c.bit() {
		h.Colors.Background = Some(c.readColor())
	}

	h.Codec.Elements = c.readElementMask()
	h.Codec.Attributes = AttributeMask{LineType: c.bit(), LineWidth: c.bit(), LineColor: c.bit(), Fill: c.bit()}
	h.Codec.Generic = c.readGenericParams(h.Codec.Elements)
	h.Codec.Coordinates = c.readCoordinates()
	if h.Codec.Elements.Has(KindAnimation) {
		mode := SimpleAnimation
		if c.bit() {
			mode = StandardAnimation
		}
		h.Animation = Some(mode)
	}
	if c.err != nil {
		return
	}

	c.log.Info("decoded WVG header",
		"version", h.Info.Version,
		"scheme", h.Colors.Scheme,
		"width", c.flat.Width, "height", c.flat.Height,
		"kinds", h.Codec.Elements.Count())
}

func (c *decoder) readGeneralInfo() GeneralInfo {
	info := GeneralInfo{Version: uint8(c.bits(4))}
	if !c.bit() {
		return info
	}
	mode := GSM7Bit
	if c.bit() {
		mode = UCS2
	}
	info.TextMode = Some(mode)
	info.Author = c.readString(mode)
	info.Title = c.readString(mode)
	if c.bit() {
		var ts Timestamp
		ts.Year = int16(c.signed(13))
		ts.Month = uint8(c.bits(4))
		ts.Day = uint8(c.bits(5))
		ts.Hour = uint8(c.bits(5))
		ts.Minute = uint8(c.bits(6))
		ts.Second = uint8(c.bits(6))
		info.Timestamp = Some(ts)
	}
	return info
}

// readElementMask reads the 8 mandatory flags and
// the 5 optional extended ones.
func (c *decoder) readElementMask() ElementMask {
	var mask ElementMask
	for k := KindLocalEnvelope; k <= KindAnimation; k++ {
		if c.bit() {
			mask = mask.With(k)
		}
	}
	if c.bit() {
		for k := KindPolygon; k <= KindExtended; k++ {
			if c.bit() {
				mask = mask.With(k)
			}
		}
	}
	return mask
}

func (c *decoder) readGenericParams(mask ElementMask) GenericParams {
	g := DefaultGenericParams
	if c.bit() {
		g.AngleResolution = uint8(c.bits(2))
		g.AngleBits = uint8(c.bits(3))
	}
	if c.bit() {
		g.ScaleResolution = uint8(c.bits(2))
		g.ScaleBits = uint8(c.bits(4))
	}
	if c.bit() {
		g.IndexBits = uint8(c.bits(4))
	}
	if mask.Has(KindCircularPolyline) || mask.Has(KindPolygon) {
		if c.bit() {
			g.CurveOffsetBits = Some[uint8](5)
		} else {
			g.CurveOffsetBits = Some[uint8](4)
		}
	}
	return g
}

func (c *decoder) readCoordinates() CoordinateParams {
	if c.bit() {
		c.fail(UnsupportedFeatureError{Feature: CompactCoordinateMode})
		return CompactCoordinates{}
	}
	var f FlatCoordinates
	f.Width = uint16(c.bits(16))
	if c.bit() {
		f.Height = uint16(c.bits(16))
	} else {
		f.Height = f.Width
	}
	f.XBits = uint8(c.bits(4))
	f.YBits = uint8(c.bits(4))
	f.AllPositive = c.bit()
	f.TranslateBits = uint8(c.bits(4))
	f.NumPointsBits = uint8(c.bits(4))
	f.OffsetXBitsL1 = uint8(c.bits(4))
	f.OffsetYBitsL1 = uint8(c.bits(4))
	f.OffsetXBitsL2 = uint8(c.bits(4))
	f.OffsetYBitsL2 = uint8(c.bits(4))
	c.flat = f
	return f
}

func (c *decoder) readElements() {
	if c.err != nil {
		return
	}
	var count int
	if c.bit() {
		count = int(c.bits(15))
	} else {
		count = int(c.bits(7))
	}
	mask := c.doc.Header.Codec.Elements
	width := mask.TypeIndexBits()
	c.doc.Elements = make([]Element, 0, count)
	for i := 0; i < count && c.err == nil; i++ {
		index := c.bits(width)
		if c.err != nil {
			return
		}
		kind, ok := mask.Nth(int(index))
		if !ok {
			c.fail(InvalidElementTypeError{Index: index})
			return
		}
		fn, ok := elementFuncs[kind]
		if !ok {
			c.fail(UnsupportedFeatureError{Feature: c.unsupportedFeature(kind)})
			return
		}
		data := fn(c)
		if c.err != nil {
			return
		}
		el := Element{ID: len(c.doc.Elements), Data: data}
		c.doc.Elements = append(c.doc.Elements, el)
		c.log.Debug("decoded element", "id", el.Name(), "kind", data.Kind())
	}
}

func (c *decoder) unsupportedFeature(kind ElementKind) Feature {
	switch kind {
	case KindLocalEnvelope:
		return LocalEnvelopeFeature
	case KindBezierPolyline:
		return BezierPolylineFeature
	case KindAnimation:
		if c.doc.Header.Animation.Or(SimpleAnimation) == StandardAnimation {
			return StandardAnimationFeature
		}
		return SimpleAnimationFeature
	case KindPolygon:
		return PolygonFeature
	case KindSpecialShape:
		return SpecialShapeFeature
	case KindFrame:
		return FrameElementFeature
	case KindText:
		return TextElementFeature
	default:
		return ExtendedElementFeature
	}
}
