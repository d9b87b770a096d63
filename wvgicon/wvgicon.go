// Provides decoding of WVG (Wireless Vector Graphics) binary images,
// as defined in 3GPP TS 23.040.
// WVG streams are decoded into an abstract representation,
// which can then be consumed by painting drivers or converters.
// See for example okwvg/wvgsvg, okwvg/wvgraster or okwvg/wvgpdf .
package wvgicon

import (
	"fmt"
	"time"
)

// Optional holds a value which may be absent from the stream.
// The zero value is absent.
type Optional[T any] struct {
	Val T
	Set bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] { return Optional[T]{Val: v, Set: true} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.Val, o.Set }

// Or returns the value if present, `def` otherwise.
func (o Optional[T]) Or(def T) T {
	if o.Set {
		return o.Val
	}
	return def
}

// Document is a decoded WVG image.
// It should be considered immutable once returned by Decode.
type Document struct {
	Header   Header
	Elements []Element
}

// Header groups the information preceding the elements.
type Header struct {
	Info      GeneralInfo
	Colors    ColorConfig
	Codec     CodecParams
	Animation Optional[AnimationMode]
}

// TextCodeMode is the character set used by the author and title strings.
type TextCodeMode uint8

const (
	GSM7Bit TextCodeMode = iota
	UCS2
)

func (m TextCodeMode) String() string {
	if m == UCS2 {
		return "UCS-2"
	}
	return "GSM 7-bit"
}

// bits returns the width of one character.
func (m TextCodeMode) bits() int {
	if m == UCS2 {
		return 16
	}
	return 7
}

type GeneralInfo struct {
	Version   uint8
	TextMode  Optional[TextCodeMode]
	Author    Optional[string]
	Title     Optional[string]
	Timestamp Optional[Timestamp]
}

type Timestamp struct {
	Year                 int16
	Month, Day           uint8
	Hour, Minute, Second uint8
}

// Time converts the timestamp, interpreted as UTC.
func (ts Timestamp) Time() time.Time {
	return time.Date(int(ts.Year), time.Month(ts.Month), int(ts.Day),
		int(ts.Hour), int(ts.Minute), int(ts.Second), 0, time.UTC)
}

// ColorScheme selects how colors are encoded in the stream.
type ColorScheme uint8

const (
	BlackAndWhite ColorScheme = iota
	Grayscale2Bit
	Predefined2Bit
	RGB6Bit
	Websafe
	RGB6BitPalette
	WebsafePalette
	RGB12Bit
	RGB24Bit
)

func (s ColorScheme) String() string {
	switch s {
	case BlackAndWhite:
		return "BlackAndWhite"
	case Grayscale2Bit:
		return "Grayscale2Bit"
	case Predefined2Bit:
		return "Predefined2Bit"
	case RGB6Bit:
		return "RGB6Bit"
	case Websafe:
		return "Websafe"
	case RGB6BitPalette:
		return "RGB6BitPalette"
	case WebsafePalette:
		return "WebsafePalette"
	case RGB12Bit:
		return "RGB12Bit"
	case RGB24Bit:
		return "RGB24Bit"
	default:
		return fmt.Sprintf("<unknown ColorScheme %d>", uint8(s))
	}
}

// IsPalette returns true for the schemes defining their own color table.
func (s ColorScheme) IsPalette() bool { return s == RGB6BitPalette || s == WebsafePalette }

// Color is an opaque RGB color.
// It implements color.Color.
type Color struct{ R, G, B uint8 }

var (
	Black = Color{}
	White = Color{255, 255, 255}
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r, g, b = uint32(c.R), uint32(c.G), uint32(c.B)
	return r | r<<8, g | g<<8, b | b<<8, 0xffff
}

// Hex returns the #rrggbb notation.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

type ColorConfig struct {
	Scheme     ColorScheme
	Palette    []Color // only for palette schemes
	Line       Optional[Color]
	Fill       Optional[Color]
	Background Optional[Color]
}

type CodecParams struct {
	Elements    ElementMask
	Attributes  AttributeMask
	Generic     GenericParams
	Coordinates CoordinateParams
}

// AttributeMask enables the per element attributes.
type AttributeMask struct {
	LineType, LineWidth, LineColor, Fill bool
}

// Any returns true if at least one attribute is enabled.
func (m AttributeMask) Any() bool { return m.LineType || m.LineWidth || m.LineColor || m.Fill }

// GenericParams holds the numeric parameters shared by all elements.
// Bit widths are stored as read: the actual width of angle, scale and index values
// is one more than the stored value.
type GenericParams struct {
	AngleResolution uint8
	AngleBits       uint8
	ScaleResolution uint8
	ScaleBits       uint8
	IndexBits       uint8
	// CurveOffsetBits is 4 or 5, and only present when
	// circular polylines or polygons are enabled.
	CurveOffsetBits Optional[uint8]
}

// DefaultGenericParams are used when the stream does not override them.
var DefaultGenericParams = GenericParams{
	AngleResolution: 3,
	AngleBits:       2,
	ScaleResolution: 0,
	ScaleBits:       2,
	IndexBits:       2,
}

// AngleUnit returns the number of degrees of one angle step.
func (g GenericParams) AngleUnit() float64 {
	return 22.5 / float64(uint(1)<<g.AngleResolution)
}

// ScaleUnit returns the scale increment of one scale step.
func (g GenericParams) ScaleUnit() float64 {
	return 0.25 / float64(uint(1)<<g.ScaleResolution)
}

// CoordinateParams is either FlatCoordinates or CompactCoordinates
type CoordinateParams interface {
	isCoordinates()
}

// FlatCoordinates describes the drawing area and the
// bit widths of positions.
type FlatCoordinates struct {
	Width, Height uint16
	XBits, YBits  uint8
	AllPositive   bool
	TranslateBits uint8
	NumPointsBits uint8
	OffsetXBitsL1 uint8
	OffsetYBitsL1 uint8
	OffsetXBitsL2 uint8
	OffsetYBitsL2 uint8
}

// CompactCoordinates is defined by the format but not supported:
// decoding a stream using it fails.
type CompactCoordinates struct{}

func (FlatCoordinates) isCoordinates()    {}
func (CompactCoordinates) isCoordinates() {}

// AnimationMode is only present when animations are enabled.
type AnimationMode uint8

const (
	SimpleAnimation AnimationMode = iota
	StandardAnimation
)

func (m AnimationMode) String() string {
	if m == StandardAnimation {
		return "Standard"
	}
	return "Simple"
}
