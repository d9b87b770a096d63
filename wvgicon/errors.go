package wvgicon

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWvgType is returned for a stream which is not a WVG image.
	ErrInvalidWvgType = errors.New("invalid WVG type")

	// ErrInvalidColorScheme is returned for an unknown color scheme code.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
)

// Feature is a part of the WVG format which is recognized but not supported.
type Feature uint8

const (
	CharacterSizeWVG Feature = iota
	CompactCoordinateMode
	BezierPolylineFeature
	PolygonFeature
	SpecialShapeFeature
	TextElementFeature
	SimpleAnimationFeature
	StandardAnimationFeature
	ExtendedElementFeature
	LocalEnvelopeFeature
	FrameElementFeature
	SimpleShapeFeature
)

func (f Feature) String() string {
	switch f {
	case CharacterSizeWVG:
		return "Character Size WVG format"
	case CompactCoordinateMode:
		return "Compact coordinate mode"
	case BezierPolylineFeature:
		return "Bezier polyline"
	case PolygonFeature:
		return "Polygon"
	case SpecialShapeFeature:
		return "Special shape (regular polygon, star, grid)"
	case TextElementFeature:
		return "Text element"
	case SimpleAnimationFeature:
		return "Simple animation"
	case StandardAnimationFeature:
		return "Standard animation"
	case ExtendedElementFeature:
		return "Extended element"
	case LocalEnvelopeFeature:
		return "Local envelope"
	case FrameElementFeature:
		return "Frame element"
	case SimpleShapeFeature:
		return "Simple shape"
	default:
		return fmt.Sprintf("<unknown Feature %d>", uint8(f))
	}
}

// UnsupportedFeatureError is returned when the stream uses
// a part of the format this package does not decode.
type UnsupportedFeatureError struct {
	Feature Feature
}

func (err UnsupportedFeatureError) Error() string {
	return "unsupported feature: " + err.Feature.String()
}

// InvalidElementTypeError is returned when an element type index
// does not match an enabled element kind.
type InvalidElementTypeError struct {
	Index uint32
}

func (err InvalidElementTypeError) Error() string {
	return fmt.Sprintf("invalid element type: %d", err.Index)
}

// ElementIndexOutOfBoundsError is returned when a reuse element
// references an element not yet decoded.
// Max is the highest valid index (-1 if no element is available).
type ElementIndexOutOfBoundsError struct {
	Index uint32
	Max   int
}

func (err ElementIndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("element index %d out of bounds (max: %d)", err.Index, err.Max)
}

// ParseError carries a contextual message.
type ParseError struct {
	Msg string
}

func (err ParseError) Error() string { return "parse error: " + err.Msg }

// MalformedError wraps a decoding failure with the position
// of the bit cursor when it occurred.
type MalformedError struct {
	Byte, Bit int
	Err       error
}

func (err *MalformedError) Error() string {
	return fmt.Sprintf("wvg: at byte %d, bit %d: %v", err.Byte, err.Bit, err.Err)
}

func (err *MalformedError) Unwrap() error { return err.Err }

// ConversionError is returned by converters.
type ConversionError struct {
	Format string
	Err    error
}

func (err *ConversionError) Error() string {
	return fmt.Sprintf("conversion to %s failed: %v", err.Format, err.Err)
}

func (err *ConversionError) Unwrap() error { return err.Err }
