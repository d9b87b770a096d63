package wvgicon

import (
	"errors"
	"testing"

	"github.com/benoitkugler/okwvg/bitstream"
	"github.com/google/go-cmp/cmp"
)

// sample is a complete image: some letters drawn with polylines,
// circular polylines and reuse elements.
var sample = []byte{
	0x80, 0x0c, 0x80, 0x28, 0x00, 0x40, 0x40, 0x08, 0x1d, 0x6e, 0x66, 0x6a,
	0xa2, 0x40, 0x29, 0xa4, 0x4d, 0x37, 0x05, 0xbd, 0x03, 0x78, 0x83, 0xf5,
	0x30, 0x71, 0xa7, 0x32, 0x49, 0x8a, 0x59, 0x92, 0x57, 0x55, 0x44, 0xa2,
	0x48, 0x78, 0x14, 0x4f, 0x61, 0xcd, 0x4a, 0x91, 0x8a, 0x90, 0x07, 0x40,
	0x1d, 0x30, 0x02, 0x2a, 0xa2, 0x70, 0xb2, 0xe9, 0xf3, 0x84, 0xf0, 0x50,
	0x97, 0x4b, 0x0e, 0x7a, 0x9c, 0xcd, 0xc6, 0x60, 0xeb, 0xae, 0x40, 0xf9,
	0x65, 0x8b, 0x3a, 0xe9, 0x80, 0x04, 0xbb, 0xa0, 0x0c, 0xe9, 0x35, 0x21,
	0x2a, 0xa4, 0x25, 0xd4, 0x02, 0xef, 0xa3, 0xdb, 0xe2, 0x80, 0xa6, 0x35,
	0x18, 0x16, 0xd8, 0x64, 0x40, 0x70, 0xc0,
}

// bitWriter builds streams, most significant bit first.
type bitWriter struct {
	data []byte
	n    int // bits written
}

func (w *bitWriter) bits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.n%8 == 0 {
			w.data = append(w.data, 0)
		}
		if v>>i&1 == 1 {
			w.data[len(w.data)-1] |= 1 << (7 - w.n%8)
		}
		w.n++
	}
}

func (w *bitWriter) flag(b bool) {
	if b {
		w.bits(1, 1)
	} else {
		w.bits(0, 1)
	}
}

func (w *bitWriter) signed(v int32, n int) { w.bits(uint32(v)&(1<<n-1), n) }

// header writes a black and white header without general information,
// using the given element kinds and flat coordinates:
// 64x64, 7 bits positive coordinates, 7 bits translations, 3 bits point counts,
// offsets on 4 (level 1) and 5 (level 2) bits.
func (w *bitWriter) header(kinds ...ElementKind) {
	var mask ElementMask
	for _, k := range kinds {
		mask = mask.With(k)
	}
	w.bits(1, 1) // WVG type
	w.bits(0, 4) // version
	w.bits(0, 1) // no general information
	w.bits(0, 2) // black and white
	w.bits(0, 3) // no default colors
	for k := KindLocalEnvelope; k <= KindAnimation; k++ {
		w.flag(mask.Has(k))
	}
	w.bits(0, 1) // no extended kinds
	w.bits(0, 4) // no attributes
	w.bits(0, 3) // default generic params
	if mask.Has(KindCircularPolyline) {
		w.bits(0, 1)
	}
	w.bits(0, 1)  // flat
	w.bits(64, 16) // width
	w.bits(0, 1)  // square
	w.bits(7, 4)
	w.bits(7, 4)
	w.bits(1, 1) // all positive
	w.bits(7, 4)
	w.bits(3, 4)
	w.bits(4, 4)
	w.bits(4, 4)
	w.bits(5, 4)
	w.bits(5, 4)
	if mask.Has(KindAnimation) {
		w.bits(0, 1)
	}
}

func (w *bitWriter) count(n int) {
	w.bits(0, 1)
	w.bits(uint32(n), 7)
}

// dot writes a single point polyline, for a mask where
// the polyline is the first kind.
func (w *bitWriter) dot(typeBits int, x, y uint32) {
	w.bits(0, typeBits)
	w.bits(0, 2) // level 1 offsets
	w.bits(0, 3) // no more points
	w.bits(x, 7)
	w.bits(y, 7)
}

func TestDecodeSampleHeader(t *testing.T) {
	doc, err := Decode(sample)
	if err != nil {
		t.Fatal(err)
	}
	h := doc.Header
	if h.Info.Version != 0 || h.Info.TextMode.Set {
		t.Fatalf("unexpected general info %v", h.Info)
	}
	if h.Colors.Scheme != BlackAndWhite {
		t.Fatalf("unexpected scheme %s", h.Colors.Scheme)
	}
	expMask := ElementMask(0).With(KindPolyline).With(KindCircularPolyline).With(KindReuse)
	if h.Codec.Elements != expMask {
		t.Fatalf("expected mask %b, got %b", expMask, h.Codec.Elements)
	}
	if h.Codec.Attributes.Any() {
		t.Fatalf("unexpected attributes %v", h.Codec.Attributes)
	}
	if h.Codec.Generic.IndexBits != 4 || h.Codec.Generic.CurveOffsetBits != Some[uint8](4) {
		t.Fatalf("unexpected generic params %v", h.Codec.Generic)
	}
	expFlat := FlatCoordinates{
		Width: 128, Height: 32, XBits: 7, YBits: 5, AllPositive: true,
		TranslateBits: 7, NumPointsBits: 3,
		OffsetXBitsL1: 3, OffsetYBitsL1: 3, OffsetXBitsL2: 5, OffsetYBitsL2: 5,
	}
	if diff := cmp.Diff(expFlat, h.Codec.Coordinates); diff != "" {
		t.Fatalf("unexpected coordinates (-want +got):\n%s", diff)
	}
	if w, h := doc.Size(); w != 128 || h != 32 {
		t.Fatalf("unexpected size %v x %v", w, h)
	}
}

func TestDecodeSampleElements(t *testing.T) {
	doc, err := Decode(sample)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Elements) != 18 {
		t.Fatalf("expected 18 elements, got %d", len(doc.Elements))
	}
	counts := map[ElementKind]int{}
	for i, el := range doc.Elements {
		if el.ID != i {
			t.Fatalf("element %d has ID %d", i, el.ID)
		}
		counts[el.Data.Kind()]++
	}
	if counts[KindPolyline] != 9 || counts[KindCircularPolyline] != 6 || counts[KindReuse] != 3 {
		t.Fatalf("unexpected kinds %v", counts)
	}

	if diff := cmp.Diff(Polyline{Points: []Point{{83, 9}}}, doc.Elements[0].Data); diff != "" {
		t.Fatalf("el_0 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Polyline{Points: []Point{{83, 14}, {83, 25}}}, doc.Elements[1].Data); diff != "" {
		t.Fatalf("el_1 (-want +got):\n%s", diff)
	}
	expCircular := CircularPolyline{Points: []CircularPoint{
		{Point: Point{3, 15}, Absolute: true},
		{Point: Point{16, 15}, Absolute: true},
		{CurveOffset: -6, Point: Point{-13, 0}},
		{CurveOffset: -4, Point: Point{13, 7}},
	}}
	if diff := cmp.Diff(expCircular, doc.Elements[2].Data); diff != "" {
		t.Fatalf("el_2 (-want +got):\n%s", diff)
	}
	expReuse := Reuse{Index: 9, Transform: Transform{TranslateX: Some[int32](41)}}
	if diff := cmp.Diff(expReuse, doc.Elements[13].Data); diff != "" {
		t.Fatalf("el_13 (-want +got):\n%s", diff)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	doc1, err := Decode(sample)
	if err != nil {
		t.Fatal(err)
	}
	doc2, err := Decode(sample)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(doc1, doc2); diff != "" {
		t.Fatalf("decoding is not deterministic:\n%s", diff)
	}
}

func TestDecodeTruncated(t *testing.T) {
	for n := 0; n < len(sample); n++ {
		_, err := Decode(sample[:n])
		if !errors.Is(err, bitstream.ErrEndOfStream) {
			t.Fatalf("prefix of %d bytes: expected end of stream, got %v", n, err)
		}
		var malformed *MalformedError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected a *MalformedError, got %T", err)
		}
		if malformed.Byte > n {
			t.Fatalf("invalid error position %d for %d bytes", malformed.Byte, n)
		}
	}
}

func TestDecodeUnsupported(t *testing.T) {
	characterSize := []byte{0x00, 0xFF}

	var compact bitWriter
	compact.bits(1, 1)
	compact.bits(0, 4+1+2+3)
	compact.bits(0x40, 8) // polylines
	compact.bits(0, 1+4+3)
	compact.bits(1, 1) // compact coordinates

	var bezier bitWriter
	bezier.header(KindBezierPolyline)
	bezier.count(1)
	bezier.bits(0xFF, 8)

	var animation bitWriter
	animation.header(KindPolyline, KindAnimation)
	animation.count(1)
	animation.bits(1, 1) // second kind
	animation.bits(0xFF, 8)

	for _, test := range []struct {
		data    []byte
		feature Feature
	}{
		{characterSize, CharacterSizeWVG},
		{compact.data, CompactCoordinateMode},
		{bezier.data, BezierPolylineFeature},
		{animation.data, SimpleAnimationFeature},
	} {
		_, err := Decode(test.data)
		var unsupported UnsupportedFeatureError
		if !errors.As(err, &unsupported) {
			t.Fatalf("expected UnsupportedFeatureError, got %v", err)
		}
		if unsupported.Feature != test.feature {
			t.Fatalf("expected %s, got %s", test.feature, unsupported.Feature)
		}
	}
}

func TestDecodeInvalidType(t *testing.T) {
	var w bitWriter
	w.header(KindPolyline, KindCircularPolyline, KindReuse)
	w.count(1)
	w.bits(3, 2)
	w.bits(0, 8)

	_, err := Decode(w.data)
	var invalid InvalidElementTypeError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidElementTypeError, got %v", err)
	}
	if invalid.Index != 3 {
		t.Fatalf("unexpected index %d", invalid.Index)
	}
}

// reuseStream returns two dots followed by a reuse element
// with the given raw index, on 3 bits.
func reuseStream(index uint32) []byte {
	var w bitWriter
	w.header(KindPolyline, KindReuse)
	w.count(3)
	w.dot(1, 10, 20)
	w.dot(1, 30, 40)
	w.bits(1, 1) // reuse
	w.bits(index, 3)
	w.bits(0, 3) // no transform
	w.bits(0, 2) // no array, no override
	return w.data
}

func TestDecodeReuseIndex(t *testing.T) {
	doc, err := Decode(reuseStream(1))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Reuse{Index: 1}, doc.Elements[2].Data); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	// 5 = 0b101 is recovered by masking the most significant bit
	doc, err = Decode(reuseStream(5))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Reuse{Index: 1}, doc.Elements[2].Data); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	_, err = Decode(reuseStream(7))
	var outOfBounds ElementIndexOutOfBoundsError
	if !errors.As(err, &outOfBounds) {
		t.Fatalf("expected ElementIndexOutOfBoundsError, got %v", err)
	}
	if outOfBounds != (ElementIndexOutOfBoundsError{Index: 7, Max: 1}) {
		t.Fatalf("unexpected error %v", outOfBounds)
	}
}

func TestDecodeGroups(t *testing.T) {
	var w bitWriter
	w.header(KindPolyline, KindReuse, KindGroup)
	w.count(4)
	// group start, translated and rotated
	w.bits(2, 2)
	w.bits(0, 1)
	w.bits(1, 1)
	w.bits(1, 1)
	w.signed(-3, 7)
	w.bits(0, 1)
	w.bits(1, 1)
	w.bits(1, 1)
	w.signed(3, 3)
	w.bits(0, 4)
	w.bits(1, 1) // visible
	w.dot(2, 5, 6)
	// group end
	w.bits(2, 2)
	w.bits(1, 1)
	// reuse of the group, as a 3x1 array, filled
	w.bits(1, 2)
	w.bits(0, 3)
	w.bits(0, 3)
	w.bits(1, 1)
	w.bits(2, 4)
	w.bits(8, 7)
	w.bits(0, 4)
	w.bits(1, 1)
	w.bits(0, 3)
	w.bits(1, 1)
	w.bits(1, 1)
	w.bits(0, 1)

	doc, err := Decode(w.data)
	if err != nil {
		t.Fatal(err)
	}
	exp := []Element{
		{ID: 0, Data: GroupStart{Transform: Some(Transform{TranslateX: Some[int32](-3), Angle: Some[int32](3)}), Visible: true}},
		{ID: 1, Data: Polyline{Points: []Point{{5, 6}}}},
		{ID: 2, Data: GroupEnd{}},
		{ID: 3, Data: Reuse{
			Index:    0,
			Array:    Some(ArrayParams{Columns: 3, Rows: 1, Width: Some[int32](8)}),
			Override: Some(Attributes{Fill: Some(true)}),
		}},
	}
	if diff := cmp.Diff(exp, doc.Elements); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDecodeColors(t *testing.T) {
	var w bitWriter
	w.bits(1, 1)
	w.bits(3, 4) // version
	w.bits(0, 1)
	w.bits(0b1111, 4) // RGB 24 bits
	w.bits(1, 1)      // line color
	w.bits(0x12, 8)
	w.bits(0x34, 8)
	w.bits(0x56, 8)
	w.bits(0, 1)
	w.bits(1, 1) // background
	w.bits(0xFF, 8)
	w.bits(0, 16)
	w.bits(0, 8+1+4+3) // no elements, no attributes, default params
	w.bits(0, 1)
	w.bits(10, 16)
	w.bits(1, 1)
	w.bits(20, 16)
	w.bits(0, 4*2+1+4*6)
	w.count(0)

	doc, err := Decode(w.data)
	if err != nil {
		t.Fatal(err)
	}
	exp := ColorConfig{
		Scheme:     RGB24Bit,
		Line:       Some(Color{0x12, 0x34, 0x56}),
		Background: Some(Color{0xFF, 0, 0}),
	}
	if diff := cmp.Diff(exp, doc.Header.Colors); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if doc.Header.Info.Version != 3 {
		t.Fatalf("unexpected version %d", doc.Header.Info.Version)
	}
	if w, h := doc.Size(); w != 10 || h != 20 {
		t.Fatalf("unexpected size %v x %v", w, h)
	}
}

func TestDecodePalette(t *testing.T) {
	var w bitWriter
	w.bits(1, 1)
	w.bits(0, 5)
	w.bits(0b1101, 4) // websafe palette
	w.bits(1, 7)      // 2 colors
	w.bits(0, 8)
	w.bits(215, 8)
	w.bits(1, 1) // line color: palette lookup, no bits
	w.bits(0, 2)
	w.bits(0, 8+1+4+3)
	w.bits(0, 1)
	w.bits(10, 16)
	w.bits(0, 1)
	w.bits(0, 4*2+1+4*6)
	w.count(0)

	doc, err := Decode(w.data)
	if err != nil {
		t.Fatal(err)
	}
	exp := ColorConfig{
		Scheme:  WebsafePalette,
		Palette: []Color{White, {17, 17, 17}},
		Line:    Some(Black),
	}
	if diff := cmp.Diff(exp, doc.Header.Colors); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDecodeGeneralInfo(t *testing.T) {
	var w bitWriter
	w.bits(1, 1)
	w.bits(1, 4)
	w.bits(1, 1) // general information
	w.bits(0, 1) // GSM
	w.bits(1, 1) // author
	w.bits(2, 8)
	w.bits(0x48, 7)
	w.bits(0x69, 7)
	w.bits(1, 1) // title
	w.bits(2, 8)
	w.bits(0x1B, 7)
	w.bits(0x65, 7)
	w.bits(1, 1) // timestamp
	w.signed(2024, 13)
	w.bits(5, 4)
	w.bits(17, 5)
	w.bits(9, 5)
	w.bits(30, 6)
	w.bits(0, 6)
	w.bits(0, 2+3)
	w.bits(0, 8+1+4+3)
	w.bits(0, 1)
	w.bits(10, 16)
	w.bits(0, 1)
	w.bits(0, 4*2+1+4*6)
	w.count(0)

	doc, err := Decode(w.data)
	if err != nil {
		t.Fatal(err)
	}
	exp := GeneralInfo{
		Version:   1,
		TextMode:  Some(GSM7Bit),
		Author:    Some("Hi"),
		Title:     Some("€"),
		Timestamp: Some(Timestamp{Year: 2024, Month: 5, Day: 17, Hour: 9, Minute: 30}),
	}
	if diff := cmp.Diff(exp, doc.Header.Info); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestTypeIndexBits(t *testing.T) {
	for active, exp := range []int{0, 0, 1, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 4} {
		if got := typeIndexBits(active); got != exp {
			t.Fatalf("%d kinds: expected %d bits, got %d", active, exp, got)
		}
	}
	mask := ElementMask(0).With(KindPolyline).With(KindReuse).With(KindText)
	if k, ok := mask.Nth(2); !ok || k != KindText {
		t.Fatalf("unexpected kind %s", k)
	}
	if _, ok := mask.Nth(3); ok {
		t.Fatal("expected out of range index")
	}
}
