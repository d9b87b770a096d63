// Implements a raster backend to render WVG images,
// by wrapping rasterx.
package wvgraster

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"github.com/benoitkugler/okwvg/wvgicon"
	"github.com/benoitkugler/okwvg/wvgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var (
	_ wvgicon.Driver    = (*Renderer)(nil) // assert interface conformance
	_ wvgicon.Converter = Converter{}
)

// Renderer paints paths with rasterx.
// Filling and stroking use separated instances, sharing the same scanner.
type Renderer struct {
	dasher *rasterx.Dasher
	filler *rasterx.Filler
}

// NewRenderer returns a renderer drawing with `scanner`.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), filler: rasterx.NewFiller(width, height, scanner)}
}

// SetupDrawers implements wvgicon.Driver.
func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f wvgicon.Drawer, s wvgicon.Stroker) {
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

type filler struct {
	*rasterx.Filler
}

func (f filler) SetColor(color wvgicon.Color) { f.Scanner.SetColor(color) }

type stroker struct {
	*rasterx.Dasher
}

func (s stroker) SetColor(color wvgicon.Color) { s.Scanner.SetColor(color) }

// miterLimit has no effect with round joins
const miterLimit = fixed.Int26_6(4 << 6)

func (s stroker) SetStrokeOptions(options wvgicon.StrokeOptions) {
	s.SetStroke(options.LineWidth, miterLimit, rasterx.RoundCap, rasterx.RoundCap,
		rasterx.RoundGap, rasterx.Round, options.Dash, options.DashOffset)
}

// RasterDocument uses a ScannerGV instance to render the
// document into an image and returns it.
// The image has the size of the drawing area, multiplied by `scale`.
func RasterDocument(doc *wvgicon.Document, opts wvgicon.Options, scale float64) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	w, h := doc.Size()
	width, height := int(math.Ceil(w*scale)), int(math.Ceil(h*scale))
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	renderer := NewRenderer(width, height, scanner)
	doc.Draw(renderer, opts, wvgpath.Identity.Scale(scale, scale))
	return img
}

// Converter outputs PNG images.
type Converter struct {
	Options wvgicon.Options
	// Scale is the number of pixels for one drawing unit.
	// Zero means 1.
	Scale float64
}

// Convert implements wvgicon.Converter.
func (c Converter) Convert(doc *wvgicon.Document) ([]byte, error) {
	img := RasterDocument(doc, c.Options, c.Scale)
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return nil, &wvgicon.ConversionError{Format: "png", Err: err}
	}
	return b.Bytes(), nil
}

// Extension implements wvgicon.Converter.
func (Converter) Extension() string { return "png" }
