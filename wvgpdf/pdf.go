// Implements a PDF backend to render WVG images,
// by wrapping github.com/jung-kurt/gofpdf.
package wvgpdf

import (
	"bytes"

	"github.com/benoitkugler/okwvg/wvgicon"
	"github.com/benoitkugler/okwvg/wvgpath"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/math/fixed"
)

var (
	_ wvgicon.Driver    = Renderer{}
	_ wvgicon.Drawer    = filler{}
	_ wvgicon.Drawer    = fillColor{}
	_ wvgicon.Stroker   = stroker{}
	_ wvgicon.Converter = Converter{}
)

// Renderer writes the paths on the current page of a PDF document.
// A path is written once and painted by a single operator
// (f, S or B).
type Renderer struct {
	pdf *gofpdf.Fpdf
}

// NewRenderer returns a renderer drawing on the current page of `pdf`.
func NewRenderer(pdf *gofpdf.Fpdf) Renderer {
	return Renderer{pdf: pdf}
}

// SetupDrawers implements wvgicon.Driver.
func (r Renderer) SetupDrawers(willFill, willStroke bool) (f wvgicon.Drawer, s wvgicon.Stroker) {
	switch {
	case willFill && willStroke:
		// the stroker writes the path and paints both
		return fillColor{r.pdf}, stroker{pather{r.pdf}, "FD"}
	case willFill:
		return filler{pather{r.pdf}}, nil
	case willStroke:
		return nil, stroker{pather{r.pdf}, "D"}
	default:
		return nil, nil
	}
}

// pather writes the path construction operators.
type pather struct {
	pdf *gofpdf.Fpdf
}

func (p pather) Clear() {}

func (p pather) Start(a fixed.Point26_6) { p.pdf.MoveTo(wvgpath.FromFixedP(a)) }

func (p pather) Line(b fixed.Point26_6) { p.pdf.LineTo(wvgpath.FromFixedP(b)) }

func (p pather) CubeBezier(b, c, d fixed.Point26_6) {
	x1, y1 := wvgpath.FromFixedP(b)
	x2, y2 := wvgpath.FromFixedP(c)
	x3, y3 := wvgpath.FromFixedP(d)
	p.pdf.CurveBezierCubicTo(x1, y1, x2, y2, x3, y3)
}

func (p pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

type filler struct {
	pather
}

func (f filler) SetColor(color wvgicon.Color) {
	f.pdf.SetFillColor(int(color.R), int(color.G), int(color.B))
}

func (f filler) Draw() { f.pdf.DrawPath("F") }

// fillColor only selects the fill color, for paths
// painted by the stroker.
type fillColor struct {
	pdf *gofpdf.Fpdf
}

func (fillColor) Clear()                             {}
func (fillColor) Start(fixed.Point26_6)              {}
func (fillColor) Line(fixed.Point26_6)               {}
func (fillColor) CubeBezier(_, _, _ fixed.Point26_6) {}
func (fillColor) Stop(bool)                          {}
func (fillColor) Draw()                              {}

func (f fillColor) SetColor(color wvgicon.Color) {
	f.pdf.SetFillColor(int(color.R), int(color.G), int(color.B))
}

type stroker struct {
	pather
	style string // gofpdf DrawPath style
}

func (s stroker) SetColor(color wvgicon.Color) {
	s.pdf.SetDrawColor(int(color.R), int(color.G), int(color.B))
}

func (s stroker) SetStrokeOptions(options wvgicon.StrokeOptions) {
	s.pdf.SetLineWidth(float64(options.LineWidth) / 64)
	s.pdf.SetLineCapStyle("round")
	s.pdf.SetLineJoinStyle("round")
	s.pdf.SetDashPattern(options.Dash, options.DashOffset)
}

func (s stroker) Draw() { s.pdf.DrawPath(s.style) }

// Converter outputs single page PDF files.
type Converter struct {
	Options wvgicon.Options
	// Scale is the number of points for one drawing unit.
	// Zero means 1.
	Scale float64
	// Crop sizes the page to the painted shapes
	// instead of the drawing area.
	Crop bool
}

// Convert implements wvgicon.Converter.
func (c Converter) Convert(doc *wvgicon.Document) ([]byte, error) {
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	width, height := doc.Size()
	m := wvgpath.Identity.Scale(scale, scale)
	if c.Crop {
		if r, ok := doc.Bounds(c.Options); ok {
			width, height = r.Width(), r.Height()
			m = m.Translate(-r.MinX, -r.MinY)
		}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width * scale, Ht: height * scale},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	doc.Draw(NewRenderer(pdf), c.Options, m)

	var b bytes.Buffer
	if err := pdf.Output(&b); err != nil {
		return nil, &wvgicon.ConversionError{Format: "pdf", Err: err}
	}
	return b.Bytes(), nil
}

// Extension implements wvgicon.Converter.
func (Converter) Extension() string { return "pdf" }
