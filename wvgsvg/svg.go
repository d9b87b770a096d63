// Implements the conversion of WVG documents to SVG markup.
package wvgsvg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benoitkugler/okwvg/wvgicon"
	"github.com/benoitkugler/okwvg/wvgpath"
)

var _ wvgicon.Converter = Converter{} // assert interface conformance

// Converter outputs SVG files.
type Converter struct {
	Options wvgicon.Options
}

// Convert implements wvgicon.Converter.
func (c Converter) Convert(doc *wvgicon.Document) ([]byte, error) {
	out, err := Render(doc, c.Options)
	if err != nil {
		return nil, &wvgicon.ConversionError{Format: "svg", Err: err}
	}
	return []byte(out), nil
}

// Extension implements wvgicon.Converter.
func (Converter) Extension() string { return "svg" }

// Render returns the SVG markup of the document.
// Elements keep their position as identifier (el_0, el_1, ...),
// so that reuse elements are written as <use> references.
func Render(doc *wvgicon.Document, opts wvgicon.Options) (string, error) {
	w := writer{doc: doc, opts: opts}
	w.header()
	for _, el := range doc.Elements {
		w.element(el)
	}
	// the format does not require balanced groups
	for ; w.openGroups > 0; w.openGroups-- {
		w.indent--
		w.line("</g>")
	}
	w.indent--
	w.line("</svg>")
	return w.out.String(), nil
}

type writer struct {
	doc  *wvgicon.Document
	opts wvgicon.Options

	out        strings.Builder
	indent     int
	openGroups int
}

// line writes one tag, indented if pretty printing is enabled.
func (w *writer) line(s string) {
	if w.opts.PrettyPrint {
		for i := 0; i < w.indent; i++ {
			w.out.WriteString("  ")
		}
	}
	w.out.WriteString(s)
	if w.opts.PrettyPrint {
		w.out.WriteByte('\n')
	}
}

func (w *writer) linef(format string, args ...interface{}) {
	w.line(fmt.Sprintf(format, args...))
}

func (w *writer) header() {
	width, height := w.doc.Size()
	w.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	w.linef(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s">`, formatFloat(width), formatFloat(height))
	w.indent++

	colors := w.doc.Header.Colors
	if bg, ok := colors.Background.Get(); ok {
		w.linef(`<rect width="%s" height="%s" fill="%s"/>`, formatFloat(width), formatFloat(height), bg.Hex())
	}
	stroke, fill := "#000000", "none"
	if c, ok := colors.Line.Get(); ok {
		stroke = c.Hex()
	}
	if c, ok := colors.Fill.Get(); ok {
		fill = c.Hex()
	}
	w.line("<defs>")
	w.indent++
	w.linef("<style>path, polyline, line, circle, ellipse, rect { stroke: %s; fill: %s; stroke-width: 1; }</style>", stroke, fill)
	w.indent--
	w.line("</defs>")
}

func (w *writer) element(el wvgicon.Element) {
	switch data := el.Data.(type) {
	case wvgicon.Polyline:
		w.polyline(el, data)
	case wvgicon.CircularPolyline:
		w.circularPolyline(el, data)
	case wvgicon.SimpleShape:
		style := w.style(data.Attributes)
		if data.Shape == wvgicon.Ellipse {
			w.linef(`<ellipse id="%s" cx="5" cy="5" rx="5" ry="5" %s/>`, el.Name(), style)
		} else {
			w.linef(`<rect id="%s" x="0" y="0" width="10" height="10" %s/>`, el.Name(), style)
		}
	case wvgicon.Reuse:
		w.reuse(el, data)
	case wvgicon.GroupStart:
		var transform, display string
		if t, ok := data.Transform.Get(); ok {
			transform = w.transform(t)
		}
		if !data.Visible {
			display = ` display="none"`
		}
		w.linef(`<g id="%s" %s%s>`, el.Name(), transform, display)
		w.indent++
		w.openGroups++
	case wvgicon.GroupEnd:
		if w.openGroups > 0 {
			w.openGroups--
			w.indent--
			w.line("</g>")
		}
	}
}

func (w *writer) polyline(el wvgicon.Element, pl wvgicon.Polyline) {
	if len(pl.Points) == 0 {
		return
	}
	style := w.style(pl.Attributes)
	if len(pl.Points) == 1 {
		p := pl.Points[0]
		w.linef(`<circle id="%s" cx="%d" cy="%d" r="1.0" %s/>`, el.Name(), p.X, p.Y, style)
		return
	}
	var d strings.Builder
	for i, p := range pl.Points {
		if i == 0 {
			fmt.Fprintf(&d, "M %d %d", p.X, p.Y)
			continue
		}
		delta := p.Sub(pl.Points[i-1])
		fmt.Fprintf(&d, " l %d %d", delta.X, delta.Y)
	}
	w.linef(`<path id="%s" d="%s" %s/>`, el.Name(), d.String(), style)
}

func (w *writer) circularPolyline(el wvgicon.Element, cp wvgicon.CircularPolyline) {
	if len(cp.Points) < 2 {
		return
	}
	bits := int(w.doc.Header.Codec.Generic.CurveOffsetBits.Or(4))
	points := wvgicon.CircularPath(cp.Points)
	var d strings.Builder
	fmt.Fprintf(&d, "M %d %d", points[0].X, points[0].Y)
	for i := 1; i < len(points); i++ {
		from, to := points[i-1], points[i]
		d.WriteByte(' ')
		d.WriteString(arcCommand(from, to, cp.Points[i].CurveOffset, bits))
	}
	w.linef(`<path id="%s" d="%s" %s/>`, el.Name(), d.String(), w.style(cp.Attributes))
}

// arcCommand returns the "A" command joining `from` and `to`,
// or a "L" command for straight segments.
func arcCommand(from, to wvgicon.Point, offset int32, bits int) string {
	if offset != 0 {
		arc, ok := wvgpath.CurveArc(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y), offset, bits)
		if ok {
			return fmt.Sprintf("A %.2f %.2f 0 %d %d %d %d", arc.Radius, arc.Radius, flag(arc.Large), flag(arc.Sweep), to.X, to.Y)
		}
	}
	return fmt.Sprintf("L %d %d", to.X, to.Y)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (w *writer) reuse(el wvgicon.Element, r wvgicon.Reuse) {
	ref := wvgicon.ElementName(r.Index)
	var style string
	if o, ok := r.Override.Get(); ok {
		style = w.style(o)
	}
	parts := w.transformParts(r.Transform)
	array, ok := r.Array.Get()
	if !ok {
		w.linef(`<use id="%s" href="#%s" %s %s/>`, el.Name(), ref, transformAttr(parts), style)
		return
	}
	width := array.Width.Or(0)
	height := array.Height.Or(width)
	for row := 0; row < int(array.Rows); row++ {
		for col := 0; col < int(array.Columns); col++ {
			instance := parts
			if tx, ty := int32(col)*width, int32(row)*height; tx != 0 || ty != 0 {
				instance = append(parts[:len(parts):len(parts)], fmt.Sprintf("translate(%d, %d)", tx, ty))
			}
			w.linef(`<use id="%s_%d_%d" href="#%s" %s %s/>`, el.Name(), row, col, ref, transformAttr(instance), style)
		}
	}
}

func (w *writer) transform(t wvgicon.Transform) string {
	return transformAttr(w.transformParts(t))
}

// transformParts returns the SVG transform functions for `t`:
// translation, rotation and scaling, in this order.
func (w *writer) transformParts(t wvgicon.Transform) []string {
	generic := w.doc.Header.Codec.Generic
	var parts []string
	if tx, ty := t.TranslateX.Or(0), t.TranslateY.Or(0); tx != 0 || ty != 0 {
		parts = append(parts, fmt.Sprintf("translate(%d, %d)", tx, ty))
	}
	if angle, ok := t.Angle.Get(); ok {
		degrees := formatFloat(float64(angle) * generic.AngleUnit())
		if cx, cy := t.CenterX.Or(0), t.CenterY.Or(0); cx != 0 || cy != 0 {
			parts = append(parts, fmt.Sprintf("rotate(%s %d %d)", degrees, cx, cy))
		} else {
			parts = append(parts, fmt.Sprintf("rotate(%s)", degrees))
		}
	}
	switch {
	case t.ScaleX.Set && t.ScaleY.Set:
		parts = append(parts, fmt.Sprintf("scale(%s %s)", formatFloat(generic.Scale(t.ScaleX.Val)), formatFloat(generic.Scale(t.ScaleY.Val))))
	case t.ScaleX.Set:
		parts = append(parts, fmt.Sprintf("scale(%s)", formatFloat(generic.Scale(t.ScaleX.Val))))
	case t.ScaleY.Set:
		parts = append(parts, fmt.Sprintf("scale(1 %s)", formatFloat(generic.Scale(t.ScaleY.Val))))
	}
	return parts
}

func transformAttr(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return `transform="` + strings.Join(parts, " ") + `"`
}

// style returns the style attribute overriding the default style,
// or an empty string.
func (w *writer) style(attrs wvgicon.Attributes) string {
	var styles []string
	if lt, ok := attrs.LineType.Get(); ok && lt != wvgicon.Solid {
		styles = append(styles, "stroke-dasharray: "+formatDash(lt.Dash()))
	}
	if lw, ok := attrs.LineWidth.Get(); ok {
		styles = append(styles, "stroke-width: "+formatFloat(w.opts.LineWidth(lw)))
	}
	if c, ok := attrs.LineColor.Get(); ok {
		styles = append(styles, "stroke: "+c.Hex())
	}
	if fill, ok := attrs.Fill.Get(); ok {
		if !fill {
			styles = append(styles, "fill: none")
		} else if c, ok := attrs.FillColor.Get(); ok {
			styles = append(styles, "fill: "+c.Hex())
		}
	}
	if len(styles) == 0 {
		return ""
	}
	return `style="` + strings.Join(styles, "; ") + `"`
}

func formatDash(dash []float64) string {
	chunks := make([]string, len(dash))
	for i, v := range dash {
		chunks[i] = formatFloat(v)
	}
	return strings.Join(chunks, " ")
}

// formatFloat uses the shortest representation, without exponent.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
