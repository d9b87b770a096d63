package wvgicon

// Options parametrizes the conversion of a document.
type Options struct {
	// IncludeComments is reserved for annotated outputs,
	// and currently ignored.
	IncludeComments bool
	// PrettyPrint indents markup outputs.
	PrettyPrint bool
	// LineWidthScale multiplies the predefined line widths.
	LineWidthScale Optional[float64]
}

// WithComments returns a copy of `o` with IncludeComments set.
func (o Options) WithComments(include bool) Options {
	o.IncludeComments = include
	return o
}

// WithPrettyPrint returns a copy of `o` with PrettyPrint set.
func (o Options) WithPrettyPrint(pretty bool) Options {
	o.PrettyPrint = pretty
	return o
}

// WithLineWidthScale returns a copy of `o` with LineWidthScale set.
func (o Options) WithLineWidthScale(scale float64) Options {
	o.LineWidthScale = Some(scale)
	return o
}

// LineWidth returns the stroke width for `w`, scaled by LineWidthScale.
func (o Options) LineWidth(w LineWidth) float64 {
	return w.Width() * o.LineWidthScale.Or(1)
}

// Converter serializes a decoded document to an output format,
// such as SVG, PNG or PDF.
type Converter interface {
	// Convert returns the encoded output.
	Convert(doc *Document) ([]byte, error)
	// Extension returns the usual file extension of the output, like "svg".
	Extension() string
}
