// Command wvgconv converts WVG vector graphics to SVG, PNG or PDF.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/okwvg/wvgicon"
	"github.com/benoitkugler/okwvg/wvgpdf"
	"github.com/benoitkugler/okwvg/wvgraster"
	"github.com/benoitkugler/okwvg/wvgsvg"
	"golang.org/x/term"
)

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

var (
	source      = flag.String("in", pipeName, "Source WVG file")
	destination = flag.String("out", pipeName, "Destination file")
	format      = flag.String("format", "", "Output format: svg, png or pdf (default from the destination extension, else svg)")
	verbosity   = flag.String("v", "normal", "Verbosity: quiet, normal or verbose")
	pretty      = flag.Bool("pretty", false, "Indent the SVG output")
	lineScale   = flag.Float64("line-scale", 0, "Line width multiplier (0 keeps the predefined widths)")
	scale       = flag.Float64("scale", 1, "Output units per drawing unit, for png and pdf")
	crop        = flag.Bool("crop", false, "Crop the pdf page to the painted shapes")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level, err := parseVerbosity(*verbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	wvgicon.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	conv, err := converterFor(*format, *destination, config{
		pretty:    *pretty,
		lineScale: *lineScale,
		scale:     *scale,
		crop:      *crop,
	})
	if err != nil {
		return err
	}

	src, err := openSource(*source)
	if err != nil {
		return err
	}
	defer src.Close()

	output, err := convert(src, conv)
	if err != nil {
		return err
	}

	dst, err := openDestination(*destination)
	if err != nil {
		return err
	}
	if _, err := dst.Write(output); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	wvgicon.Logger().Info("conversion done", "out", *destination, "bytes", len(output))
	return nil
}

// convert decodes the WVG bytes from `src` and encodes them with `conv`.
func convert(src io.Reader, conv wvgicon.Converter) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	doc, err := wvgicon.Decode(data)
	if err != nil {
		return nil, err
	}
	return conv.Convert(doc)
}

type config struct {
	pretty    bool
	lineScale float64
	scale     float64
	crop      bool
}

func (c config) options() wvgicon.Options {
	opts := wvgicon.Options{}.WithPrettyPrint(c.pretty)
	if c.lineScale > 0 {
		opts = opts.WithLineWidthScale(c.lineScale)
	}
	return opts
}

// converterFor selects the output back end. An empty `name` is resolved
// from the extension of `out`.
func converterFor(name, out string, c config) (wvgicon.Converter, error) {
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
		if name == "" {
			name = "svg"
		}
	}
	switch name {
	case "svg":
		return wvgsvg.Converter{Options: c.options()}, nil
	case "png":
		return wvgraster.Converter{Options: c.options(), Scale: c.scale}, nil
	case "pdf":
		return wvgpdf.Converter{Options: c.options(), Scale: c.scale, Crop: c.crop}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", name)
	}
}

func parseVerbosity(s string) (slog.Level, error) {
	switch s {
	case "quiet":
		return slog.LevelWarn, nil
	case "normal":
		return slog.LevelInfo, nil
	case "verbose":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("invalid verbosity %q", s)
	}
}

func openSource(in string) (io.ReadCloser, error) {
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(in)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func openDestination(out string) (io.WriteCloser, error) {
	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(out)
}
