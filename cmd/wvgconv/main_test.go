package main

import (
	"bytes"
	"errors"
	"image/png"
	"log/slog"
	"os"
	"testing"

	"github.com/benoitkugler/okwvg/bitstream"
	"github.com/benoitkugler/okwvg/wvgicon"
	"github.com/benoitkugler/okwvg/wvgsvg"
)

func TestConverterFor(t *testing.T) {
	for _, test := range []struct {
		name, out string
		ext       string
	}{
		{"", "-", "svg"},
		{"", "icon.SVG", "svg"},
		{"", "icon.png", "png"},
		{"", "out/icon.pdf", "pdf"},
		{"png", "icon.svg", "png"},
		{"pdf", "-", "pdf"},
	} {
		conv, err := converterFor(test.name, test.out, config{})
		if err != nil {
			t.Fatal(err)
		}
		if conv.Extension() != test.ext {
			t.Fatalf("%s %s: expected %s, got %s", test.name, test.out, test.ext, conv.Extension())
		}
	}

	if _, err := converterFor("gif", "-", config{}); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestOptions(t *testing.T) {
	opts := config{pretty: true}.options()
	if !opts.PrettyPrint || opts.LineWidthScale.Set {
		t.Fatalf("unexpected options %v", opts)
	}
	opts = config{lineScale: 2}.options()
	if opts.LineWidthScale != wvgicon.Some(2.) {
		t.Fatalf("unexpected line scale %v", opts.LineWidthScale)
	}
}

func TestParseVerbosity(t *testing.T) {
	for s, exp := range map[string]slog.Level{
		"quiet":   slog.LevelWarn,
		"normal":  slog.LevelInfo,
		"verbose": slog.LevelDebug,
	} {
		level, err := parseVerbosity(s)
		if err != nil {
			t.Fatal(err)
		}
		if level != exp {
			t.Fatalf("%s: expected %v, got %v", s, exp, level)
		}
	}
	if _, err := parseVerbosity("loud"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestConvert(t *testing.T) {
	data, err := os.ReadFile("testdata/sample.wvg")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := wvgicon.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	exp, err := wvgsvg.Render(doc, wvgicon.Options{})
	if err != nil {
		t.Fatal(err)
	}

	conv, _ := converterFor("", "icon.svg", config{})
	out, err := convert(bytes.NewReader(data), conv)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != exp {
		t.Fatalf("unexpected output %s", out)
	}

	conv, _ = converterFor("png", "-", config{scale: 2})
	out, err = convert(bytes.NewReader(data), conv)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 64 {
		t.Fatalf("unexpected image size %v", b)
	}
}

func TestConvertTruncated(t *testing.T) {
	data, err := os.ReadFile("testdata/sample.wvg")
	if err != nil {
		t.Fatal(err)
	}
	conv, _ := converterFor("svg", "-", config{})
	_, err = convert(bytes.NewReader(data[:40]), conv)
	if !errors.Is(err, bitstream.ErrEndOfStream) {
		t.Fatalf("expected end of stream, got %v", err)
	}
}
