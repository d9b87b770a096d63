package wvgicon

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// gsmBasic is the GSM 03.38 default alphabet. The escape code (0x1B)
// maps to a non breaking space when not followed by an extension code.
var gsmBasic = []rune("@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞ\u00a0ÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà")

// gsmExtension is the table reached through the escape code.
var gsmExtension = map[byte]rune{
	0x0A: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2F: '\\',
	0x3C: '[',
	0x3D: '~',
	0x3E: ']',
	0x40: '|',
	0x65: '€',
}

const gsmEscape = 0x1B

// gsmDecoder converts unpacked septets (one per byte) to UTF-8.
type gsmDecoder struct{ transform.NopResetter }

func (gsmDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c, size := src[nSrc]&0x7F, 1
		r := gsmBasic[c]
		if c == gsmEscape {
			if nSrc+1 >= len(src) {
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
			} else {
				next := src[nSrc+1] & 0x7F
				if ext, ok := gsmExtension[next]; ok {
					r = ext
				} else {
					r = gsmBasic[next]
				}
				size = 2
			}
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}

// decodeGSM7 decodes unpacked GSM 7 bit characters.
func decodeGSM7(septets []byte) (string, error) {
	s, _, err := transform.String(gsmDecoder{}, string(septets))
	return s, err
}

// decodeUCS2 decodes big endian UCS-2 code units.
func decodeUCS2(units []uint16) (string, error) {
	raw := make([]byte, 0, 2*len(units))
	for _, u := range units {
		raw = append(raw, byte(u>>8), byte(u))
	}
	r, err := charset.NewReaderLabel("utf-16be", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(r)
	return string(out), err
}

// readString decodes an optional author or title string:
// a presence bit, an 8 bit length and the characters.
func (c *decoder) readString(mode TextCodeMode) Optional[string] {
	if !c.bit() {
		return Optional[string]{}
	}
	length := int(c.bits(8))
	var (
		s   string
		err error
	)
	switch mode {
	case UCS2:
		units := make([]uint16, 0, length)
		for i := 0; i < length && c.err == nil; i++ {
			units = append(units, uint16(c.bits(mode.bits())))
		}
		s, err = decodeUCS2(units)
	default:
		septets := make([]byte, 0, length)
		for i := 0; i < length && c.err == nil; i++ {
			septets = append(septets, byte(c.bits(mode.bits())))
		}
		s, err = decodeGSM7(septets)
	}
	if c.err != nil {
		return Optional[string]{}
	}
	if err != nil {
		c.fail(ParseError{Msg: "invalid " + mode.String() + " string: " + err.Error()})
		return Optional[string]{}
	}
	return Some(s)
}
