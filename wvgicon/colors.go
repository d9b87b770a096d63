package wvgicon

// websafe is the fixed table indexed by 8 bit color values:
// the 6x6x6 color cube (without black), followed by some grays
// and a few extra colors.
var websafe = func() (table [256]Color) {
	levels := [6]uint8{255, 204, 153, 102, 51, 0}
	i := 0
	for _, blues := range [2][]uint8{levels[:3], levels[3:]} {
		for _, r := range levels {
			for _, b := range blues {
				for _, g := range levels {
					if i < 215 {
						table[i] = Color{r, g, b}
					}
					i++
				}
			}
		}
	}
	i = 215
	for _, v := range [...]uint8{17, 34, 68, 85, 119, 136, 170, 187, 221, 238, 192} {
		table[i] = Color{v, v, v}
		i++
	}
	for _, c := range [...]Color{{128, 0, 0}, {128, 0, 128}, {0, 128, 0}, {0, 128, 128}} {
		table[i] = c
		i++
	}
	return table
}()

// WebsafeColor returns the color of the websafe table at `index`.
func WebsafeColor(index uint8) Color { return websafe[index] }

var predefined = [4]Color{White, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}}

func rgb6(v uint32) Color {
	return Color{
		R: uint8((v >> 4 & 0x3) * 85),
		G: uint8((v >> 2 & 0x3) * 85),
		B: uint8((v & 0x3) * 85),
	}
}

func rgb12(v uint32) Color {
	return Color{
		R: uint8((v >> 8 & 0xF) * 17),
		G: uint8((v >> 4 & 0xF) * 17),
		B: uint8((v & 0xF) * 17),
	}
}

// readColorScheme decodes the prefix code of the scheme, and the palette
// for the palette schemes.
func (c *decoder) readColorScheme() (ColorScheme, []Color, error) {
	b1 := c.bit()
	b2 := c.bit()
	if c.err != nil {
		return 0, nil, c.err
	}
	if !b1 {
		if !b2 {
			return BlackAndWhite, nil, nil
		}
		if c.bit() {
			return Predefined2Bit, nil, c.err
		}
		return Grayscale2Bit, nil, c.err
	}
	if !b2 {
		if c.bit() {
			return Websafe, nil, c.err
		}
		return RGB6Bit, nil, c.err
	}
	switch suffix := c.bits(2); suffix {
	case 0:
		n := int(c.bits(5)) + 1
		palette := make([]Color, 0, n)
		for i := 0; i < n && c.err == nil; i++ {
			palette = append(palette, rgb6(c.bits(6)))
		}
		return RGB6BitPalette, palette, c.err
	case 1:
		n := int(c.bits(7)) + 1
		palette := make([]Color, 0, n)
		for i := 0; i < n && c.err == nil; i++ {
			palette = append(palette, websafe[c.bits(8)])
		}
		return WebsafePalette, palette, c.err
	case 2:
		return RGB12Bit, nil, c.err
	case 3:
		return RGB24Bit, nil, c.err
	default: // only on read errors
		if c.err != nil {
			return 0, nil, c.err
		}
		return 0, nil, ErrInvalidColorScheme
	}
}

// readColor decodes one color using the active scheme.
// Palette lookups are not supported: black is returned
// and no bits are consumed.
func (c *decoder) readColor() Color {
	switch c.doc.Header.Colors.Scheme {
	case BlackAndWhite:
		if c.bit() {
			return Black
		}
		return White
	case Grayscale2Bit:
		v := uint8(c.bits(2) * 85)
		return Color{v, v, v}
	case Predefined2Bit:
		return predefined[c.bits(2)]
	case RGB6Bit:
		return rgb6(c.bits(6))
	case Websafe:
		return websafe[c.bits(8)]
	case RGB12Bit:
		return rgb12(c.bits(12))
	case RGB24Bit:
		r, g, b := c.bits(8), c.bits(8), c.bits(8)
		return Color{uint8(r), uint8(g), uint8(b)}
	default:
		c.log.Warn("palette color lookup is not supported, using black")
		return Black
	}
}
