package tm1637

import "unicode"

// Digits maps the hexadecimal digits 0-F to segment patterns.
// Bit order: DP.G.F.E.D.C.B.A (bit7=DP, bit6=G, ..., bit0=A)
var Digits = [16]byte{
	0x3f, 0x06, 0x5b, 0x4f, // 0 1 2 3
	0x66, 0x6d, 0x7d, 0x07, // 4 5 6 7
	0x7f, 0x6f, 0x77, 0x7c, // 8 9 A b
	0x39, 0x5e, 0x79, 0x71, // C d E F
}

// glyphs holds everything that is not a hex digit. Letters are lowercase;
// Encode folds case.
var glyphs = map[rune]byte{
	'g': 0x6f, // Same as 9
	'h': 0x76,
	'i': 0x04,
	'j': 0x1e,
	'k': 0x76, // Same as h
	'l': 0x38,
	'm': 0x37,
	'n': 0x54,
	'o': 0x5c,
	'p': 0x73,
	'q': 0x67,
	'r': 0x50,
	's': 0x6d, // Same as 5
	't': 0x78,
	'u': 0x3e,
	'v': 0x3e, // Same as u
	'w': 0x7e,
	'x': 0x76, // Same as h
	'y': 0x6e,
	'z': 0x5b, // Same as 2
	' ': 0x00,
	'-': 0x40,
	'_': 0x08, // Segment D
	'°': 0x63, // Segments A, B, G, F
}

// Encode returns the segment pattern for r. Unknown runes return 0 (blank)
// and false.
func Encode(r rune) (byte, bool) {
	r = unicode.ToLower(r)
	switch {
	case r >= '0' && r <= '9':
		return Digits[r-'0'], true
	case r >= 'a' && r <= 'f':
		return Digits[r-'a'+10], true
	}
	b, ok := glyphs[r]
	return b, ok
}
