package hamming

import (
	"fmt"
	"math/bits"
	"strings"
)

// Codeword holds one encoded unit. Bit i of the value is codeword position i;
// only the low CodewordLength bits are used.
type Codeword uint16

const codewordMask Codeword = 1<<CodewordLength - 1

// Bit returns the bit at position pos as 0 or 1
func (c Codeword) Bit(pos int) uint8 {
	return uint8(c>>pos) & 1
}

// Set returns c with position pos set to the low bit of v
func (c Codeword) Set(pos int, v uint8) Codeword {
	if v&1 == 1 {
		return c | 1<<pos
	}
	return c &^ (1 << pos)
}

// Flip returns c with position pos inverted
func (c Codeword) Flip(pos int) Codeword {
	return (c ^ 1<<pos) & codewordMask
}

// String renders the codeword as 0/1 characters, position 0 first
func (c Codeword) String() string {
	var b strings.Builder
	b.Grow(CodewordLength)
	for pos := 0; pos < CodewordLength; pos++ {
		b.WriteByte('0' + c.Bit(pos))
	}
	return b.String()
}

// ParseCodeword is the inverse of Codeword.String
func ParseCodeword(s string) (Codeword, error) {
	if len(s) != CodewordLength {
		return 0, fmt.Errorf("%w: %d bits, want %d", ErrMalformedCodeword, len(s), CodewordLength)
	}
	var c Codeword
	for pos := 0; pos < CodewordLength; pos++ {
		switch s[pos] {
		case '0':
		case '1':
			c |= 1 << pos
		default:
			return 0, fmt.Errorf("%w: %q at position %d", ErrMalformedCodeword, s[pos], pos)
		}
	}
	return c, nil
}

func parity(v Codeword) uint8 {
	return uint8(bits.OnesCount16(uint16(v)) & 1)
}
