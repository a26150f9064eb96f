// Package alphabet maps hamming codewords to nucleotide symbols and back.
//
// Zero bits are written with the low-class symbols A and C, one bits with the
// high-class symbols G and T. Within a class the symbol alternates on every
// use, starting again from A and G at each codeword, so two consecutive
// symbols of the same class are never identical. A group that breaks that
// rule was corrupted even if its parity still checks out.
package alphabet

import (
	"errors"
	"fmt"

	"github.com/ssargent/helixcode/pkg/hamming"
)

// GroupLength is the number of symbols written per codeword
const GroupLength = hamming.CodewordLength

const (
	BaseA byte = 'A'
	BaseC byte = 'C'
	BaseG byte = 'G'
	BaseT byte = 'T'
)

// indexed by the class flag: false picks the first symbol
var (
	lowClass  = [2]byte{BaseA, BaseC}
	highClass = [2]byte{BaseG, BaseT}
)

var (
	ErrUnrecognizedSymbol = errors.New("unrecognized symbol")
	ErrGroupLength        = errors.New("symbol group has wrong length")
)

// SymbolError reports an unrecognized symbol and where it was found
type SymbolError struct {
	Offset int
	Symbol byte
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("unrecognized symbol %q at offset %d", e.Symbol, e.Offset)
}

func (e *SymbolError) Unwrap() error {
	return ErrUnrecognizedSymbol
}

// ToSymbols converts a codeword into its symbol group
func ToSymbols(cw hamming.Codeword) [GroupLength]byte {
	var g [GroupLength]byte
	AppendSymbols(g[:0], cw)
	return g
}

// AppendSymbols appends the symbol group for cw to dst
func AppendSymbols(dst []byte, cw hamming.Codeword) []byte {
	var low, high int
	for pos := 0; pos < GroupLength; pos++ {
		if cw.Bit(pos) == 0 {
			dst = append(dst, lowClass[low])
			low ^= 1
		} else {
			dst = append(dst, highClass[high])
			high ^= 1
		}
	}
	return dst
}

// FromSymbols maps a symbol group back to a codeword by class
func FromSymbols(group []byte) (hamming.Codeword, error) {
	if len(group) != GroupLength {
		return 0, fmt.Errorf("%w: %d, want %d", ErrGroupLength, len(group), GroupLength)
	}

	var cw hamming.Codeword
	for pos, s := range group {
		switch s {
		case BaseA, BaseC:
		case BaseG, BaseT:
			cw = cw.Set(pos, 1)
		default:
			return 0, &SymbolError{Offset: pos, Symbol: s}
		}
	}
	return cw, nil
}

// CheckAlternation replays both class toggles over group and reports false
// at the first symbol that is not the one the toggle expects. Unrecognized
// symbols also report false.
func CheckAlternation(group []byte) bool {
	var low, high int
	for _, s := range group {
		switch s {
		case BaseA, BaseC:
			if s != lowClass[low] {
				return false
			}
			low ^= 1
		case BaseG, BaseT:
			if s != highClass[high] {
				return false
			}
			high ^= 1
		default:
			return false
		}
	}
	return true
}
