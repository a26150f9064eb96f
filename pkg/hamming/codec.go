package hamming

import (
	"errors"
	"fmt"
)

var (
	// ErrUncorrectable is returned when a codeword is still invalid after
	// single-bit correction was attempted
	ErrUncorrectable = errors.New("uncorrectable codeword")
	// ErrMalformedCodeword is returned by ParseCodeword
	ErrMalformedCodeword = errors.New("malformed codeword")
)

// Outcome classifies how a unit came out of DecodeUnit
type Outcome int

const (
	Clean Outcome = iota
	Corrected
	Uncorrectable
)

func (o Outcome) String() string {
	switch o {
	case Clean:
		return "clean"
	case Corrected:
		return "corrected"
	case Uncorrectable:
		return "uncorrectable"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Check is the result of validating a codeword
type Check struct {
	Failing         []int // positional parity slots whose checksum is odd
	OverallMismatch bool  // overall parity disagrees with positions 0..11
}

// Valid reports whether every parity invariant holds
func (c Check) Valid() bool {
	return len(c.Failing) == 0 && !c.OverallMismatch
}

// Encode spreads unit over a codeword and fills in every parity bit
func Encode(unit byte) Codeword {
	var cw Codeword
	for i, pos := range std.Data {
		cw = cw.Set(pos, unit>>(UnitBits-1-i))
	}

	// parity slots are still zero, so the covering sum equals the data sum
	for i, pos := range std.Parity {
		cw = cw.Set(pos, parity(cw&Codeword(std.cover[i])))
	}

	return cw.Set(std.Overall, parity(cw&Codeword(std.body)))
}

// Validate recomputes every positional checksum and the overall parity
func Validate(cw Codeword) Check {
	var chk Check
	for i, pos := range std.Parity {
		if parity(cw&Codeword(std.cover[i])) != 0 {
			chk.Failing = append(chk.Failing, pos)
		}
	}
	chk.OverallMismatch = parity(cw&Codeword(std.body)) != cw.Bit(std.Overall)
	return chk
}

// Correct flips the bit located by chk. The location is the sum of the
// failing windows (slot+1) less one, which for a lone failing slot is the
// slot itself. When only the overall parity disagrees the overall bit is
// flipped. The caller must re-validate the result.
func Correct(cw Codeword, chk Check) (Codeword, error) {
	if len(chk.Failing) == 0 {
		if chk.OverallMismatch {
			return cw.Flip(std.Overall), nil
		}
		return cw, nil
	}

	idx := -1
	for _, pos := range chk.Failing {
		idx += pos + 1
	}
	if idx >= std.Length {
		return cw, fmt.Errorf("%w: syndrome points past bit %d", ErrUncorrectable, std.Length-1)
	}

	return cw.Flip(idx), nil
}

// ExtractUnit packs the data bits back into a byte
func ExtractUnit(cw Codeword) byte {
	var unit byte
	for _, pos := range std.Data {
		unit = unit<<1 | cw.Bit(pos)
	}
	return unit
}

// DecodeUnit validates cw, corrects a single flipped bit if needed and
// returns the carried byte. Uncorrectable codewords return ErrUncorrectable
// and a zero byte.
func DecodeUnit(cw Codeword) (byte, Outcome, error) {
	chk := Validate(cw)
	if chk.Valid() {
		return ExtractUnit(cw), Clean, nil
	}

	fixed, err := Correct(cw, chk)
	if err != nil {
		return 0, Uncorrectable, err
	}
	if !Validate(fixed).Valid() {
		return 0, Uncorrectable, ErrUncorrectable
	}

	return ExtractUnit(fixed), Corrected, nil
}
