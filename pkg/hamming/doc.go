// Package hamming implements the extended Hamming (SECDED) code used by helix
// to protect every input byte before it is written as nucleotide symbols.
//
// # Codeword Format
//
// A byte is spread over a 13-bit codeword. Positions are 0-indexed:
//
//	pos:  0  1  2  3  4  5  6  7  8  9 10 11 12
//	      P  P  D  P  D  D  D  P  D  D  D  D  O
//
// Fields:
//   - P: positional parity bits at the power-of-two slots 0, 1, 3 and 7
//   - D: the eight data bits, most significant bit first
//   - O: overall parity over positions 0..11
//
// The parity bit at position p covers a window of p+1 bits: starting at p,
// p+1 positions are included, p+1 skipped, and so on up to the overall slot.
//
// # Validation and Correction
//
//	cw := hamming.Encode('A')
//
//	check := hamming.Validate(cw)
//	if !check.Valid() {
//	    cw, err = hamming.Correct(cw, check)
//	}
//
// DecodeUnit runs validate, correct and re-validate in one step and reports
// whether the unit was clean, corrected, or uncorrectable. A single flipped
// bit anywhere in the codeword is repaired. Two flipped bits are always
// detected and reported with ErrUncorrectable.
//
// # Thread Safety
//
// The layout is computed once at package initialisation and never mutated.
// Codeword is a plain value type; all functions are safe for concurrent use.
package hamming
