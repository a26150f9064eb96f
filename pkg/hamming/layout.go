package hamming

import "fmt"

const (
	// UnitBits is the number of data bits carried by one codeword
	UnitBits = 8
	// CodewordLength is the number of bits in an encoded unit, overall parity included
	CodewordLength = 13
)

// Layout describes where parity and data bits live inside a codeword
type Layout struct {
	Parity  []int // positional parity slots, ascending
	Data    []int // data slots, ascending
	Overall int   // slot of the overall parity bit
	Length  int   // total codeword length

	cover []uint16 // covering mask per positional parity slot
	body  uint16   // every slot below Overall
}

// std is the process-wide layout for UnitBits.
var std = mustLayout(UnitBits)

// ComputeLayout returns the parity layout for a unit of the given width.
// Parity slots sit at the 0-indexed power-of-two offsets while the offset
// stays within unitBits plus the parity slots chosen so far; one more slot is
// appended for the overall parity bit. Codewords wider than 16 bits are not
// representable and cause a panic.
func ComputeLayout(unitBits int) Layout {
	var parity []int
	for p := 1; p-1 <= unitBits+len(parity); p *= 2 {
		parity = append(parity, p-1)
	}

	l := Layout{
		Parity:  parity,
		Overall: unitBits + len(parity),
		Length:  unitBits + len(parity) + 1,
	}
	if l.Length > 16 {
		panic(fmt.Sprintf("hamming: %d-bit units do not fit a 16-bit codeword", unitBits))
	}

	isParity := make(map[int]bool, len(parity))
	for _, p := range parity {
		isParity[p] = true
	}
	for pos := 0; pos < l.Overall; pos++ {
		if !isParity[pos] {
			l.Data = append(l.Data, pos)
		}
		l.body |= 1 << pos
	}

	for _, p := range parity {
		l.cover = append(l.cover, coverMask(p, l.Overall))
	}

	return l
}

// StandardLayout returns a copy of the layout used by Encode and Validate
func StandardLayout() Layout {
	l := std
	l.Parity = append([]int(nil), std.Parity...)
	l.Data = append([]int(nil), std.Data...)
	l.cover = append([]uint16(nil), std.cover...)
	return l
}

// Covers reports whether the parity slot p covers position pos
func (l Layout) Covers(p, pos int) bool {
	for i, slot := range l.Parity {
		if slot == p {
			return l.cover[i]&(1<<pos) != 0
		}
	}
	return false
}

// coverMask walks the covering set of the parity slot p: include p+1
// positions, skip p+1, repeat, stopping before limit.
func coverMask(p, limit int) uint16 {
	var mask uint16
	window := p + 1
	run := 0
	for pos := p; pos < limit; pos++ {
		mask |= 1 << pos
		run++
		if run == window {
			pos += window
			run = 0
		}
	}
	return mask
}

func mustLayout(unitBits int) Layout {
	l := ComputeLayout(unitBits)
	if l.Length != CodewordLength || len(l.Data) != UnitBits {
		panic(fmt.Sprintf("hamming: layout for %d bits has length %d, want %d", unitBits, l.Length, CodewordLength))
	}
	return l
}
