package hamming

import (
	"errors"
	"testing"
)

func TestEncode_RoundTripAllBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		cw := Encode(byte(b))

		if got := ExtractUnit(cw); got != byte(b) {
			t.Errorf("ExtractUnit(Encode(%#02x)) = %#02x", b, got)
		}
		if chk := Validate(cw); !chk.Valid() {
			t.Errorf("Encode(%#02x) = %s failed validation: %+v", b, cw, chk)
		}
		if cw&^codewordMask != 0 {
			t.Errorf("Encode(%#02x) set bits above position %d", b, CodewordLength-1)
		}
	}
}

func TestEncode_KnownCodeword(t *testing.T) {
	testCases := []struct {
		name string
		unit byte
		want string
	}{
		{name: "letter A", unit: 'A', want: "1000100100010"},
		{name: "zero byte", unit: 0x00, want: "0000000000000"},
		{name: "all ones", unit: 0xFF, want: "1110111011110"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cw := Encode(tc.unit)
			if cw.String() != tc.want {
				t.Errorf("Encode(%q) = %s, want %s", tc.unit, cw, tc.want)
			}

			unit, outcome, err := DecodeUnit(cw)
			if err != nil {
				t.Fatalf("DecodeUnit failed: %v", err)
			}
			if unit != tc.unit || outcome != Clean {
				t.Errorf("DecodeUnit = (%q, %s), want (%q, clean)", unit, outcome, tc.unit)
			}
		})
	}
}

func TestCorrect_EverySingleFlip(t *testing.T) {
	for b := 0; b < 256; b++ {
		orig := Encode(byte(b))
		for pos := 0; pos < CodewordLength; pos++ {
			bad := orig.Flip(pos)

			chk := Validate(bad)
			if chk.Valid() {
				t.Fatalf("byte %#02x: flip at %d passed validation", b, pos)
			}

			fixed, err := Correct(bad, chk)
			if err != nil {
				t.Fatalf("byte %#02x: flip at %d: Correct failed: %v", b, pos, err)
			}
			if fixed != orig {
				t.Errorf("byte %#02x: flip at %d corrected to %s, want %s", b, pos, fixed, orig)
			}

			unit, outcome, err := DecodeUnit(bad)
			if err != nil || unit != byte(b) || outcome != Corrected {
				t.Errorf("byte %#02x: flip at %d: DecodeUnit = (%#02x, %s, %v)", b, pos, unit, outcome, err)
			}
		}
	}
}

func TestDecodeUnit_EveryDoubleFlipDetected(t *testing.T) {
	for b := 0; b < 256; b++ {
		orig := Encode(byte(b))
		for i := 0; i < CodewordLength; i++ {
			for j := i + 1; j < CodewordLength; j++ {
				bad := orig.Flip(i).Flip(j)

				if Validate(bad).Valid() {
					t.Fatalf("byte %#02x: flips at %d,%d passed validation", b, i, j)
				}

				unit, outcome, err := DecodeUnit(bad)
				if !errors.Is(err, ErrUncorrectable) {
					t.Fatalf("byte %#02x: flips at %d,%d: expected ErrUncorrectable, got %v (unit %#02x)", b, i, j, err, unit)
				}
				if outcome != Uncorrectable {
					t.Errorf("byte %#02x: flips at %d,%d: outcome %s", b, i, j, outcome)
				}
			}
		}
	}
}

func TestValidate_ReportsFailingSlots(t *testing.T) {
	cw := Encode('A')

	t.Run("data bit covered by two slots", func(t *testing.T) {
		// position 2 is 1-indexed 3 = slots 0 and 1
		chk := Validate(cw.Flip(2))
		if len(chk.Failing) != 2 || chk.Failing[0] != 0 || chk.Failing[1] != 1 {
			t.Errorf("Failing = %v, want [0 1]", chk.Failing)
		}
		if !chk.OverallMismatch {
			t.Error("expected overall mismatch for a single flip")
		}
	})

	t.Run("overall parity bit", func(t *testing.T) {
		chk := Validate(cw.Flip(12))
		if len(chk.Failing) != 0 {
			t.Errorf("Failing = %v, want none", chk.Failing)
		}
		if !chk.OverallMismatch {
			t.Error("expected overall mismatch")
		}
	})

	t.Run("double flip keeps overall parity", func(t *testing.T) {
		chk := Validate(cw.Flip(2).Flip(5))
		if chk.OverallMismatch {
			t.Error("two flips must leave overall parity consistent")
		}
		if len(chk.Failing) == 0 {
			t.Error("expected failing slots for a double flip")
		}
	})
}

func TestCorrect_SyndromeOutOfRange(t *testing.T) {
	// slots 0,1,3,7 sum to windows 1+2+4+8 = 15, past the last bit
	_, err := Correct(Encode(0), Check{Failing: []int{0, 1, 3, 7}})
	if !errors.Is(err, ErrUncorrectable) {
		t.Errorf("expected ErrUncorrectable, got %v", err)
	}
}

func TestCorrect_ValidCodewordUnchanged(t *testing.T) {
	cw := Encode(0x5a)
	fixed, err := Correct(cw, Validate(cw))
	if err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	if fixed != cw {
		t.Errorf("Correct changed a valid codeword: %s -> %s", cw, fixed)
	}
}

func TestParseCodeword(t *testing.T) {
	cw := Encode('z')
	parsed, err := ParseCodeword(cw.String())
	if err != nil {
		t.Fatalf("ParseCodeword failed: %v", err)
	}
	if parsed != cw {
		t.Errorf("ParseCodeword(%s) = %s", cw, parsed)
	}

	for _, bad := range []string{"", "101", "10001001000102", "100010010001x"} {
		if _, err := ParseCodeword(bad); !errors.Is(err, ErrMalformedCodeword) {
			t.Errorf("ParseCodeword(%q): expected ErrMalformedCodeword, got %v", bad, err)
		}
	}
}

func TestOutcome_String(t *testing.T) {
	if Clean.String() != "clean" || Corrected.String() != "corrected" || Uncorrectable.String() != "uncorrectable" {
		t.Error("unexpected outcome names")
	}
	if Outcome(7).String() != "Outcome(7)" {
		t.Errorf("got %s", Outcome(7))
	}
}
