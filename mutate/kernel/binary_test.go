package kernel

import (
	"reflect"
	"testing"
)

func TestBinaryAllZero(t *testing.T) {
	got, err := Binary("0000")
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	want := []string{"0000", "1000", "1100", "1110", "1111", "0101", "1010"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Binary(0000) = %v, want %v", got, want)
	}
}

func TestBinaryAllOne(t *testing.T) {
	got, err := Binary("1111")
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	want := []string{"1111", "1110", "1100", "1000", "0000", "0101", "1010"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Binary(1111) = %v, want %v", got, want)
	}
}

func TestBinaryGeneralWidth8(t *testing.T) {
	got, err := Binary("10101010")
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	want := []string{
		"10101010",
		"01010101",
		"01010100", "10101000", "01010000", "10100000", "01000000", "10000000", "00000000", "00000000",
		"11010101", "11101010", "11110101", "11111010", "11111101", "11111110", "11111111", "11111111",
		"01010101", "10101010",
		"10101010",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Binary(10101010) =\n%v\nwant\n%v", got, want)
	}
	if len(got) != 21 {
		t.Fatalf("len = %d, want 21", len(got))
	}
}

func TestBinaryIdentityIsFirst(t *testing.T) {
	for _, c := range []string{"0000", "1111", "10101010", "0110"} {
		got, err := Binary(c)
		if err != nil {
			t.Fatalf("Binary(%s): %v", c, err)
		}
		if got[0] != c {
			t.Fatalf("identity not first for %s: got %v", c, got)
		}
	}
}

func TestBinaryWidthPreserved(t *testing.T) {
	for _, c := range []string{"0000", "1111", "10101010", "011", "00000"} {
		got, err := Binary(c)
		if err != nil {
			t.Fatalf("Binary(%s): %v", c, err)
		}
		for _, m := range got {
			if len(m) != len(c) {
				t.Fatalf("Binary(%s) produced %q with width %d, want %d", c, m, len(m), len(c))
			}
		}
	}
}

func TestBinaryNoEndianForUnalignedWidth(t *testing.T) {
	// width 3: general branch, no endian swap -> 2n+4 = 10 entries.
	got, err := Binary("011")
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if len(got) != 2*3+4 {
		t.Fatalf("len = %d, want %d", len(got), 2*3+4)
	}
}

func TestBinaryEmptyError(t *testing.T) {
	if _, err := Binary(""); err == nil {
		t.Fatalf("expected error for empty bit-string")
	}
}
