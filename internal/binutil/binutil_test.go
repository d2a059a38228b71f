package binutil

import (
	"errors"
	"testing"
)

func TestTake(t *testing.T) {
	rest, prefix, err := Take([]byte{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatalf("Take returned error: %v", err)
	}
	if string(prefix) != string([]byte{1, 2}) {
		t.Errorf("prefix = %v; want [1 2]", prefix)
	}
	if string(rest) != string([]byte{3, 4}) {
		t.Errorf("rest = %v; want [3 4]", rest)
	}
}

func TestTakeEOF(t *testing.T) {
	_, _, err := Take([]byte{1, 2}, 3)
	if !errors.Is(err, ErrEOF) {
		t.Errorf("err = %v; want ErrEOF", err)
	}
}

func TestU16(t *testing.T) {
	rest, v, err := U16([]byte{0x34, 0x12, 0xff})
	if err != nil {
		t.Fatalf("U16 returned error: %v", err)
	}
	if v != 0x1234 {
		t.Errorf("v = %#x; want 0x1234", v)
	}
	if len(rest) != 1 {
		t.Errorf("len(rest) = %d; want 1", len(rest))
	}
}

func TestU16EOF(t *testing.T) {
	_, _, err := U16([]byte{0x01})
	if !errors.Is(err, ErrEOF) {
		t.Errorf("err = %v; want ErrEOF", err)
	}
}

func TestU32(t *testing.T) {
	rest, v, err := U32([]byte{0x78, 0x56, 0x34, 0x12, 0xff})
	if err != nil {
		t.Fatalf("U32 returned error: %v", err)
	}
	if v != 0x12345678 {
		t.Errorf("v = %#x; want 0x12345678", v)
	}
	if len(rest) != 1 {
		t.Errorf("len(rest) = %d; want 1", len(rest))
	}
}

func TestU32EOF(t *testing.T) {
	_, _, err := U32([]byte{0x01, 0x02, 0x03})
	if !errors.Is(err, ErrEOF) {
		t.Errorf("err = %v; want ErrEOF", err)
	}
}
