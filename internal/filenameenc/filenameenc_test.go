package filenameenc

import (
	"errors"
	"strings"
	"testing"
)

func TestOSNativeDecodesAsUTF8(t *testing.T) {
	p := NewOSNative()
	got, err := p.Decode([]byte("héllo.txt"))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got != "héllo.txt" {
		t.Errorf("Decode = %q; want héllo.txt", got)
	}
}

func TestOSNativeRejectsEmbeddedNUL(t *testing.T) {
	p := NewOSNative()
	_, err := p.Decode([]byte("bad\x00name.txt"))
	if !errors.Is(err, ErrUnrepresentable) {
		t.Fatalf("err = %v; want wrapping ErrUnrepresentable", err)
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("error %q should include a rendering of the offending bytes", err)
	}
}

func TestCharsetUnknownLabel(t *testing.T) {
	_, err := NewCharset("not-a-real-encoding")
	if err == nil {
		t.Fatal("expected error for unknown charset label")
	}
}

func TestCharsetWindows1252(t *testing.T) {
	p, err := NewCharset("windows-1252")
	if err != nil {
		t.Fatalf("NewCharset returned error: %v", err)
	}
	// 0xE9 in windows-1252 is U+00E9 (é).
	got, err := p.Decode([]byte{'c', 0xE9, '.', 't', 'x', 't'})
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got != "cé.txt" {
		t.Errorf("Decode = %q; want cé.txt", got)
	}
}

func TestAutoPrefersValidUTF8(t *testing.T) {
	p := NewAuto()
	got, err := p.Decode([]byte("日本語.txt"))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got != "日本語.txt" {
		t.Errorf("Decode = %q; want 日本語.txt", got)
	}
}

func TestAutoFallsBackOnInvalidUTF8(t *testing.T) {
	p := NewAuto()
	// A name that opens with a UTF-8 continuation byte (0x82) is never
	// valid UTF-8; Auto must still return some decoded string rather
	// than an error.
	_, err := p.Decode([]byte{0x82, 0xA0, '.', 't', 'x', 't'})
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
}
