package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

func TestNewDecoderStore(t *testing.T) {
	r, err := NewDecoder(MethodStore, []byte("hello"))
	if err != nil {
		t.Fatalf("NewDecoder returned error: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q; want hello", got)
	}
}

func TestNewDecoderDeflate(t *testing.T) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter returned error: %v", err)
	}
	if _, err := w.Write([]byte("the quick brown fox jumps over the lazy dog")); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	r, err := NewDecoder(MethodDeflate, buf.Bytes())
	if err != nil {
		t.Fatalf("NewDecoder returned error: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if string(got) != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("got %q", got)
	}
}

func TestNewDecoderZstd(t *testing.T) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd.NewWriter returned error: %v", err)
	}
	if _, err := w.Write([]byte("the quick brown fox jumps over the lazy dog")); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	r, err := NewDecoder(MethodZstd, buf.Bytes())
	if err != nil {
		t.Fatalf("NewDecoder returned error: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if string(got) != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("got %q", got)
	}
}

func TestNewDecoderUnsupportedMethod(t *testing.T) {
	_, err := NewDecoder(Method(99), nil)
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Errorf("err = %v; want wrapping ErrUnsupportedMethod", err)
	}
}
