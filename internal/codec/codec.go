// Package codec wraps a ZIP entry's raw compressed bytes in the
// appropriate decompressing io.Reader for its storage method.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/errs/v2"
)

// Method mirrors the storage method codes this extractor understands.
// Kept independent of zipfmt's constants so this package has no
// dependency on the parser; callers pass zipfmt's values directly since
// they're numerically identical to the ZIP file format's method codes.
type Method uint16

const (
	MethodStore   Method = 0
	MethodDeflate Method = 8
	MethodZstd    Method = 93
)

// ErrUnsupportedMethod is returned for a storage method this extractor
// cannot decode.
var ErrUnsupportedMethod = errs.Errorf("unsupported compression method")

// NewDecoder returns a reader that yields the decompressed bytes of an
// entry whose compressed payload is comp, for the given method. Zstd
// decoders hold background goroutines and must be released with the
// returned closer once the caller is done reading.
func NewDecoder(method Method, comp []byte) (io.ReadCloser, error) {
	switch method {
	case MethodStore:
		return io.NopCloser(bytes.NewReader(comp)), nil
	case MethodDeflate:
		return flate.NewReader(bytes.NewReader(comp)), nil
	case MethodZstd:
		dec, err := zstd.NewReader(bytes.NewReader(comp))
		if err != nil {
			return nil, errs.Errorf("open zstd frame: %v", err)
		}
		return zstdCloser{dec}, nil
	default:
		return nil, fmt.Errorf("%w: method %d", ErrUnsupportedMethod, method)
	}
}

// zstdCloser adapts *zstd.Decoder's Close (which has no error return) to
// io.Closer.
type zstdCloser struct {
	dec *zstd.Decoder
}

func (z zstdCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z zstdCloser) Close() error {
	z.dec.Close()
	return nil
}
