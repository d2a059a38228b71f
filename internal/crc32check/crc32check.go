// Package crc32check verifies an entry's decompressed bytes against the
// CRC-32 recorded in its ZIP header as the stream is consumed.
package crc32check

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/zeebo/errs/v2"
)

// ErrMismatch is returned once the full stream has been read and the
// running checksum disagrees with the expected value.
var ErrMismatch = errs.Errorf("crc-32 mismatch")

// Reader wraps r, accumulating an IEEE CRC-32 over every byte read and
// comparing it against want once r is exhausted.
type Reader struct {
	r     io.Reader
	want  uint32
	hash  uint32
	table *crc32.Table
	done  bool
}

// NewReader wraps r with a CRC-32 check against want.
func NewReader(r io.Reader, want uint32) *Reader {
	return &Reader{r: r, want: want, table: crc32.IEEETable}
}

func (c *Reader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.hash = crc32.Update(c.hash, c.table, p[:n])
	}
	if err == io.EOF && !c.done {
		c.done = true
		if c.hash != c.want {
			return n, fmt.Errorf("%w: got %#08x, want %#08x", ErrMismatch, c.hash, c.want)
		}
	}
	return n, err
}

// Sum returns the checksum accumulated so far.
func (c *Reader) Sum() uint32 { return c.hash }
