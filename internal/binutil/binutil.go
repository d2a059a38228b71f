// Package binutil implements the zero-copy cursor helpers that every
// fixed-width ZIP structure is parsed with: exact-length slicing and
// little-endian integer reads over a shared read-only byte slice.
package binutil

import "github.com/zeebo/errs/v2"

// ErrEOF is returned whenever a read or take operation needs more bytes
// than input has left.
var ErrEOF = errs.Errorf("unexpected end of input")

// Take splits off the first n bytes of input, returning the remainder and
// the taken prefix. Both returned slices borrow from input; nothing is
// copied.
func Take(input []byte, n int) (rest, prefix []byte, err error) {
	if len(input) < n {
		return nil, nil, ErrEOF
	}
	return input[n:], input[:n], nil
}

// U16 reads a little-endian uint16 and returns the remaining slice.
func U16(input []byte) (rest []byte, v uint16, err error) {
	rest, prefix, err := Take(input, 2)
	if err != nil {
		return nil, 0, err
	}
	return rest, uint16(prefix[0]) | uint16(prefix[1])<<8, nil
}

// U32 reads a little-endian uint32 and returns the remaining slice.
func U32(input []byte) (rest []byte, v uint32, err error) {
	rest, prefix, err := Take(input, 4)
	if err != nil {
		return nil, 0, err
	}
	return rest, uint32(prefix[0]) | uint32(prefix[1])<<8 | uint32(prefix[2])<<16 | uint32(prefix[3])<<24, nil
}
