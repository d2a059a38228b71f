// Package filenameenc decodes the raw filename bytes a ZIP entry carries
// into a Go string, under one of three caller-selected policies.
package filenameenc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/errs/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrBadEncoding is returned when an explicit charset policy names a
// label that no known encoding resolves to.
var ErrBadEncoding = errs.Errorf("unrecognized charset label")

// ErrUnrepresentable is returned when a filename's raw bytes cannot be
// represented as a host path, e.g. an embedded NUL byte.
var ErrUnrepresentable = errs.Errorf("filename bytes cannot be represented by the host filesystem")

// Kind selects how entry filenames are decoded.
type Kind int

const (
	// OSNative passes the raw bytes through verbatim as the host path,
	// without any charset conversion or UTF-8 validation; only bytes no
	// host path can hold (an embedded NUL) are rejected.
	OSNative Kind = iota
	// Charset decodes with a caller-supplied, explicitly named encoding.
	Charset
	// Auto tries strict UTF-8 first, then falls back to a best-effort
	// statistical guess among common legacy encodings.
	Auto
)

// Policy is the filename decoding strategy chosen for an extraction run.
type Policy struct {
	kind Kind
	enc  *encoding.Encoding
}

// NewOSNative returns the OSNative policy.
func NewOSNative() Policy { return Policy{kind: OSNative} }

// NewAuto returns the Auto policy.
func NewAuto() Policy { return Policy{kind: Auto} }

// NewCharset resolves label (a WHATWG encoding label, e.g.
// "shift_jis", "windows-1252", "gbk") to a concrete encoding and
// returns a Charset policy bound to it.
func NewCharset(label string) (Policy, error) {
	e, err := htmlindex.Get(label)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: %s", ErrBadEncoding, label)
	}
	return Policy{kind: Charset, enc: &e}, nil
}

// Kind reports which decoding strategy the policy uses.
func (p Policy) Kind() Kind { return p.kind }

// Decode converts raw filename bytes from a ZIP entry into a string per
// the policy.
func (p Policy) Decode(raw []byte) (string, error) {
	switch p.kind {
	case OSNative:
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			return "", fmt.Errorf("%w: %q", ErrUnrepresentable, lossyUTF8(raw))
		}
		return string(raw), nil
	case Charset:
		out, err := p.enc.NewDecoder().Bytes(raw)
		if err != nil {
			return "", errs.Errorf("decode with explicit charset: %v", err)
		}
		return string(out), nil
	case Auto:
		if utf8.Valid(raw) {
			return string(raw), nil
		}
		e := detect(raw)
		out, err := e.NewDecoder().Bytes(raw)
		if err != nil {
			return "", errs.Errorf("auto-detect decode: %v", err)
		}
		return string(out), nil
	default:
		return "", errs.Errorf("unknown filename decoding policy")
	}
}

// lossyUTF8 renders raw as UTF-8 for use in error messages, substituting
// the replacement character for any byte sequence that isn't valid UTF-8.
func lossyUTF8(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "�")
}
