package zipfmt

import (
	"fmt"

	"github.com/zeebo/errs/v2"
)

// Kind classifies the family of ZIP structural error a parse step hit:
// truncation, a bad signature in one of the three header kinds, an
// unsupported feature, or an offset pointing outside the image.
type Kind string

const (
	KindEOF            Kind = "eof"
	KindBadEOCDR       Kind = "bad_eocdr"
	KindBadCFH         Kind = "bad_cfh"
	KindBadLFH         Kind = "bad_lfh"
	KindUnsupported    Kind = "unsupported"
	KindOffsetOverflow Kind = "offset_overflow"
)

// FormatError is a classified parser error with an operation label so
// callers can tell which parsing step failed without string matching.
type FormatError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func newError(kind Kind, op, msg string) error {
	return &FormatError{Kind: kind, Op: op, Err: errs.Errorf("%s", msg)}
}

func wrapError(kind Kind, op string, err error) error {
	return &FormatError{Kind: kind, Op: op, Err: err}
}
