//go:build !unix

package extract

import (
	"io"
	"os"
)

// mapping on non-unix targets is a plain in-memory copy of the file. No
// portable copy-on-write mapping primitive is available outside the unix
// build tag, so this fallback trades the copy-on-write guarantee for
// simplicity; the archive is still read-only from the extractor's view.
type mapping struct {
	data []byte
}

func mapFile(f *os.File, size int64) (*mapping, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return &mapping{data: data}, nil
}

func (m *mapping) bytes() []byte { return m.data }

func (m *mapping) close() error { return nil }
