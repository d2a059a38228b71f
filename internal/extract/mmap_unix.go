//go:build unix

package extract

import (
	"os"

	"golang.org/x/sys/unix"
)

type mapping struct {
	data []byte
}

// mapFile creates a copy-on-write read-only memory map over f, so that
// truncation or modification of the underlying file by another process
// cannot crash the extractor mid-read.
func mapFile(f *os.File, size int64) (*mapping, error) {
	if size == 0 {
		return &mapping{data: []byte{}}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return &mapping{data: data}, nil
}

func (m *mapping) bytes() []byte { return m.data }

func (m *mapping) close() error {
	if len(m.data) == 0 {
		return nil
	}
	return unix.Munmap(m.data)
}
