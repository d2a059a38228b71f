package zipfmt

import (
	"bytes"

	"github.com/unzrip/unzrip/internal/binutil"
)

var lfhSignature = []byte{'P', 'K', 0x03, 0x04}

const lfhFixedLen = 30

// LocalFileHeader duplicates core metadata from the CFH; it exists only
// to compute where the compressed payload for an entry actually starts.
type LocalFileHeader struct {
	ExtractVer uint16
	GPFlag     uint16
	Method     uint16
	ModTime    uint16
	ModDate    uint16
	CRC32      uint32
	CompSize   uint32
	UncompSize uint32
	Name       []byte
	Extra      []byte
}

// ParseLFH parses the Local File Header at the given absolute offset into
// image and returns it along with the absolute offset of the first byte
// of the compressed payload (the byte immediately after the header, name
// and extra field).
func ParseLFH(image []byte, offset uint32) (LocalFileHeader, int, error) {
	if uint64(offset) > uint64(len(image)) {
		return LocalFileHeader{}, 0, newError(KindOffsetOverflow, "ParseLFH", "offset past end of image")
	}
	input := image[offset:]

	input, sig, err := binutil.Take(input, len(lfhSignature))
	if err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.signature", err)
	}
	if !bytes.Equal(sig, lfhSignature) {
		return LocalFileHeader{}, 0, newError(KindBadLFH, "ParseLFH", "signature mismatch")
	}

	var h LocalFileHeader
	if input, h.ExtractVer, err = binutil.U16(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.extractVer", err)
	}
	if input, h.GPFlag, err = binutil.U16(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.gpFlag", err)
	}
	if input, h.Method, err = binutil.U16(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.method", err)
	}
	if input, h.ModTime, err = binutil.U16(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.modTime", err)
	}
	if input, h.ModDate, err = binutil.U16(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.modDate", err)
	}
	if input, h.CRC32, err = binutil.U32(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.crc32", err)
	}
	if input, h.CompSize, err = binutil.U32(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.compSize", err)
	}
	if input, h.UncompSize, err = binutil.U32(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.uncompSize", err)
	}
	var nameLen, extraLen uint16
	if input, nameLen, err = binutil.U16(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.nameLen", err)
	}
	if input, extraLen, err = binutil.U16(input); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.extraLen", err)
	}
	if input, h.Name, err = binutil.Take(input, int(nameLen)); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.name", err)
	}
	if _, h.Extra, err = binutil.Take(input, int(extraLen)); err != nil {
		return LocalFileHeader{}, 0, wrapError(KindEOF, "ParseLFH.extra", err)
	}

	payloadOffset := int(offset) + lfhFixedLen + int(nameLen) + int(extraLen)
	return h, payloadOffset, nil
}
