package zipfmt

import (
	"bytes"

	"github.com/unzrip/unzrip/internal/binutil"
)

var cfhSignature = []byte{'P', 'K', 0x01, 0x02}

// Compression methods recognized by this extractor.
const (
	MethodStore   uint16 = 0
	MethodDeflate uint16 = 8
	MethodZstd    uint16 = 93
)

// Systems recognized in the upper byte of CFH.MadeByVer.
const (
	SystemDOS  uint16 = 0
	SystemUnix uint16 = 3
)

const gpFlagEncrypted = 1 << 0

// CentralFileHeader is one entry of the Central Directory. Name, Extra and
// Comment borrow from the archive image.
type CentralFileHeader struct {
	MadeByVer      uint16
	ExtractVer     uint16
	GPFlag         uint16
	Method         uint16
	ModTime        uint16
	ModDate        uint16
	CRC32          uint32
	CompSize       uint32
	UncompSize     uint32
	DiskNbrStart   uint16
	IntAttrs       uint16
	ExtAttrs       uint32
	LFHOffset      uint32
	Name           []byte
	Extra          []byte
	Comment        []byte
}

// IsUnix reports whether the header's "made by" system is Unix, which is
// the only system whose ExtAttrs upper bits are interpreted as a POSIX
// mode.
func (h CentralFileHeader) IsUnix() bool {
	return h.MadeByVer>>8 == SystemUnix
}

// PosixMode returns the POSIX mode bits carried in the upper 16 bits of
// ExtAttrs. Only meaningful when IsUnix is true.
func (h CentralFileHeader) PosixMode() uint32 {
	return h.ExtAttrs >> 16
}

// Encrypted reports whether general purpose bit 0 (encryption) is set.
func (h CentralFileHeader) Encrypted() bool {
	return h.GPFlag&gpFlagEncrypted != 0
}

// parseCFH parses one Central File Header starting at input, returning the
// remaining bytes after it.
func parseCFH(input []byte) (rest []byte, header CentralFileHeader, err error) {
	input, sig, err := binutil.Take(input, len(cfhSignature))
	if err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.signature", err)
	}
	if !bytes.Equal(sig, cfhSignature) {
		return nil, CentralFileHeader{}, newError(KindBadCFH, "parseCFH", "signature mismatch")
	}

	var h CentralFileHeader
	fields := []struct {
		name string
		dst  *uint16
	}{
		{"madeByVer", &h.MadeByVer},
		{"extractVer", &h.ExtractVer},
		{"gpFlag", &h.GPFlag},
		{"method", &h.Method},
		{"modTime", &h.ModTime},
		{"modDate", &h.ModDate},
	}
	for _, f := range fields {
		if input, *f.dst, err = binutil.U16(input); err != nil {
			return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH."+f.name, err)
		}
	}

	u32fields := []struct {
		name string
		dst  *uint32
	}{
		{"crc32", &h.CRC32},
		{"compSize", &h.CompSize},
		{"uncompSize", &h.UncompSize},
	}
	for _, f := range u32fields {
		if input, *f.dst, err = binutil.U32(input); err != nil {
			return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH."+f.name, err)
		}
	}

	var nameLen, extraLen, commentLen uint16
	if input, nameLen, err = binutil.U16(input); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.nameLen", err)
	}
	if input, extraLen, err = binutil.U16(input); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.extraLen", err)
	}
	if input, commentLen, err = binutil.U16(input); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.commentLen", err)
	}
	if input, h.DiskNbrStart, err = binutil.U16(input); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.diskNbrStart", err)
	}
	if input, h.IntAttrs, err = binutil.U16(input); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.intAttrs", err)
	}
	if input, h.ExtAttrs, err = binutil.U32(input); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.extAttrs", err)
	}
	if input, h.LFHOffset, err = binutil.U32(input); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.lfhOffset", err)
	}

	if input, h.Name, err = binutil.Take(input, int(nameLen)); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.name", err)
	}
	if input, h.Extra, err = binutil.Take(input, int(extraLen)); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.extra", err)
	}
	if input, h.Comment, err = binutil.Take(input, int(commentLen)); err != nil {
		return nil, CentralFileHeader{}, wrapError(KindEOF, "parseCFH.comment", err)
	}

	return input, h, nil
}

// Walk eagerly parses all CDEntries central file headers beginning at
// eocdr.CDOffset. The returned slice's capacity is pre-reserved up to 128
// entries to avoid over-allocating on a corrupt or hostile CDEntries
// count; every entry actually present is still walked and appended
// regardless of how large CDEntries is.
func Walk(image []byte, eocdr EOCDR) ([]CentralFileHeader, error) {
	if uint64(eocdr.CDOffset) > uint64(len(image)) {
		return nil, newError(KindOffsetOverflow, "Walk", "cdOffset past end of image")
	}

	capHint := int(eocdr.CDEntries)
	if capHint > 128 {
		capHint = 128
	}
	headers := make([]CentralFileHeader, 0, capHint)

	input := image[eocdr.CDOffset:]
	for i := 0; i < int(eocdr.CDEntries); i++ {
		var h CentralFileHeader
		var err error
		input, h, err = parseCFH(input)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, nil
}

// Supported reports whether this extractor can handle an entry with the
// given header: single-disk only, store/deflate/zstd only, no encryption,
// no ZIP64 size sentinels.
func Supported(h CentralFileHeader) bool {
	switch {
	case h.DiskNbrStart != 0:
		return false
	case h.Method != MethodStore && h.Method != MethodDeflate && h.Method != MethodZstd:
		return false
	case h.Encrypted():
		return false
	case h.CompSize == 0xFFFFFFFF || h.UncompSize == 0xFFFFFFFF || h.LFHOffset == 0xFFFFFFFF:
		return false
	default:
		return true
	}
}
