package zipfmt

import (
	"bytes"

	"github.com/unzrip/unzrip/internal/binutil"
)

// eocdrSignature is the four byte magic number that opens an End of
// Central Directory Record: 'P' 'K' 0x05 0x06.
var eocdrSignature = []byte{'P', 'K', 0x05, 0x06}

// maxEOCDRSearch bounds how far back from the end of the image the EOCDR
// scan looks: 64 KiB of maximum comment length plus headroom for a
// truncated or garbage-terminated archive.
const maxEOCDRSearch = 128 * 1024

// EOCDR is the End of Central Directory Record. Comment, its only
// variable-length field, borrows directly from the archive image.
type EOCDR struct {
	DiskNbr        uint16
	CDStartDisk    uint16
	DiskCDEntries  uint16
	CDEntries      uint16
	CDSize         uint32
	CDOffset       uint32
	Comment        []byte
	recordPosition int // offset of the signature within the image
}

// FindEOCDR scans at most the trailing maxEOCDRSearch bytes of image for
// the EOCDR signature and returns the offset of the last occurrence, so
// that a decoy signature embedded in a crafted comment cannot shadow the
// real record.
func FindEOCDR(image []byte) (int, error) {
	start := 0
	if len(image) > maxEOCDRSearch {
		start = len(image) - maxEOCDRSearch
	}
	window := image[start:]

	// bytes has no forward search that yields every match, so walk the
	// window once and remember the last hit.
	last := -1
	for off := 0; ; {
		idx := bytes.Index(window[off:], eocdrSignature)
		if idx < 0 {
			break
		}
		last = off + idx
		off = last + 1
	}
	if last < 0 {
		return 0, newError(KindBadEOCDR, "FindEOCDR", "signature not found in trailing search window")
	}
	return start + last, nil
}

// ParseEOCDR parses the fixed fields of the EOCDR located at position and
// borrows the comment bytes from image.
func ParseEOCDR(image []byte, position int) (EOCDR, error) {
	if position < 0 || position > len(image) {
		return EOCDR{}, newError(KindBadEOCDR, "ParseEOCDR", "position out of range")
	}
	input := image[position:]

	input, sig, err := binutil.Take(input, len(eocdrSignature))
	if err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.signature", err)
	}
	if !bytes.Equal(sig, eocdrSignature) {
		return EOCDR{}, newError(KindBadEOCDR, "ParseEOCDR", "signature mismatch")
	}

	var e EOCDR
	e.recordPosition = position

	if input, e.DiskNbr, err = binutil.U16(input); err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.diskNbr", err)
	}
	if input, e.CDStartDisk, err = binutil.U16(input); err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.cdStartDisk", err)
	}
	if input, e.DiskCDEntries, err = binutil.U16(input); err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.diskCdEntries", err)
	}
	if input, e.CDEntries, err = binutil.U16(input); err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.cdEntries", err)
	}
	if input, e.CDSize, err = binutil.U32(input); err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.cdSize", err)
	}
	if input, e.CDOffset, err = binutil.U32(input); err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.cdOffset", err)
	}
	var commentLen uint16
	if input, commentLen, err = binutil.U16(input); err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.commentLen", err)
	}
	_, comment, err := binutil.Take(input, int(commentLen))
	if err != nil {
		return EOCDR{}, wrapError(KindEOF, "ParseEOCDR.comment", err)
	}
	e.Comment = comment

	if uint64(e.CDOffset)+uint64(e.CDSize) > uint64(position) {
		return EOCDR{}, newError(KindBadEOCDR, "ParseEOCDR", "central directory extends past EOCDR position")
	}

	return e, nil
}

// Locate finds and parses the archive's EOCDR in one step.
func Locate(image []byte) (EOCDR, error) {
	pos, err := FindEOCDR(image)
	if err != nil {
		return EOCDR{}, err
	}
	return ParseEOCDR(image, pos)
}

// MultiDisk reports whether the EOCDR claims a multi-disk archive, which
// this extractor does not support.
func (e EOCDR) MultiDisk() bool {
	return e.DiskNbr != 0 || e.CDStartDisk != 0
}
