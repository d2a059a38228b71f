package filenameenc

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// candidates is the short list of legacy encodings Auto guesses among
// once a name fails strict UTF-8 validation. There is no
// statistical-charset-detection library anywhere in the corpus this
// extractor is grounded on, so this scorer is intentionally small and
// crude: it favors avoiding decode errors and control-character runs
// over genuine script identification.
var candidates = []*encoding.Encoding{
	&japanese.ShiftJIS,
	&simplifiedchinese.GBK,
	&traditionalchinese.Big5,
	&korean.EUCKR,
	&charmap.Windows1252,
}

// detect scores each candidate encoding by how cleanly it decodes raw
// and how few control characters the result contains, returning the
// best scorer. Windows-1252 never errors on arbitrary bytes, so it acts
// as the always-available fallback.
func detect(raw []byte) *encoding.Encoding {
	best := &charmap.Windows1252
	bestScore := -1

	for _, e := range candidates {
		out, err := e.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		score := scoreDecoded(out)
		if score > bestScore {
			bestScore = score
			best = e
		}
	}
	return best
}

// scoreDecoded counts printable, non-replacement runes and penalizes
// control characters and the Unicode replacement character.
func scoreDecoded(s []byte) int {
	score := 0
	for _, r := range string(s) {
		switch {
		case r == '�':
			score -= 5
		case r < 0x20 && r != '\t':
			score -= 2
		default:
			score++
		}
	}
	return score
}
