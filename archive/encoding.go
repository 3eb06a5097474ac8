package archive

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Normalizer converts archive entry names stored in legacy byte encodings
// to canonical UTF-8.
//
// Detection is best-effort and inherently heuristic: legacy multi-byte
// encodings are ambiguous, so a name that decodes cleanly under more than
// one candidate resolves to the first candidate in the configured priority
// order. UTF-8 always wins when it decodes, since most modern archives are
// already correctly encoded.
type Normalizer struct {
	names      []string
	candidates []encoding.Encoding
}

// DefaultEncodings is the stock legacy candidate order: Korean EUC-KR
// (covering the CP949 superset), Japanese Shift_JIS, and windows-1252 as
// the single-byte last resort that decodes any byte sequence.
func DefaultEncodings() []string {
	return []string{"euc-kr", "shift_jis", "windows-1252"}
}

// NewNormalizer resolves the named legacy encodings (WHATWG names, e.g.
// "euc-kr", "shift_jis", "gbk") in priority order. An unknown name is a
// configuration error.
func NewNormalizer(names []string) (*Normalizer, error) {
	if len(names) == 0 {
		names = DefaultEncodings()
	}

	candidates := make([]encoding.Encoding, 0, len(names))
	for _, name := range names {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return nil, fmt.Errorf("new normalizer: unknown encoding %q: %w", name, err)
		}
		candidates = append(candidates, enc)
	}

	return &Normalizer{names: names, candidates: candidates}, nil
}

// Encodings returns the configured candidate names in priority order.
func (n *Normalizer) Encodings() []string { return n.names }

// Decode converts a raw entry name to UTF-8. Valid UTF-8 input passes
// through unchanged; otherwise the legacy candidates are tried in order and
// the first decode that introduces no loss marker wins. The final fallback
// substitutes invalid sequences so one bad name never fails a whole listing.
func (n *Normalizer) Decode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if utf8.Valid(raw) {
		return string(raw)
	}

	for _, enc := range n.candidates {
		out, err := enc.NewDecoder().Bytes(raw)
		if err != nil || !utf8.Valid(out) {
			continue
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			// The decoder substituted a loss marker; try the next candidate.
			continue
		}
		return string(out)
	}

	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// String normalizes a name that an archive library already handed over as a
// Go string, reinterpreting the underlying bytes when they are not valid
// UTF-8. Names the library decoded itself pass through unchanged.
func (n *Normalizer) String(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return n.Decode([]byte(s))
}
