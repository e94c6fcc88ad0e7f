// Package inputenc provides BOM-aware, charset-tolerant decoding of JSON
// input for the jxp and jstr command-line tools, grounded on the
// golang.org/x/text-based charset handling in
// gogo-agent-xmldom/decoder.go (there used for non-UTF-8 XML input via
// golang.org/x/text/encoding/ianaindex; here applied to a JSON source that
// may carry a UTF-8/UTF-16 byte-order mark from a Windows-authored file).
package inputenc

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Reader wraps r in a transform.Reader that strips a leading UTF-8 BOM and
// transcodes UTF-16 (LE or BE, with or without a BOM) input to UTF-8.
// Plain UTF-8 input without a BOM passes through unchanged.
func Reader(r io.Reader) io.Reader {
	// unicode.BOMOverride inspects the first bytes for a BOM and picks the
	// matching decoder (UTF-8, UTF-16LE, or UTF-16BE), falling back to the
	// supplied default transformer — here a plain UTF-8 decoder — when no
	// BOM is present.
	e := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, e)
}
