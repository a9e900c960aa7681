package diagramsync

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/klauspost/compress/flate"
)

// EncodeSource produces the data parameter of a plantumlcloud macro:
// the source is percent-encoded, compressed as a raw DEFLATE stream at best
// compression and base64-encoded. A raw stream is what a zlib stream looks
// like without its 2-byte header and 4-byte Adler-32 trailer.
func EncodeSource(source string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("creating deflate writer: %w", err)
	}
	if _, err := w.Write([]byte(quoteURI(source))); err != nil {
		return "", fmt.Errorf("compressing source: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("compressing source: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// quoteURI percent-encodes every UTF-8 byte except A-Z a-z 0-9 _ . - ~ and /.
// The macro's decoder expects this exact set; url.PathEscape and
// url.QueryEscape both keep or transform other characters.
func quoteURI(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '_', c == '.', c == '-', c == '~', c == '/':
		return true
	}
	return false
}
