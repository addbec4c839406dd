// Package canonical renders string maps as the compact, key-sorted JSON text that both
// the submitter and the receiving service hash.
//
// Keys are sorted by code point, separators carry no whitespace, and only the quote,
// the backslash and C0 control characters are escaped; all other text, non-ASCII
// included, is written literally. encoding/json is not used because it escapes <, >, &,
// U+2028 and U+2029, which would change the signed bytes.
package canonical

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

var ErrInvalidUTF8 = errors.New("canonical: string is not valid UTF-8")

const hexDigits = "0123456789abcdef"

// Marshal returns the canonical JSON encoding of m.
func Marshal(m map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		if !utf8.ValidString(k) {
			return nil, fmt.Errorf("key %q: %w", k, ErrInvalidUTF8)
		}
		keys = append(keys, k)
	}
	// Byte order of UTF-8 strings is code point order.
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		v := m[k]
		if !utf8.ValidString(v) {
			return nil, fmt.Errorf("value of %q: %w", k, ErrInvalidUTF8)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, k)
		buf.WriteByte(':')
		writeString(&buf, v)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		buf.WriteString(s[start:i])
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[c>>4])
			buf.WriteByte(hexDigits[c&0xf])
		}
		start = i + 1
	}
	buf.WriteString(s[start:])
	buf.WriteByte('"')
}
