package fetch

import (
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
)

// decodeBody tries a prioritized list of character sets: the declared
// charset, UTF-8, then the two legacy Korean encodings. If none decode
// cleanly the bytes are decoded as lossy UTF-8 so the caller always receives
// some text when bytes were retrieved.
func decodeBody(raw []byte, contentType string) string {
	if len(raw) == 0 {
		return ""
	}

	if declared := declaredCharset(contentType); declared != "" {
		if enc, err := htmlindex.Get(declared); err == nil {
			if text, ok := tryDecode(raw, enc); ok {
				return text
			}
		}
	}

	if utf8.Valid(raw) {
		return string(raw)
	}

	// korean.EUCKR follows the WHATWG euc-kr tables, which cover the CP949
	// extension as well.
	if text, ok := tryDecode(raw, korean.EUCKR); ok {
		return text
	}

	return strings.ToValidUTF8(string(raw), "�")
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}

// tryDecode decodes raw with enc and reports whether the result looks clean:
// a decode that produced replacement runes is treated as a miss so the next
// charset in the cascade gets a chance.
func tryDecode(raw []byte, enc encoding.Encoding) (string, bool) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	text := string(out)
	if strings.ContainsRune(text, '�') {
		return "", false
	}
	return text, true
}
