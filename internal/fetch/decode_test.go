package fetch

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

func TestDecodeBodyUTF8(t *testing.T) {
	t.Parallel()

	text := decodeBody([]byte("정부 정책"), "text/html; charset=utf-8")
	require.Equal(t, "정부 정책", text)
}

func TestDecodeBodyDeclaredEUCKR(t *testing.T) {
	t.Parallel()

	raw, err := korean.EUCKR.NewEncoder().Bytes([]byte("정부 정책 논란"))
	require.NoError(t, err)

	text := decodeBody(raw, "text/html; charset=euc-kr")
	require.Equal(t, "정부 정책 논란", text)
}

func TestDecodeBodyUndeclaredLegacyFallsThroughCascade(t *testing.T) {
	t.Parallel()

	raw, err := korean.EUCKR.NewEncoder().Bytes([]byte("속보 경제"))
	require.NoError(t, err)

	// No charset declared and not valid UTF-8: the Korean legacy step decodes it.
	text := decodeBody(raw, "text/html")
	require.Equal(t, "속보 경제", text)
}

func TestDecodeBodyNeverFailsOutright(t *testing.T) {
	t.Parallel()

	garbage := []byte{0xff, 0xfe, 0x00, 0x81}
	text := decodeBody(garbage, "")
	require.NotEmpty(t, text)
}

func TestDecodeBodyEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, decodeBody(nil, "text/html"))
}
