package binpoke

import (
	"bytes"
	"strings"
	"testing"

	"github.com/praetorian-inc/binpoke/pkg/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog")
	var buf bytes.Buffer

	err := Dump(&buf, data, 4, 15)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "00000000:"+strings.Repeat("   ", 4)+
		" 71 75 69 63   6b 20 62 72 6f 77 6e 20"+
		" | "+"    quick brown ", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "00000010: 66 6f 78"))
	assert.True(t, strings.HasSuffix(lines[1], " | fox"+strings.Repeat(" ", 13)))
}

func TestDump_Validation(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorIs(t, Dump(&buf, []byte("abc"), 0, 0), listing.ErrCountTooSmall)
	assert.ErrorIs(t, Dump(&buf, []byte("abc"), 3, 1), listing.ErrAddressOutside)
	assert.ErrorIs(t, Dump(&buf, []byte("abc"), 1, 3), listing.ErrRangeBeyondEnd)
	assert.ErrorIs(t, Dump(&buf, make([]byte, MaxListBytes+1), 0, MaxListBytes+1), listing.ErrCountTooLarge)
	assert.Empty(t, buf.String())
}

func TestDump_WithColor(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Dump(&buf, []byte("abc"), 0, 3, WithColor()))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestParseHelpers(t *testing.T) {
	addr, err := ParseAddress("0x10")
	require.NoError(t, err)
	count, err := ParseCount("32")
	require.NoError(t, err)

	assert.Equal(t, Range{Address: 16, Count: 32}, Range{Address: addr, Count: count})
}
