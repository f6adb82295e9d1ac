package literal

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{name: "zero", input: "0", want: 0},
		{name: "single digit", input: "7", want: 7},
		{name: "multi digit", input: "65536", want: 65536},
		{name: "leading zeros", input: "000123", want: 123},
		{name: "all zeros", input: "0000", want: 0},
		{name: "max int64", input: "9223372036854775807", want: math.MaxInt64},
		{name: "max int64 with leading zeros", input: "009223372036854775807", want: math.MaxInt64},
		{name: "empty", input: "", wantErr: ErrEmpty},
		{name: "one past max", input: "9223372036854775808", wantErr: ErrRange},
		{name: "multiply overflow", input: "92233720368547758070", wantErr: ErrRange},
		{name: "negative", input: "-1", wantErr: ErrSyntax},
		{name: "plus sign", input: "+1", wantErr: ErrSyntax},
		{name: "trailing letter", input: "12a", wantErr: ErrSyntax},
		{name: "hex prefix", input: "0x10", wantErr: ErrSyntax},
		{name: "space", input: " 1", wantErr: ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCount(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCount_RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 9, 10, 99, 100, 4096, 1 << 32, 1<<62 + 12345, math.MaxInt64} {
		got, err := ParseCount(strconv.FormatInt(v, 10))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr error
	}{
		{name: "zero", input: "0", want: 0},
		{name: "lower", input: "ff", want: 255},
		{name: "upper", input: "FF", want: 255},
		{name: "mixed", input: "dEaDbEeF", want: 0xdeadbeef},
		{name: "leading zeros", input: "0000000000000000001", want: 1},
		{name: "max uint64", input: "ffffffffffffffff", want: math.MaxUint64},
		{name: "empty", input: "", wantErr: ErrEmpty},
		{name: "overflow", input: "10000000000000000", wantErr: ErrRange},
		{name: "bad digit", input: "fg", wantErr: ErrSyntax},
		{name: "prefix not accepted", input: "0x1", wantErr: ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHex_MatchesStrconv(t *testing.T) {
	for _, s := range []string{"1", "a", "10", "abc", "7fffffffffffffff", "8000000000000000", "0123456789abcdef"} {
		want, err := strconv.ParseUint(s, 16, 64)
		require.NoError(t, err)

		got, err := ParseHex(s)
		require.NoError(t, err)
		assert.Equal(t, want, got, s)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{name: "decimal", input: "4096", want: 4096},
		{name: "single char", input: "5", want: 5},
		{name: "hex lower prefix", input: "0x1000", want: 4096},
		{name: "hex upper prefix", input: "0X1f", want: 31},
		{name: "max signed hex", input: "0x7fffffffffffffff", want: math.MaxInt64},
		{name: "decimal with leading zero", input: "010", want: 10},
		{name: "empty", input: "", wantErr: ErrEmpty},
		{name: "bare prefix", input: "0x", wantErr: ErrEmpty},
		{name: "hex above signed range", input: "0x8000000000000000", wantErr: ErrRange},
		{name: "hex overflow", input: "0x10000000000000000", wantErr: ErrRange},
		{name: "bad hex", input: "0xzz", wantErr: ErrSyntax},
		{name: "hex without prefix", input: "ff", wantErr: ErrSyntax},
		{name: "x without zero", input: "1x10", wantErr: ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				var lerr *Error
				require.ErrorAs(t, err, &lerr)
				assert.Equal(t, "ParseAddress", lerr.Func)
				assert.Equal(t, tt.input, lerr.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAddress_AgreesWithParts(t *testing.T) {
	for _, h := range []string{"0", "10", "abcdef", "7fffffffffffffff"} {
		want, err := ParseHex(h)
		require.NoError(t, err)

		got, err := ParseAddress("0x" + h)
		require.NoError(t, err)
		assert.Equal(t, int64(want), got)
	}

	for _, d := range []string{"0", "1", "123456789", "9223372036854775807"} {
		want, err := ParseCount(d)
		require.NoError(t, err)

		got, err := ParseAddress(d)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestError_Message(t *testing.T) {
	_, err := ParseCount("12x")
	require.Error(t, err)
	assert.Equal(t, `literal.ParseCount: parsing "12x": invalid syntax`, err.Error())
}
