// Package literal parses the numeric literals accepted on the binpoke
// command line: decimal counts, hexadecimal magnitudes and dual-radix
// addresses.
//
// All parsed values are bounded to the non-negative int64 range so that an
// address and a count can be added without silent wraparound once each has
// been checked against a file length.
package literal

import (
	"errors"
	"math"
)

var (
	// ErrEmpty is returned for an empty literal.
	ErrEmpty = errors.New("empty literal")

	// ErrSyntax is returned when a literal contains a character outside its
	// digit set.
	ErrSyntax = errors.New("invalid syntax")

	// ErrRange is returned when a literal does not fit the target range.
	ErrRange = errors.New("value out of range")
)

// Error records a failed parse.
type Error struct {
	Func  string // the failing function (ParseCount, ParseHex, ParseAddress)
	Input string // the input
	Err   error  // ErrEmpty, ErrSyntax or ErrRange
}

func (e *Error) Error() string {
	return "literal." + e.Func + ": parsing " + quote(e.Input) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func quote(s string) string {
	return "\"" + s + "\""
}

// ParseCount parses an unsigned decimal string of the form [0-9]+.
//
// Leading zeros are skipped. The value must not exceed math.MaxInt64; parsing
// stops at the first digit that would overflow.
func ParseCount(s string) (int64, error) {
	if s == "" {
		return 0, &Error{Func: "ParseCount", Input: s, Err: ErrEmpty}
	}

	i := 0
	for i < len(s) && s[i] == '0' {
		i++
	}

	var n int64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, &Error{Func: "ParseCount", Input: s, Err: ErrSyntax}
		}
		d := int64(c - '0')
		if n > math.MaxInt64/10 {
			return 0, &Error{Func: "ParseCount", Input: s, Err: ErrRange}
		}
		n *= 10
		if n > math.MaxInt64-d {
			return 0, &Error{Func: "ParseCount", Input: s, Err: ErrRange}
		}
		n += d
	}
	return n, nil
}

// ParseHex parses one or more case-insensitive hexadecimal digits as an
// unsigned 64-bit value. No prefix is accepted.
func ParseHex(s string) (uint64, error) {
	if s == "" {
		return 0, &Error{Func: "ParseHex", Input: s, Err: ErrEmpty}
	}

	var n uint64
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, &Error{Func: "ParseHex", Input: s, Err: ErrSyntax}
		}
		if n > math.MaxUint64/16 {
			return 0, &Error{Func: "ParseHex", Input: s, Err: ErrRange}
		}
		n *= 16
		if n > math.MaxUint64-d {
			return 0, &Error{Func: "ParseHex", Input: s, Err: ErrRange}
		}
		n += d
	}
	return n, nil
}

func hexDigit(c byte) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, true
	}
	return 0, false
}

// ParseAddress parses a file address.
//
// A string beginning with "0x" or "0X" is parsed as hexadecimal after the
// prefix and must not exceed math.MaxInt64. Anything else is parsed with
// ParseCount.
func ParseAddress(s string) (int64, error) {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		n, err := ParseCount(s)
		if err != nil {
			return 0, &Error{Func: "ParseAddress", Input: s, Err: errors.Unwrap(err)}
		}
		return n, nil
	}

	u, err := ParseHex(s[2:])
	if err != nil {
		return 0, &Error{Func: "ParseAddress", Input: s, Err: errors.Unwrap(err)}
	}
	if u > math.MaxInt64 {
		return 0, &Error{Func: "ParseAddress", Input: s, Err: ErrRange}
	}
	return int64(u), nil
}
