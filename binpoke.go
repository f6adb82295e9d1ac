// Package binpoke provides hex dump listings of byte ranges.
//
// The binpoke command works on files; this package exposes the same
// listing format for data already in memory.
//
// # Basic Usage
//
// List 32 bytes starting at offset 0x10:
//
//	err := binpoke.Dump(os.Stdout, data, 0x10, 32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Addresses and counts given as strings can be parsed with the same rules
// as the command line:
//
//	addr, err := binpoke.ParseAddress("0x10")
//	count, err := binpoke.ParseCount("32")
package binpoke

import (
	"io"

	"github.com/praetorian-inc/binpoke/pkg/listing"
	"github.com/praetorian-inc/binpoke/pkg/literal"
)

// Re-export commonly used types for convenience.
type (
	// Range is a listing span: Count bytes starting at Address.
	Range = listing.Range

	// Line is one rendered paragraph of a listing.
	Line = listing.Line
)

// MaxListBytes is the largest number of bytes a single listing may cover.
const MaxListBytes = listing.MaxBytes

// Parsing helpers with command-line semantics.
var (
	ParseAddress = literal.ParseAddress
	ParseCount   = literal.ParseCount
)

// dumpConfig holds Dump settings.
type dumpConfig struct {
	color bool
}

// Option configures Dump.
type Option func(*dumpConfig)

// WithColor enables ANSI colors in the listing.
func WithColor() Option {
	return func(c *dumpConfig) {
		c.color = true
	}
}

// bytesSource serves a listing from a byte slice.
type bytesSource []byte

func (b bytesSource) Len() int64 { return int64(len(b)) }

func (b bytesSource) ByteAt(off int64) (byte, error) {
	return b[off], nil
}

// Dump writes a listing of count bytes of data starting at address.
// The range is validated like the list verb: count in [1, MaxListBytes]
// and entirely inside data.
func Dump(w io.Writer, data []byte, address, count int64, opts ...Option) error {
	cfg := &dumpConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	f := listing.NewFormatter(listing.NewStyles(cfg.color))
	return listing.List(w, bytesSource(data), Range{Address: address, Count: count}, f)
}
