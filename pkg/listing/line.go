// Package listing renders hex/ASCII dump listings of a byte range, one
// 16-byte paragraph per line.
package listing

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

const (
	// ParagraphSize is the number of bytes shown on one listing line.
	ParagraphSize = 16

	// MaxParagraph is the largest paragraph index that fits the 7-digit
	// address field.
	MaxParagraph = 0x0fffffff
)

// Slot is one byte position of a listing line. A slot is either present and
// carries a byte value, or absent because it falls outside the listed range.
type Slot struct {
	Value   byte
	Present bool
}

// Byte returns a present slot holding v.
func Byte(v byte) Slot {
	return Slot{Value: v, Present: true}
}

// Absent is the slot for positions outside the listed range.
var Absent = Slot{}

// Line is a single paragraph of a listing.
type Line struct {
	// Paragraph is the low 32 bits of the paragraph address divided by 16.
	Paragraph uint32

	Slots [ParagraphSize]Slot
}

// Styles holds the color formatters used for listing output.
type Styles struct {
	address   *color.Color
	separator *color.Color
	hex       *color.Color
	text      *color.Color
	nonPrint  *color.Color
}

// NewStyles creates color formatters for listing output. The choice is
// fixed here and does not follow color.NoColor afterwards.
// enabled=false produces byte-exact plain text.
func NewStyles(enabled bool) *Styles {
	s := &Styles{
		address:   color.New(color.FgCyan),
		separator: color.New(color.FgHiBlack),
		hex:       color.New(color.FgHiWhite),
		text:      color.New(color.FgYellow),
		nonPrint:  color.New(color.FgHiBlack),
	}

	for _, c := range []*color.Color{s.address, s.separator, s.hex, s.text, s.nonPrint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return s
}

// Formatter renders listing lines.
type Formatter struct {
	styles *Styles
}

// NewFormatter returns a formatter using the given styles.
// A nil styles value renders plain text.
func NewFormatter(styles *Styles) *Formatter {
	if styles == nil {
		styles = NewStyles(false)
	}
	return &Formatter{styles: styles}
}

// Format renders line, including the trailing newline.
//
// Layout: "PPPPPPP0:" then sixteen hex fields (one space before each, three
// before the ninth), " | ", sixteen characters, "\n". Absent slots render
// as blanks in both columns.
func (f *Formatter) Format(line Line) string {
	if line.Paragraph > MaxParagraph {
		fault(fmt.Sprintf("paragraph %#x exceeds address field", line.Paragraph))
	}

	var b strings.Builder
	b.Grow(80)

	b.WriteString(f.styles.address.Sprintf("%07x0:", line.Paragraph))

	for i, slot := range line.Slots {
		if i == 8 {
			b.WriteString("   ")
		} else {
			b.WriteByte(' ')
		}
		if slot.Present {
			b.WriteString(f.styles.hex.Sprintf("%02x", slot.Value))
		} else {
			b.WriteString("  ")
		}
	}

	b.WriteString(f.styles.separator.Sprint(" | "))

	for _, slot := range line.Slots {
		switch {
		case !slot.Present:
			b.WriteByte(' ')
		case slot.Value >= 0x20 && slot.Value <= 0x7e:
			b.WriteString(f.styles.text.Sprint(string(rune(slot.Value))))
		default:
			b.WriteString(f.styles.nonPrint.Sprint("."))
		}
	}

	b.WriteByte('\n')
	return b.String()
}

// Write renders line to w.
func (f *Formatter) Write(w io.Writer, line Line) error {
	_, err := io.WriteString(w, f.Format(line))
	return err
}

// fault reports a broken internal invariant. It never returns.
func fault(msg string) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	panic(fmt.Sprintf("fault in binpoke at %s:%d: %s", file, line, msg))
}
