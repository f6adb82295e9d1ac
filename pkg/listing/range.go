package listing

import (
	"errors"
	"fmt"
	"io"

	"k8s.io/klog/v2"
)

// MaxBytes is the largest number of bytes a single listing may cover.
const MaxBytes int64 = 65536

var (
	ErrCountTooSmall   = errors.New("count may not be less than one")
	ErrCountTooLarge   = fmt.Errorf("count exceeds the listing limit of %d bytes", MaxBytes)
	ErrAddressOutside  = errors.New("address is outside file limits")
	ErrRangeBeyondEnd  = errors.New("byte range goes beyond end of file")
	ErrNegativeAddress = errors.New("address may not be negative")
)

// ByteSource is the random byte access a listing needs.
type ByteSource interface {
	Len() int64
	ByteAt(off int64) (byte, error)
}

// Range is a requested listing span: Count bytes starting at Address.
type Range struct {
	Address int64
	Count   int64
}

// CheckCount validates the count alone, before any file is opened.
func (r Range) CheckCount() error {
	if r.Count < 1 {
		return ErrCountTooSmall
	}
	if r.Count > MaxBytes {
		return ErrCountTooLarge
	}
	return nil
}

// Validate checks r against a source of the given length.
func (r Range) Validate(length int64) error {
	if err := r.CheckCount(); err != nil {
		return err
	}
	if r.Address < 0 {
		return ErrNegativeAddress
	}
	if r.Address >= length {
		return ErrAddressOutside
	}
	// Address < length here, so the subtraction cannot overflow.
	if r.Count > length-r.Address {
		return ErrRangeBeyondEnd
	}
	return nil
}

// Paragraphs returns the paragraph-aligned addresses of the first and last
// lines of the listing. r must be valid.
func (r Range) Paragraphs() (first, last int64) {
	first = r.Address / ParagraphSize * ParagraphSize
	last = (r.Address + r.Count - 1) / ParagraphSize * ParagraphSize
	return first, last
}

// Lines returns the number of lines the listing produces. r must be valid.
func (r Range) Lines() int64 {
	first, last := r.Paragraphs()
	return (last-first)/ParagraphSize + 1
}

func (r Range) contains(off int64) bool {
	return off >= r.Address && off-r.Address < r.Count
}

// List validates r against src and writes one formatted line per paragraph
// to w. Lines are written as they are built.
func List(w io.Writer, src ByteSource, r Range, f *Formatter) error {
	if err := r.Validate(src.Len()); err != nil {
		return err
	}
	if f == nil {
		f = NewFormatter(nil)
	}

	first, last := r.Paragraphs()
	klog.V(3).InfoS("listing range", "address", r.Address, "count", r.Count, "first", first, "last", last)

	// Stop on p == last rather than p > last; p+16 may overflow near MaxInt64.
	for p := first; ; p += ParagraphSize {
		line := Line{Paragraph: uint32(uint64(p)&0xffffffff) / ParagraphSize}
		for i := int64(0); i < ParagraphSize; i++ {
			if !r.contains(p + i) {
				line.Slots[i] = Absent
				continue
			}
			v, err := src.ByteAt(p + i)
			if err != nil {
				return fmt.Errorf("reading byte at %#x: %w", p+i, err)
			}
			line.Slots[i] = Byte(v)
		}
		if err := f.Write(w, line); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
		if p == last {
			return nil
		}
	}
}
