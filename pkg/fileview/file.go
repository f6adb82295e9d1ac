package fileview

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"
	"k8s.io/klog/v2"
)

// windowSize is the number of bytes fetched per ReadAt when serving ByteAt.
const windowSize = 4096

// fileView is a view over a billy.File.
type fileView struct {
	f        billy.File
	writable bool
	length   int64

	// window caches [winOff, winOff+len(window)) of the file.
	window []byte
	winOff int64
}

func newFileView(f billy.File, writable bool) (*fileView, error) {
	n, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("querying length: %w", err)
	}
	return &fileView{f: f, writable: writable, length: n}, nil
}

func (v *fileView) Len() int64 {
	return v.length
}

func (v *fileView) ByteAt(off int64) (byte, error) {
	if v.f == nil {
		return 0, os.ErrClosed
	}
	if off < 0 || off >= v.length {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, off)
	}
	if off >= v.winOff && off < v.winOff+int64(len(v.window)) {
		return v.window[off-v.winOff], nil
	}

	size := int64(windowSize)
	if rem := v.length - off; rem < size {
		size = rem
	}
	buf := v.window[:0]
	if int64(cap(buf)) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]

	n, err := v.f.ReadAt(buf, off)
	if n == 0 || (err != nil && !errors.Is(err, io.EOF)) {
		v.window = nil
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("reading %s at %d: %w", v.f.Name(), off, err)
	}
	v.window = buf[:n]
	v.winOff = off
	return v.window[0], nil
}

func (v *fileView) SetLen(n int64) error {
	if v.f == nil {
		return os.ErrClosed
	}
	if !v.writable {
		return ErrReadOnly
	}
	if n < 0 {
		return ErrNegativeSize
	}
	if n > MaxLen {
		return fmt.Errorf("%w: %s > %s", ErrTooLong, humanize.IBytes(uint64(n)), humanize.IBytes(uint64(MaxLen)))
	}
	if err := v.f.Truncate(n); err != nil {
		return fmt.Errorf("truncating %s: %w", v.f.Name(), err)
	}
	klog.V(2).InfoS("resized view", "path", v.f.Name(), "from", v.length, "to", n)
	v.length = n
	v.window = nil
	return nil
}

func (v *fileView) Close() error {
	if v.f == nil {
		return nil
	}
	err := v.f.Close()
	v.f = nil
	v.window = nil
	return err
}
