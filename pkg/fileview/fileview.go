// Package fileview provides byte-addressable views over files: a queryable
// length, random single-byte reads and length changes.
//
// Views are opened through an Opener backed by a go-billy filesystem.
// Read-only views on the OS filesystem can be memory-mapped.
package fileview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/exp/mmap"
	"k8s.io/klog/v2"
)

// MaxLen is the largest length a view may be resized to (64 TiB).
const MaxLen int64 = 1 << 46

// Mode selects how a view opens its file.
type Mode int

const (
	// ReadOnly opens an existing file for reading.
	ReadOnly Mode = iota
	// Existing opens an existing file for reading and writing.
	Existing
	// Regular opens a file for reading and writing, creating it if missing.
	Regular
	// Exclusive creates a new file and fails if it already exists.
	Exclusive
)

func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case Existing:
		return "existing"
	case Regular:
		return "regular"
	case Exclusive:
		return "exclusive"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) flags() (int, error) {
	switch m {
	case ReadOnly:
		return os.O_RDONLY, nil
	case Existing:
		return os.O_RDWR, nil
	case Regular:
		return os.O_RDWR | os.O_CREATE, nil
	case Exclusive:
		return os.O_RDWR | os.O_CREATE | os.O_EXCL, nil
	}
	return 0, fmt.Errorf("unknown mode %d", int(m))
}

var (
	ErrReadOnly     = errors.New("view is read-only")
	ErrIsDir        = errors.New("path is a directory")
	ErrTooLong      = errors.New("length exceeds maximum")
	ErrOutOfRange   = errors.New("offset out of range")
	ErrNegativeSize = errors.New("negative length")
)

// View is an open handle over a file's bytes.
type View interface {
	// Len returns the current length of the file in bytes.
	Len() int64

	// ByteAt returns the byte at off. off must be in [0, Len()).
	ByteAt(off int64) (byte, error)

	// SetLen truncates or extends the file to n bytes.
	SetLen(n int64) error

	// Close releases the view. Calling Close more than once is harmless.
	Close() error
}

// OpenError records a failed open.
type OpenError struct {
	Path string
	Mode Mode
	Err  error
}

func (e *OpenError) Error() string {
	return e.Path + ": " + ErrorString(e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ErrorString translates a view error into a short human-readable reason.
func ErrorString(err error) string {
	switch {
	case err == nil:
		return "no error"
	case errors.Is(err, os.ErrNotExist):
		return "file not found"
	case errors.Is(err, os.ErrExist):
		return "file already exists"
	case errors.Is(err, os.ErrPermission):
		return "permission denied"
	case errors.Is(err, ErrIsDir):
		return "path is a directory"
	case errors.Is(err, ErrReadOnly):
		return "view is read-only"
	case errors.Is(err, ErrTooLong):
		return "length exceeds maximum"
	case errors.Is(err, ErrOutOfRange):
		return "offset out of range"
	}
	var oe *OpenError
	if errors.As(err, &oe) {
		return ErrorString(oe.Err)
	}
	return err.Error()
}

// Opener opens views over files of a filesystem.
type Opener struct {
	// FS is the filesystem views are opened on.
	FS billy.Filesystem

	// Mmap memory-maps ReadOnly views. Only valid when FS is backed by the
	// OS filesystem, since the path is resolved against FS.Root().
	Mmap bool
}

// NewOpener returns an opener over fs.
func NewOpener(fs billy.Filesystem, useMmap bool) *Opener {
	return &Opener{FS: fs, Mmap: useMmap}
}

// Open opens a view on path in the given mode.
func (o *Opener) Open(path string, mode Mode) (View, error) {
	flag, err := mode.flags()
	if err != nil {
		return nil, &OpenError{Path: path, Mode: mode, Err: err}
	}

	if fi, err := o.FS.Stat(path); err == nil && fi.IsDir() {
		return nil, &OpenError{Path: path, Mode: mode, Err: ErrIsDir}
	}

	if mode == Regular || mode == Exclusive {
		if err := o.checkParent(path); err != nil {
			return nil, &OpenError{Path: path, Mode: mode, Err: err}
		}
	}

	if mode == ReadOnly && o.Mmap {
		v, err := openMapped(o.FS.Join(o.FS.Root(), path))
		if err != nil {
			return nil, &OpenError{Path: path, Mode: mode, Err: err}
		}
		klog.V(2).InfoS("opened view", "path", path, "mode", mode, "kind", "mmap", "length", v.Len())
		return v, nil
	}

	f, err := o.FS.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, &OpenError{Path: path, Mode: mode, Err: err}
	}
	v, err := newFileView(f, mode != ReadOnly)
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Mode: mode, Err: err}
	}
	klog.V(2).InfoS("opened view", "path", path, "mode", mode, "kind", "file", "length", v.Len())
	return v, nil
}

// checkParent fails with os.ErrNotExist unless the directory holding path
// exists. Some billy filesystems create missing parents on O_CREATE.
func (o *Opener) checkParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == path {
		return nil
	}
	fi, err := o.FS.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, os.ErrNotExist)
	}
	return nil
}

// mappedView is a read-only view over a memory-mapped file.
type mappedView struct {
	r *mmap.ReaderAt
}

func openMapped(path string) (*mappedView, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &mappedView{r: r}, nil
}

func (v *mappedView) Len() int64 {
	if v.r == nil {
		return 0
	}
	return int64(v.r.Len())
}

func (v *mappedView) ByteAt(off int64) (byte, error) {
	if v.r == nil {
		return 0, os.ErrClosed
	}
	if off < 0 || off >= v.Len() {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, off)
	}
	return v.r.At(int(off)), nil
}

func (v *mappedView) SetLen(int64) error {
	return ErrReadOnly
}

func (v *mappedView) Close() error {
	if v.r == nil {
		return nil
	}
	err := v.r.Close()
	v.r = nil
	return err
}

// Compile-time interface checks.
var (
	_ View = (*mappedView)(nil)
	_ View = (*fileView)(nil)
)
