// Package verbs implements the binpoke verbs on top of file views.
//
// Each verb opens at most one view and closes it before returning,
// whether or not the verb succeeded.
package verbs

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/praetorian-inc/binpoke/pkg/command"
	"github.com/praetorian-inc/binpoke/pkg/fileview"
	"github.com/praetorian-inc/binpoke/pkg/listing"
	"github.com/praetorian-inc/binpoke/pkg/literal"
	"k8s.io/klog/v2"
)

// ErrNotImplemented is returned by verbs that are recognized but have no
// implementation yet.
var ErrNotImplemented = errors.New("verb is not implemented")

// Opener opens file views.
type Opener interface {
	Open(path string, mode fileview.Mode) (fileview.View, error)
}

// Config configures a Runner.
type Config struct {
	// Opener opens the file each verb works on.
	Opener Opener

	// Out receives listings and reports.
	Out io.Writer

	// Formatter renders listing lines. Nil renders plain text.
	Formatter *listing.Formatter
}

// Runner runs verbs.
type Runner struct {
	opener    Opener
	out       io.Writer
	formatter *listing.Formatter
}

// New creates a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Opener == nil {
		return nil, fmt.Errorf("opener is required")
	}
	if cfg.Out == nil {
		return nil, fmt.Errorf("output writer is required")
	}
	f := cfg.Formatter
	if f == nil {
		f = listing.NewFormatter(nil)
	}
	return &Runner{opener: cfg.Opener, out: cfg.Out, formatter: f}, nil
}

// Table binds the verbs to the command grammar.
func (r *Runner) Table() command.Table {
	return command.Table{
		{
			Name:     "list",
			Required: []command.Preposition{command.From, command.For},
			Synopsis: "from [addr] for [count]",
			Run: func(c *command.Command) error {
				return r.List(c.Path, c.Args[command.From], c.Args[command.For])
			},
		},
		{
			Name:     "read",
			Required: []command.Preposition{command.At, command.As},
			Synopsis: "at [addr] as [type]",
			Run: func(c *command.Command) error {
				return r.Read(c.Path, c.Args[command.At], c.Args[command.As])
			},
		},
		{
			Name:     "write",
			Required: []command.Preposition{command.At, command.As, command.With},
			Synopsis: "at [addr] as [type] with [value]",
			Run: func(c *command.Command) error {
				return r.Write(c.Path, c.Args[command.At], c.Args[command.As], c.Args[command.With])
			},
		},
		{
			Name: "query",
			Run: func(c *command.Command) error {
				return r.Query(c.Path)
			},
		},
		{
			Name:     "resize",
			Required: []command.Preposition{command.With},
			Synopsis: "with [count]",
			Run: func(c *command.Command) error {
				return r.Resize(c.Path, c.Args[command.With])
			},
		},
		{
			Name: "require",
			Run: func(c *command.Command) error {
				return r.Require(c.Path)
			},
		},
		{
			Name: "new",
			Run: func(c *command.Command) error {
				return r.New(c.Path)
			},
		},
	}
}

// List writes a hex dump of count bytes starting at address.
func (r *Runner) List(path, address, count string) error {
	addr, err := literal.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("failed to parse address: %w", err)
	}
	n, err := literal.ParseCount(count)
	if err != nil {
		return fmt.Errorf("failed to parse count: %w", err)
	}

	rng := listing.Range{Address: addr, Count: n}
	if err := rng.CheckCount(); err != nil {
		return err
	}

	v, err := r.opener.Open(path, fileview.ReadOnly)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer v.Close()

	return listing.List(r.out, v, rng, r.formatter)
}

// Read is reserved for reading a typed value at an address.
func (r *Runner) Read(path, at, as string) error {
	klog.V(2).InfoS("read requested", "path", path, "at", at, "as", as)
	return fmt.Errorf("read: %w", ErrNotImplemented)
}

// Write is reserved for writing a typed value at an address.
func (r *Runner) Write(path, at, as, with string) error {
	klog.V(2).InfoS("write requested", "path", path, "at", at, "as", as, "with", with)
	return fmt.Errorf("write: %w", ErrNotImplemented)
}

// Query reports the length of an existing file.
func (r *Runner) Query(path string) error {
	v, err := r.opener.Open(path, fileview.ReadOnly)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer v.Close()

	n := v.Len()
	klog.V(1).InfoS("queried length", "path", path, "length", n)
	_, err = fmt.Fprintf(r.out, "File length: %d\n", n)
	return err
}

// Resize sets the length of an existing file, truncating or zero-extending.
func (r *Runner) Resize(path, length string) (err error) {
	n, err := literal.ParseCount(length)
	if err != nil {
		return fmt.Errorf("failed to parse count: %w", err)
	}
	if n > fileview.MaxLen {
		return fmt.Errorf("length %s exceeds the maximum of %s: %w",
			humanize.Comma(n), humanize.IBytes(uint64(fileview.MaxLen)), fileview.ErrTooLong)
	}

	v, err := r.opener.Open(path, fileview.Existing)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := v.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := v.SetLen(n); err != nil {
		return fmt.Errorf("failed to set length on file: %w", err)
	}
	return nil
}

// Require creates an empty file unless one already exists.
func (r *Runner) Require(path string) error {
	return r.touch(path, fileview.Regular)
}

// New creates an empty file, failing if one already exists.
func (r *Runner) New(path string) error {
	return r.touch(path, fileview.Exclusive)
}

func (r *Runner) touch(path string, mode fileview.Mode) error {
	v, err := r.opener.Open(path, mode)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	return v.Close()
}
