package command

import (
	"fmt"
	"strings"
)

// Handler runs a validated command.
type Handler func(c *Command) error

// Verb describes one verb: the prepositions it takes and how it runs.
// Every preposition not listed in Required is forbidden.
type Verb struct {
	Name     string
	Required []Preposition

	// Synopsis is the phrase part of the usage line,
	// e.g. "from [addr] for [count]".
	Synopsis string

	Run Handler
}

// Check reports whether c carries exactly the prepositions v requires.
func (v Verb) Check(c *Command) error {
	ok := len(c.Args) == len(v.Required)
	for _, p := range v.Required {
		if !c.Has(p) {
			ok = false
		}
	}
	if ok {
		return nil
	}
	return &SyntaxError{
		Msg:    "wrong prepositional phrases for verb",
		Token:  v.Name,
		Detail: fmt.Sprintf("want %s, got %s", describe(v.Required), describe(c.Present())),
	}
}

// Table is the set of verbs a program understands, in usage order.
type Table []Verb

// Lookup finds the verb called name.
func (t Table) Lookup(name string) (Verb, bool) {
	for _, v := range t {
		if v.Name == name {
			return v, true
		}
	}
	return Verb{}, false
}

// Dispatch checks c against its verb and runs the verb's handler.
func (t Table) Dispatch(c *Command) error {
	v, ok := t.Lookup(c.Verb)
	if !ok {
		return &SyntaxError{Msg: "unrecognized verb", Token: c.Verb}
	}
	if err := v.Check(c); err != nil {
		return err
	}
	if v.Run == nil {
		return fmt.Errorf("verb %s has no handler", v.Name)
	}
	return v.Run(c)
}

// Run parses args and dispatches the resulting command.
func (t Table) Run(args []string) error {
	c, err := Parse(args)
	if err != nil {
		return err
	}
	return t.Dispatch(c)
}

// Usage returns the multi-line syntax summary for program.
func (t Table) Usage(program string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s syntax summary:\n\n", program)
	for _, v := range t {
		fmt.Fprintf(&b, "%s %s [path]", program, v.Name)
		if v.Synopsis != "" {
			b.WriteString(" " + v.Synopsis)
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nSee the README for further documentation.\n")
	return b.String()
}
