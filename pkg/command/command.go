// Package command parses binpoke command sentences.
//
// A sentence is a verb, a file path, and zero or more prepositional
// phrases, each a preposition followed by its value:
//
//	list data.bin from 0x100 for 64
//	resize data.bin with 4096
package command

import "strings"

// Preposition names an argument of a verb.
type Preposition string

const (
	From Preposition = "from"
	For  Preposition = "for"
	At   Preposition = "at"
	As   Preposition = "as"
	With Preposition = "with"
)

// Prepositions lists every recognized preposition in canonical order.
var Prepositions = []Preposition{From, For, At, As, With}

// IsPreposition reports whether s is a recognized preposition.
func IsPreposition(s string) bool {
	for _, p := range Prepositions {
		if string(p) == s {
			return true
		}
	}
	return false
}

// Command is a parsed sentence.
type Command struct {
	Verb string
	Path string

	// Args holds the value of each preposition that appeared.
	Args map[Preposition]string
}

// Arg returns the value given for p.
func (c *Command) Arg(p Preposition) (string, bool) {
	v, ok := c.Args[p]
	return v, ok
}

// Has reports whether p appeared in the sentence.
func (c *Command) Has(p Preposition) bool {
	_, ok := c.Args[p]
	return ok
}

// Present returns the prepositions that appeared, in canonical order.
func (c *Command) Present() []Preposition {
	var out []Preposition
	for _, p := range Prepositions {
		if c.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// SyntaxError is a malformed command sentence. No file has been touched
// when one is returned.
type SyntaxError struct {
	Msg    string
	Token  string // offending token, if any
	Detail string
}

func (e *SyntaxError) Error() string {
	msg := e.Msg
	if e.Token != "" {
		msg += ": " + e.Token
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Parse parses args, the command line without the program name.
//
// args must hold a verb, a path and complete (preposition, value) pairs.
// Each preposition may appear at most once.
func Parse(args []string) (*Command, error) {
	if len(args) < 2 || len(args)%2 != 0 {
		return nil, &SyntaxError{Msg: "invalid invocation syntax"}
	}

	cmd := &Command{
		Verb: args[0],
		Path: args[1],
		Args: make(map[Preposition]string, (len(args)-2)/2),
	}

	for i := 2; i < len(args); i += 2 {
		tok := args[i]
		if !IsPreposition(tok) {
			return nil, &SyntaxError{Msg: "unrecognized preposition", Token: tok}
		}
		p := Preposition(tok)
		if cmd.Has(p) {
			return nil, &SyntaxError{Msg: "preposition used more than once", Token: tok}
		}
		cmd.Args[p] = args[i+1]
	}

	return cmd, nil
}

// String renders c back into sentence form with phrases in canonical order.
func (c *Command) String() string {
	parts := []string{c.Verb, c.Path}
	for _, p := range c.Present() {
		parts = append(parts, string(p), c.Args[p])
	}
	return strings.Join(parts, " ")
}

func describe(ps []Preposition) string {
	if len(ps) == 0 {
		return "none"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
