// Package ast defines the abstract syntax tree produced by the parser,
// restricted to the POSIX shell core grammar: no bash-only constructs
// such as C-style for, [[ ]] test clauses, arithmetic commands, process
// substitution, or declare clauses.
package ast

import "github.com/hymkor/posixsh/source"

// Node is implemented by every AST node that carries a source position.
type Node interface {
	Pos() source.Location
}

// Word is an ordered sequence of TextUnits with a location.
type Word struct {
	Units []TextUnit
	Loc   source.Location
}

func (w Word) Pos() source.Location { return w.Loc }

// IsEmpty reports whether the word carries no text units at all (an
// empty word, distinct from a word holding a single empty literal).
func (w Word) IsEmpty() bool { return len(w.Units) == 0 }

// Text is the same ordered-TextUnit structure used inside contexts that
// are not full Words but still parse backslash escapes and expansions:
// here-document bodies and the interior of double quotes.
type Text struct {
	Units []TextUnit
}

// TextUnit is one piece of a Word or Text: a literal run, a
// backslash-escaped character, a quoted region, or an expansion.
type TextUnit interface {
	Node
	textUnitNode()
}

// Literal is a maximal run of plain characters carrying no quoting or
// escaping of their own.
type Literal struct {
	Value string
	Loc   source.Location
}

func (l *Literal) Pos() source.Location { return l.Loc }
func (*Literal) textUnitNode()          {}

// Escaped is a single backslash-escaped character outside quotes, or a
// backslash-escaped character inside double quotes where escaping is
// permitted.
type Escaped struct {
	Char rune
	Loc  source.Location
}

func (e *Escaped) Pos() source.Location { return e.Loc }
func (*Escaped) textUnitNode()          {}

// SingleQuoted is the literal (non-escaping) content of a '...' region.
// Value excludes the surrounding quote characters.
type SingleQuoted struct {
	Value string
	Loc   source.Location
}

func (q *SingleQuoted) Pos() source.Location { return q.Loc }
func (*SingleQuoted) textUnitNode()          {}

// DoubleQuoted is a "..." region: a nested Text whose backslash escapes
// are limited to $, `, ", \, and newline.
type DoubleQuoted struct {
	Parts Text
	Loc   source.Location
}

func (q *DoubleQuoted) Pos() source.Location { return q.Loc }
func (*DoubleQuoted) textUnitNode()          {}

// ParamExpansion is a $name or ${...} parameter expansion, captured as
// opaque raw text: word-level expansion semantics are an external
// collaborator's concern, so this core does not parse the interior of
// the expansion any further than finding its balanced end.
type ParamExpansion struct {
	Raw string // includes the leading "$" and any "{" "}"
	Loc source.Location
}

func (p *ParamExpansion) Pos() source.Location { return p.Loc }
func (*ParamExpansion) textUnitNode()           {}

// ArithExpansion is a $((...)) arithmetic expansion, captured as opaque
// raw text for the same reason as ParamExpansion.
type ArithExpansion struct {
	Raw string // includes "$((" and "))"
	Loc source.Location
}

func (a *ArithExpansion) Pos() source.Location { return a.Loc }
func (*ArithExpansion) textUnitNode()           {}

// CommandSubst is a $(...) command substitution, captured as opaque raw
// text: parsed via the paren-balanced text routine, but its interior is
// not evaluated by this core.
type CommandSubst struct {
	Raw string // includes "$(" and ")"
	Loc source.Location
}

func (c *CommandSubst) Pos() source.Location { return c.Loc }
func (*CommandSubst) textUnitNode()           {}

// Backquote is a `...` command substitution, captured as opaque raw
// text with its own (distinct) backslash rules applied only to find its
// closing backquote.
type Backquote struct {
	Raw string // includes the surrounding backquotes
	Loc source.Location
}

func (b *Backquote) Pos() source.Location { return b.Loc }
func (*Backquote) textUnitNode()           {}
