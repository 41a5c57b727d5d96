package ast

import (
	"github.com/hymkor/posixsh/source"
	"github.com/hymkor/posixsh/token"
)

// Redir is an input/output redirection: an optional file descriptor and
// a body that is either a Normal redirection or a here-doc.
type Redir struct {
	Fd   *uint32 // nil if no IoNumber prefix was given
	Body RedirBody
	Loc  source.Location // location of the operator
}

func (r *Redir) Pos() source.Location { return r.Loc }

// RedirBody is either a Normal redirection (with an operator and an
// operand word) or a HereDoc registration.
type RedirBody interface {
	redirBodyNode()
}

// Normal is a non-here-doc redirection: <, <>, >, >>, >|, <&, >&, >>|,
// or <<<.
type Normal struct {
	Operator token.Operator
	Operand  Word
}

func (*Normal) redirBodyNode() {}

// HereDoc is a << or <<- redirection. Delimiter and RemoveTabs are
// known as soon as the operator and its operand are parsed; Content is
// nil until the fill pass replaces the placeholder with the matching
// here-doc body read from subsequent lines.
//
// A nil Content is the placeholder state; a non-nil Content is the read
// state. Both live in the same struct, mutated in place by the fill
// pass, rather than as two distinct types.
type HereDoc struct {
	Delimiter  Word
	RemoveTabs bool
	Content    *Text
}

func (*HereDoc) redirBodyNode() {}

// PendingHereDoc is the queue entry the parser core keeps for a HereDoc
// redirection whose body has not yet been read. It wraps the same
// *HereDoc the AST node holds, so filling it in one place is visible
// from the other.
type PendingHereDoc struct {
	Node *HereDoc
}
