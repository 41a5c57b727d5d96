package ast

import "github.com/hymkor/posixsh/source"

// Assign is an assignment to a variable at the head of a simple command.
// Array is non-nil only for the array assignment extension
// (name=(a b c)); Value is always set (possibly an empty Word) to keep a
// single shape for the scalar case.
type Assign struct {
	Name    string
	NameLoc source.Location
	Value   Word
	Array   []Word // non-nil if this was an array assignment
}

func (a *Assign) Pos() source.Location { return a.NameLoc }

// SimpleCommand is assignments, words, and redirections without a
// compound construct.
type SimpleCommand struct {
	Assigns []*Assign
	Words   []Word
	Redirs  []*Redir
}

// IsEmpty reports whether assigns, words, and redirs are all empty.
func (s *SimpleCommand) IsEmpty() bool {
	return len(s.Assigns) == 0 && len(s.Words) == 0 && len(s.Redirs) == 0
}

// IsOneWord reports whether the command is exactly one word, with no
// assignments and no redirections -- the shape required before a "("
// can turn it into a function definition.
func (s *SimpleCommand) IsOneWord() bool {
	return len(s.Words) == 1 && len(s.Assigns) == 0 && len(s.Redirs) == 0
}

func (s *SimpleCommand) Pos() source.Location {
	switch {
	case len(s.Assigns) > 0:
		return s.Assigns[0].Pos()
	case len(s.Words) > 0:
		return s.Words[0].Pos()
	case len(s.Redirs) > 0:
		return s.Redirs[0].Pos()
	default:
		return source.Location{}
	}
}

func (*SimpleCommand) commandNode() {}

// CompoundCommand is one of the framed multi-statement constructs: a
// grouping, subshell, loop, or case clause.
type CompoundCommand interface {
	Node
	compoundCommandNode()
}

// Grouping is a { ...; } command list sharing the calling shell's
// environment.
type Grouping struct {
	Lbrace, Rbrace source.Location
	Body           List
}

func (g *Grouping) Pos() source.Location { return g.Lbrace }
func (*Grouping) compoundCommandNode()    {}

// Subshell is a ( ...; ) command list executed in a nested environment.
type Subshell struct {
	Lparen, Rparen source.Location
	Body           List
}

func (s *Subshell) Pos() source.Location { return s.Lparen }
func (*Subshell) compoundCommandNode()    {}

// ForLoop is a for NAME [in WORDS] do ... done clause. Values is nil
// when the "in WORDS" clause was omitted entirely.
type ForLoop struct {
	For, Do, Done source.Location
	Name          string
	NameLoc       source.Location
	Values        *[]Word
	Body          List
}

func (f *ForLoop) Pos() source.Location { return f.For }
func (*ForLoop) compoundCommandNode()    {}

// WhileLoop is a while ...; do ...; done clause.
type WhileLoop struct {
	While, Do, Done source.Location
	Condition       List
	Body            List
}

func (w *WhileLoop) Pos() source.Location { return w.While }
func (*WhileLoop) compoundCommandNode()    {}

// UntilLoop is an until ...; do ...; done clause.
type UntilLoop struct {
	Until, Do, Done source.Location
	Condition       List
	Body            List
}

func (u *UntilLoop) Pos() source.Location { return u.Until }
func (*UntilLoop) compoundCommandNode()    {}

// CaseItem is one "pat1 | pat2) list ;;" entry of a case clause.
type CaseItem struct {
	Patterns []Word
	Body     List
}

// CaseClause is a case WORD in ... esac clause.
type CaseClause struct {
	Case, Esac source.Location
	Subject    Word
	Items      []*CaseItem
}

func (c *CaseClause) Pos() source.Location { return c.Case }
func (*CaseClause) compoundCommandNode()    {}

// FullCompoundCommand is a CompoundCommand together with any trailing
// redirections attached to it.
type FullCompoundCommand struct {
	Command CompoundCommand
	Redirs  []*Redir
}

func (f *FullCompoundCommand) Pos() source.Location { return f.Command.Pos() }
func (*FullCompoundCommand) commandNode()            {}

// FunctionDefinition declares a function, either in the POSIX
// name() compound-command form (HasKeyword=false) or the "function
// name [()] compound-command" form (HasKeyword=true).
type FunctionDefinition struct {
	Position   source.Location
	HasKeyword bool
	Name       Word
	Body       *FullCompoundCommand
}

func (f *FunctionDefinition) Pos() source.Location { return f.Position }
func (*FunctionDefinition) commandNode()            {}

// Command is any node that can stand directly in a Stmt position within
// a Pipeline.
type Command interface {
	Node
	commandNode()
}

// Pipeline is one or more commands connected by |, optionally negated
// by a leading !. Invariant: len(Commands) >= 1.
type Pipeline struct {
	Commands []Command
	Negation bool
	Bang     source.Location // location of "!" when Negation is true
}

func (p *Pipeline) Pos() source.Location {
	if p.Negation {
		return p.Bang
	}
	return p.Commands[0].Pos()
}

// AndOr identifies whether a pipeline in an AndOrList is joined to the
// previous one by && or ||.
type AndOr int

const (
	AndThen AndOr = iota
	OrElse
)

// AndOrPair is one (&&|| , Pipeline) link in an AndOrList's tail.
type AndOrPair struct {
	Op       AndOr
	Pipeline Pipeline
	OpLoc    source.Location
}

// AndOrList is a pipeline followed by zero or more &&/||-separated
// pipelines, left-associative in evaluation.
type AndOrList struct {
	First Pipeline
	Rest  []AndOrPair
}

func (a *AndOrList) Pos() source.Location { return a.First.Pos() }

// Item is one element of a List: an AndOrList plus whether it runs
// asynchronously (terminated by & rather than ; or newline).
type Item struct {
	AndOr   AndOrList
	IsAsync bool
}

func (it *Item) Pos() source.Location { return it.AndOr.Pos() }

// List is an ordered sequence of Items, separated by ;, &, or newlines.
type List []*Item
