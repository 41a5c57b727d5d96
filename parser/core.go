// Package parser implements a token-buffered recursive-descent parser:
// the alias-substitution re-entry protocol, here-doc placeholder
// bookkeeping and fill pass, and the simple/compound command, pipeline,
// and-or list, and separator-terminated list grammar.
package parser

import (
	"github.com/hymkor/posixsh/alias"
	"github.com/hymkor/posixsh/ast"
	"github.com/hymkor/posixsh/lexer"
	"github.com/hymkor/posixsh/token"
)

// Rec is the alias re-entry sum type: either AliasSubstituted (a
// substitution happened and no T was produced; the caller must
// re-enter) or Parsed(value).
type Rec[T any] struct {
	substituted bool
	value       T
}

// Parsed wraps a successfully produced value.
func Parsed[T any](v T) Rec[T] { return Rec[T]{value: v} }

// Substituted reports whether r carries AliasSubstituted rather than a
// value.
func (r Rec[T]) Substituted() bool { return r.substituted }

// Value returns the wrapped value; only meaningful when !r.Substituted().
func (r Rec[T]) Value() T { return r.value }

func aliasSubstituted[T any]() Rec[T] {
	var zero T
	return Rec[T]{substituted: true, value: zero}
}

// finish loops f until it returns a Parsed result: a routine that
// alias-substituted without producing a value re-enters itself until
// one does.
func finish[T any](f func() (Rec[T], error)) (T, error) {
	for {
		r, err := f()
		if err != nil {
			var zero T
			return zero, err
		}
		if !r.substituted {
			return r.value, nil
		}
	}
}

// Option configures a Parser.
type Option func(*Parser)

// POSIXStrict enables the stricter POSIX-only rejections DESIGN.md's
// Open Question resolutions describe: a here-doc delimiter that is a
// bare run of digits is an error, and array assignments and the <<< and
// >>| redirections are not recognized. Empty compound bodies are
// rejected in every mode, and no mode accepts <( or >( as a
// redirection.
func POSIXStrict() Option {
	return func(p *Parser) { p.strict = true }
}

// Parser is the parser core: a lexer, a shared alias set, a single-slot
// token lookahead buffer, and the two here-doc queues.
type Parser struct {
	lx      *lexer.Lexer
	aliases alias.Set
	strict  bool

	pending    *lexer.Token
	hasPending bool

	unread       []*ast.PendingHereDoc
	read         []ast.Text
	placeholders []*ast.HereDoc
}

// New returns a Parser reading tokens from lx, resolving bare-literal
// alias names against aliases.
func New(lx *lexer.Lexer, aliases alias.Set, opts ...Option) *Parser {
	p := &Parser{lx: lx, aliases: aliases}
	for _, o := range opts {
		o(p)
	}
	if p.strict {
		lx.SetStrict(true)
	}
	return p
}

// peekToken fills and returns the lookahead buffer without consuming it.
func (p *Parser) peekToken() (lexer.Token, error) {
	if !p.hasPending {
		if err := p.lx.SkipBlanksAndComment(); err != nil {
			return lexer.Token{}, err
		}
		tok, err := p.lx.Token(true)
		if err != nil {
			return lexer.Token{}, err
		}
		p.pending = &tok
		p.hasPending = true
	}
	return *p.pending, nil
}

// takeTokenRaw empties the buffer and returns the token, performing no
// alias substitution.
func (p *Parser) takeTokenRaw() (lexer.Token, error) {
	tok, err := p.peekToken()
	if err != nil {
		return lexer.Token{}, err
	}
	p.hasPending = false
	p.pending = nil
	return tok, nil
}

// takeTokenManual performs a raw take, then applies alias substitution
// at most once: a bare-literal word token gets substituted when it
// names an alias and is in command-name position, is a global alias, or
// follows a blank-ending alias expansion, unless that alias is already
// on the current substitution chain.
func (p *Parser) takeTokenManual(isCommandName bool) (Rec[lexer.Token], error) {
	tok, err := p.takeTokenRaw()
	if err != nil {
		return Rec[lexer.Token]{}, err
	}
	// Consumed once per token production regardless of the branches
	// below: it is a property of this token slot, not of whether
	// substitution ultimately applies to it.
	afterBlankAlias := p.lx.AfterBlankEndingAlias()

	if tok.Kind != lexer.TokWord || tok.HasKeyword {
		return Parsed(tok), nil
	}
	lit, ok := lexer.BareLiteral(tok.Word)
	if !ok {
		return Parsed(tok), nil
	}
	a, found := p.aliases.Lookup(lit)
	if !found {
		return Parsed(tok), nil
	}
	if lexer.CurrentSourceIsAliasOf(tok.Word.Loc, lit) {
		return Parsed(tok), nil
	}
	if !(isCommandName || a.Global || afterBlankAlias) {
		return Parsed(tok), nil
	}
	p.lx.SubstituteAlias(a, tok.Word.Loc)
	return aliasSubstituted[lexer.Token](), nil
}

// takeTokenAuto repeatedly applies alias substitution until the next
// token's keyword classification is one of keywords, or no more
// substitution applies.
func (p *Parser) takeTokenAuto(keywords []token.Keyword) (lexer.Token, error) {
	for {
		tok, err := p.peekToken()
		if err != nil {
			return lexer.Token{}, err
		}
		if tok.HasKeyword {
			for _, k := range keywords {
				if tok.Keyword == k {
					p.hasPending = false
					p.pending = nil
					return tok, nil
				}
			}
		}
		rec, err := p.takeTokenManual(false)
		if err != nil {
			return lexer.Token{}, err
		}
		if !rec.Substituted() {
			return rec.Value(), nil
		}
	}
}

// hasBlank asserts no pending token (the caller must not have peeked
// yet), then reports whether the next raw character is a blank.
func (p *Parser) hasBlank() (bool, error) {
	if p.hasPending {
		panic("parser: hasBlank called with a pending token")
	}
	return p.lx.HasBlank()
}

// memorizeUnreadHereDoc registers a placeholder both in the drain queue
// (unread) and the permanent creation-order record (placeholders) the
// fill pass uses.
func (p *Parser) memorizeUnreadHereDoc(hd *ast.HereDoc) {
	p.unread = append(p.unread, &ast.PendingHereDoc{Node: hd})
	p.placeholders = append(p.placeholders, hd)
}

// hereDocContents drains unread in order, invoking the lexer for each,
// appending results to read. Must be called immediately after consuming
// a newline operator.
func (p *Parser) hereDocContents() error {
	if p.hasPending {
		panic("parser: hereDocContents called with a pending token")
	}
	pending := p.unread
	p.unread = nil
	for _, ph := range pending {
		text, err := p.lx.HereDocContent(ph.Node.Delimiter, ph.Node.RemoveTabs)
		if err != nil {
			return err
		}
		p.read = append(p.read, text)
	}
	return nil
}

// ensureNoUnreadHereDoc fails if any here-doc registered earlier on the
// same line is still waiting for its body to be read.
func (p *Parser) ensureNoUnreadHereDoc() error {
	if len(p.unread) == 0 {
		return nil
	}
	return errMissingHereDocContent(p.unread[0].Node.Delimiter.Pos())
}

// takeReadHereDocs empties and returns the here-doc bodies read so far.
func (p *Parser) takeReadHereDocs() []ast.Text {
	r := p.read
	p.read = nil
	return r
}

// takePlaceholders empties and returns the permanent creation-order
// placeholder record the fill pass pairs against takeReadHereDocs's
// result.
func (p *Parser) takePlaceholders() []*ast.HereDoc {
	r := p.placeholders
	p.placeholders = nil
	return r
}

// absorbNewlinesAndHereDocs consumes any run of Newline operators,
// draining here-doc contents after each, as the many grammar routines
// that "absorb newlines + here-doc reads" between tokens require.
func (p *Parser) absorbNewlinesAndHereDocs() error {
	for {
		tok, err := p.peekToken()
		if err != nil {
			return err
		}
		if tok.Kind != lexer.TokOperator || tok.Operator != token.Newline {
			return nil
		}
		p.hasPending = false
		p.pending = nil
		if err := p.hereDocContents(); err != nil {
			return err
		}
	}
}
