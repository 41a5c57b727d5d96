// Package lexer implements the token producer and the text/word
// sub-lexer: operator and word recognition, reserved-keyword
// classification, alias-text splicing into the character stream, and
// here-document content reading.
package lexer

import (
	"unicode"

	"github.com/hymkor/posixsh/alias"
	"github.com/hymkor/posixsh/ast"
	"github.com/hymkor/posixsh/source"
	"github.com/hymkor/posixsh/token"
)

// TokenKind identifies the shape of a produced Token.
type TokenKind int

const (
	TokWord TokenKind = iota
	TokOperator
	TokIoNumber
	TokEndOfInput
)

// Token is the lexer's output unit: a kind plus payload, and the
// verbatim source word with its location.
type Token struct {
	Kind Kind

	Operator token.Operator

	// Keyword and HasKeyword classify a TokWord that is a bare literal
	// matching a reserved word.
	Keyword    token.Keyword
	HasKeyword bool

	// Word holds the verbatim word for TokWord and TokIoNumber.
	Word ast.Word

	// IoNumberValue is the parsed unsigned decimal value, valid only
	// when Kind == TokIoNumber.
	IoNumberValue uint32

	Loc source.Location
}

// Kind is an alias name kept for readability at call sites; identical
// to TokenKind.
type Kind = TokenKind

// stackedSource is one layer of the lexer's character-stream stack: the
// base program source, or a pushed alias-replacement source. isAlias
// and lastWasBlank let the lexer detect when an alias-replacement layer
// ending in a blank has just been exhausted and popped.
type stackedSource struct {
	cs            source.CharSource
	isAlias       bool
	lastWasBlank  bool
	aliasName     string
	aliasBlankEnd bool // not set by SubstituteAlias; blank-ending detection reads lastWasBlank
}

// Lexer produces tokens from a stack of character sources, honoring
// alias substitution and line continuations. The bottom of the stack
// is always the original program source; alias replacements are pushed
// on top and popped once exhausted.
type Lexer struct {
	layers  []*stackedSource
	aliases alias.Set

	// one-rune pushback buffer used by peekChar/consumeChar, already
	// past any line-continuation absorption.
	hasPending bool
	pendingCh  rune
	pendingLoc source.Location
	pendingErr error
	pendingEOF bool

	// set to true whenever, while producing the pending char, an
	// alias-replacement layer ending in a blank was exhausted; cleared
	// once observed by the parser via AfterBlankEndingAlias.
	afterBlankEndingAlias bool

	// strict records whether POSIX-strict mode is on. No lexing rule
	// reads it; the strict-mode checks (such as rejecting a bare digit
	// run as a here-doc delimiter) are made by the parser.
	strict bool
}

// New returns a Lexer reading from src, consulting aliases for
// substitute-alias. Pass alias.Empty if the embedding caller has no
// alias feature.
func New(src source.CharSource, aliases alias.Set) *Lexer {
	return &Lexer{
		layers:  []*stackedSource{{cs: src}},
		aliases: aliases,
	}
}

// SetStrict records whether POSIX-strict mode is on; tokenization is the
// same in both modes.
func (lx *Lexer) SetStrict(strict bool) { lx.strict = strict }

func isBlank(r rune) bool { return r == ' ' || r == '\t' }

// rawNext pulls the next character directly from the layer stack, with
// no line-continuation absorption. fillPending builds continuation
// absorption on top of it, and here-doc content reading calls it
// directly because it must see physical lines verbatim.
func (lx *Lexer) rawNext() (rune, source.Location, bool, error) {
	for len(lx.layers) > 0 {
		top := lx.layers[len(lx.layers)-1]
		ch, loc, ok, err := top.cs.Next()
		if err != nil {
			return 0, loc, false, newIoError(loc, err)
		}
		if ok {
			top.lastWasBlank = isBlank(ch)
			return ch, loc, true, nil
		}
		if len(lx.layers) == 1 {
			return 0, source.Location{}, false, nil
		}
		if top.isAlias && top.lastWasBlank {
			lx.afterBlankEndingAlias = true
		}
		lx.layers = lx.layers[:len(lx.layers)-1]
	}
	return 0, source.Location{}, false, nil
}

// fillPending advances past any number of '\' '\n' line-continuation
// sequences and buffers the next real character: the sequence '\\\n'
// is swallowed before every character examination.
func (lx *Lexer) fillPending() error {
	if lx.hasPending {
		return nil
	}
	for {
		ch, loc, ok, err := lx.rawNext()
		if err != nil {
			return err
		}
		if !ok {
			lx.pendingEOF = true
			lx.hasPending = true
			return nil
		}
		if ch == '\\' {
			ch2, loc2, ok2, err2 := lx.rawNext()
			if err2 != nil {
				return err2
			}
			if ok2 && ch2 == '\n' {
				continue // line continuation: swallow both, keep scanning
			}
			// not a line continuation: ch2 (if any) must be pushed back
			// as the pending char after this '\\' is consumed by the
			// caller. We buffer '\\' now and stash ch2 by re-injecting
			// it as a synthetic one-shot layer.
			lx.pendingCh, lx.pendingLoc, lx.hasPending = ch, loc, true
			if ok2 {
				lx.pushBack(ch2, loc2)
			}
			return nil
		}
		lx.pendingCh, lx.pendingLoc, lx.hasPending = ch, loc, true
		return nil
	}
}

// pushBack reinjects a single already-read character, with its
// original location, as a synthetic one-character layer on top of the
// stack, so the very next peekChar/rawNext sees it again.
type oneShotSource struct {
	ch   rune
	loc  source.Location
	used bool
}

func (o *oneShotSource) Next() (rune, source.Location, bool, error) {
	if o.used {
		return 0, source.Location{}, false, nil
	}
	o.used = true
	return o.ch, o.loc, true, nil
}

func (lx *Lexer) pushBack(ch rune, loc source.Location) {
	lx.layers = append(lx.layers, &stackedSource{cs: &oneShotSource{ch: ch, loc: loc}})
}

// peekChar returns the next character without consuming it.
func (lx *Lexer) peekChar() (rune, source.Location, bool, error) {
	if err := lx.fillPending(); err != nil {
		return 0, source.Location{}, false, err
	}
	if lx.pendingEOF {
		return 0, source.Location{}, false, nil
	}
	return lx.pendingCh, lx.pendingLoc, true, nil
}

// consumeChar consumes and returns the buffered character (peekChar
// must have been called, directly or via consumeCharIf/peekChar itself
// having filled the buffer).
func (lx *Lexer) consumeChar() (rune, source.Location, bool) {
	if !lx.hasPending || lx.pendingEOF {
		return 0, source.Location{}, false
	}
	ch, loc := lx.pendingCh, lx.pendingLoc
	lx.hasPending = false
	return ch, loc, true
}

// consumeCharIf consumes and returns the next character if it matches
// predicate, leaving the stream unchanged otherwise.
func (lx *Lexer) consumeCharIf(predicate func(rune) bool) (rune, source.Location, bool, error) {
	ch, loc, ok, err := lx.peekChar()
	if err != nil || !ok || !predicate(ch) {
		return 0, source.Location{}, false, err
	}
	lx.consumeChar()
	return ch, loc, true, nil
}

// AfterBlankEndingAlias reports and clears whether, since the last time
// this was called, an alias-replacement layer ending in a blank was
// exhausted.
func (lx *Lexer) AfterBlankEndingAlias() bool {
	v := lx.afterBlankEndingAlias
	lx.afterBlankEndingAlias = false
	return v
}

// SubstituteAlias pushes a's replacement text as a new input layer
// whose Source records the original location and alias name.
// Subsequent peekChar/consumeChar calls read from this layer until
// exhausted, then transparently revert.
func (lx *Lexer) SubstituteAlias(a alias.Alias, origin source.Location) {
	// A character already buffered after the alias name comes after the
	// replacement text, so it goes back on the stack under the new layer.
	if lx.hasPending {
		if !lx.pendingEOF {
			lx.pushBack(lx.pendingCh, lx.pendingLoc)
		}
		lx.hasPending, lx.pendingEOF = false, false
	}
	cs := source.NewAliasReplacement(a.Name, origin, a.Replacement)
	lx.layers = append(lx.layers, &stackedSource{
		cs:        cs,
		isAlias:   true,
		aliasName: a.Name,
	})
}

// CurrentSourceIsAliasOf reports whether the Source chain of loc
// includes an alias replacement of name -- used by the parser's
// loop-prevention check before substituting the same alias twice on one
// chain. It follows each alias replacement's Origin back until it
// reaches a line that is not an alias replacement.
func CurrentSourceIsAliasOf(loc source.Location, name string) bool {
	for l := loc.Line; l != nil; {
		if l.Src.Kind == source.AliasReplacement {
			if l.Src.AliasName == name {
				return true
			}
			if l.Src.Origin != nil {
				l = l.Src.Origin.Line
				continue
			}
		}
		return false
	}
	return false
}

// SkipBlanksAndComment consumes spaces/tabs, then, if a '#' follows,
// discards through (but not including) the next '\n'.
func (lx *Lexer) SkipBlanksAndComment() error {
	for {
		_, _, consumed, err := lx.consumeCharIf(isBlank)
		if err != nil {
			return err
		}
		if consumed {
			continue
		}
		ch, _, ok, err := lx.peekChar()
		if err != nil {
			return err
		}
		if ok && ch == '#' {
			for {
				ch, _, ok, err := lx.peekChar()
				if err != nil {
					return err
				}
				if !ok || ch == '\n' {
					break
				}
				lx.consumeChar()
			}
			continue
		}
		return nil
	}
}

// HasBlank reports whether the next character (after line
// continuations) is a space or tab, without consuming it.
func (lx *Lexer) HasBlank() (bool, error) {
	ch, _, ok, err := lx.peekChar()
	if err != nil {
		return false, err
	}
	return ok && isBlank(ch), nil
}

func regOps(r rune) bool {
	switch r {
	case '\n', '&', '(', ')', ';', '<', '>', '|':
		return true
	}
	return false
}

func wordBreak(r rune) bool {
	return isBlank(r) || regOps(r)
}

func isNameStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isNameCont(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

// Token produces the next token. allowIoNumber tells the lexer whether
// the current grammar position permits classifying a bare digit run
// followed immediately by '<' or '>' as an IoNumber.
func (lx *Lexer) Token(allowIoNumber bool) (Token, error) {
	ch, loc, ok, err := lx.peekChar()
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{Kind: TokEndOfInput, Loc: loc}, nil
	}

	if op, n := token.DefaultTrie.Match(lx.peekByteFunc()); n > 0 {
		opLoc := loc
		for i := 0; i < n; i++ {
			if _, _, ok, err := lx.peekChar(); err != nil {
				return Token{}, err
			} else if !ok {
				break
			}
			lx.consumeChar()
		}
		return Token{Kind: TokOperator, Operator: op, Loc: opLoc}, nil
	}

	// IoNumber: a run of decimal digits immediately followed by < or >.
	if allowIoNumber && unicode.IsDigit(ch) {
		if tok, matched, err := lx.tryIoNumber(loc); err != nil {
			return Token{}, err
		} else if matched {
			return tok, nil
		}
	}

	w, err := lx.scanWord(loc)
	if err != nil {
		return Token{}, err
	}
	if lit, ok := BareLiteral(w); ok {
		if kw, isKw := token.LookupKeyword(lit); isKw {
			return Token{Kind: TokWord, Word: w, Keyword: kw, HasKeyword: true, Loc: loc}, nil
		}
	}
	return Token{Kind: TokWord, Word: w, Loc: loc}, nil
}

// BareLiteral reports whether w is composed of exactly one unquoted,
// unescaped Literal text unit, returning its value -- the shape
// required for reserved-word and alias-name recognition. Exported for
// the parser's manual-token-take alias-substitution check.
func BareLiteral(w ast.Word) (string, bool) {
	if len(w.Units) != 1 {
		return "", false
	}
	lit, ok := w.Units[0].(*ast.Literal)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// tryIoNumber attempts to scan a digit run immediately followed by '<'
// or '>'. It reports matched=false (consuming nothing) if the
// lookahead does not have that shape, so the caller falls back to
// ordinary word scanning.
func (lx *Lexer) tryIoNumber(start source.Location) (Token, bool, error) {
	var digits []rune
	var locs []source.Location
	i := 0
	for {
		ch, loc, ok, err := lx.peekCharAt(i)
		if err != nil {
			return Token{}, false, err
		}
		if !ok || !unicode.IsDigit(ch) {
			if ch == '<' || ch == '>' {
				break
			}
			return Token{}, false, nil
		}
		digits = append(digits, ch)
		locs = append(locs, loc)
		i++
	}
	if len(digits) == 0 {
		return Token{}, false, nil
	}
	for range digits {
		if _, _, ok, err := lx.peekChar(); err != nil {
			return Token{}, false, err
		} else if !ok {
			break
		}
		lx.consumeChar()
	}
	var val uint32
	for _, d := range digits {
		val = val*10 + uint32(d-'0')
	}
	lit := &ast.Literal{Value: string(digits), Loc: start}
	w := ast.Word{Units: []ast.TextUnit{lit}, Loc: start}
	return Token{Kind: TokIoNumber, Word: w, IoNumberValue: val, Loc: start}, true, nil
}

// peekCharAt peeks n characters ahead (0-based) without consuming any
// of them, by consuming-and-pushing-back through a small local stack.
// It leaves the one-rune buffer empty, so a caller must peekChar again
// before consumeChar. Used by the operator trie's lookahead,
// tryIoNumber's digits-only lookahead, and the backslash lookahead.
func (lx *Lexer) peekCharAt(n int) (rune, source.Location, bool, error) {
	var buf []rune
	var locs []source.Location
	defer func() {
		for i := len(buf) - 1; i >= 0; i-- {
			lx.layers = append(lx.layers, &stackedSource{cs: &oneShotSource{ch: buf[i], loc: locs[i]}})
		}
		lx.hasPending = false
	}()
	for i := 0; i <= n; i++ {
		ch, loc, ok, err := lx.peekChar()
		if err != nil {
			return 0, source.Location{}, false, err
		}
		if !ok {
			return 0, source.Location{}, false, nil
		}
		lx.consumeChar()
		buf = append(buf, ch)
		locs = append(locs, loc)
		if i == n {
			return ch, loc, true, nil
		}
	}
	return 0, source.Location{}, false, nil
}

// peekByteFunc adapts peekCharAt to the rune-peek signature the
// operator trie expects.
func (lx *Lexer) peekByteFunc() func(int) (rune, bool) {
	return func(n int) (rune, bool) {
		ch, _, ok, err := lx.peekCharAt(n)
		if err != nil || !ok {
			return 0, false
		}
		return ch, true
	}
}

// scanWord scans a maximal run of non-blank, non-operator characters,
// honoring quoting.
func (lx *Lexer) scanWord(start source.Location) (ast.Word, error) {
	text, err := lx.parseText(wordBreak, func(rune) bool { return true })
	if err != nil {
		return ast.Word{}, err
	}
	return ast.Word{Units: text.Units, Loc: start}, nil
}

// dqEscapable is the set of characters a backslash may escape inside
// double quotes.
func dqEscapable(r rune) bool {
	switch r {
	case '$', '`', '"', '\\', '\n':
		return true
	}
	return false
}
