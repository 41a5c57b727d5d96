package lexer

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/hymkor/posixsh/alias"
	"github.com/hymkor/posixsh/ast"
	"github.com/hymkor/posixsh/source"
)

func newLexer(s string) *Lexer {
	return New(source.NewString("", s), alias.Empty)
}

func TestTokenOperators(t *testing.T) {
	c := qt.New(t)
	lx := newLexer("&& || ;; <<- foo")
	tok, err := lx.Token(true)
	c.Assert(err, qt.IsNil)
	c.Assert(tok.Kind, qt.Equals, TokOperator)

	var ops []string
	for {
		if tok.Kind == TokEndOfInput {
			break
		}
		if tok.Kind == TokOperator {
			ops = append(ops, tok.Operator.String())
		}
		if err := lx.SkipBlanksAndComment(); err != nil {
			t.Fatal(err)
		}
		tok, err = lx.Token(true)
		c.Assert(err, qt.IsNil)
	}
	c.Assert(ops, qt.DeepEquals, []string{"&&", "||", ";;", "<<-"})
}

func TestTokenWordAndKeyword(t *testing.T) {
	c := qt.New(t)
	lx := newLexer("while")
	tok, err := lx.Token(true)
	c.Assert(err, qt.IsNil)
	c.Assert(tok.Kind, qt.Equals, TokWord)
	c.Assert(tok.HasKeyword, qt.IsTrue)
}

func TestTokenIoNumber(t *testing.T) {
	c := qt.New(t)
	lx := newLexer("2>file")
	tok, err := lx.Token(true)
	c.Assert(err, qt.IsNil)
	c.Assert(tok.Kind, qt.Equals, TokIoNumber)
	c.Assert(tok.IoNumberValue, qt.Equals, uint32(2))
}

func TestTokenDigitsNotIoNumberWithoutRedir(t *testing.T) {
	c := qt.New(t)
	lx := newLexer("123 foo")
	tok, err := lx.Token(true)
	c.Assert(err, qt.IsNil)
	c.Assert(tok.Kind, qt.Equals, TokWord)
}

func TestQuotingSingle(t *testing.T) {
	c := qt.New(t)
	lx := newLexer(`'a b'`)
	tok, err := lx.Token(true)
	c.Assert(err, qt.IsNil)
	c.Assert(len(tok.Word.Units), qt.Equals, 1)
	sq, ok := tok.Word.Units[0].(*ast.SingleQuoted)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sq.Value, qt.Equals, "a b")
}

func TestLineContinuationAbsorbed(t *testing.T) {
	c := qt.New(t)
	lx := newLexer("fo\\\no")
	tok, err := lx.Token(true)
	c.Assert(err, qt.IsNil)
	c.Assert(tok.Kind, qt.Equals, TokWord)
	c.Assert(tok.Word.String(), qt.Equals, "foo")
}

func TestCommandSubstitutionBalanced(t *testing.T) {
	c := qt.New(t)
	lx := newLexer("$(echo $(nested))")
	tok, err := lx.Token(true)
	c.Assert(err, qt.IsNil)
	c.Assert(tok.Word.String(), qt.Equals, "$(echo $(nested))")
}

func TestHereDocContent(t *testing.T) {
	c := qt.New(t)
	lx := newLexer("foo\nEND\n")
	delim := ast.Word{Units: []ast.TextUnit{&ast.Literal{Value: "END"}}}
	text, err := lx.HereDocContent(delim, false)
	c.Assert(err, qt.IsNil)
	c.Assert(text.String(), qt.Equals, "foo\n")
}
