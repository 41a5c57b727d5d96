package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	qt "github.com/frankban/quicktest"

	"github.com/hymkor/posixsh/alias"
	"github.com/hymkor/posixsh/ast"
	"github.com/hymkor/posixsh/lexer"
	"github.com/hymkor/posixsh/source"
)

// wantWords asserts that a simple command's Words render to exactly the
// given strings, diffing the full slice at once via cmp rather than
// comparing element by element, so a mismatch shows the whole
// discrepancy in one report.
func wantWords(c *qt.C, sc *ast.SimpleCommand, want []string) {
	got := make([]string, len(sc.Words))
	for i, w := range sc.Words {
		got[i] = w.String()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		c.Fatalf("command words mismatch (-want +got):\n%s", diff)
	}
}

// wantLoc asserts an error's Location against the line/column the
// caller expects. The cmp.Diff ignores the Line field via
// cmpopts.IgnoreFields, since the want value has no *Line to compare
// against, and the line number is then checked separately.
func wantLoc(c *qt.C, got source.Location, wantLine, wantColumn int) {
	want := source.Location{Column: wantColumn}
	diff := cmp.Diff(want, got,
		cmpopts.IgnoreFields(source.Location{}, "Line"))
	if diff != "" {
		c.Fatalf("location mismatch (-want +got):\n%s", diff)
	}
	c.Assert(got.Line.Number, qt.Equals, wantLine)
}

func newParser(c *qt.C, s string, aliases alias.Set, opts ...Option) *Parser {
	if aliases == nil {
		aliases = alias.Empty
	}
	lx := lexer.New(source.NewString("", s), aliases)
	return New(lx, aliases, opts...)
}

func oneItem(c *qt.C, lst ast.List) *ast.Item {
	c.Assert(lst, qt.HasLen, 1)
	return lst[0]
}

func oneCommand(c *qt.C, lst ast.List) ast.Command {
	it := oneItem(c, lst)
	c.Assert(it.AndOr.Rest, qt.HasLen, 0)
	p := it.AndOr.First
	c.Assert(p.Commands, qt.HasLen, 1)
	return p.Commands[0]
}

func TestHereDocBasic(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "<<end \nend\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	sc, isSC := oneCommand(c, lst).(*ast.SimpleCommand)
	c.Assert(isSC, qt.IsTrue)
	c.Assert(sc.Words, qt.HasLen, 0)
	c.Assert(sc.Redirs, qt.HasLen, 1)
	hd, isHD := sc.Redirs[0].Body.(*ast.HereDoc)
	c.Assert(isHD, qt.IsTrue)
	c.Assert(hd.Delimiter.String(), qt.Equals, "end")
	c.Assert(hd.RemoveTabs, qt.IsFalse)
	c.Assert(hd.Content, qt.Not(qt.IsNil))
	c.Assert(hd.Content.String(), qt.Equals, "")
}

func TestHereDocRemoveTabs(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "<<-end \nend\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	sc := oneCommand(c, lst).(*ast.SimpleCommand)
	hd := sc.Redirs[0].Body.(*ast.HereDoc)
	c.Assert(hd.RemoveTabs, qt.IsTrue)
}

func TestHereDocWithContent(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "<<END\nfoo\nEND\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	it := oneItem(c, lst)
	c.Assert(it.IsAsync, qt.IsFalse)
	sc := oneCommand(c, lst).(*ast.SimpleCommand)
	c.Assert(sc.Redirs, qt.HasLen, 1)
	hd := sc.Redirs[0].Body.(*ast.HereDoc)
	c.Assert(hd.Delimiter.String(), qt.Equals, "END")
	c.Assert(hd.Content.String(), qt.Equals, "foo\n")
}

func TestPipelineThreeCommands(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "foo | two | \n\t\n three\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	it := oneItem(c, lst)
	pl := it.AndOr.First
	c.Assert(pl.Negation, qt.IsFalse)
	c.Assert(pl.Commands, qt.HasLen, 3)
	for i, want := range []string{"foo", "two", "three"} {
		sc := pl.Commands[i].(*ast.SimpleCommand)
		wantWords(c, sc, []string{want})
	}
}

func TestAndOrList(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "first && second || \n\n third;\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	it := oneItem(c, lst)
	c.Assert(it.AndOr.First.Commands[0].(*ast.SimpleCommand).Words[0].String(), qt.Equals, "first")
	c.Assert(it.AndOr.Rest, qt.HasLen, 2)
	c.Assert(it.AndOr.Rest[0].Op, qt.Equals, ast.AndThen)
	c.Assert(it.AndOr.Rest[0].Pipeline.Commands[0].(*ast.SimpleCommand).Words[0].String(), qt.Equals, "second")
	c.Assert(it.AndOr.Rest[1].Op, qt.Equals, ast.OrElse)
	c.Assert(it.AndOr.Rest[1].Pipeline.Commands[0].(*ast.SimpleCommand).Words[0].String(), qt.Equals, "third")
}

func TestListAsyncSync(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "foo & bar ; baz&\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(lst, qt.HasLen, 3)
	wantAsync := []bool{true, false, true}
	wantText := []string{"foo", "bar", "baz"}
	for i, it := range lst {
		c.Assert(it.IsAsync, qt.Equals, wantAsync[i])
		sc := it.AndOr.First.Commands[0].(*ast.SimpleCommand)
		c.Assert(sc.Words[0].String(), qt.Equals, wantText[i])
	}
}

func TestForLoopNoValues(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "for A do :; done\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	fcc := oneCommand(c, lst).(*ast.FullCompoundCommand)
	fl := fcc.Command.(*ast.ForLoop)
	c.Assert(fl.Name, qt.Equals, "A")
	c.Assert(fl.Values, qt.IsNil)
	c.Assert(fl.Body, qt.HasLen, 1)
}

func TestForLoopWithValues(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "for foo in bar; \n \n do :; done\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	fcc := oneCommand(c, lst).(*ast.FullCompoundCommand)
	fl := fcc.Command.(*ast.ForLoop)
	c.Assert(fl.Name, qt.Equals, "foo")
	c.Assert(fl.Values, qt.Not(qt.IsNil))
	c.Assert(*fl.Values, qt.HasLen, 1)
	c.Assert((*fl.Values)[0].String(), qt.Equals, "bar")
}

func TestDoubleNegation(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, " !  !\n", nil)
	_, _, err := p.CommandLine()
	c.Assert(err, qt.ErrorMatches, ".*")
	perr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(perr.Kind, qt.Equals, DoubleNegation)
	wantLoc(c, perr.Loc, 1, 2)
}

func TestBangAfterBar(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "foo | !\n", nil)
	_, _, err := p.CommandLine()
	perr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(perr.Kind, qt.Equals, BangAfterBar)
	wantLoc(c, perr.Loc, 1, 7)
}

func TestUnexpectedTokenAtTopLevel(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "foo)\n", nil)
	_, _, err := p.CommandLine()
	perr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(perr.Kind, qt.Equals, UnexpectedToken)
	wantLoc(c, perr.Loc, 1, 4)
}

func TestMissingHereDocDelimiterStandalone(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "<<\n", nil)
	_, _, err := p.CommandLine()
	perr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(perr.Kind, qt.Equals, MissingHereDocDelimiter)
	wantLoc(c, perr.Loc, 1, 1)
}

// Alias substitution revealing "!" at command-name position makes the
// resulting pipeline negated.
func TestAliasRevealsNegation(t *testing.T) {
	c := qt.New(t)
	aliases := alias.Map{"X": {Name: "X", Replacement: "! true"}}
	p := newParser(c, "X\n", aliases)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	it := oneItem(c, lst)
	c.Assert(it.AndOr.First.Negation, qt.IsTrue)
	sc := it.AndOr.First.Commands[0].(*ast.SimpleCommand)
	c.Assert(sc.Words[0].String(), qt.Equals, "true")
}

// A blank-ending self-referential alias makes the following word
// eligible for substitution even in non-command-name position; without
// the trailing blank it must not be.
func TestAliasBlankEndingEnablesNextSubstitution(t *testing.T) {
	c := qt.New(t)
	aliases := alias.Map{
		"X": {Name: "X", Replacement: "X "},
		"Y": {Name: "Y", Replacement: "echoed"},
	}
	p := newParser(c, "X Y\n", aliases)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	sc := oneCommand(c, lst).(*ast.SimpleCommand)
	c.Assert(sc.Words[1].String(), qt.Equals, "echoed")
}

func TestAliasWithoutTrailingBlankNotSubstitutedAsArgument(t *testing.T) {
	c := qt.New(t)
	aliases := alias.Map{
		"X": {Name: "X", Replacement: "echo"},
		"Y": {Name: "Y", Replacement: "echoed"},
	}
	p := newParser(c, "X Y\n", aliases)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	sc := oneCommand(c, lst).(*ast.SimpleCommand)
	c.Assert(sc.Words, qt.HasLen, 2)
	c.Assert(sc.Words[1].String(), qt.Equals, "Y")
}

// Boundary: empty input returns "no command".
func TestEmptyInputNoCommand(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
	c.Assert(lst, qt.HasLen, 0)
}

// Boundary: a lone newline returns an empty list item collection.
func TestLoneNewline(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(lst, qt.HasLen, 0)
}

// Boundary: end-of-input while a here-doc is pending. The lexer
// notices this while draining the body (it owns line-by-line reading),
// so the surfaced error is a *lexer.Error, not a *parser.Error.
func TestMissingHereDocContentAtEOF(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "<<END\nfoo\n", nil)
	_, _, err := p.CommandLine()
	lerr, ok := err.(*lexer.Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(lerr.Kind, qt.Equals, lexer.MissingHereDocContent)
}

func TestSimpleCommandWithAssignmentAndRedirection(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "FOO=bar echo hi >out\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	sc := oneCommand(c, lst).(*ast.SimpleCommand)
	c.Assert(sc.Assigns, qt.HasLen, 1)
	c.Assert(sc.Assigns[0].Name, qt.Equals, "FOO")
	c.Assert(sc.Assigns[0].Value.String(), qt.Equals, "bar")
	c.Assert(sc.Words, qt.HasLen, 2)
	c.Assert(sc.Redirs, qt.HasLen, 1)
	normal := sc.Redirs[0].Body.(*ast.Normal)
	c.Assert(normal.Operand.String(), qt.Equals, "out")
}

func TestFunctionDefinitionShortForm(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "f() { echo hi; }\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	fd := oneCommand(c, lst).(*ast.FunctionDefinition)
	c.Assert(fd.HasKeyword, qt.IsFalse)
	c.Assert(fd.Name.String(), qt.Equals, "f")
	_, isGrouping := fd.Body.Command.(*ast.Grouping)
	c.Assert(isGrouping, qt.IsTrue)
}

func TestCaseClause(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "case x in a|b) foo;; *) bar;; esac\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	fcc := oneCommand(c, lst).(*ast.FullCompoundCommand)
	cc := fcc.Command.(*ast.CaseClause)
	c.Assert(cc.Subject.String(), qt.Equals, "x")
	c.Assert(cc.Items, qt.HasLen, 2)
	c.Assert(cc.Items[0].Patterns, qt.HasLen, 2)
	c.Assert(cc.Items[0].Patterns[0].String(), qt.Equals, "a")
	c.Assert(cc.Items[0].Patterns[1].String(), qt.Equals, "b")
	c.Assert(cc.Items[1].Patterns[0].String(), qt.Equals, "*")
}

func TestWhileUntilLoops(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "while true; do :; done\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	fcc := oneCommand(c, lst).(*ast.FullCompoundCommand)
	_, isWhile := fcc.Command.(*ast.WhileLoop)
	c.Assert(isWhile, qt.IsTrue)

	p2 := newParser(c, "until false; do :; done\n", nil)
	lst2, ok2, err2 := p2.CommandLine()
	c.Assert(err2, qt.IsNil)
	c.Assert(ok2, qt.IsTrue)
	fcc2 := oneCommand(c, lst2).(*ast.FullCompoundCommand)
	_, isUntil := fcc2.Command.(*ast.UntilLoop)
	c.Assert(isUntil, qt.IsTrue)
}

func TestSubshellAndGrouping(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "(foo; bar)\n", nil)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	fcc := oneCommand(c, lst).(*ast.FullCompoundCommand)
	sub, isSub := fcc.Command.(*ast.Subshell)
	c.Assert(isSub, qt.IsTrue)
	c.Assert(sub.Body, qt.HasLen, 2)

	p2 := newParser(c, "{ foo; bar; }\n", nil)
	lst2, ok2, err2 := p2.CommandLine()
	c.Assert(err2, qt.IsNil)
	c.Assert(ok2, qt.IsTrue)
	fcc2 := oneCommand(c, lst2).(*ast.FullCompoundCommand)
	_, isGroup := fcc2.Command.(*ast.Grouping)
	c.Assert(isGroup, qt.IsTrue)
}

func TestPOSIXStrictRejectsDigitHereDocDelimiter(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "<<123\n123\n", nil, POSIXStrict())
	_, _, err := p.CommandLine()
	perr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(perr.Kind, qt.Equals, InvalidHereDocDelimiter)
}

func TestFdOutOfRange(t *testing.T) {
	c := qt.New(t)
	p := newParser(c, "99999999999>out\n", nil)
	_, _, err := p.CommandLine()
	perr, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(perr.Kind, qt.Equals, FdOutOfRange)
}

// An IoNumber token is never a candidate for alias substitution, even
// when its digits happen to match a defined alias name: only bare
// literal TokWord tokens are looked up.
func TestIoNumberNotAliasSubstituted(t *testing.T) {
	c := qt.New(t)
	aliases := alias.Map{"2": {Name: "2", Replacement: "echo replaced", Global: true}}
	p := newParser(c, "2>out\n", aliases)
	lst, ok, err := p.CommandLine()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	sc := oneCommand(c, lst).(*ast.SimpleCommand)
	c.Assert(sc.Words, qt.HasLen, 0)
	c.Assert(sc.Redirs, qt.HasLen, 1)
	c.Assert(*sc.Redirs[0].Fd, qt.Equals, uint32(2))
	normal := sc.Redirs[0].Body.(*ast.Normal)
	c.Assert(normal.Operand.String(), qt.Equals, "out")
}
