package parser

import (
	"fmt"

	"github.com/hymkor/posixsh/ast"
	"github.com/hymkor/posixsh/source"
)

// ErrorKind enumerates the grammar-level failure categories, on top of
// the lexer's own IoError/UnclosedCommandSubstitution/UnclosedParen/
// MissingHereDocContent (which surface unchanged, unwrapped, when the
// lexer fails mid-grammar).
type ErrorKind int

const (
	_ ErrorKind = iota
	UnexpectedToken
	MissingRedirOperand
	MissingHereDocDelimiter
	InvalidHereDocDelimiter
	MissingHereDocContent
	FdOutOfRange
	UnclosedArrayValue
	UnclosedSubshell
	UnclosedGrouping
	UnclosedDoClause
	UnclosedWhileClause
	UnclosedUntilClause
	UnmatchedParenthesis
	EmptySubshell
	EmptyGrouping
	EmptyDoClause
	EmptyWhileCondition
	EmptyUntilCondition
	MissingFunctionBody
	InvalidFunctionBody
	MissingForName
	InvalidForName
	InvalidForValue
	MissingForBody
	DoubleNegation
	BangAfterBar
	MissingCommandAfterBang
	MissingCommandAfterBar
	MissingPipeline
)

// Error is the parser's error type. AndOr is set only when Kind ==
// MissingPipeline, naming which operator (&& or ||) required the
// missing pipeline.
type Error struct {
	Kind    ErrorKind
	Loc     source.Location
	Message string
	AndOr   ast.AndOr
	Cause   error
}

func (e *Error) Error() string {
	prefix := ""
	if !e.Loc.IsZero() {
		prefix = e.Loc.String() + ": "
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s%s: %v", prefix, e.Message, e.Cause)
	}
	return prefix + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func errAt(kind ErrorKind, loc source.Location, msg string) *Error {
	return &Error{Kind: kind, Loc: loc, Message: msg}
}

func errUnexpectedToken(loc source.Location, got string) *Error {
	return errAt(UnexpectedToken, loc, fmt.Sprintf("unexpected token %q", got))
}

func errMissingRedirOperand(loc source.Location) *Error {
	return errAt(MissingRedirOperand, loc, "missing redirection operand")
}

func errMissingHereDocDelimiter(loc source.Location) *Error {
	return errAt(MissingHereDocDelimiter, loc, "missing here-document delimiter")
}

func errInvalidHereDocDelimiter(loc source.Location) *Error {
	return errAt(InvalidHereDocDelimiter, loc, "here-document delimiter may not be a bare digit run in POSIX-strict mode")
}

func errMissingHereDocContent(loc source.Location) *Error {
	return errAt(MissingHereDocContent, loc, "missing here-document content before end of input")
}

func errFdOutOfRange(loc source.Location) *Error {
	return errAt(FdOutOfRange, loc, "file descriptor out of range")
}

func errUnclosedArrayValue(loc source.Location) *Error {
	return errAt(UnclosedArrayValue, loc, "unclosed array assignment")
}

func errUnclosedSubshell(loc source.Location) *Error {
	return errAt(UnclosedSubshell, loc, "unclosed subshell")
}

func errUnclosedGrouping(loc source.Location) *Error {
	return errAt(UnclosedGrouping, loc, "unclosed grouping")
}

func errUnclosedDoClause(loc source.Location) *Error {
	return errAt(UnclosedDoClause, loc, "unclosed do-clause")
}

func errUnclosedWhileClause(loc source.Location) *Error {
	return errAt(UnclosedWhileClause, loc, "unclosed while-clause")
}

func errUnclosedUntilClause(loc source.Location) *Error {
	return errAt(UnclosedUntilClause, loc, "unclosed until-clause")
}

func errUnmatchedParenthesis(loc source.Location) *Error {
	return errAt(UnmatchedParenthesis, loc, "unmatched parenthesis")
}

func errEmptySubshell(loc source.Location) *Error {
	return errAt(EmptySubshell, loc, "empty subshell")
}

func errEmptyGrouping(loc source.Location) *Error {
	return errAt(EmptyGrouping, loc, "empty grouping")
}

func errEmptyDoClause(loc source.Location) *Error {
	return errAt(EmptyDoClause, loc, "empty do-clause")
}

func errEmptyWhileCondition(loc source.Location) *Error {
	return errAt(EmptyWhileCondition, loc, "empty while condition")
}

func errEmptyUntilCondition(loc source.Location) *Error {
	return errAt(EmptyUntilCondition, loc, "empty until condition")
}

func errMissingFunctionBody(loc source.Location) *Error {
	return errAt(MissingFunctionBody, loc, "missing function body")
}

func errInvalidFunctionBody(loc source.Location) *Error {
	return errAt(InvalidFunctionBody, loc, "invalid function body")
}

func errMissingForName(loc source.Location) *Error {
	return errAt(MissingForName, loc, "missing name in for-loop")
}

func errInvalidForName(loc source.Location) *Error {
	return errAt(InvalidForName, loc, "invalid name in for-loop")
}

func errInvalidForValue(loc source.Location) *Error {
	return errAt(InvalidForValue, loc, "invalid value in for-loop")
}

func errMissingForBody(loc source.Location) *Error {
	return errAt(MissingForBody, loc, "missing body in for-loop")
}

func errDoubleNegation(loc source.Location) *Error {
	return errAt(DoubleNegation, loc, "double pipeline negation")
}

func errBangAfterBar(loc source.Location) *Error {
	return errAt(BangAfterBar, loc, "'!' immediately after '|'")
}

func errMissingCommandAfterBang(loc source.Location) *Error {
	return errAt(MissingCommandAfterBang, loc, "missing command after '!'")
}

func errMissingCommandAfterBar(loc source.Location) *Error {
	return errAt(MissingCommandAfterBar, loc, "missing command after '|'")
}

func errMissingPipeline(loc source.Location, op ast.AndOr) *Error {
	word := "&&"
	if op == ast.OrElse {
		word = "||"
	}
	return &Error{Kind: MissingPipeline, Loc: loc, AndOr: op, Message: fmt.Sprintf("missing pipeline after %q", word)}
}
