package lexer

import (
	"strings"

	"github.com/hymkor/posixsh/ast"
	"github.com/hymkor/posixsh/source"
)

// hdocEscapable mirrors the double-quote escape set minus '"', which
// has no special meaning in a here-doc body.
func hdocEscapable(r rune) bool {
	switch r {
	case '$', '`', '\\', '\n':
		return true
	}
	return false
}

// delimiterLiteral computes the literal text a here-doc delimiter word
// names, and whether the word contained any quoting at all: an unquoted
// delimiter means the body still parses $, `, and \ escapes; a quoted
// delimiter means the body is taken fully literally.
func delimiterLiteral(w ast.Word) (value string, hasQuoting bool) {
	var sb strings.Builder
	for _, u := range w.Units {
		switch x := u.(type) {
		case *ast.Literal:
			sb.WriteString(x.Value)
		case *ast.Escaped:
			sb.WriteRune(x.Char)
			hasQuoting = true
		case *ast.SingleQuoted:
			sb.WriteString(x.Value)
			hasQuoting = true
		case *ast.DoubleQuoted:
			inner, _ := delimiterLiteral(ast.Word{Units: x.Parts.Units})
			sb.WriteString(inner)
			hasQuoting = true
		default:
			// Parameter/command/arithmetic expansion or backquote in a
			// delimiter position is unusual; fall back to its raw
			// spelling so matching is at least deterministic.
			sb.WriteString(rawSpelling(u))
		}
	}
	return sb.String(), hasQuoting
}

func rawSpelling(u ast.TextUnit) string {
	switch x := u.(type) {
	case *ast.ParamExpansion:
		return x.Raw
	case *ast.ArithExpansion:
		return x.Raw
	case *ast.CommandSubst:
		return x.Raw
	case *ast.Backquote:
		return x.Raw
	}
	return ""
}

// readRawLine reads one physical line directly from the character
// stack, bypassing the normal peek/consume path's line-continuation
// absorption: here-doc delimiter matching must see physical lines
// verbatim, not logical lines joined across a continuation. It returns
// ok=false only at end of input with nothing read.
func (lx *Lexer) readRawLine() (line string, loc source.Location, ok bool, err error) {
	var sb strings.Builder
	first := true
	for {
		ch, chLoc, got, rerr := lx.rawNext()
		if rerr != nil {
			return "", loc, false, rerr
		}
		if !got {
			if first {
				return "", loc, false, nil
			}
			return sb.String(), loc, true, nil
		}
		if first {
			loc = chLoc
			first = false
		}
		if ch == '\n' {
			return sb.String(), loc, true, nil
		}
		sb.WriteRune(ch)
	}
}

// HereDocContent reads, starting from the beginning of the next line,
// lines until one -- after optional leading-tab stripping -- equals
// delimiter's literal form, and returns the parsed body as a standalone
// Text value. It does not touch any placeholder node; the parser
// core's fill pass is what eventually attaches the result to its AST
// placeholder.
//
// Any buffered lookahead character must be flushed by the caller before
// invoking this; the parser core only calls it immediately after
// consuming a newline operator.
func (lx *Lexer) HereDocContent(delimiter ast.Word, removeTabs bool) (ast.Text, error) {
	delim, hasQuoting := delimiterLiteral(delimiter)

	var bodyUnits []ast.TextUnit
	for {
		raw, _, ok, err := lx.readRawLine()
		if err != nil {
			return ast.Text{}, err
		}
		if !ok {
			return ast.Text{}, newMissingHereDocContent(delimiter.Pos())
		}
		content := raw
		if removeTabs {
			content = strings.TrimLeft(raw, "\t")
		}
		if content == delim {
			break
		}
		if hasQuoting {
			bodyUnits = append(bodyUnits, &ast.Literal{Value: content + "\n"})
		} else {
			lineUnits, err := parseLiteralStringAsText(content+"\n", hdocEscapable)
			if err != nil {
				return ast.Text{}, err
			}
			bodyUnits = append(bodyUnits, lineUnits...)
		}
	}
	return ast.Text{Units: bodyUnits}, nil
}

// parseLiteralStringAsText re-lexes a single already-read line of
// here-doc content through the text sub-lexer so its $, `, and \
// escapes are recognized, by spinning up a throwaway Lexer over just
// that line's text.
func parseLiteralStringAsText(s string, escapable func(rune) bool) ([]ast.TextUnit, error) {
	tmp := New(source.NewString("", s), nil)
	text, err := tmp.parseText(func(rune) bool { return false }, escapable)
	if err != nil {
		return nil, err
	}
	return text.Units, nil
}
