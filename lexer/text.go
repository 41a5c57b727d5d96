package lexer

import (
	"strings"

	"github.com/hymkor/posixsh/ast"
	"github.com/hymkor/posixsh/source"
)

// parseText parses an ast.Text as a sequence of TextUnits: isDelimiter(c)
// says an unquoted c ends the text; isEscapable(c) says a backslash
// immediately before c, outside quotes, is a valid escape. Quoting
// (single and double) and the four expansion forms are always
// recognized regardless of the predicates, since this same routine
// drives word text, here-document bodies, and double-quoted interiors.
func (lx *Lexer) parseText(isDelimiter func(rune) bool, isEscapable func(rune) bool) (ast.Text, error) {
	var units []ast.TextUnit
	var lit strings.Builder
	var litStart source.Location
	haveLitStart := false

	flush := func() {
		if lit.Len() > 0 {
			units = append(units, &ast.Literal{Value: lit.String(), Loc: litStart})
			lit.Reset()
			haveLitStart = false
		}
	}

	for {
		ch, loc, ok, err := lx.peekChar()
		if err != nil {
			flush()
			return ast.Text{Units: units}, err
		}
		if !ok {
			flush()
			return ast.Text{Units: units}, nil
		}
		if isDelimiter(ch) {
			flush()
			return ast.Text{Units: units}, nil
		}

		switch ch {
		case '\'':
			flush()
			lx.consumeChar()
			val, _, err := lx.scanSingleQuoted()
			if err != nil {
				return ast.Text{Units: units}, err
			}
			units = append(units, &ast.SingleQuoted{Value: val, Loc: loc})
			continue
		case '"':
			flush()
			lx.consumeChar()
			inner, err := lx.parseText(func(r rune) bool { return r == '"' }, dqEscapable)
			if err != nil {
				return ast.Text{Units: units}, err
			}
			if _, _, ok, err := lx.consumeCharIf(func(r rune) bool { return r == '"' }); err != nil {
				return ast.Text{Units: units}, err
			} else if !ok {
				return ast.Text{Units: units}, newUnclosedQuote(loc, '"')
			}
			units = append(units, &ast.DoubleQuoted{Parts: inner, Loc: loc})
			continue
		case '\\':
			nxt, _, hasNxt, err := lx.peekCharAtAfterBackslash()
			if err != nil {
				return ast.Text{Units: units}, err
			}
			// peekCharAt left the buffer empty; refill it with the backslash.
			if _, _, _, err := lx.peekChar(); err != nil {
				return ast.Text{Units: units}, err
			}
			if hasNxt && isEscapable(nxt) {
				flush()
				lx.consumeChar() // the backslash
				if _, _, _, err := lx.peekChar(); err != nil {
					return ast.Text{Units: units}, err
				}
				ch2, loc2, _ := lx.consumeChar()
				units = append(units, &ast.Escaped{Char: ch2, Loc: loc2})
				continue
			}
			// backslash not escapable here: literal backslash character
			if !haveLitStart {
				litStart = loc
				haveLitStart = true
			}
			lit.WriteRune(ch)
			lx.consumeChar()
			continue
		case '`':
			flush()
			raw, err := lx.scanBackquote(loc)
			if err != nil {
				return ast.Text{Units: units}, err
			}
			units = append(units, &ast.Backquote{Raw: raw, Loc: loc})
			continue
		case '$':
			flush()
			unit, err := lx.scanDollar(loc)
			if err != nil {
				return ast.Text{Units: units}, err
			}
			if unit != nil {
				units = append(units, unit)
			} else {
				// bare "$" with nothing recognizable following: literal.
				if !haveLitStart {
					litStart = loc
					haveLitStart = true
				}
				lit.WriteRune('$')
			}
			continue
		default:
			if !haveLitStart {
				litStart = loc
				haveLitStart = true
			}
			lit.WriteRune(ch)
			lx.consumeChar()
		}
	}
}

// peekCharAtAfterBackslash peeks the character immediately after the
// backslash currently at the front of the stream (index 1), without
// consuming anything.
func (lx *Lexer) peekCharAtAfterBackslash() (rune, source.Location, bool, error) {
	return lx.peekCharAt(1)
}

// scanSingleQuoted consumes through the matching closing quote of a
// '...' that has already had its opening quote consumed; content is
// entirely literal, with no escape processing at all.
func (lx *Lexer) scanSingleQuoted() (string, source.Location, error) {
	var sb strings.Builder
	for {
		ch, loc, ok, err := lx.peekChar()
		if err != nil {
			return "", loc, err
		}
		if !ok {
			return sb.String(), loc, newUnclosedQuote(loc, '\'')
		}
		lx.consumeChar()
		if ch == '\'' {
			return sb.String(), loc, nil
		}
		sb.WriteRune(ch)
	}
}

// scanBackquote consumes a `...` command substitution, applying
// backquote's own backslash rule: only \\, \`, and \$ are escapes, and
// returns the raw text including the surrounding backquotes.
func (lx *Lexer) scanBackquote(openLoc source.Location) (string, error) {
	var sb strings.Builder
	sb.WriteByte('`')
	lx.consumeChar() // the opening backquote
	for {
		ch, _, ok, err := lx.peekChar()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", newUnclosedCommandSubstitution(openLoc)
		}
		lx.consumeChar()
		if ch == '\\' {
			sb.WriteRune(ch)
			if nxt, _, ok2, err2 := lx.peekChar(); err2 != nil {
				return "", err2
			} else if ok2 && (nxt == '\\' || nxt == '`' || nxt == '$') {
				lx.consumeChar()
				sb.WriteRune(nxt)
			}
			continue
		}
		sb.WriteRune(ch)
		if ch == '`' {
			return sb.String(), nil
		}
	}
}

// scanDollar parses one of the four dollar-prefixed forms -- parameter
// expansion $name/${...}, arithmetic expansion $((...)), or command
// substitution $(...) -- starting with the '$' still unconsumed. It
// returns nil if '$' is not followed by anything recognizable, leaving
// the stream positioned right after the '$' so the caller treats it as
// a literal character.
func (lx *Lexer) scanDollar(dollarLoc source.Location) (ast.TextUnit, error) {
	lx.consumeChar() // '$'
	nxt, _, ok, err := lx.peekChar()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	switch {
	case nxt == '(':
		lx.consumeChar()
		if n2, _, ok2, err := lx.peekChar(); err != nil {
			return nil, err
		} else if ok2 && n2 == '(' {
			lx.consumeChar()
			body, err := lx.captureBalanced('(', ')', 2, dollarLoc)
			if err != nil {
				return nil, err
			}
			return &ast.ArithExpansion{Raw: "$((" + body, Loc: dollarLoc}, nil
		}
		body, err := lx.captureBalanced('(', ')', 1, dollarLoc)
		if err != nil {
			return nil, err
		}
		return &ast.CommandSubst{Raw: "$(" + body, Loc: dollarLoc}, nil
	case nxt == '{':
		lx.consumeChar()
		body, err := lx.captureBalanced('{', '}', 1, dollarLoc)
		if err != nil {
			return nil, err
		}
		return &ast.ParamExpansion{Raw: "${" + body, Loc: dollarLoc}, nil
	case isNameStart(nxt):
		name := lx.scanName()
		return &ast.ParamExpansion{Raw: "$" + name, Loc: dollarLoc}, nil
	case isSpecialParam(nxt):
		lx.consumeChar()
		return &ast.ParamExpansion{Raw: "$" + string(nxt), Loc: dollarLoc}, nil
	default:
		return nil, nil
	}
}

func isSpecialParam(r rune) bool {
	switch r {
	case '@', '*', '#', '?', '-', '!', '$', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	}
	return false
}

func (lx *Lexer) scanName() string {
	var sb strings.Builder
	for {
		ch, _, ok, err := lx.peekChar()
		if err != nil || !ok || !isNameCont(ch) {
			return sb.String()
		}
		lx.consumeChar()
		sb.WriteRune(ch)
	}
}

// captureBalanced reads characters until the matching close bracket at
// depth 0 is found, counting nested open/close brackets of the same
// kind and skipping over quoted regions so an unescaped close inside a
// string literal does not end the span early. initialDepth lets the
// caller account for opening characters it already consumed ($(( needs
// 2 before the span is balanced, ${ and $( need 1). The returned string
// includes everything up to and including the final closing bracket.
func (lx *Lexer) captureBalanced(open, close rune, initialDepth int, openLoc source.Location) (string, error) {
	depth := initialDepth
	var sb strings.Builder
	for {
		ch, _, ok, err := lx.peekChar()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", newUnclosedCommandSubstitution(openLoc)
		}
		lx.consumeChar()
		switch ch {
		case '\\':
			sb.WriteRune(ch)
			if nxt, _, ok2, err2 := lx.peekChar(); err2 != nil {
				return "", err2
			} else if ok2 {
				lx.consumeChar()
				sb.WriteRune(nxt)
			}
		case '\'':
			sb.WriteRune(ch)
			for {
				c2, _, ok2, err2 := lx.peekChar()
				if err2 != nil {
					return "", err2
				}
				if !ok2 {
					return "", newUnclosedCommandSubstitution(openLoc)
				}
				lx.consumeChar()
				sb.WriteRune(c2)
				if c2 == '\'' {
					break
				}
			}
		case '"':
			sb.WriteRune(ch)
			for {
				c2, _, ok2, err2 := lx.peekChar()
				if err2 != nil {
					return "", err2
				}
				if !ok2 {
					return "", newUnclosedCommandSubstitution(openLoc)
				}
				lx.consumeChar()
				if c2 == '\\' {
					sb.WriteRune(c2)
					if c3, _, ok3, err3 := lx.peekChar(); err3 != nil {
						return "", err3
					} else if ok3 {
						lx.consumeChar()
						sb.WriteRune(c3)
					}
					continue
				}
				sb.WriteRune(c2)
				if c2 == '"' {
					break
				}
			}
		case open:
			depth++
			sb.WriteRune(ch)
		case close:
			depth--
			sb.WriteRune(ch)
			if depth == 0 {
				return sb.String(), nil
			}
		default:
			sb.WriteRune(ch)
		}
	}
}
