package parser

import (
	"math"
	"strings"

	"github.com/hymkor/posixsh/ast"
	"github.com/hymkor/posixsh/lexer"
	"github.com/hymkor/posixsh/source"
	"github.com/hymkor/posixsh/token"
)

// CommandLine is the top-level entry point: parses one interactive
// line, draining here-doc content and running the fill pass before
// returning. ok is false only at true end-of-input with no command.
func (p *Parser) CommandLine() (lst ast.List, ok bool, err error) {
	lst, err = p.list()
	if err != nil {
		return nil, false, err
	}
	tok, err := p.peekToken()
	if err != nil {
		return nil, false, err
	}
	sawNewline := false
	switch {
	case tok.Kind == lexer.TokOperator && tok.Operator == token.Newline:
		p.consumePending()
		if err := p.hereDocContents(); err != nil {
			return nil, false, err
		}
		sawNewline = true
	case tok.Kind == lexer.TokEndOfInput:
		// fine; EndOfInput is the other acceptable terminator.
	default:
		return nil, false, errUnexpectedToken(tok.Loc, tokenDisplay(tok))
	}
	if !sawNewline && len(lst) == 0 {
		return nil, false, nil
	}
	if err := p.ensureNoUnreadHereDoc(); err != nil {
		return nil, false, err
	}
	fillHereDocs(p.takePlaceholders(), p.takeReadHereDocs())
	return lst, true, nil
}

// consumePending discards the buffered lookahead token.
func (p *Parser) consumePending() {
	p.hasPending = false
	p.pending = nil
}

func tokenDisplay(t lexer.Token) string {
	switch t.Kind {
	case lexer.TokWord, lexer.TokIoNumber:
		return t.Word.String()
	case lexer.TokOperator:
		return t.Operator.String()
	default:
		return "end of input"
	}
}

// list parses and-or lists separated by ; (sync) or & (async), stopping
// at the first token that is neither.
func (p *Parser) list() (ast.List, error) {
	var items ast.List
	for {
		ao, err := p.andOrList()
		if err != nil {
			return nil, err
		}
		if ao == nil {
			return items, nil
		}
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.Kind == lexer.TokOperator && tok.Operator == token.Semi:
			p.consumePending()
			items = append(items, &ast.Item{AndOr: *ao, IsAsync: false})
		case tok.Kind == lexer.TokOperator && tok.Operator == token.And:
			p.consumePending()
			items = append(items, &ast.Item{AndOr: *ao, IsAsync: true})
		default:
			items = append(items, &ast.Item{AndOr: *ao, IsAsync: false})
			return items, nil
		}
	}
}

// maybeCompoundList repeats list()+trailing-newline-absorption until no
// newline was consumed; enforces no terminator itself.
func (p *Parser) maybeCompoundList() (ast.List, error) {
	var all ast.List
	for {
		lst, err := p.list()
		if err != nil {
			return nil, err
		}
		all = append(all, lst...)
		consumed, err := p.consumeNewlineAndHereDocs()
		if err != nil {
			return nil, err
		}
		if !consumed {
			return all, nil
		}
	}
}

func (p *Parser) consumeNewlineAndHereDocs() (bool, error) {
	tok, err := p.peekToken()
	if err != nil {
		return false, err
	}
	if !(tok.Kind == lexer.TokOperator && tok.Operator == token.Newline) {
		return false, nil
	}
	p.consumePending()
	return true, p.hereDocContents()
}

// andOrList parses a pipeline followed by zero or more &&/|| pairs.
func (p *Parser) andOrList() (*ast.AndOrList, error) {
	first, err := p.pipeline()
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, nil
	}
	var rest []ast.AndOrPair
	for {
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		var op ast.AndOr
		switch {
		case tok.Kind == lexer.TokOperator && tok.Operator == token.AndAnd:
			op = ast.AndThen
		case tok.Kind == lexer.TokOperator && tok.Operator == token.OrOr:
			op = ast.OrElse
		default:
			return &ast.AndOrList{First: *first, Rest: rest}, nil
		}
		opLoc := tok.Loc
		p.consumePending()
		if err := p.absorbNewlinesAndHereDocs(); err != nil {
			return nil, err
		}
		nextTok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		pl, err := p.pipeline()
		if err != nil {
			return nil, err
		}
		if pl == nil {
			return nil, errMissingPipeline(nextTok.Loc, op)
		}
		rest = append(rest, ast.AndOrPair{Op: op, Pipeline: *pl, OpLoc: opLoc})
	}
}

// pipeline parses one or more commands joined by |, with an optional
// leading negation. It fully resolves any alias re-entry from the
// commands it parses (via finish(p.command)) before returning, so
// callers never observe a bubbled substitution from this level up --
// the Rec threading only matters at the simpleCommand/command level.
func (p *Parser) pipeline() (*ast.Pipeline, error) {
	first, err := finish(p.command)
	if err != nil {
		return nil, err
	}
	if first == nil {
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if !(tok.Kind == lexer.TokWord && tok.HasKeyword && tok.Keyword == token.Bang) {
			return nil, nil
		}
		bangLoc := tok.Loc
		p.consumePending()
		c, err := finish(p.command)
		if err != nil {
			return nil, err
		}
		if c == nil {
			tok2, err := p.peekToken()
			if err != nil {
				return nil, err
			}
			if tok2.Kind == lexer.TokWord && tok2.HasKeyword && tok2.Keyword == token.Bang {
				return nil, errDoubleNegation(bangLoc)
			}
			return nil, errMissingCommandAfterBang(bangLoc)
		}
		commands, err := p.restOfPipeline([]ast.Command{c})
		if err != nil {
			return nil, err
		}
		return &ast.Pipeline{Commands: commands, Negation: true, Bang: bangLoc}, nil
	}
	commands, err := p.restOfPipeline([]ast.Command{first})
	if err != nil {
		return nil, err
	}
	return &ast.Pipeline{Commands: commands}, nil
}

func (p *Parser) restOfPipeline(commands []ast.Command) ([]ast.Command, error) {
	for {
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if !(tok.Kind == lexer.TokOperator && tok.Operator == token.Pipe) {
			return commands, nil
		}
		barLoc := tok.Loc
		p.consumePending()
		if err := p.absorbNewlinesAndHereDocs(); err != nil {
			return nil, err
		}
		nt, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if nt.Kind == lexer.TokWord && nt.HasKeyword && nt.Keyword == token.Bang {
			return nil, errBangAfterBar(nt.Loc)
		}
		c, err := finish(p.command)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, errMissingCommandAfterBar(barLoc)
		}
		commands = append(commands, c)
	}
}

// command tries a simple command, promotes it to a function definition
// if it turns out to have that shape, else falls back to a full
// compound command.
func (p *Parser) command() (Rec[ast.Command], error) {
	scRec, err := p.simpleCommand()
	if err != nil {
		return Rec[ast.Command]{}, err
	}
	if scRec.Substituted() {
		return aliasSubstituted[ast.Command](), nil
	}
	if sc := scRec.Value(); sc != nil {
		cmd, err := p.promoteToFunctionDefinition(sc)
		if err != nil {
			return Rec[ast.Command]{}, err
		}
		return Parsed(cmd), nil
	}
	fcc, err := p.fullCompoundCommand()
	if err != nil {
		return Rec[ast.Command]{}, err
	}
	if fcc == nil {
		return Parsed[ast.Command](nil), nil
	}
	return Parsed[ast.Command](fcc), nil
}

// simpleCommand parses a run of redirections, assignments, and words
// with no compound-command construct.
func (p *Parser) simpleCommand() (Rec[*ast.SimpleCommand], error) {
	sc := &ast.SimpleCommand{}
	for {
		r, matched, err := p.redirection()
		if err != nil {
			return Rec[*ast.SimpleCommand]{}, err
		}
		if matched {
			sc.Redirs = append(sc.Redirs, r)
			continue
		}
		tok, err := p.peekToken()
		if err != nil {
			return Rec[*ast.SimpleCommand]{}, err
		}
		if tok.Kind == lexer.TokWord && tok.HasKeyword && len(sc.Words) == 0 {
			break
		}
		if tok.Kind != lexer.TokWord {
			break
		}
		// Assignments precede the command name but are not themselves
		// the command name, so the next word is still in command-name
		// position as long as no word has been consumed yet.
		isCommandName := len(sc.Words) == 0
		rec, err := p.takeTokenManual(isCommandName)
		if err != nil {
			return Rec[*ast.SimpleCommand]{}, err
		}
		if rec.Substituted() {
			if sc.IsEmpty() {
				return aliasSubstituted[*ast.SimpleCommand](), nil
			}
			continue
		}
		wordTok := rec.Value()
		if len(sc.Words) == 0 {
			if name, value, ok := parseAssignPrefix(wordTok.Word); ok {
				assign := &ast.Assign{Name: name, NameLoc: wordTok.Loc, Value: value}
				if value.IsEmpty() && !p.strict {
					hasBlank, err := p.hasBlank()
					if err != nil {
						return Rec[*ast.SimpleCommand]{}, err
					}
					if !hasBlank {
						nt, err := p.peekToken()
						if err != nil {
							return Rec[*ast.SimpleCommand]{}, err
						}
						if nt.Kind == lexer.TokOperator && nt.Operator == token.Lparen {
							arr, err := p.arrayValues()
							if err != nil {
								return Rec[*ast.SimpleCommand]{}, err
							}
							assign.Array = arr
						}
					}
				}
				sc.Assigns = append(sc.Assigns, assign)
				continue
			}
		}
		sc.Words = append(sc.Words, wordTok.Word)
	}
	if sc.IsEmpty() {
		return Parsed[*ast.SimpleCommand](nil), nil
	}
	return Parsed(sc), nil
}

// arrayValues parses the parenthesized word list of an array assignment
// (name=(a b c)), with the opening "(" already the current token.
func (p *Parser) arrayValues() ([]ast.Word, error) {
	openTok, err := p.takeTokenRaw()
	if err != nil {
		return nil, err
	}
	words := []ast.Word{}
	for {
		if err := p.absorbNewlinesAndHereDocs(); err != nil {
			return nil, err
		}
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokOperator && tok.Operator == token.Rparen {
			p.consumePending()
			return words, nil
		}
		if tok.Kind != lexer.TokWord {
			return nil, errUnclosedArrayValue(openTok.Loc)
		}
		rec, err := p.takeTokenManual(false)
		if err != nil {
			return nil, err
		}
		if rec.Substituted() {
			continue
		}
		words = append(words, rec.Value().Word)
	}
}

// parseAssignPrefix recognizes "name=value" at the head of a bare
// literal word, where name matches [A-Za-z_][A-Za-z0-9_]*.
func parseAssignPrefix(w ast.Word) (name string, value ast.Word, ok bool) {
	if len(w.Units) == 0 {
		return "", ast.Word{}, false
	}
	lit, isLit := w.Units[0].(*ast.Literal)
	if !isLit {
		return "", ast.Word{}, false
	}
	eq := strings.IndexByte(lit.Value, '=')
	if eq < 0 {
		return "", ast.Word{}, false
	}
	candidate := lit.Value[:eq]
	if !isValidName(candidate) {
		return "", ast.Word{}, false
	}
	var valueUnits []ast.TextUnit
	if rest := lit.Value[eq+1:]; rest != "" {
		valueUnits = append(valueUnits, &ast.Literal{Value: rest, Loc: lit.Loc})
	}
	valueUnits = append(valueUnits, w.Units[1:]...)
	return candidate, ast.Word{Units: valueUnits, Loc: w.Loc}, true
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// promoteToFunctionDefinition checks whether a one-word simple command
// is immediately followed by "()" and, if so, parses the rest of the
// POSIX short-form function definition "name() compound-command".
func (p *Parser) promoteToFunctionDefinition(sc *ast.SimpleCommand) (ast.Command, error) {
	if !sc.IsOneWord() {
		return sc, nil
	}
	tok, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if !(tok.Kind == lexer.TokOperator && tok.Operator == token.Lparen) {
		return sc, nil
	}
	position := sc.Pos()
	p.consumePending()
	rparenTok, err := p.takeTokenAuto(nil)
	if err != nil {
		return nil, err
	}
	if !(rparenTok.Kind == lexer.TokOperator && rparenTok.Operator == token.Rparen) {
		return nil, errUnmatchedParenthesis(tok.Loc)
	}
	for {
		if err := p.absorbNewlinesAndHereDocs(); err != nil {
			return nil, err
		}
		fcc, err := p.fullCompoundCommand()
		if err != nil {
			return nil, err
		}
		if fcc != nil {
			return &ast.FunctionDefinition{Position: position, HasKeyword: false, Name: sc.Words[0], Body: fcc}, nil
		}
		rec, err := p.takeTokenManual(false)
		if err != nil {
			return nil, err
		}
		if rec.Substituted() {
			continue
		}
		t := rec.Value()
		if t.Kind == lexer.TokWord {
			return nil, errInvalidFunctionBody(t.Loc)
		}
		return nil, errMissingFunctionBody(t.Loc)
	}
}

// fullCompoundCommand parses a CompoundCommand plus any trailing
// redirections.
func (p *Parser) fullCompoundCommand() (*ast.FullCompoundCommand, error) {
	cc, err := p.compoundCommand()
	if err != nil {
		return nil, err
	}
	if cc == nil {
		return nil, nil
	}
	var redirs []*ast.Redir
	for {
		r, matched, err := p.redirection()
		if err != nil {
			return nil, err
		}
		if !matched {
			break
		}
		redirs = append(redirs, r)
	}
	return &ast.FullCompoundCommand{Command: cc, Redirs: redirs}, nil
}

// compoundCommand dispatches on the leading token to one of grouping,
// subshell, for/while/until loop, or case clause. Its entry token is
// always either a keyword-tagged word or the '(' operator, neither of
// which is ever subject to alias substitution, so this never itself
// needs to bubble a re-entry.
func (p *Parser) compoundCommand() (ast.CompoundCommand, error) {
	tok, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.TokWord && tok.HasKeyword {
		switch tok.Keyword {
		case token.LBrace:
			return p.grouping()
		case token.For:
			return p.forLoop()
		case token.While:
			return p.whileOrUntilLoop(false)
		case token.Until:
			return p.whileOrUntilLoop(true)
		case token.Case:
			return p.caseClause()
		}
		return nil, nil
	}
	if tok.Kind == lexer.TokOperator && tok.Operator == token.Lparen {
		return p.subshell()
	}
	return nil, nil
}

func (p *Parser) grouping() (ast.CompoundCommand, error) {
	open, err := p.takeTokenRaw()
	if err != nil {
		return nil, err
	}
	body, err := p.maybeCompoundList()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.takeTokenAuto([]token.Keyword{token.RBrace})
	if err != nil {
		return nil, err
	}
	if !(closeTok.Kind == lexer.TokWord && closeTok.HasKeyword && closeTok.Keyword == token.RBrace) {
		return nil, errUnclosedGrouping(open.Loc)
	}
	if len(body) == 0 {
		return nil, errEmptyGrouping(open.Loc)
	}
	return &ast.Grouping{Lbrace: open.Loc, Rbrace: closeTok.Loc, Body: body}, nil
}

func (p *Parser) subshell() (ast.CompoundCommand, error) {
	open, err := p.takeTokenRaw()
	if err != nil {
		return nil, err
	}
	body, err := p.maybeCompoundList()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.takeTokenAuto(nil)
	if err != nil {
		return nil, err
	}
	if !(closeTok.Kind == lexer.TokOperator && closeTok.Operator == token.Rparen) {
		return nil, errUnclosedSubshell(open.Loc)
	}
	if len(body) == 0 {
		return nil, errEmptySubshell(open.Loc)
	}
	return &ast.Subshell{Lparen: open.Loc, Rparen: closeTok.Loc, Body: body}, nil
}

// doClauseResult is the successfully matched "do ... done" clause
// shared by for/while/until.
type doClauseResult struct {
	Body     ast.List
	Do, Done source.Location
}

// doClause returns nil, nil if the next token is not "do" (not
// matched); a result on success; an error for an empty or unclosed
// clause.
func (p *Parser) doClause() (*doClauseResult, error) {
	tok, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if !(tok.Kind == lexer.TokWord && tok.HasKeyword && tok.Keyword == token.Do) {
		return nil, nil
	}
	doLoc := tok.Loc
	p.consumePending()
	body, err := p.maybeCompoundList()
	if err != nil {
		return nil, err
	}
	closeTok, err := p.takeTokenAuto([]token.Keyword{token.Done})
	if err != nil {
		return nil, err
	}
	if !(closeTok.Kind == lexer.TokWord && closeTok.HasKeyword && closeTok.Keyword == token.Done) {
		return nil, errUnclosedDoClause(doLoc)
	}
	if len(body) == 0 {
		return nil, errEmptyDoClause(doLoc)
	}
	return &doClauseResult{Body: body, Do: doLoc, Done: closeTok.Loc}, nil
}

// forLoop parses "for NAME [in WORDS] do ... done".
func (p *Parser) forLoop() (ast.CompoundCommand, error) {
	forTok, err := p.takeTokenRaw()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.takeTokenAuto(nil)
	if err != nil {
		return nil, err
	}
	switch {
	case nameTok.Kind == lexer.TokEndOfInput,
		nameTok.Kind == lexer.TokOperator && nameTok.Operator == token.Newline,
		nameTok.Kind == lexer.TokOperator && nameTok.Operator == token.Semi:
		return nil, errMissingForName(forTok.Loc)
	case nameTok.Kind != lexer.TokWord:
		return nil, errInvalidForName(nameTok.Loc)
	}
	name, isBare := lexer.BareLiteral(nameTok.Word)
	if !isBare || !isValidName(name) {
		return nil, errInvalidForName(nameTok.Loc)
	}

	var values *[]ast.Word
stepTwo:
	for {
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.Kind == lexer.TokOperator && tok.Operator == token.Semi:
			p.consumePending()
			break stepTwo
		case tok.Kind == lexer.TokWord && tok.HasKeyword && tok.Keyword == token.Do:
			break stepTwo
		case tok.Kind == lexer.TokOperator && tok.Operator == token.Newline:
			if err := p.absorbNewlinesAndHereDocs(); err != nil {
				return nil, err
			}
		case tok.Kind == lexer.TokWord && tok.HasKeyword && tok.Keyword == token.In:
			p.consumePending()
			vs, err := p.forValues()
			if err != nil {
				return nil, err
			}
			values = &vs
			break stepTwo
		default:
			return nil, errMissingForBody(forTok.Loc)
		}
	}

	if err := p.absorbNewlinesAndHereDocs(); err != nil {
		return nil, err
	}
	dc, err := p.doClause()
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errMissingForBody(forTok.Loc)
	}
	return &ast.ForLoop{
		For: forTok.Loc, Do: dc.Do, Done: dc.Done,
		Name: name, NameLoc: nameTok.Loc, Values: values, Body: dc.Body,
	}, nil
}

func (p *Parser) forValues() ([]ast.Word, error) {
	var vs []ast.Word
	for {
		rec, err := p.takeTokenManual(false)
		if err != nil {
			return nil, err
		}
		if rec.Substituted() {
			continue
		}
		tok := rec.Value()
		switch {
		case tok.Kind == lexer.TokOperator && tok.Operator == token.Semi:
			return vs, nil
		case tok.Kind == lexer.TokOperator && tok.Operator == token.Newline:
			if err := p.hereDocContents(); err != nil {
				return nil, err
			}
			return vs, nil
		case tok.Kind == lexer.TokWord:
			vs = append(vs, tok.Word)
		default:
			return nil, errInvalidForValue(tok.Loc)
		}
	}
}

// whileOrUntilLoop parses "while/until ...; do ...; done", sharing the
// grammar between the two since they differ only in the keyword and
// which error kind an empty condition or unclosed body reports.
func (p *Parser) whileOrUntilLoop(isUntil bool) (ast.CompoundCommand, error) {
	kwTok, err := p.takeTokenRaw()
	if err != nil {
		return nil, err
	}
	cond, err := p.maybeCompoundList()
	if err != nil {
		return nil, err
	}
	if len(cond) == 0 {
		if isUntil {
			return nil, errEmptyUntilCondition(kwTok.Loc)
		}
		return nil, errEmptyWhileCondition(kwTok.Loc)
	}
	dc, err := p.doClause()
	if err != nil {
		return nil, err
	}
	if dc == nil {
		if isUntil {
			return nil, errUnclosedUntilClause(kwTok.Loc)
		}
		return nil, errUnclosedWhileClause(kwTok.Loc)
	}
	if isUntil {
		return &ast.UntilLoop{Until: kwTok.Loc, Do: dc.Do, Done: dc.Done, Condition: cond, Body: dc.Body}, nil
	}
	return &ast.WhileLoop{While: kwTok.Loc, Do: dc.Do, Done: dc.Done, Condition: cond, Body: dc.Body}, nil
}

// caseClause parses "case WORD in" followed by zero or more pattern
// items and "esac". Each item is an optional leading "(", "|"-joined
// patterns, ")", a compound list, and an optional ";;".
func (p *Parser) caseClause() (ast.CompoundCommand, error) {
	caseTok, err := p.takeTokenRaw()
	if err != nil {
		return nil, err
	}
	subjTok, err := p.takeTokenAuto(nil)
	if err != nil {
		return nil, err
	}
	if subjTok.Kind != lexer.TokWord {
		return nil, errUnexpectedToken(subjTok.Loc, tokenDisplay(subjTok))
	}
	if err := p.absorbNewlinesAndHereDocs(); err != nil {
		return nil, err
	}
	inTok, err := p.takeTokenAuto([]token.Keyword{token.In})
	if err != nil {
		return nil, err
	}
	if !(inTok.Kind == lexer.TokWord && inTok.HasKeyword && inTok.Keyword == token.In) {
		return nil, errUnexpectedToken(inTok.Loc, tokenDisplay(inTok))
	}
	if err := p.absorbNewlinesAndHereDocs(); err != nil {
		return nil, err
	}
	var items []*ast.CaseItem
	for {
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.TokWord && tok.HasKeyword && tok.Keyword == token.Esac {
			p.consumePending()
			return &ast.CaseClause{Case: caseTok.Loc, Esac: tok.Loc, Subject: subjTok.Word, Items: items}, nil
		}
		item, err := p.caseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (p *Parser) caseItem() (*ast.CaseItem, error) {
	tok, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.TokOperator && tok.Operator == token.Lparen {
		p.consumePending()
	}
	var patterns []ast.Word
	for {
		patTok, err := p.takeTokenAuto(nil)
		if err != nil {
			return nil, err
		}
		if patTok.Kind != lexer.TokWord {
			return nil, errUnexpectedToken(patTok.Loc, tokenDisplay(patTok))
		}
		patterns = append(patterns, patTok.Word)
		nt, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		if nt.Kind == lexer.TokOperator && nt.Operator == token.Pipe {
			p.consumePending()
			continue
		}
		break
	}
	rparenTok, err := p.takeTokenAuto(nil)
	if err != nil {
		return nil, err
	}
	if !(rparenTok.Kind == lexer.TokOperator && rparenTok.Operator == token.Rparen) {
		return nil, errUnexpectedToken(rparenTok.Loc, tokenDisplay(rparenTok))
	}
	if err := p.absorbNewlinesAndHereDocs(); err != nil {
		return nil, err
	}
	body, err := p.maybeCompoundList()
	if err != nil {
		return nil, err
	}
	if err := p.absorbNewlinesAndHereDocs(); err != nil {
		return nil, err
	}
	tok2, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tok2.Kind == lexer.TokOperator && tok2.Operator == token.DSemi {
		p.consumePending()
		if err := p.absorbNewlinesAndHereDocs(); err != nil {
			return nil, err
		}
	}
	return &ast.CaseItem{Patterns: patterns, Body: body}, nil
}

// redirection parses one optional-IoNumber-prefixed redirection: either
// a here-doc (<< or <<-) or a Normal redirection operator and operand.
func (p *Parser) redirection() (*ast.Redir, bool, error) {
	tok, err := p.peekToken()
	if err != nil {
		return nil, false, err
	}
	var fd *uint32
	if tok.Kind == lexer.TokIoNumber {
		v, overflowed := parseFd(tok.Word)
		if overflowed {
			return nil, false, errFdOutOfRange(tok.Loc)
		}
		fd = &v
		p.consumePending()
		tok, err = p.peekToken()
		if err != nil {
			return nil, false, err
		}
	}
	if tok.Kind != lexer.TokOperator {
		if fd != nil {
			return nil, false, errMissingRedirOperand(tok.Loc)
		}
		return nil, false, nil
	}
	op := tok.Operator
	if op.IsHereDocOperator() {
		opLoc := tok.Loc
		p.consumePending()
		removeTabs := op == token.DLessDash
		delimTok, err := p.takeTokenAuto(nil)
		if err != nil {
			return nil, false, err
		}
		if delimTok.Kind != lexer.TokWord {
			return nil, false, errMissingHereDocDelimiter(opLoc)
		}
		if p.strict {
			if lit, isBare := lexer.BareLiteral(delimTok.Word); isBare && allDigits(lit) {
				return nil, false, errInvalidHereDocDelimiter(delimTok.Loc)
			}
		}
		hd := &ast.HereDoc{Delimiter: delimTok.Word, RemoveTabs: removeTabs}
		p.memorizeUnreadHereDoc(hd)
		return &ast.Redir{Fd: fd, Body: hd, Loc: opLoc}, true, nil
	}
	disabledInStrict := p.strict && (op == token.TLess || op == token.PipeAll)
	if !op.IsRedirOperator() || disabledInStrict {
		if fd != nil {
			return nil, false, errMissingRedirOperand(tok.Loc)
		}
		return nil, false, nil
	}
	opLoc := tok.Loc
	p.consumePending()
	operandTok, err := p.takeTokenAuto(nil)
	if err != nil {
		return nil, false, err
	}
	if operandTok.Kind != lexer.TokWord {
		return nil, false, errMissingRedirOperand(opLoc)
	}
	return &ast.Redir{Fd: fd, Body: &ast.Normal{Operator: op, Operand: operandTok.Word}, Loc: opLoc}, true, nil
}

func parseFd(w ast.Word) (uint32, bool) {
	s, _ := lexer.BareLiteral(w)
	var v uint64
	for _, c := range s {
		v = v*10 + uint64(c-'0')
		if v > math.MaxUint32 {
			return 0, true
		}
	}
	return uint32(v), false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
