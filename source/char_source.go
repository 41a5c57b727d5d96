package source

import (
	"bufio"
	"io"
)

// CharSource is a cursor that yields the characters of a shell program
// one at a time, each tagged with the Location it was read from. It is
// consumed by the lexer; the parser never talks to it directly.
//
// Implementations must retain every Line they have produced for the
// lifetime of the CharSource, so Locations handed out earlier remain
// valid indefinitely.
type CharSource interface {
	// Next returns the next character and its Location. ok is false at
	// end of input; err is non-nil only on an underlying I/O failure.
	Next() (ch rune, loc Location, ok bool, err error)
}

// stringSource is an in-memory CharSource over a fixed string, split
// into Lines eagerly so Locations are stable from the start.
type stringSource struct {
	lines      []*Line
	li         int // current line index
	ci         int // next rune index within lines[li].Text, as a slice of runes
	runes      [][]rune
	hasNewline []bool // whether lines[i] was followed by a real '\n' in the source text
}

// NewString returns a CharSource over an in-memory program, identified
// by name for diagnostics (pass "" for anonymous/test input).
func NewString(name, text string) CharSource {
	src := Source{Kind: Unknown}
	if name != "" {
		src = Source{Kind: File, Filename: name}
	}
	return newStringSource(src, text)
}

func newStringSource(src Source, text string) *stringSource {
	ss := &stringSource{}
	lineNo := 1
	start := 0
	for i, r := range text {
		if r == '\n' {
			lineText := text[start:i]
			ss.lines = append(ss.lines, &Line{Text: lineText, Number: lineNo, Src: src})
			ss.runes = append(ss.runes, []rune(lineText))
			ss.hasNewline = append(ss.hasNewline, true)
			lineNo++
			start = i + len(string(r))
		}
	}
	// trailing partial line with no terminating newline
	if start < len(text) {
		lineText := text[start:]
		ss.lines = append(ss.lines, &Line{Text: lineText, Number: lineNo, Src: src})
		ss.runes = append(ss.runes, []rune(lineText))
		ss.hasNewline = append(ss.hasNewline, false)
	}
	if len(ss.lines) == 0 {
		ss.lines = append(ss.lines, &Line{Text: "", Number: 1, Src: src})
		ss.runes = append(ss.runes, nil)
		ss.hasNewline = append(ss.hasNewline, false)
	}
	return ss
}

func (ss *stringSource) Next() (rune, Location, bool, error) {
	for {
		if ss.li >= len(ss.lines) {
			return 0, Location{}, false, nil
		}
		line := ss.lines[ss.li]
		runes := ss.runes[ss.li]
		if ss.ci < len(runes) {
			loc := Location{Line: line, Column: ss.ci + 1}
			ch := runes[ss.ci]
			ss.ci++
			return ch, loc, true, nil
		}
		// end of this line's text: emit its newline, unless the source
		// text had none (a final unterminated line).
		if ss.hasNewline[ss.li] {
			loc := Location{Line: line, Column: len(runes) + 1}
			ss.li++
			ss.ci = 0
			return '\n', loc, true, nil
		}
		ss.li++
	}
}

// readerSource is a CharSource that pulls lines lazily from an
// io.Reader, buffering each one as a retained Line.
type readerSource struct {
	scanner *bufio.Scanner
	src     Source
	lineNo  int
	done    bool

	cur   []rune
	line  *Line
	ci    int
	atEnd bool
	err   error
}

// NewReader returns a CharSource that lazily reads lines from r (a file
// or standard input), identified by name for diagnostics.
func NewReader(name string, r io.Reader) CharSource {
	kind := File
	if name == "" {
		kind = Stdin
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &readerSource{
		scanner: sc,
		src:     Source{Kind: kind, Filename: name},
	}
}

func (rs *readerSource) advanceLine() bool {
	if rs.done {
		return false
	}
	if !rs.scanner.Scan() {
		rs.done = true
		if err := rs.scanner.Err(); err != nil {
			rs.err = err
		}
		return false
	}
	rs.lineNo++
	text := rs.scanner.Text()
	rs.line = &Line{Text: text, Number: rs.lineNo, Src: rs.src}
	rs.cur = []rune(text)
	rs.ci = 0
	return true
}

func (rs *readerSource) Next() (rune, Location, bool, error) {
	for {
		if rs.line == nil {
			if !rs.advanceLine() {
				return 0, Location{}, false, rs.err
			}
		}
		if rs.ci < len(rs.cur) {
			loc := Location{Line: rs.line, Column: rs.ci + 1}
			ch := rs.cur[rs.ci]
			rs.ci++
			return ch, loc, true, nil
		}
		if !rs.atEnd {
			loc := Location{Line: rs.line, Column: len(rs.cur) + 1}
			rs.atEnd = true
			return '\n', loc, true, nil
		}
		rs.line = nil
		rs.atEnd = false
		if !rs.advanceLine() {
			return 0, Location{}, false, rs.err
		}
	}
}

// NewAliasReplacement returns a CharSource over the replacement text of
// an alias substitution, tagging every Line with a Source that records
// the alias name and the location of the token it replaced. Used by the
// lexer to push a temporary input layer during alias substitution.
func NewAliasReplacement(aliasName string, origin Location, text string) CharSource {
	src := Source{Kind: AliasReplacement, AliasName: aliasName, Origin: &origin}
	return newStringSource(src, text)
}

// NewCommandSubstitution returns a CharSource over the body of a
// $(...) or `...` construct, for callers that choose to re-lex it as an
// independent program (out of scope for this core's own grammar, but
// exposed so an embedding caller can do so without reimplementing line
// tracking).
func NewCommandSubstitution(origin Location, text string) CharSource {
	src := Source{Kind: CommandSubstitution, CmdSubstOrigin: &origin}
	return newStringSource(src, text)
}
