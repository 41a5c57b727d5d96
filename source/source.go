// Package source tracks where shell input characters come from, so that
// every token and error the parser produces can point back at a stable
// line and column even after alias substitution has spliced replacement
// text into the middle of the stream.
package source

import "fmt"

// Kind identifies where a Source's text originated.
type Kind int

const (
	// Unknown is the zero Kind, used for ad-hoc or test input.
	Unknown Kind = iota
	// File means the text was read from a named file.
	File
	// Stdin means the text was read from standard input.
	Stdin
	// AliasReplacement means the text is the replacement body of an
	// alias substitution; AliasName and Origin identify the alias and the
	// location of the token it replaced.
	AliasReplacement
	// CommandSubstitution means the text is the body of a $(...) or
	// `...` command substitution being re-lexed as its own program.
	CommandSubstitution
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Stdin:
		return "stdin"
	case AliasReplacement:
		return "alias"
	case CommandSubstitution:
		return "command-substitution"
	default:
		return "unknown"
	}
}

// Source is the tagged identity of a line's origin. Two Lines read from
// the same file or the same alias replacement share an equal Source.
type Source struct {
	Kind Kind

	// Filename is set when Kind == File.
	Filename string

	// AliasName and Origin are set when Kind == AliasReplacement:
	// AliasName is the alias that was substituted, and Origin is the
	// location of the token that triggered the substitution. Origin may
	// itself live on a line whose Source is another AliasReplacement,
	// letting error messages walk an entire alias chain.
	AliasName string
	Origin    *Location

	// CmdSubstOrigin is set when Kind == CommandSubstitution: the
	// location of the opening "$(" or "`" token.
	CmdSubstOrigin *Location
}

// Name returns a short human-readable label for the source, suitable as
// the "filename" component of a diagnostic.
func (s Source) Name() string {
	switch s.Kind {
	case File:
		return s.Filename
	case Stdin:
		return "<stdin>"
	case AliasReplacement:
		return fmt.Sprintf("<alias %s>", s.AliasName)
	case CommandSubstitution:
		return "<command-substitution>"
	default:
		return ""
	}
}

// Line is one line of shell source text, shared by reference across
// every token and TextUnit produced from it. Line identity (pointer
// equality) is stable for the lifetime of the owning CharSource, so a
// Location recorded early remains valid for as long as the program runs.
type Line struct {
	Text   string
	Number int // 1-based
	Src    Source
}

// Location is a single-character position: a Line plus a 1-based,
// character- (not byte-) counted column.
type Location struct {
	Line   *Line
	Column int
}

// String renders a Location as "name:line:col", or "line:col" when the
// Source has no name, matching the prefix the parser's error Display
// strings build on top of.
func (l Location) String() string {
	name := l.Line.Src.Name()
	if name == "" {
		return fmt.Sprintf("%d:%d", l.Line.Number, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", name, l.Line.Number, l.Column)
}

// IsZero reports whether l is the zero Location (no Line attached).
func (l Location) IsZero() bool { return l.Line == nil }
