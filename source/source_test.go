package source

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func drain(t *testing.T, cs CharSource) string {
	t.Helper()
	var sb strings.Builder
	for {
		ch, _, ok, err := cs.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func TestStringSourceRoundTrip(t *testing.T) {
	c := qt.New(t)
	cs := NewString("script.sh", "echo hi\nworld\n")
	c.Assert(drain(t, cs), qt.Equals, "echo hi\nworld\n")
}

func TestStringSourceNoTrailingNewline(t *testing.T) {
	c := qt.New(t)
	cs := NewString("", "echo hi")
	c.Assert(drain(t, cs), qt.Equals, "echo hi")
}

func TestStringSourceLocations(t *testing.T) {
	c := qt.New(t)
	cs := NewString("f", "ab\ncd")
	var locs []Location
	for {
		_, loc, ok, _ := cs.Next()
		if !ok {
			break
		}
		locs = append(locs, loc)
	}
	c.Assert(len(locs), qt.Equals, 5) // a b \n c d
	c.Assert(locs[0].Line.Number, qt.Equals, 1)
	c.Assert(locs[0].Column, qt.Equals, 1)
	c.Assert(locs[2].Column, qt.Equals, 3) // the newline
	c.Assert(locs[3].Line.Number, qt.Equals, 2)
	c.Assert(locs[3].Column, qt.Equals, 1)
}

func TestReaderSource(t *testing.T) {
	c := qt.New(t)
	cs := NewReader("", strings.NewReader("foo\nbar\n"))
	c.Assert(drain(t, cs), qt.Equals, "foo\nbar\n")
}

func TestLocationString(t *testing.T) {
	c := qt.New(t)
	cs := NewString("script.sh", "x")
	_, loc, _, _ := cs.Next()
	c.Assert(loc.String(), qt.Equals, "script.sh:1:1")
}

func TestAliasReplacementSource(t *testing.T) {
	c := qt.New(t)
	origin := Location{Line: &Line{Text: "ll", Number: 1}, Column: 1}
	cs := NewAliasReplacement("ll", origin, "ls -l")
	_, loc, ok, _ := cs.Next()
	c.Assert(ok, qt.IsTrue)
	c.Assert(loc.Line.Src.Kind, qt.Equals, AliasReplacement)
	c.Assert(loc.Line.Src.AliasName, qt.Equals, "ll")
}
