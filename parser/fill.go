package parser

import "github.com/hymkor/posixsh/ast"

// fillHereDocs pairs each placeholder with its read body by index:
// placeholders and reads were recorded in the same order (both in the
// order their HereDoc redirections were parsed), so index-pairing them
// is sufficient. A length mismatch means a HereDoc was registered but
// its body was never read, which ensureNoUnreadHereDoc rules out before
// this runs, so it is a parser invariant violation rather than a
// user-facing error.
func fillHereDocs(placeholders []*ast.HereDoc, reads []ast.Text) {
	if len(placeholders) != len(reads) {
		panic("parser: here-doc placeholder/read count mismatch")
	}
	for i, ph := range placeholders {
		content := reads[i]
		ph.Content = &content
	}
}
