// Package alias defines the alias lookup the parser consumes. The
// parser treats a Set as shared, immutable reference data for the
// duration of one parse; mutating it between parses is the caller's
// responsibility.
package alias

import "github.com/hymkor/posixsh/source"

// Alias is a single alias definition.
type Alias struct {
	Name        string
	Replacement string

	// Global, when true, makes the alias eligible for substitution at
	// any word position, not just a command name.
	Global bool

	// Origin is where the alias was defined, kept for diagnostics that
	// want to explain an alias chain.
	Origin source.Location
}

// Set is the read-only alias lookup the parser uses. Interface-first,
// so an embedding caller can back it with whatever storage policy it
// likes, with a simple map-backed default implementation for the
// common case.
type Set interface {
	// Lookup returns the alias named name, and whether one exists.
	Lookup(name string) (Alias, bool)
	// IsEmpty reports whether the set has no aliases at all, letting a
	// parser skip alias-substitution bookkeeping entirely when true.
	IsEmpty() bool
}

// Map is the default map-backed Set implementation.
type Map map[string]Alias

// Lookup implements Set.
func (m Map) Lookup(name string) (Alias, bool) {
	a, ok := m[name]
	return a, ok
}

// IsEmpty implements Set.
func (m Map) IsEmpty() bool { return len(m) == 0 }

// Define adds or replaces an alias in m.
func (m Map) Define(name string, a Alias) { m[name] = a }

// Empty is a Set with no aliases, usable as a zero-overhead default
// when a caller has no alias feature at all.
var Empty Set = Map(nil)
