package token

// trieNode is one node of the static prefix trie over operator
// spellings: an optional terminal Operator plus edges keyed by the next
// character, sorted implicitly by Go's map iteration being irrelevant
// here since lookup is by direct key, not a scan.
type trieNode struct {
	op    Operator // Illegal if no operator terminates exactly here
	edges map[rune]*trieNode
}

func newTrieNode() *trieNode {
	return &trieNode{edges: make(map[rune]*trieNode)}
}

// Trie is the root of the operator-recognition trie built from the
// fixed operator table in this package.
type Trie struct {
	root *trieNode
}

// insert adds a single operator spelling to the trie, creating
// intermediate nodes as needed.
func (t *Trie) insert(spelling string, op Operator) {
	n := t.root
	for _, r := range spelling {
		child, ok := n.edges[r]
		if !ok {
			child = newTrieNode()
			n.edges[r] = child
		}
		n = child
	}
	n.op = op
}

// operatorTable lists every operator's exact spelling, so the trie is
// built from data rather than hand-nested switch statements.
var operatorTable = []struct {
	spelling string
	op       Operator
}{
	{"\n", Newline},
	{"&&", AndAnd},
	{"&", And},
	{"(", Lparen},
	{")", Rparen},
	{";;", DSemi},
	{";", Semi},
	{"<<-", DLessDash},
	{"<<<", TLess},
	{"<<", DLess},
	{"<&", LessAnd},
	{"<>", LessGreat},
	{"<(", LessParen},
	{"<", Less},
	{">>|", PipeAll},
	{">>", DGreat},
	{">&", GreatAnd},
	{">|", Clobber},
	{">(", GreatParen},
	{">", Great},
	{"||", OrOr},
	{"|", Pipe},
}

// NewTrie builds the fixed operator trie this package exposes.
func NewTrie() *Trie {
	t := &Trie{root: newTrieNode()}
	for _, e := range operatorTable {
		t.insert(e.spelling, e.op)
	}
	return t
}

// DefaultTrie is the shared, immutable trie over every operator this
// package defines. It has no mutable state, so a single instance may be
// used concurrently by any number of lexers.
var DefaultTrie = NewTrie()

// Match performs longest-match recognition starting at peek(0): it
// repeatedly asks peek(n) for the n-th lookahead character (0-based) and
// descends the trie while an edge exists, remembering the deepest
// terminal Operator seen. It returns Illegal and consumed=0 if no
// operator starts at the current position.
//
// peek must return ok=false once no more lookahead is available; it
// must not have side effects beyond reporting characters, since Match
// may probe further than ultimately gets consumed.
func (t *Trie) Match(peek func(n int) (r rune, ok bool)) (op Operator, consumed int) {
	n := t.root
	best := Illegal
	bestLen := 0
	for i := 0; ; i++ {
		r, ok := peek(i)
		if !ok {
			break
		}
		child, ok := n.edges[r]
		if !ok {
			break
		}
		n = child
		if n.op != Illegal {
			best = n.op
			bestLen = i + 1
		}
	}
	return best, bestLen
}
