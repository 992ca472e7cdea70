package cursor

import "github.com/sqlstudio/sqlcore/internal/scanner"

// suffixTrie indexes every suffix of every reserved keyword so a partial
// typed token can be scored against the longest reserved-word suffix it
// matches.
type suffixTrie struct {
	root *trieNode
	size int
}

type trieNode struct {
	children map[byte]*trieNode
	terminal bool
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

// newSuffixTrie builds the trie from scanner.KeywordSuffixes().
func newSuffixTrie() *suffixTrie {
	t := &suffixTrie{root: newTrieNode()}
	for _, s := range scanner.KeywordSuffixes() {
		t.insert(s)
	}
	return t
}

func (t *suffixTrie) insert(s string) {
	n := t.root
	for i := 0; i < len(s); i++ {
		b := s[i]
		child, ok := n.children[b]
		if !ok {
			child = newTrieNode()
			n.children[b] = child
		}
		n = child
	}
	if !n.terminal {
		n.terminal = true
		t.size++
	}
}

// Size returns the number of distinct suffix entries held. The count is
// a function of the reserved-word table, not a constant of this package.
func (t *suffixTrie) Size() int { return t.size }

// LongestMatch returns the longest prefix of s that is itself a suffix of
// some reserved keyword, and whether any such prefix exists.
func (t *suffixTrie) LongestMatch(s string) (string, bool) {
	n := t.root
	longest := -1
	for i := 0; i < len(s); i++ {
		child, ok := n.children[s[i]]
		if !ok {
			break
		}
		n = child
		if n.terminal {
			longest = i
		}
	}
	if longest < 0 {
		return "", false
	}
	return s[:longest+1], true
}
