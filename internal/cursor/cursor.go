// Package cursor locates the token/node/statement at a text offset and
// ranks completion candidates from the grammar, the analyzed script's own
// names, and a keyword suffix trie.
package cursor

import (
	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/parser"
	"github.com/sqlstudio/sqlcore/internal/rope"
)

// Position is the result of Move: the token, node, and statement that
// cover a given text offset.
type Position struct {
	TokenID     int  // index into ParsedScript.Scanned.Tokens, or -1
	NodeID      uint32
	HasNode     bool
	StatementID int // index into ParsedScript.Statements, or -1
}

// Move finds the token, innermost AST node, and enclosing statement that
// cover offset in parsed.
func Move(parsed *parser.ParsedScript, offset int) Position {
	pos := Position{TokenID: -1, StatementID: -1}
	pos.TokenID = tokenAt(parsed, offset)

	stmtIdx, stmtRoot, ok := statementAt(parsed, offset)
	if !ok {
		return pos
	}
	pos.StatementID = stmtIdx
	if node, found := innermostNode(parsed.Nodes, stmtRoot, offset); found {
		pos.NodeID = node
		pos.HasNode = true
	}
	return pos
}

// tokenAt returns the index of the smallest non-trivia token containing
// offset, or the nearest preceding non-trivia token if offset falls in
// whitespace or comments.
func tokenAt(parsed *parser.ParsedScript, offset int) int {
	toks := parsed.Scanned.Tokens
	best := -1
	bestLen := -1
	preceding := -1
	for i, tok := range toks {
		if tok.Type.IsTrivia() {
			continue
		}
		start := tok.Location.Offset
		end := start + tok.Location.Length
		if offset >= start && offset < end {
			if best == -1 || tok.Location.Length < bestLen {
				best, bestLen = i, tok.Location.Length
			}
			continue
		}
		if end <= offset {
			preceding = i // nearest preceding token seen so far, scanning in order
		}
	}
	if best >= 0 {
		return best
	}
	return preceding
}

// statementAt finds the statement whose source span contains offset, in
// source order, and returns its index and root node.
func statementAt(parsed *parser.ParsedScript, offset int) (index int, root uint32, ok bool) {
	for i, stmt := range parsed.Statements {
		if int(stmt.Root) >= len(parsed.Nodes) {
			continue
		}
		loc := parsed.Nodes[stmt.Root].Location
		if offset >= loc.Offset && offset <= loc.Offset+loc.Length {
			return i, stmt.Root, true
		}
	}
	return 0, 0, false
}

// innermostNode descends from root picking, at each level, the child
// whose span contains offset (ties broken by the smallest length), the
// way an editor narrows a cursor position to the tightest enclosing
// construct. Children are recovered through Parent links; a container's
// ChildrenBegin/ChildrenCount only bound its subtree range.
func innermostNode(nodes []ast.Node, root uint32, offset int) (uint32, bool) {
	current := root
	if !spanContains(nodes[current].Location, offset) {
		return 0, false
	}
	children := make(map[uint32][]uint32, len(nodes))
	for i, n := range nodes {
		if n.Parent != ast.NullIndex {
			children[n.Parent] = append(children[n.Parent], uint32(i))
		}
	}
	for {
		best := ast.NullIndex
		bestLen := -1
		for _, childIdx := range children[current] {
			child := nodes[childIdx]
			if child.Type == ast.NodeTypeNone {
				continue
			}
			if !spanContains(child.Location, offset) {
				continue
			}
			if best == ast.NullIndex || child.Location.Length < bestLen {
				best, bestLen = childIdx, child.Location.Length
			}
		}
		if best == ast.NullIndex {
			return current, true
		}
		current = best
	}
}

func spanContains(loc rope.Location, offset int) bool {
	return offset >= loc.Offset && offset <= loc.Offset+loc.Length
}
