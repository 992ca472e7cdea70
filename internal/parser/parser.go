// Package parser turns a scanned token stream into the flat AST, using a
// hand-written recursive-descent reducer that appends nodes in post-order
// as reductions complete.
package parser

import (
	"fmt"

	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

// StatementKind classifies a top-level statement.
type StatementKind int

const (
	StatementUnknown StatementKind = iota
	StatementSelect
	StatementCreateTable
	StatementCreateView
)

// Statement records a top-level statement's root node and kind.
type Statement struct {
	Root uint32
	Kind StatementKind
}

// ParsedScript is the parser's output: a flattened node buffer, the
// statements found in source order, and any parse errors.
type ParsedScript struct {
	Scanned    *scanner.ScannedScript
	Nodes      []ast.Node
	Statements []Statement
	Errors     []scanner.PositionedError
}

// ErrNotScanned is the sentinel for parsing a script whose scan failed.
// Parse itself returns no error, so nothing in this package returns it.
var ErrNotScanned = fmt.Errorf("PARSER_INPUT_NOT_SCANNED")

// filteredTok is a non-trivia token plus its index into the original
// (unfiltered) token slice, needed so ParseUntil can relate a raw token id
// from the cursor back to the grammar position the reducer was in.
type filteredTok struct {
	scanner.Token
	orig int
}

type parser struct {
	scanned *scanner.ScannedScript
	toks    []filteredTok
	pos     int
	nodes   rope.ChunkBuffer[ast.Node]
	errors  []scanner.PositionedError

	// tagStack/stopAt support ParseUntil (see parse_until.go): stopAt is
	// -1 during an ordinary Parse, disabling checkHalt entirely.
	tagStack []grammarTag
	stopAt   int
}

// Parse runs the reducer over an already-scanned script.
func Parse(scanned *scanner.ScannedScript) *ParsedScript {
	p := &parser{scanned: scanned, stopAt: -1}
	for i, tok := range scanned.Tokens {
		if tok.Type.IsTrivia() {
			continue
		}
		p.toks = append(p.toks, filteredTok{Token: tok, orig: i})
	}

	out := &ParsedScript{Scanned: scanned}
	for p.pos < len(p.toks) {
		stmt, ok := p.parseStatement()
		if ok {
			out.Statements = append(out.Statements, stmt)
		}
		p.consumeStatementTerminator()
	}
	out.Nodes = p.nodes.Flatten()
	out.Errors = p.errors
	return out
}

func (p *parser) consumeStatementTerminator() {
	if p.cur().Type == scanner.SemicolonToken {
		p.pos++
	}
}

func (p *parser) cur() scanner.Token {
	if p.pos >= len(p.toks) {
		return scanner.Token{Type: scanner.EOFToken}
	}
	return p.toks[p.pos].Token
}

func (p *parser) curText() string {
	tok := p.cur()
	return p.scanned.Text[tok.Location.Offset : tok.Location.Offset+tok.Location.Length]
}

func (p *parser) curKeyword() string {
	if p.cur().Type != scanner.ReservedWordToken {
		return ""
	}
	return lower(p.curText())
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

func (p *parser) advance() scanner.Token {
	tok := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *parser) at(tt scanner.TokenType) bool { return p.cur().Type == tt }

func (p *parser) atKeyword(kw string) bool { return p.curKeyword() == kw }

func (p *parser) errorf(loc rope.Location, format string, args ...any) {
	p.errors = append(p.errors, scanner.PositionedError{Location: loc, Message: fmt.Sprintf(format, args...)})
}

// --- node construction helpers -------------------------------------------

func (p *parser) leaf(t ast.NodeType, loc rope.Location, value uint64) uint32 {
	return uint32(p.nodes.Append(ast.Node{Type: t, Location: loc, Parent: ast.NullIndex, Value: value}))
}

func (p *parser) null() uint32 {
	return p.leaf(ast.NodeTypeNone, rope.Location{}, 0)
}

// container appends a parent node over the given child node indexes.
// ChildrenBegin records the first child's root index and ChildrenCount the
// number of immediate children; every node in [ChildrenBegin, idx) belongs
// to the new node's subtree (post-order layout) unless a caller appended a
// node it never passes as a child (parseQualifiedName does so for name
// parts beyond the third), and immediate children are recoverable through
// their Parent links.
func (p *parser) container(t ast.NodeType, loc rope.Location, children []uint32) uint32 {
	begin := uint32(0)
	if len(children) > 0 {
		begin = children[0]
	} else {
		begin = uint32(p.nodes.Len())
	}
	idx := uint32(p.nodes.Append(ast.Node{
		Type:          t,
		Location:      loc,
		Parent:        ast.NullIndex,
		ChildrenBegin: begin,
		ChildrenCount: uint32(len(children)),
	}))
	for _, c := range children {
		p.nodes.Ptr(int(c)).Parent = idx
	}
	return idx
}

func (p *parser) tag(idx uint32, key ast.AttributeKey) uint32 {
	if idx != ast.NullIndex {
		p.nodes.Ptr(int(idx)).Attribute = key
	}
	return idx
}

func locSpan(a, b rope.Location) rope.Location {
	end := max(a.Offset+a.Length, b.Offset+b.Length)
	start := min(a.Offset, b.Offset)
	return rope.Location{Offset: start, Length: end - start}
}
