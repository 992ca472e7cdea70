package parser

import (
	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

// parseQualifiedName parses a dot-separated sequence of identifier or
// string parts, optionally followed by a trailing `[index]` indirection,
// reduced to a qualified-name node whose attributes depend on the part
// count:
//
//	0 parts  -> null node
//	1 part   -> RELATION
//	2 parts  -> SCHEMA, RELATION
//	3 parts  -> CATALOG, SCHEMA, RELATION
//
// A 4th or later part is a reported error, never a silent truncation.
func (p *parser) parseQualifiedName() uint32 {
	if !isNamePart(p.cur()) {
		return p.null()
	}

	var parts []uint32
	var partLocs []rope.Location
	for {
		tok := p.cur()
		if !isNamePart(tok) {
			break
		}
		nt := ast.NodeTypeIdentifier
		if tok.Type == scanner.QuotedIdentifierToken {
			nt = ast.NodeTypeName
		}
		parts = append(parts, p.leaf(nt, tok.Location, 0))
		partLocs = append(partLocs, tok.Location)
		p.advance()
		if p.at(scanner.DotToken) {
			p.advance()
			continue
		}
		break
	}

	var indirection uint32 = ast.NullIndex
	if p.at(scanner.LeftBracketToken) {
		start := p.cur().Location
		p.advance()
		idx := p.parseExpr()
		var end rope.Location
		if p.at(scanner.RightBracketToken) {
			end = p.cur().Location
			p.advance()
		}
		indirection = p.container(ast.NodeTypeObjectSQLIndirectionIndex, locSpan(start, end), []uint32{idx})
	}

	if len(parts) > 3 {
		span := locSpan(partLocs[0], partLocs[len(partLocs)-1])
		p.errorf(span, "qualified name has more than three parts")
	}

	var children []uint32
	loc := partLocs[0]
	switch {
	case len(parts) >= 3:
		p.tag(parts[0], ast.AttrCatalog)
		p.tag(parts[1], ast.AttrSchema)
		p.tag(parts[2], ast.AttrRelation)
		children = append(children, parts[:3]...)
		loc = locSpan(partLocs[0], partLocs[2])
	case len(parts) == 2:
		p.tag(parts[0], ast.AttrSchema)
		p.tag(parts[1], ast.AttrRelation)
		children = append(children, parts...)
		loc = locSpan(partLocs[0], partLocs[1])
	case len(parts) == 1:
		p.tag(parts[0], ast.AttrRelation)
		children = append(children, parts...)
		loc = partLocs[0]
	}
	if indirection != ast.NullIndex {
		p.tag(indirection, ast.AttrIndex)
		children = append(children, indirection)
		loc = locSpan(loc, p.nodes.At(int(indirection)).Location)
	}
	return p.container(ast.NodeTypeObjectSQLQualifiedName, loc, children)
}

func isNamePart(tok scanner.Token) bool {
	switch tok.Type {
	case scanner.UnquotedIdentifierToken, scanner.QuotedIdentifierToken, scanner.StringLiteralToken:
		return true
	default:
		return false
	}
}
