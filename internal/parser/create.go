package parser

import (
	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

func (p *parser) parseCreate() (uint32, StatementKind) {
	start := p.cur().Location
	p.advance() // 'create'
	switch p.curKeyword() {
	case "table":
		p.advance()
		return p.parseCreateTable(start), StatementCreateTable
	case "view":
		p.advance()
		return p.parseCreateView(start), StatementCreateView
	default:
		p.errorf(start, "expected TABLE or VIEW after CREATE")
		p.recoverToNextStatement()
		return p.null(), StatementUnknown
	}
}

func (p *parser) parseCreateTableColumns() (uint32, bool) {
	if !p.at(scanner.LeftParenToken) {
		return ast.NullIndex, false
	}
	start := p.cur().Location
	p.advance()
	var cols []uint32
	for !p.at(scanner.RightParenToken) && !p.at(scanner.EOFToken) {
		colStart := p.cur().Location
		nameTok := p.cur()
		name := p.leaf(ast.NodeTypeIdentifier, nameTok.Location, 0)
		p.advance()

		var typ uint32 = ast.NullIndex
		if p.at(scanner.UnquotedIdentifierToken) || p.at(scanner.ReservedWordToken) {
			typ = p.leaf(ast.NodeTypeIdentifier, p.cur().Location, 0)
			p.advance()
			if p.at(scanner.LeftParenToken) {
				p.advance()
				for !p.at(scanner.RightParenToken) && !p.at(scanner.EOFToken) {
					p.advance()
				}
				if p.at(scanner.RightParenToken) {
					p.advance()
				}
			}
		}
		// Skip constraint keywords/expressions until the next comma or ')'.
		for !p.at(scanner.CommaToken) && !p.at(scanner.RightParenToken) && !p.at(scanner.EOFToken) {
			p.advance()
		}

		children := []uint32{name}
		p.tag(name, ast.AttrSQLColumnDefName)
		if typ != ast.NullIndex {
			children = append(children, typ)
			p.tag(typ, ast.AttrSQLColumnDefType)
		}
		cols = append(cols, p.container(ast.NodeTypeObjectSQLColumnDef, locSpan(colStart, p.lastConsumedLoc()), children))
		if p.at(scanner.CommaToken) {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().Location
	if p.at(scanner.RightParenToken) {
		p.advance()
	}
	return p.container(ast.NodeTypeArray, locSpan(start, end), cols), true
}

func (p *parser) parseCreateTable(start rope.Location) uint32 {
	defer p.enter(tagCreateTable)()
	p.checkHalt()
	name := p.parseQualifiedName()
	cols, _ := p.parseCreateTableColumns()
	children := []uint32{name}
	p.tag(name, ast.AttrSQLCreateTableName)
	if cols != ast.NullIndex {
		children = append(children, cols)
		p.tag(cols, ast.AttrSQLCreateTableColumns)
	}
	return p.container(ast.NodeTypeObjectSQLCreateTable, locSpan(start, p.lastConsumedLoc()), children)
}

func (p *parser) parseCreateView(start rope.Location) uint32 {
	name := p.parseQualifiedName()
	if p.atKeyword("as") {
		p.advance()
	}
	query := p.parseSelect()
	children := []uint32{name, query}
	p.tag(name, ast.AttrSQLCreateViewName)
	p.tag(query, ast.AttrSQLCreateViewQuery)
	return p.container(ast.NodeTypeObjectSQLCreateView, locSpan(start, p.lastConsumedLoc()), children)
}
