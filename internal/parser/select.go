package parser

import (
	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

var statementStartKeywords = []string{"select", "with", "create", "insert", "update", "delete"}

func (p *parser) parseStatement() (Statement, bool) {
	if p.at(scanner.EOFToken) || p.at(scanner.SemicolonToken) {
		return Statement{}, false
	}
	defer p.enter(tagStatement)()
	p.checkHalt()
	start := p.cur().Location
	switch {
	case p.atKeyword("select") || p.atKeyword("with"):
		root := p.parseSelect()
		return Statement{Root: root, Kind: StatementSelect}, true
	case p.atKeyword("create"):
		root, kind := p.parseCreate()
		return Statement{Root: root, Kind: kind}, true
	default:
		p.errorf(start, "unexpected token %s, expected a statement", p.cur().Type)
		p.recoverToNextStatement()
		return Statement{}, false
	}
}

// recoverToNextStatement skips tokens until a statement-starting reserved
// word or a ';'/EOF is found, so one malformed statement does not poison
// the rest of the script.
func (p *parser) recoverToNextStatement() {
	for {
		tok := p.cur()
		if tok.Type == scanner.EOFToken || tok.Type == scanner.SemicolonToken {
			return
		}
		if tok.Type == scanner.ReservedWordToken && containsStr(statementStartKeywords, p.curKeyword()) {
			return
		}
		p.advance()
	}
}

func containsStr(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func (p *parser) parseSelect() uint32 {
	start := p.cur().Location

	var ctes uint32 = ast.NullIndex
	if p.atKeyword("with") {
		ctes = p.parseCTEList()
	}

	p.advance() // 'select'

	var distinct uint32 = ast.NullIndex
	if p.atKeyword("distinct") {
		distinct = p.leaf(ast.NodeTypeIdentifier, p.cur().Location, 0)
		p.advance()
	} else if p.atKeyword("all") {
		p.advance()
	}

	targets := p.parseSelectTargets()

	var from uint32 = ast.NullIndex
	if p.atKeyword("from") {
		from = p.parseFrom()
	}

	var where uint32 = ast.NullIndex
	if p.atKeyword("where") {
		p.advance()
		release := p.enter(tagWhereExpr)
		p.checkHalt()
		where = p.parseExpr()
		release()
	}

	var groupBy uint32 = ast.NullIndex
	if p.atKeyword("group") {
		p.advance()
		if p.atKeyword("by") {
			p.advance()
		}
		groupBy = p.parseExprList(ast.NodeTypeArray)
	}

	var having uint32 = ast.NullIndex
	if p.atKeyword("having") {
		p.advance()
		having = p.parseExpr()
	}

	var orderBy uint32 = ast.NullIndex
	if p.atKeyword("order") {
		orderBy = p.parseOrderBy()
	}

	var limit uint32 = ast.NullIndex
	if p.atKeyword("limit") {
		p.advance()
		limit = p.parseExpr()
	}

	end := p.lastConsumedLoc()
	children := []uint32{targets}
	tagPairs := []struct {
		idx uint32
		key ast.AttributeKey
	}{
		{ctes, ast.AttrSQLSelectCTEs},
		{distinct, ast.AttrSQLSelectDistinct},
		{from, ast.AttrSQLSelectFrom},
		{where, ast.AttrSQLSelectWhere},
		{groupBy, ast.AttrSQLSelectGroupBy},
		{having, ast.AttrSQLSelectHaving},
		{orderBy, ast.AttrSQLSelectOrderBy},
		{limit, ast.AttrSQLSelectLimit},
	}
	p.tag(targets, ast.AttrSQLSelectTargets)
	for _, tp := range tagPairs {
		if tp.idx != ast.NullIndex {
			children = append(children, tp.idx)
			p.tag(tp.idx, tp.key)
		}
	}
	selectNode := p.container(ast.NodeTypeObjectSQLSelect, locSpan(start, end), children)

	if p.peekSetOp() {
		return p.parseSetOpRHS(selectNode)
	}
	return selectNode
}

// lastConsumedLoc returns the location of the token just before the
// cursor, used to compute an end-of-span when a clause is optional.
func (p *parser) lastConsumedLoc() rope.Location {
	if p.pos == 0 {
		return rope.Location{}
	}
	return p.toks[p.pos-1].Location
}

func (p *parser) peekSetOp() bool {
	switch p.curKeyword() {
	case "union", "intersect", "except":
		return true
	}
	return false
}

func (p *parser) parseSetOpRHS(left uint32) uint32 {
	op := p.curKeyword()
	p.advance()
	if p.atKeyword("all") {
		p.advance()
	}
	right := p.parseSelect()
	loc := locSpan(p.nodeLoc(left), p.nodeLoc(right))
	idx := p.container(ast.NodeTypeObjectSQLSelect, loc, []uint32{left, right})
	p.tag(left, ast.AttrSQLSelectSetOpLeft)
	p.tag(right, ast.AttrSQLSelectSetOpRight)
	p.nodes.Ptr(int(idx)).Value = uint64(setOpEnum(op))
	p.nodes.Ptr(int(idx)).Attribute = ast.AttrSQLSelectSetOp
	return idx
}

func setOpEnum(op string) int {
	switch op {
	case "union":
		return 1
	case "intersect":
		return 2
	case "except":
		return 3
	default:
		return 0
	}
}

func (p *parser) parseCTEList() uint32 {
	start := p.cur().Location
	p.advance() // 'with'
	if p.atKeyword("recursive") {
		p.advance()
	}
	var ctes []uint32
	for {
		nameTok := p.cur()
		name := p.leaf(ast.NodeTypeIdentifier, nameTok.Location, 0)
		p.advance()
		if p.atKeyword("as") {
			p.advance()
		}
		var query uint32 = ast.NullIndex
		if p.at(scanner.LeftParenToken) {
			p.advance()
			query = p.parseSelect()
			if p.at(scanner.RightParenToken) {
				p.advance()
			}
		}
		cte := p.container(ast.NodeTypeObjectSQLCTE, locSpan(nameTok.Location, p.lastConsumedLoc()), []uint32{name, query})
		p.tag(name, ast.AttrSQLCTEName)
		p.tag(query, ast.AttrSQLCTEQuery)
		ctes = append(ctes, cte)
		if p.at(scanner.CommaToken) {
			p.advance()
			continue
		}
		break
	}
	return p.container(ast.NodeTypeArray, locSpan(start, p.lastConsumedLoc()), ctes)
}

func (p *parser) parseSelectTargets() uint32 {
	start := p.cur().Location
	var targets []uint32
	for {
		targets = append(targets, p.parseSelectTarget())
		if p.at(scanner.CommaToken) {
			p.advance()
			continue
		}
		break
	}
	return p.container(ast.NodeTypeArray, locSpan(start, p.lastConsumedLoc()), targets)
}

func (p *parser) parseSelectTarget() uint32 {
	defer p.enter(tagSelectTarget)()
	p.checkHalt()
	start := p.cur().Location
	if p.at(scanner.OperatorToken) && p.curText() == "*" {
		p.advance()
		return p.leaf(ast.NodeTypeIdentifier, start, uint64('*'))
	}
	value := p.parseExpr()
	var alias uint32 = ast.NullIndex
	if p.atKeyword("as") {
		p.advance()
		alias = p.leaf(ast.NodeTypeName, p.cur().Location, 0)
		p.advance()
	} else if p.at(scanner.UnquotedIdentifierToken) || p.at(scanner.QuotedIdentifierToken) {
		alias = p.leaf(ast.NodeTypeName, p.cur().Location, 0)
		p.advance()
	}
	children := []uint32{value}
	p.tag(value, ast.AttrSQLSelectExprValue)
	if alias != ast.NullIndex {
		children = append(children, alias)
		p.tag(alias, ast.AttrSQLSelectExprAlias)
	}
	return p.container(ast.NodeTypeObjectSQLSelectExpr, locSpan(start, p.lastConsumedLoc()), children)
}

func (p *parser) parseExprList(containerType ast.NodeType) uint32 {
	start := p.cur().Location
	var items []uint32
	for {
		items = append(items, p.parseExpr())
		if p.at(scanner.CommaToken) {
			p.advance()
			continue
		}
		break
	}
	return p.container(containerType, locSpan(start, p.lastConsumedLoc()), items)
}

func (p *parser) parseOrderBy() uint32 {
	start := p.cur().Location
	p.advance() // 'order'
	if p.atKeyword("by") {
		p.advance()
	}
	var items []uint32
	for {
		itemStart := p.cur().Location
		expr := p.parseExpr()
		var dir uint32 = ast.NullIndex
		if p.atKeyword("asc") || p.atKeyword("desc") {
			val := 1
			if p.curKeyword() == "desc" {
				val = 2
			}
			dir = p.leaf(ast.NodeTypeEnumSQLOrderDirection, p.cur().Location, uint64(val))
			p.advance()
		}
		children := []uint32{expr}
		p.tag(expr, ast.AttrSQLOrderByExpr)
		if dir != ast.NullIndex {
			children = append(children, dir)
			p.tag(dir, ast.AttrSQLOrderByDirection)
		}
		items = append(items, p.container(ast.NodeTypeObjectSQLOrderByItem, locSpan(itemStart, p.lastConsumedLoc()), children))
		if p.at(scanner.CommaToken) {
			p.advance()
			continue
		}
		break
	}
	return p.container(ast.NodeTypeArray, locSpan(start, p.lastConsumedLoc()), items)
}

// --- FROM / JOIN / table refs --------------------------------------------

func (p *parser) parseFrom() uint32 {
	start := p.cur().Location
	p.advance() // 'from'
	var items []uint32
	for {
		items = append(items, p.parseFromItem())
		if p.at(scanner.CommaToken) {
			p.advance()
			continue
		}
		break
	}
	return p.container(ast.NodeTypeObjectSQLFrom, locSpan(start, p.lastConsumedLoc()), items)
}

func (p *parser) parseFromItem() uint32 {
	left := p.parseTableRef()
	for {
		release := p.enter(tagJoinKeyword)
		p.checkHalt()
		release()
		if !p.isJoinKeyword() {
			return left
		}
		left = p.parseJoin(left)
	}
}

func (p *parser) isJoinKeyword() bool {
	switch p.curKeyword() {
	case "join", "inner", "left", "right", "full", "cross", "natural":
		return true
	}
	return false
}

func (p *parser) parseJoin(left uint32) uint32 {
	start := p.nodeLoc(left)
	joinType := 0 // inner by default
	switch p.curKeyword() {
	case "inner":
		p.advance()
		joinType = 1
	case "left":
		p.advance()
		if p.atKeyword("outer") {
			p.advance()
		}
		joinType = 2
	case "right":
		p.advance()
		if p.atKeyword("outer") {
			p.advance()
		}
		joinType = 3
	case "full":
		p.advance()
		if p.atKeyword("outer") {
			p.advance()
		}
		joinType = 4
	case "cross":
		p.advance()
		joinType = 5
	case "natural":
		p.advance()
		joinType = 6
	}
	if p.atKeyword("join") {
		p.advance()
	}
	right := p.parseTableRef()
	var cond uint32 = ast.NullIndex
	if p.atKeyword("on") {
		p.advance()
		cond = p.parseExpr()
	} else if p.atKeyword("using") {
		p.advance()
		if p.at(scanner.LeftParenToken) {
			p.advance()
		}
		cond = p.parseExprList(ast.NodeTypeArray)
		if p.at(scanner.RightParenToken) {
			p.advance()
		}
	}
	children := []uint32{left, right}
	p.tag(left, ast.AttrSQLJoinLeft)
	p.tag(right, ast.AttrSQLJoinRight)
	if cond != ast.NullIndex {
		children = append(children, cond)
		p.tag(cond, ast.AttrSQLJoinCondition)
	}
	idx := p.container(ast.NodeTypeObjectSQLJoin, locSpan(start, p.lastConsumedLoc()), children)
	p.nodes.Ptr(int(idx)).Value = uint64(joinType)
	return idx
}

func (p *parser) parseTableRef() uint32 {
	defer p.enter(tagFromItem)()
	p.checkHalt()
	start := p.cur().Location
	var lateral uint32 = ast.NullIndex
	if p.atKeyword("lateral") {
		lateral = p.leaf(ast.NodeTypeIdentifier, p.cur().Location, 0)
		p.advance()
	}

	var name uint32
	var isSubquery bool
	if p.at(scanner.LeftParenToken) {
		p.advance()
		name = p.parseSelect()
		isSubquery = true
		if p.at(scanner.RightParenToken) {
			p.advance()
		}
	} else {
		name = p.parseQualifiedName()
	}

	var alias uint32 = ast.NullIndex
	if p.atKeyword("as") {
		p.advance()
		alias = p.leaf(ast.NodeTypeName, p.cur().Location, 0)
		p.advance()
	} else if p.at(scanner.UnquotedIdentifierToken) || p.at(scanner.QuotedIdentifierToken) {
		alias = p.leaf(ast.NodeTypeName, p.cur().Location, 0)
		p.advance()
	}

	children := []uint32{name}
	p.tag(name, ast.AttrSQLTableRefName)
	if alias != ast.NullIndex {
		children = append(children, alias)
		p.tag(alias, ast.AttrSQLTableRefAlias)
	}
	if lateral != ast.NullIndex {
		children = append(children, lateral)
		p.tag(lateral, ast.AttrSQLTableRefLateral)
	}
	idx := p.container(ast.NodeTypeObjectSQLTableRef, locSpan(start, p.lastConsumedLoc()), children)
	if isSubquery {
		p.nodes.Ptr(int(idx)).Value = 1
	}
	return idx
}
