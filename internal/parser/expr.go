package parser

import (
	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

// Binary operator precedence, low to high. Operators not listed bind at
// the lowest level above comparisons.
var binaryPrecedence = map[string]int{
	"or": 1, "and": 2,
	"=": 3, "<>": 3, "!=": 3, "<": 3, "<=": 3, ">": 3, ">=": 3, "like": 3, "ilike": 3, "in": 3, "is": 3,
	"+": 4, "-": 4, "||": 4,
	"*": 5, "/": 5, "%": 5,
}

func (p *parser) parseExpr() uint32 {
	defer p.enter(tagExpr)()
	p.checkHalt()
	return p.parseBinary(0)
}

func (p *parser) parseBinary(minPrec int) uint32 {
	left := p.parseUnary()
	for {
		op, ok := p.peekBinaryOp()
		if !ok {
			return left
		}
		prec, listed := binaryPrecedence[op]
		if !listed {
			prec = 4
		}
		if prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		loc := locSpan(p.nodeLoc(left), p.nodeLoc(right))
		idx := p.container(ast.NodeTypeObjectSQLBinaryExpr, loc, []uint32{left, right})
		p.tag(left, ast.AttrSQLBinaryLeft)
		p.tag(right, ast.AttrSQLBinaryRight)
		p.nodes.Ptr(int(idx)).Value = uint64(opEnum(op))
		left = idx
	}
}

func (p *parser) nodeLoc(idx uint32) rope.Location {
	return p.nodes.At(int(idx)).Location
}

// peekBinaryOp reports whether the current token begins a binary operator,
// and if so which one (lower-cased canonical spelling).
func (p *parser) peekBinaryOp() (string, bool) {
	tok := p.cur()
	switch tok.Type {
	case scanner.OperatorToken:
		return p.curText(), true
	case scanner.ReservedWordToken:
		kw := p.curKeyword()
		switch kw {
		case "and", "or", "like", "ilike", "in", "is":
			return kw, true
		}
	}
	return "", false
}

func opEnum(op string) int {
	switch op {
	case "=":
		return 1
	case "<>", "!=":
		return 2
	case "<":
		return 3
	case "<=":
		return 4
	case ">":
		return 5
	case ">=":
		return 6
	case "and":
		return 7
	case "or":
		return 8
	case "+":
		return 9
	case "-":
		return 10
	case "*":
		return 11
	case "/":
		return 12
	case "||":
		return 13
	case "like", "ilike":
		return 14
	case "in":
		return 15
	case "is":
		return 16
	default:
		return 0
	}
}

func (p *parser) parseUnary() uint32 {
	tok := p.cur()
	if tok.Type == scanner.OperatorToken && (p.curText() == "-" || p.curText() == "+") {
		opLoc := tok.Location
		p.advance()
		operand := p.parseUnary()
		loc := locSpan(opLoc, p.nodeLoc(operand))
		idx := p.container(ast.NodeTypeObjectSQLUnaryExpr, loc, []uint32{operand})
		p.tag(operand, ast.AttrSQLUnaryOperand)
		return idx
	}
	if tok.Type == scanner.ReservedWordToken && p.curKeyword() == "not" {
		opLoc := tok.Location
		p.advance()
		operand := p.parseUnary()
		loc := locSpan(opLoc, p.nodeLoc(operand))
		idx := p.container(ast.NodeTypeObjectSQLUnaryExpr, loc, []uint32{operand})
		p.tag(operand, ast.AttrSQLUnaryOperand)
		return idx
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() uint32 {
	tok := p.cur()
	switch tok.Type {
	case scanner.IntegerLiteralToken:
		p.advance()
		return p.leaf(ast.NodeTypeLiteralInteger, tok.Location, 0)
	case scanner.NumericLiteralToken:
		p.advance()
		return p.leaf(ast.NodeTypeLiteralFloat, tok.Location, 0)
	case scanner.StringLiteralToken, scanner.HexStringLiteralToken, scanner.BitStringLiteralToken, scanner.DollarQuotedStringToken:
		p.advance()
		return p.leaf(ast.NodeTypeLiteralString, tok.Location, 0)
	case scanner.LeftParenToken:
		start := tok.Location
		p.advance()
		inner := p.parseExpr()
		var end rope.Location
		if p.at(scanner.RightParenToken) {
			end = p.cur().Location
			p.advance()
		}
		idx := p.container(ast.NodeTypeObjectSQLParenExpr, locSpan(start, end), []uint32{inner})
		p.tag(inner, ast.AttrSQLParenInner)
		return idx
	case scanner.ReservedWordToken:
		switch p.curKeyword() {
		case "extract":
			return p.parseExtract()
		case "trim":
			return p.parseTrim()
		case "interval":
			return p.parseInterval()
		case "case":
			return p.parseCase()
		case "cast":
			name := p.leaf(ast.NodeTypeIdentifier, tok.Location, 0)
			p.advance()
			if p.at(scanner.LeftParenToken) {
				return p.parseCast(name)
			}
			p.errorf(tok.Location, "expected ( after CAST")
			return name
		case "true", "false", "null":
			lt := tok
			p.advance()
			return p.leaf(ast.NodeTypeLiteralString, lt.Location, 0)
		}
	case scanner.UnquotedIdentifierToken, scanner.QuotedIdentifierToken:
		name := p.parseQualifiedName()
		if p.at(scanner.LeftParenToken) {
			return p.parseFunctionCall(name)
		}
		loc := p.nodeLoc(name)
		idx := p.container(ast.NodeTypeObjectSQLColumnRef, loc, []uint32{name})
		p.tag(name, ast.AttrSQLColumnRefPath)
		return idx
	}
	// Unrecoverable at the expression level: emit an error and a null
	// placeholder so the surrounding statement can still be reduced.
	p.errorf(tok.Location, "expected expression, found %s", tok.Type)
	return p.null()
}

func (p *parser) parseFunctionCall(name uint32) uint32 {
	start := p.nodeLoc(name)
	p.advance() // '('
	var args []uint32
	if !p.at(scanner.RightParenToken) {
		for {
			args = append(args, p.parseExpr())
			if p.at(scanner.CommaToken) {
				p.advance()
				continue
			}
			break
		}
	}
	var end rope.Location
	if p.at(scanner.RightParenToken) {
		end = p.cur().Location
		p.advance()
	}
	argsArr := p.container(ast.NodeTypeArray, locSpan(start, end), args)
	idx := p.container(ast.NodeTypeObjectSQLFunctionCall, locSpan(start, end), []uint32{name, argsArr})
	p.tag(name, ast.AttrSQLFunctionName)
	p.tag(argsArr, ast.AttrSQLFunctionArgs)
	if p.atKeyword("over") {
		return p.parseWindowSpec(idx)
	}
	return idx
}

// parseWindowSpec wraps a function call in an OVER (...) window: partition
// list, order list, and an optional frame clause.
func (p *parser) parseWindowSpec(fn uint32) uint32 {
	start := p.nodeLoc(fn)
	p.advance() // 'over'
	if p.at(scanner.LeftParenToken) {
		p.advance()
	}
	var partition uint32 = ast.NullIndex
	if p.atKeyword("partition") {
		p.advance()
		if p.atKeyword("by") {
			p.advance()
		}
		partition = p.parseExprList(ast.NodeTypeArray)
	}
	var order uint32 = ast.NullIndex
	if p.atKeyword("order") {
		order = p.parseOrderBy()
	}
	var frame uint32 = ast.NullIndex
	if p.atKeyword("rows") || p.atKeyword("range") || p.atKeyword("groups") {
		frame = p.parseWindowFrame()
	}
	var end rope.Location
	if p.at(scanner.RightParenToken) {
		end = p.cur().Location
		p.advance()
	}
	children := []uint32{fn}
	for _, c := range []struct {
		idx uint32
		key ast.AttributeKey
	}{
		{partition, ast.AttrSQLWindowPartitionBy},
		{order, ast.AttrSQLWindowOrderBy},
		{frame, ast.AttrSQLWindowFrame},
	} {
		if c.idx != ast.NullIndex {
			children = append(children, c.idx)
			p.tag(c.idx, c.key)
		}
	}
	return p.container(ast.NodeTypeObjectSQLWindow, locSpan(start, end), children)
}

// parseWindowFrame consumes a ROWS/RANGE/GROUPS frame clause. The frame's
// bound keywords (UNBOUNDED PRECEDING, CURRENT ROW, ...) are covered by the
// node's source span rather than modeled as separate children.
func (p *parser) parseWindowFrame() uint32 {
	start := p.cur().Location
	p.advance() // rows/range/groups
	for !p.at(scanner.RightParenToken) && !p.at(scanner.SemicolonToken) && !p.at(scanner.EOFToken) {
		p.advance()
	}
	return p.container(ast.NodeTypeObjectSQLWindowFrame, locSpan(start, p.lastConsumedLoc()), nil)
}

// parseCase covers both the searched (CASE WHEN a THEN b) and simple
// (CASE x WHEN a THEN b) forms, with an optional ELSE.
func (p *parser) parseCase() uint32 {
	start := p.cur().Location
	p.advance() // 'case'

	var operand uint32 = ast.NullIndex
	if !p.atKeyword("when") {
		operand = p.parseExpr()
	}

	var whens []uint32
	for p.atKeyword("when") {
		whenStart := p.cur().Location
		p.advance()
		cond := p.parseExpr()
		if p.atKeyword("then") {
			p.advance()
		}
		result := p.parseExpr()
		when := p.container(ast.NodeTypeObjectSQLCaseWhen, locSpan(whenStart, p.lastConsumedLoc()), []uint32{cond, result})
		p.tag(cond, ast.AttrSQLCaseWhenCondition)
		p.tag(result, ast.AttrSQLCaseWhenResult)
		whens = append(whens, when)
	}

	var elseExpr uint32 = ast.NullIndex
	if p.atKeyword("else") {
		p.advance()
		elseExpr = p.parseExpr()
	}
	end := p.cur().Location
	if p.atKeyword("end") {
		p.advance()
	}

	var children []uint32
	if operand != ast.NullIndex {
		children = append(children, operand)
		p.tag(operand, ast.AttrSQLCaseOperand)
	}
	children = append(children, whens...)
	if elseExpr != ast.NullIndex {
		children = append(children, elseExpr)
		p.tag(elseExpr, ast.AttrSQLCaseElse)
	}
	return p.container(ast.NodeTypeObjectSQLCase, locSpan(start, end), children)
}

// parseCast reduces CAST(expr AS type) to a function call with the target
// type as a trailing identifier argument.
func (p *parser) parseCast(name uint32) uint32 {
	start := p.nodeLoc(name)
	p.advance() // '('
	args := []uint32{p.parseExpr()}
	if p.atKeyword("as") {
		p.advance()
	}
	if p.at(scanner.UnquotedIdentifierToken) || p.at(scanner.ReservedWordToken) {
		args = append(args, p.leaf(ast.NodeTypeIdentifier, p.cur().Location, 0))
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
	var end rope.Location
	if p.at(scanner.RightParenToken) {
		end = p.cur().Location
		p.advance()
	}
	argsArr := p.container(ast.NodeTypeArray, locSpan(start, end), args)
	idx := p.container(ast.NodeTypeObjectSQLFunctionCall, locSpan(start, end), []uint32{name, argsArr})
	p.tag(name, ast.AttrSQLFunctionName)
	p.tag(argsArr, ast.AttrSQLFunctionArgs)
	return idx
}

func (p *parser) parseExtract() uint32 {
	start := p.cur().Location
	p.advance() // 'extract'
	var field uint32 = p.null()
	if p.at(scanner.UnquotedIdentifierToken) || p.at(scanner.ReservedWordToken) {
		field = p.leaf(ast.NodeTypeIdentifier, p.cur().Location, 0)
		p.advance()
	}
	if p.at(scanner.LeftParenToken) {
		p.advance()
	}
	if p.atKeyword("from") {
		p.advance()
	}
	source := p.parseExpr()
	var end rope.Location
	if p.at(scanner.RightParenToken) {
		end = p.cur().Location
		p.advance()
	}
	idx := p.container(ast.NodeTypeObjectSQLExtract, locSpan(start, end), []uint32{field, source})
	p.tag(field, ast.AttrSQLExtractField)
	p.tag(source, ast.AttrSQLExtractSource)
	return idx
}

func (p *parser) parseTrim() uint32 {
	start := p.cur().Location
	p.advance() // 'trim'
	if p.at(scanner.LeftParenToken) {
		p.advance()
	}
	var direction uint32 = ast.NullIndex
	if p.curKeyword() == "leading" || p.curKeyword() == "trailing" || p.curKeyword() == "both" {
		direction = p.leaf(ast.NodeTypeEnumSQLTrimDirection, p.cur().Location, uint64(trimDirectionEnum(p.curKeyword())))
		p.advance()
	}
	var chars uint32 = ast.NullIndex
	if !p.atKeyword("from") && !p.at(scanner.RightParenToken) {
		chars = p.parseExpr()
	}
	if p.atKeyword("from") {
		p.advance()
	}
	source := p.parseExpr()
	var end rope.Location
	if p.at(scanner.RightParenToken) {
		end = p.cur().Location
		p.advance()
	}
	children := []uint32{source}
	if direction != ast.NullIndex {
		children = append(children, direction)
	}
	if chars != ast.NullIndex {
		children = append(children, chars)
	}
	idx := p.container(ast.NodeTypeObjectSQLTrim, locSpan(start, end), children)
	p.tag(source, ast.AttrSQLTrimSource)
	if direction != ast.NullIndex {
		p.tag(direction, ast.AttrSQLTrimDirection)
	}
	if chars != ast.NullIndex {
		p.tag(chars, ast.AttrSQLTrimCharacters)
	}
	return idx
}

func trimDirectionEnum(kw string) int {
	switch kw {
	case "leading":
		return 1
	case "trailing":
		return 2
	default:
		return 3
	}
}

func (p *parser) parseInterval() uint32 {
	start := p.cur().Location
	p.advance() // 'interval'
	lit := p.cur()
	if lit.Type == scanner.StringLiteralToken {
		p.advance()
	}
	end := lit.Location
	// Trailing unit keyword (e.g. "day", "month") is part of the literal's
	// surface span but not separately modeled.
	if p.cur().Type == scanner.UnquotedIdentifierToken || p.cur().Type == scanner.ReservedWordToken {
		end = p.cur().Location
		p.advance()
	}
	return p.leaf(ast.NodeTypeLiteralInterval, locSpan(start, end), 0)
}
