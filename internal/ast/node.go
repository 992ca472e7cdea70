// Package ast defines the flat, parallel-array abstract syntax tree: a
// single growable buffer of fixed-size Node records linked by index, not
// pointers, laid out in post-order so a left-to-right scan is a valid DFS
// post-order traversal.
package ast

import "github.com/sqlstudio/sqlcore/internal/rope"

// NullIndex marks an unset parent, a null ContextObjectID half, or a null
// node reference.
const NullIndex uint32 = 0xFFFFFFFF

// NodeType classifies a Node's payload interpretation.
type NodeType uint16

const (
	NodeTypeNone NodeType = iota
	NodeTypeLiteralInteger
	NodeTypeLiteralFloat
	NodeTypeLiteralString
	NodeTypeLiteralInterval
	NodeTypeIdentifier
	NodeTypeName
	NodeTypeEnumSQLJoinType
	NodeTypeEnumSQLSetOp
	NodeTypeEnumSQLOrderDirection
	NodeTypeEnumSQLTrimDirection
	NodeTypeArray
	NodeTypeObjectSQLSelect
	NodeTypeObjectSQLSelectExpr
	NodeTypeObjectSQLFrom
	NodeTypeObjectSQLJoin
	NodeTypeObjectSQLTableRef
	NodeTypeObjectSQLColumnRef
	NodeTypeObjectSQLQualifiedName
	NodeTypeObjectSQLIndirectionIndex
	NodeTypeObjectSQLCreateTable
	NodeTypeObjectSQLCreateView
	NodeTypeObjectSQLColumnDef
	NodeTypeObjectSQLWindow
	NodeTypeObjectSQLWindowFrame
	NodeTypeObjectSQLExtract
	NodeTypeObjectSQLTrim
	NodeTypeObjectSQLCTE
	NodeTypeObjectSQLOrderByItem
	NodeTypeObjectSQLBinaryExpr
	NodeTypeObjectSQLUnaryExpr
	NodeTypeObjectSQLFunctionCall
	NodeTypeObjectSQLCase
	NodeTypeObjectSQLCaseWhen
	NodeTypeObjectSQLParenExpr
)

// AttributeKey labels a parent->child edge: AttrNone plus the keys the
// parser and analyzer actually produce.
type AttributeKey uint16

const (
	AttrNone AttributeKey = iota

	// Qualified name parts.
	AttrCatalog
	AttrSchema
	AttrRelation
	AttrIndex // trailing indirection

	// SELECT.
	AttrSQLSelectDistinct
	AttrSQLSelectTargets
	AttrSQLSelectFrom
	AttrSQLSelectWhere
	AttrSQLSelectGroupBy
	AttrSQLSelectHaving
	AttrSQLSelectOrderBy
	AttrSQLSelectLimit
	AttrSQLSelectSetOp
	AttrSQLSelectSetOpLeft
	AttrSQLSelectSetOpRight
	AttrSQLSelectCTEs

	AttrSQLSelectExprValue
	AttrSQLSelectExprAlias

	// FROM / joins / table refs.
	AttrSQLFromItem
	AttrSQLJoinType
	AttrSQLJoinLeft
	AttrSQLJoinRight
	AttrSQLJoinCondition
	AttrSQLTableRefName
	AttrSQLTableRefAlias
	AttrSQLTableRefLateral

	// Column references.
	AttrSQLColumnRefPath

	// CREATE TABLE / VIEW.
	AttrSQLCreateTableName
	AttrSQLCreateTableColumns
	AttrSQLCreateViewName
	AttrSQLCreateViewQuery
	AttrSQLColumnDefName
	AttrSQLColumnDefType

	// Window functions.
	AttrSQLWindowPartitionBy
	AttrSQLWindowOrderBy
	AttrSQLWindowFrame

	// Misc expression forms.
	AttrSQLExtractField
	AttrSQLExtractSource
	AttrSQLTrimDirection
	AttrSQLTrimCharacters
	AttrSQLTrimSource
	AttrSQLOrderByExpr
	AttrSQLOrderByDirection
	AttrSQLCTEName
	AttrSQLCTEQuery

	// Generic expression forms.
	AttrSQLBinaryLeft
	AttrSQLBinaryRight
	AttrSQLUnaryOperand
	AttrSQLFunctionName
	AttrSQLFunctionArgs
	AttrSQLCaseOperand
	AttrSQLCaseWhenCondition
	AttrSQLCaseWhenResult
	AttrSQLCaseElse
	AttrSQLParenInner

	attrKeyCount // sentinel: number of AttributeKey values
)

// Node is the fixed record stored in the flat AST buffer.
//
// For NodeTypeArray/NodeTypeObject* nodes, ChildrenBegin is the first
// immediate child's index and ChildrenCount the number of immediate
// children; every node in [ChildrenBegin, this node's index) belongs to
// this node's subtree (post-order layout), except that name parts beyond
// the third of an over-long qualified name sit in that range with no
// Parent link. The first child's own descendants precede ChildrenBegin,
// and immediate children are recovered through their Parent links. For literal/enum/identifier
// nodes, Value holds the payload directly, or a rope.Location into the
// name dictionary / string pool.
type Node struct {
	Location      rope.Location
	Type          NodeType
	Attribute     AttributeKey
	Parent        uint32
	ChildrenBegin uint32
	ChildrenCount uint32
	Value         uint64
}

// IsNull reports whether idx is the null node/parent sentinel.
func IsNull(idx uint32) bool { return idx == NullIndex }

// IsContainer reports whether n's payload is a children range rather than a
// scalar/location value.
func (n Node) IsContainer() bool {
	switch n.Type {
	case NodeTypeArray:
		return true
	default:
		return n.Type >= NodeTypeObjectSQLSelect
	}
}
