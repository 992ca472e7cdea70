// Package sqltest provides structural dump helpers used by this module's
// golden-style tests: tab-aligned flat-AST dumps and repr-based
// AnalyzedScript dumps.
package sqltest

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/alecthomas/repr"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
	"github.com/sqlstudio/sqlcore/internal/ast"
)

// DumpNodes renders a flat node buffer one line per record,
// tabwriter-aligned, for use in golden-file-style test assertions.
func DumpNodes(nodes []ast.Node) string {
	var out bytes.Buffer
	w := tabwriter.NewWriter(&out, 0, 0, 2, ' ', 0)
	for i, n := range nodes {
		fmt.Fprintf(w, "%d\t%s\t attr=%s\t parent=%d\t loc=(%d,%d)\n",
			i, nodeTypeName(n.Type), attrName(n.Attribute), int32(n.Parent), n.Location.Offset, n.Location.Length)
	}
	w.Flush()
	return out.String()
}

// DumpAnalyzedScript renders an AnalyzedScript's declarations and
// references, one section per slice, in repr's struct-literal-ish format,
// captured as a string so tests can compare it against a golden value.
func DumpAnalyzedScript(a *analyzer.AnalyzedScript) string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "tables:\n%s", repr.String(a.Tables))
	fmt.Fprintf(&out, "\ntable refs:\n%s", repr.String(a.TableRefs))
	fmt.Fprintf(&out, "\ncolumn refs:\n%s", repr.String(a.ColumnRefs))
	fmt.Fprintf(&out, "\njoin edges:\n%s", repr.String(a.JoinEdges))
	return out.String()
}

func nodeTypeName(t ast.NodeType) string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", t)
}

func attrName(a ast.AttributeKey) string {
	if int(a) < len(attrNames) {
		return attrNames[a]
	}
	return fmt.Sprintf("AttributeKey(%d)", a)
}

var nodeTypeNames = []string{
	ast.NodeTypeNone:                    "None",
	ast.NodeTypeLiteralInteger:          "LiteralInteger",
	ast.NodeTypeLiteralFloat:            "LiteralFloat",
	ast.NodeTypeLiteralString:           "LiteralString",
	ast.NodeTypeLiteralInterval:         "LiteralInterval",
	ast.NodeTypeIdentifier:              "Identifier",
	ast.NodeTypeName:                    "Name",
	ast.NodeTypeEnumSQLJoinType:         "EnumJoinType",
	ast.NodeTypeEnumSQLSetOp:            "EnumSetOp",
	ast.NodeTypeEnumSQLOrderDirection:   "EnumOrderDirection",
	ast.NodeTypeEnumSQLTrimDirection:    "EnumTrimDirection",
	ast.NodeTypeArray:                   "Array",
	ast.NodeTypeObjectSQLSelect:         "Select",
	ast.NodeTypeObjectSQLSelectExpr:     "SelectExpr",
	ast.NodeTypeObjectSQLFrom:           "From",
	ast.NodeTypeObjectSQLJoin:           "Join",
	ast.NodeTypeObjectSQLTableRef:       "TableRef",
	ast.NodeTypeObjectSQLColumnRef:      "ColumnRef",
	ast.NodeTypeObjectSQLQualifiedName:  "QualifiedName",
	ast.NodeTypeObjectSQLIndirectionIndex: "IndirectionIndex",
	ast.NodeTypeObjectSQLCreateTable:    "CreateTable",
	ast.NodeTypeObjectSQLCreateView:     "CreateView",
	ast.NodeTypeObjectSQLColumnDef:      "ColumnDef",
	ast.NodeTypeObjectSQLWindow:         "Window",
	ast.NodeTypeObjectSQLWindowFrame:    "WindowFrame",
	ast.NodeTypeObjectSQLExtract:        "Extract",
	ast.NodeTypeObjectSQLTrim:           "Trim",
	ast.NodeTypeObjectSQLCTE:            "CTE",
	ast.NodeTypeObjectSQLOrderByItem:    "OrderByItem",
	ast.NodeTypeObjectSQLBinaryExpr:     "BinaryExpr",
	ast.NodeTypeObjectSQLUnaryExpr:      "UnaryExpr",
	ast.NodeTypeObjectSQLFunctionCall:   "FunctionCall",
	ast.NodeTypeObjectSQLCase:           "Case",
	ast.NodeTypeObjectSQLCaseWhen:       "CaseWhen",
	ast.NodeTypeObjectSQLParenExpr:      "ParenExpr",
}

var attrNames = []string{
	ast.AttrNone:                  "None",
	ast.AttrCatalog:               "Catalog",
	ast.AttrSchema:                "Schema",
	ast.AttrRelation:              "Relation",
	ast.AttrIndex:                 "Index",
	ast.AttrSQLSelectDistinct:     "SelectDistinct",
	ast.AttrSQLSelectTargets:      "SelectTargets",
	ast.AttrSQLSelectFrom:         "SelectFrom",
	ast.AttrSQLSelectWhere:        "SelectWhere",
	ast.AttrSQLSelectGroupBy:      "SelectGroupBy",
	ast.AttrSQLSelectHaving:       "SelectHaving",
	ast.AttrSQLSelectOrderBy:      "SelectOrderBy",
	ast.AttrSQLSelectLimit:        "SelectLimit",
	ast.AttrSQLSelectSetOp:        "SelectSetOp",
	ast.AttrSQLSelectSetOpLeft:    "SelectSetOpLeft",
	ast.AttrSQLSelectSetOpRight:   "SelectSetOpRight",
	ast.AttrSQLSelectCTEs:         "SelectCTEs",
	ast.AttrSQLSelectExprValue:    "SelectExprValue",
	ast.AttrSQLSelectExprAlias:    "SelectExprAlias",
	ast.AttrSQLFromItem:           "FromItem",
	ast.AttrSQLJoinType:           "JoinType",
	ast.AttrSQLJoinLeft:           "JoinLeft",
	ast.AttrSQLJoinRight:          "JoinRight",
	ast.AttrSQLJoinCondition:      "JoinCondition",
	ast.AttrSQLTableRefName:       "TableRefName",
	ast.AttrSQLTableRefAlias:      "TableRefAlias",
	ast.AttrSQLTableRefLateral:    "TableRefLateral",
	ast.AttrSQLColumnRefPath:      "ColumnRefPath",
	ast.AttrSQLCreateTableName:    "CreateTableName",
	ast.AttrSQLCreateTableColumns: "CreateTableColumns",
	ast.AttrSQLCreateViewName:     "CreateViewName",
	ast.AttrSQLCreateViewQuery:    "CreateViewQuery",
	ast.AttrSQLColumnDefName:      "ColumnDefName",
	ast.AttrSQLColumnDefType:      "ColumnDefType",
	ast.AttrSQLWindowPartitionBy:  "WindowPartitionBy",
	ast.AttrSQLWindowOrderBy:      "WindowOrderBy",
	ast.AttrSQLWindowFrame:        "WindowFrame",
	ast.AttrSQLExtractField:       "ExtractField",
	ast.AttrSQLExtractSource:      "ExtractSource",
	ast.AttrSQLTrimDirection:      "TrimDirection",
	ast.AttrSQLTrimCharacters:     "TrimCharacters",
	ast.AttrSQLTrimSource:         "TrimSource",
	ast.AttrSQLOrderByExpr:        "OrderByExpr",
	ast.AttrSQLOrderByDirection:   "OrderByDirection",
	ast.AttrSQLCTEName:            "CTEName",
	ast.AttrSQLCTEQuery:           "CTEQuery",
	ast.AttrSQLBinaryLeft:         "BinaryLeft",
	ast.AttrSQLBinaryRight:        "BinaryRight",
	ast.AttrSQLUnaryOperand:       "UnaryOperand",
	ast.AttrSQLFunctionName:       "FunctionName",
	ast.AttrSQLFunctionArgs:       "FunctionArgs",
	ast.AttrSQLCaseOperand:        "CaseOperand",
	ast.AttrSQLCaseWhenCondition:  "CaseWhenCondition",
	ast.AttrSQLCaseWhenResult:     "CaseWhenResult",
	ast.AttrSQLCaseElse:           "CaseElse",
	ast.AttrSQLParenInner:         "ParenInner",
}
