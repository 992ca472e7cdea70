package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/parser"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

func parseText(t *testing.T, text string) *parser.ParsedScript {
	t.Helper()
	scanned, err := scanner.ScanRope(rope.NewRope(text))
	require.NoError(t, err)
	return parser.Parse(scanned)
}

// qualifiedNameParts returns the attribute-key -> text mapping of the
// first OBJECT_SQL_QUALIFIED_NAME node in the buffer.
func qualifiedNameParts(t *testing.T, parsed *parser.ParsedScript) map[ast.AttributeKey]string {
	t.Helper()
	for i, n := range parsed.Nodes {
		if n.Type != ast.NodeTypeObjectSQLQualifiedName {
			continue
		}
		out := make(map[ast.AttributeKey]string)
		for _, c := range parsed.Nodes {
			if c.Parent != uint32(i) {
				continue
			}
			text := parsed.Scanned.Text[c.Location.Offset : c.Location.Offset+c.Location.Length]
			out[c.Attribute] = text
		}
		return out
	}
	t.Fatal("no qualified name node found")
	return nil
}

func TestQualifiedNameOnePart(t *testing.T) {
	parts := qualifiedNameParts(t, parseText(t, "select 1 from t"))
	require.Equal(t, "t", parts[ast.AttrRelation])
	require.NotContains(t, parts, ast.AttrSchema)
	require.NotContains(t, parts, ast.AttrCatalog)
}

func TestQualifiedNameTwoParts(t *testing.T) {
	parts := qualifiedNameParts(t, parseText(t, "select 1 from s.t"))
	require.Equal(t, "s", parts[ast.AttrSchema])
	require.Equal(t, "t", parts[ast.AttrRelation])
	require.NotContains(t, parts, ast.AttrCatalog)
}

func TestQualifiedNameThreeParts(t *testing.T) {
	parts := qualifiedNameParts(t, parseText(t, "select 1 from c.s.t"))
	require.Equal(t, "c", parts[ast.AttrCatalog])
	require.Equal(t, "s", parts[ast.AttrSchema])
	require.Equal(t, "t", parts[ast.AttrRelation])
}

func TestQualifiedNameFourPartsIsError(t *testing.T) {
	parsed := parseText(t, "select 1 from a.b.c.d")
	require.NotEmpty(t, parsed.Errors)
}

func TestStatementsInSourceOrderWithPostOrderRoots(t *testing.T) {
	parsed := parseText(t, "select 1; select 2; create table t(x int)")
	require.Len(t, parsed.Statements, 3)
	require.Equal(t, parser.StatementSelect, parsed.Statements[0].Kind)
	require.Equal(t, parser.StatementSelect, parsed.Statements[1].Kind)
	require.Equal(t, parser.StatementCreateTable, parsed.Statements[2].Kind)
	for i := 1; i < len(parsed.Statements); i++ {
		require.Greater(t, parsed.Statements[i].Root, parsed.Statements[i-1].Root)
	}
}

func TestParentIndexAlwaysGreater(t *testing.T) {
	parsed := parseText(t, "select a, b from t1 join t2 on t1.x = t2.y where a > 1 order by b desc")
	require.Empty(t, parsed.Errors)
	for i, n := range parsed.Nodes {
		if n.Parent == ast.NullIndex {
			continue
		}
		require.Greater(t, n.Parent, uint32(i))
	}
}

func TestParseErrorRecoversAtNextStatement(t *testing.T) {
	parsed := parseText(t, "frobnicate nonsense; select 1")
	require.NotEmpty(t, parsed.Errors)
	require.Len(t, parsed.Statements, 1)
	require.Equal(t, parser.StatementSelect, parsed.Statements[0].Kind)
}

func TestParseCaseExpression(t *testing.T) {
	parsed := parseText(t, "select case when a = 1 then 2 else 3 end from t")
	require.Empty(t, parsed.Errors)
	var foundCase, foundWhen bool
	for _, n := range parsed.Nodes {
		switch n.Type {
		case ast.NodeTypeObjectSQLCase:
			foundCase = true
		case ast.NodeTypeObjectSQLCaseWhen:
			foundWhen = true
		}
	}
	require.True(t, foundCase)
	require.True(t, foundWhen)
}

func TestParseWindowFunction(t *testing.T) {
	parsed := parseText(t, "select rank() over (partition by dept order by salary desc rows unbounded preceding) from emp")
	require.Empty(t, parsed.Errors)
	var foundWindow, foundFrame bool
	for _, n := range parsed.Nodes {
		switch n.Type {
		case ast.NodeTypeObjectSQLWindow:
			foundWindow = true
		case ast.NodeTypeObjectSQLWindowFrame:
			foundFrame = true
		}
	}
	require.True(t, foundWindow)
	require.True(t, foundFrame)
}

func TestParseSetOperation(t *testing.T) {
	parsed := parseText(t, "select a from t union all select b from u")
	require.Empty(t, parsed.Errors)
	require.Len(t, parsed.Statements, 1)
	root := parsed.Nodes[parsed.Statements[0].Root]
	require.Equal(t, ast.NodeTypeObjectSQLSelect, root.Type)
	require.Equal(t, ast.AttrSQLSelectSetOp, root.Attribute)
}

func scanFor(t *testing.T, text string) *scanner.ScannedScript {
	t.Helper()
	scanned, err := scanner.ScanRope(rope.NewRope(text))
	require.NoError(t, err)
	return scanned
}

func rawTokenIndex(t *testing.T, scanned *scanner.ScannedScript, offset int) int {
	t.Helper()
	for i, tok := range scanned.Tokens {
		if tok.Location.Offset == offset {
			return i
		}
	}
	t.Fatalf("no token starting at offset %d", offset)
	return -1
}

func symbolClasses(symbols []parser.ExpectedSymbol) []string {
	var out []string
	for _, s := range symbols {
		if s.Class != "" {
			out = append(out, s.Class)
		}
	}
	return out
}

func TestParseUntilAtFromItemExpectsTableName(t *testing.T) {
	text := "select a from t"
	scanned := scanFor(t, text)
	symbols := parser.ParseUntil(scanned, rawTokenIndex(t, scanned, len("select a from ")))
	require.Contains(t, symbolClasses(symbols), "table-name")
}

func TestParseUntilAtSelectTargetExpectsColumnName(t *testing.T) {
	text := "select a from t"
	scanned := scanFor(t, text)
	symbols := parser.ParseUntil(scanned, rawTokenIndex(t, scanned, len("select ")))
	require.Contains(t, symbolClasses(symbols), "column-name")
}

func TestParseUntilAtEndOfInputAfterFrom(t *testing.T) {
	scanned := scanFor(t, "select a from ")
	symbols := parser.ParseUntil(scanned, len(scanned.Tokens))
	require.Contains(t, symbolClasses(symbols), "table-name")
}

func TestParseUntilAtStartExpectsStatement(t *testing.T) {
	scanned := scanFor(t, "select 1")
	symbols := parser.ParseUntil(scanned, 0)
	var literals []string
	for _, s := range symbols {
		literals = append(literals, s.Literal)
	}
	require.Contains(t, literals, "select")
}
