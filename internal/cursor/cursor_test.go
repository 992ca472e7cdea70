package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
	"github.com/sqlstudio/sqlcore/internal/ast"
	"github.com/sqlstudio/sqlcore/internal/cursor"
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

func TestMoveFindsStatementAndToken(t *testing.T) {
	text := "select a from t where a > 1;"
	parsed := parseText(t, text)
	require.NotEmpty(t, parsed.Statements)

	offset := len("select a from t where ")
	pos := cursor.Move(parsed, offset)
	require.Equal(t, 0, pos.StatementID)
	require.GreaterOrEqual(t, pos.TokenID, 0)
	require.True(t, pos.HasNode)
}

func tokenText(parsed *parser.ParsedScript, tokenID int) string {
	loc := parsed.Scanned.Tokens[tokenID].Location
	return parsed.Scanned.Text[loc.Offset : loc.Offset+loc.Length]
}

func TestMoveJoinQueryPositions(t *testing.T) {
	text := "SELECT * FROM A a, B b WHERE a.x = b.y"
	parsed := parseText(t, text)
	require.Empty(t, parsed.Errors)

	pos := cursor.Move(parsed, 0)
	require.Equal(t, "SELECT", tokenText(parsed, pos.TokenID))
	require.Equal(t, 0, pos.StatementID)
	require.True(t, pos.HasNode)
	require.Equal(t, ast.NodeTypeObjectSQLSelect, parsed.Nodes[pos.NodeID].Type)

	pos = cursor.Move(parsed, 9)
	require.Equal(t, "FROM", tokenText(parsed, pos.TokenID))
	require.True(t, pos.HasNode)
	require.Equal(t, ast.AttrSQLSelectFrom, parsed.Nodes[pos.NodeID].Attribute)

	pos = cursor.Move(parsed, 16)
	require.Equal(t, "a", tokenText(parsed, pos.TokenID))
	require.True(t, pos.HasNode)
	require.Equal(t, ast.NodeTypeName, parsed.Nodes[pos.NodeID].Type)
	require.Equal(t, ast.AttrSQLTableRefAlias, parsed.Nodes[pos.NodeID].Attribute)
}

func TestMoveSelectLiteral(t *testing.T) {
	parsed := parseText(t, "select 1")

	pos := cursor.Move(parsed, 1)
	require.Equal(t, 0, pos.StatementID)
	require.Equal(t, ast.NodeTypeObjectSQLSelect, parsed.Nodes[pos.NodeID].Type)
	require.Equal(t, rope.Location{Offset: 0, Length: 8}, parsed.Nodes[pos.NodeID].Location)

	pos = cursor.Move(parsed, 7)
	require.Equal(t, ast.NodeTypeLiteralInteger, parsed.Nodes[pos.NodeID].Type)
	require.Equal(t, rope.Location{Offset: 7, Length: 1}, parsed.Nodes[pos.NodeID].Location)
}

func TestMoveOutsideAnyStatement(t *testing.T) {
	text := "select a from t;"
	parsed := parseText(t, text)
	pos := cursor.Move(parsed, len(text)+5)
	require.Equal(t, -1, pos.StatementID)
}

func TestTopKHeapBoundedAndOrdered(t *testing.T) {
	h := cursor.NewTopKHeap[string](2)
	h.Insert("low", 1)
	h.Insert("high", 10)
	h.Insert("mid", 5)

	require.Equal(t, 2, h.Len())
	require.Equal(t, []string{"high", "mid"}, h.Sorted())
}

func TestTopKHeapDropsLowestBeyondCapacity(t *testing.T) {
	h := cursor.NewTopKHeap[int](4)
	for i, score := range []float64{50, 40, 30, 20, 10} {
		h.Insert(i, score)
	}
	require.Equal(t, []int{0, 1, 2, 3}, h.Sorted())
}

func TestTopKHeapTieBreaksByInsertionOrder(t *testing.T) {
	h := cursor.NewTopKHeap[string](2)
	h.Insert("first", 5)
	h.Insert("second", 5)

	require.Equal(t, []string{"first", "second"}, h.Sorted())
}

func TestEngineCompleteRanksCatalogNames(t *testing.T) {
	text := "select  from orders"
	parsed := parseText(t, text)

	script := &analyzer.AnalyzedScript{
		Tables: []analyzer.TableDeclaration{{
			Name:    analyzer.QualifiedName{Relation: "orders"},
			Columns: []analyzer.ColumnDeclaration{{Name: "order_id"}, {Name: "order_total"}},
		}},
	}

	offset := len("select ")
	pos := cursor.Move(parsed, offset)

	eng := cursor.NewEngine()
	completions := eng.Complete(parsed, script, pos, "order", 5)
	require.NotEmpty(t, completions)
	found := false
	for _, c := range completions {
		if c.Text == "order_id" || c.Text == "order_total" {
			found = true
		}
	}
	require.True(t, found)
}

func TestEngineTrieSizeDocumented(t *testing.T) {
	eng := cursor.NewEngine()
	// The size is a function of the reserved-word table; assert it is
	// stable and non-trivial rather than pinning a literal count.
	require.Greater(t, eng.TrieSize(), 0)
	require.Equal(t, eng.TrieSize(), cursor.NewEngine().TrieSize())
}
