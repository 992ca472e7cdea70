package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
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

func TestAnalyzeJoinColumnResolution(t *testing.T) {
	parsed := parseText(t, "select * from A a, B b where a.x = b.y")

	b := analyzer.New(analyzer.Options{ContextID: 1})
	result, err := b.Analyze(parsed)
	require.NoError(t, err)
	require.Len(t, result.TableRefs, 2)
	require.Equal(t, "a", result.TableRefs[0].Alias)
	require.Equal(t, "b", result.TableRefs[1].Alias)

	require.Len(t, result.ColumnRefs, 2)
	for _, col := range result.ColumnRefs {
		require.NotNil(t, col.Target, "column %q should resolve via alias", col.ColumnName)
	}
	require.Equal(t, 0, result.ColumnRefs[0].Target.TableRef)
	require.Equal(t, 1, result.ColumnRefs[1].Target.TableRef)
}

func TestAnalyzeExternalTableRegistration(t *testing.T) {
	ext := parseText(t, "create table main.db.t(x int)")
	extBuilder := analyzer.New(analyzer.Options{ContextID: 2})
	extResult, err := extBuilder.Analyze(ext)
	require.NoError(t, err)
	require.Len(t, extResult.Tables, 1)

	mainParsed := parseText(t, "select x from t")

	t.Run("without registration", func(t *testing.T) {
		b := analyzer.New(analyzer.Options{ContextID: 1})
		result, err := b.Analyze(mainParsed)
		require.NoError(t, err)
		require.Len(t, result.ColumnRefs, 1)
		require.Nil(t, result.ColumnRefs[0].Target)
	})

	t.Run("with registration", func(t *testing.T) {
		mainParsed := parseText(t, "select x from t")
		b := analyzer.New(analyzer.Options{ContextID: 1})
		b.RegisterExternalTables(extResult)
		result, err := b.Analyze(mainParsed)
		require.NoError(t, err)
		require.Len(t, result.TableRefs, 1)
		require.NotNil(t, result.TableRefs[0].Target)
		require.False(t, result.TableRefs[0].Target.Local)
		require.Equal(t, uint32(2), result.TableRefs[0].Target.External.ContextID)

		require.Len(t, result.ColumnRefs, 1)
		require.NotNil(t, result.ColumnRefs[0].Target)
	})
}

func TestAnalyzeCreateTableColumns(t *testing.T) {
	parsed := parseText(t, "create table orders(id int, total numeric)")
	b := analyzer.New(analyzer.Options{ContextID: 1})
	result, err := b.Analyze(parsed)
	require.NoError(t, err)
	require.Len(t, result.Tables, 1)
	require.Equal(t, "orders", result.Tables[0].Name.Relation)
	require.Len(t, result.Tables[0].Columns, 2)
	require.Equal(t, "id", result.Tables[0].Columns[0].Name)
	require.Equal(t, "total", result.Tables[0].Columns[1].Name)
}

func TestAnalyzeIdempotent(t *testing.T) {
	parsed := parseText(t, "create table t(x int); select x from t")
	r1, err := analyzer.New(analyzer.Options{ContextID: 1}).Analyze(parsed)
	require.NoError(t, err)
	r2, err := analyzer.New(analyzer.Options{ContextID: 1}).Analyze(parsed)
	require.NoError(t, err)
	require.Equal(t, r1.Tables, r2.Tables)
	require.Equal(t, r1.TableRefs, r2.TableRefs)
	require.Equal(t, r1.ColumnRefs, r2.ColumnRefs)
	require.Equal(t, r1.JoinEdges, r2.JoinEdges)
}

func TestAnalyzeDocstringMetadata(t *testing.T) {
	text := "--! owner: data-platform\n--! description: orders fact table\ncreate table orders(id int)"
	parsed := parseText(t, text)
	b := analyzer.New(analyzer.Options{ContextID: 1})
	result, err := b.Analyze(parsed)
	require.NoError(t, err)
	require.Len(t, result.Tables, 1)
	doc := result.Tables[0].Doc
	require.NotNil(t, doc)
	require.Equal(t, "data-platform", doc.Owner)
	require.Equal(t, "orders fact table", doc.Description)
}

func TestAnalyzeSubqueryAlias(t *testing.T) {
	parsed := parseText(t, "select v from (select 1 as v from t) sub")
	b := analyzer.New(analyzer.Options{ContextID: 1})
	result, err := b.Analyze(parsed)
	require.NoError(t, err)

	var derived *analyzer.TableReference
	for i := range result.TableRefs {
		if result.TableRefs[i].IsSubquery {
			derived = &result.TableRefs[i]
		}
	}
	require.NotNil(t, derived)
	require.Equal(t, "sub", derived.Alias)

	// the outer column binds to the lone derived table even though it has
	// no declared column list
	var outer *analyzer.ColumnReference
	for i := range result.ColumnRefs {
		if result.ColumnRefs[i].ColumnName == "v" {
			outer = &result.ColumnRefs[i]
		}
	}
	require.NotNil(t, outer)
	require.NotNil(t, outer.Target)
}

func TestAnalyzeAmbiguousColumn(t *testing.T) {
	parsed := parseText(t, "create table orders(x int)")

	parsed2 := parseText(t, "select x from orders o1, orders o2")
	b2 := analyzer.New(analyzer.Options{ContextID: 1})
	ext := analyzerResultFor(t, parsed)
	b2.RegisterExternalTables(&ext)
	result, err := b2.Analyze(parsed2)
	require.NoError(t, err)
	require.Len(t, result.ColumnRefs, 1)
	require.True(t, result.ColumnRefs[0].Ambiguous)
	require.NotEmpty(t, result.Errors)
}

func analyzerResultFor(t *testing.T, parsed *parser.ParsedScript) analyzer.AnalyzedScript {
	t.Helper()
	b := analyzer.New(analyzer.Options{ContextID: 9})
	result, err := b.Analyze(parsed)
	require.NoError(t, err)
	return *result
}
