package sqlcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sqlcore "github.com/sqlstudio/sqlcore"
	"github.com/sqlstudio/sqlcore/ffi"
	"github.com/sqlstudio/sqlcore/internal/catalog"
)

func TestScriptLifecycle(t *testing.T) {
	cat := catalog.New()
	s, status := sqlcore.NewScript(1, cat, "select a from t")
	require.Equal(t, ffi.OK, status)

	require.Equal(t, ffi.OK, s.Scan().Status)
	require.Equal(t, ffi.OK, s.Parse().Status)
	require.Equal(t, ffi.OK, s.Analyze(sqlcore.AnalyzeOptions{}).Status)
	require.Equal(t, ffi.OK, s.Reindex().Status)

	_, ok := cat.Get(1)
	require.True(t, ok)

	require.Equal(t, ffi.OK, s.MoveCursor(7).Status)
	completions := s.CompleteAtCursor("a", 5)
	require.NotNil(t, completions)
}

func TestScriptResolvesAcrossSharedCatalog(t *testing.T) {
	cat := catalog.New()

	schema, status := sqlcore.NewScript(10, cat, "create table main.db.t(x int)")
	require.Equal(t, ffi.OK, status)
	require.Equal(t, ffi.OK, schema.Scan().Status)
	require.Equal(t, ffi.OK, schema.Parse().Status)
	require.Equal(t, ffi.OK, schema.Analyze(sqlcore.AnalyzeOptions{Database: "main", Schema: "db"}).Status)
	require.Equal(t, ffi.OK, schema.Reindex().Status)

	query, status := sqlcore.NewScript(11, cat, "select x from t")
	require.Equal(t, ffi.OK, status)
	require.Equal(t, ffi.OK, query.Scan().Status)
	require.Equal(t, ffi.OK, query.Parse().Status)
	// no explicit external context id: the shared catalog participates in
	// resolution by itself
	require.Equal(t, ffi.OK, query.Analyze(sqlcore.AnalyzeOptions{}).Status)

	result := query.Analyzed()
	require.Len(t, result.TableRefs, 1)
	require.NotNil(t, result.TableRefs[0].Target)
	require.Equal(t, uint32(10), result.TableRefs[0].Target.External.ContextID)
	require.Len(t, result.ColumnRefs, 1)
	require.NotNil(t, result.ColumnRefs[0].Target)
}

func TestScriptAnalyzeUnknownExternalContext(t *testing.T) {
	cat := catalog.New()
	s, status := sqlcore.NewScript(12, cat, "select 1")
	require.Equal(t, ffi.OK, status)
	require.Equal(t, ffi.OK, s.Scan().Status)
	require.Equal(t, ffi.OK, s.Parse().Status)

	missing := uint32(999)
	result := s.Analyze(sqlcore.AnalyzeOptions{External: &missing})
	require.Equal(t, ffi.CatalogDescriptorPoolUnknown, result.Status)
}

func TestScriptAnalyzeBeforeParseFails(t *testing.T) {
	s, status := sqlcore.NewScript(2, nil, "select 1")
	require.Equal(t, ffi.OK, status)
	result := s.Analyze(sqlcore.AnalyzeOptions{})
	require.Equal(t, ffi.AnalyzerInputNotParsed, result.Status)
}

func TestScriptEditInvalidatesDownstreamStages(t *testing.T) {
	s, _ := sqlcore.NewScript(3, nil, "select a from t")
	require.Equal(t, ffi.OK, s.Scan().Status)
	require.Equal(t, ffi.OK, s.Parse().Status)
	require.Equal(t, ffi.OK, s.Analyze(sqlcore.AnalyzeOptions{}).Status)
	require.NotNil(t, s.Analyzed())

	s.InsertTextAt(7, "b, ")
	require.Nil(t, s.Analyzed())
	require.Nil(t, s.Parsed())
}

func TestScriptDuplicateContextIDRejected(t *testing.T) {
	cat := catalog.New()
	first, status := sqlcore.NewScript(5, cat, "select 1")
	require.Equal(t, ffi.OK, status)
	require.Equal(t, ffi.OK, first.Scan().Status)
	require.Equal(t, ffi.OK, first.Parse().Status)
	require.Equal(t, ffi.OK, first.Analyze(sqlcore.AnalyzeOptions{}).Status)
	require.Equal(t, ffi.OK, first.Reindex().Status)

	second, status := sqlcore.NewScript(5, cat, "select 1")
	require.Equal(t, ffi.ContextIDDuplicate, status)
	require.Nil(t, second)
}

func TestScriptContextIDZeroRejected(t *testing.T) {
	_, status := sqlcore.NewScript(0, nil, "select 1")
	require.Equal(t, ffi.ContextIDZero, status)
}
