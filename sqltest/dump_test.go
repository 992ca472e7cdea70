package sqltest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
	"github.com/sqlstudio/sqlcore/internal/parser"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
	"github.com/sqlstudio/sqlcore/sqltest"
)

func TestDumpNodes(t *testing.T) {
	scanned, err := scanner.ScanRope(rope.NewRope("select a from t"))
	require.NoError(t, err)
	parsed := parser.Parse(scanned)

	out := sqltest.DumpNodes(parsed.Nodes)
	require.Contains(t, out, "Select")
	require.True(t, strings.Count(out, "\n") >= len(parsed.Nodes))
}

func TestDumpAnalyzedScript(t *testing.T) {
	scanned, err := scanner.ScanRope(rope.NewRope("select a from t"))
	require.NoError(t, err)
	parsed := parser.Parse(scanned)

	b := analyzer.New(analyzer.Options{ContextID: 1})
	result, err := b.Analyze(parsed)
	require.NoError(t, err)

	out := sqltest.DumpAnalyzedScript(result)
	require.Contains(t, out, "table refs:")
	require.Contains(t, out, "column refs:")
}
