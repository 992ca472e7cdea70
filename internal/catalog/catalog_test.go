package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
	"github.com/sqlstudio/sqlcore/internal/catalog"
)

func script(contextID uint32, relation string) *analyzer.AnalyzedScript {
	return &analyzer.AnalyzedScript{
		ContextID: contextID,
		Tables: []analyzer.TableDeclaration{{
			Name: analyzer.QualifiedName{Relation: relation},
			ID:   analyzer.ContextObjectID{ContextID: contextID, Index: 0},
		}},
	}
}

func TestCatalogAddDropResolve(t *testing.T) {
	c := catalog.New()
	c.AddScript(script(1, "users"))

	id, ok := c.ResolveQualifiedTable("", "", "users")
	require.True(t, ok)
	require.Equal(t, uint32(1), id.ContextID)

	c.DropScript(1)
	_, ok = c.ResolveQualifiedTable("", "", "users")
	require.False(t, ok)
}

func TestCatalogReplaceIsAtomic(t *testing.T) {
	c := catalog.New()
	c.AddScript(script(1, "users"))
	c.AddScript(script(1, "accounts"))

	require.Len(t, c.Scripts(), 1)
	_, ok := c.ResolveQualifiedTable("", "", "users")
	require.False(t, ok)
	_, ok = c.ResolveQualifiedTable("", "", "accounts")
	require.True(t, ok)
}
