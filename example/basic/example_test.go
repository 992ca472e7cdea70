package example

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunResolvesColumnAgainstExternalTable(t *testing.T) {
	query, err := Run()
	require.NoError(t, err)

	result := query.Analyzed()
	require.NotNil(t, result)
	require.Len(t, result.ColumnRefs, 1)

	ref := result.ColumnRefs[0]
	require.Equal(t, "x", ref.ColumnName)
	require.NotNil(t, ref.Target)
}

func TestNewContextIDNeverZero(t *testing.T) {
	for i := 0; i < 100; i++ {
		require.NotZero(t, NewContextID())
	}
}
