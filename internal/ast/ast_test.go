package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributeIndexLoadRelease(t *testing.T) {
	idx := NewAttributeIndex()
	children := []uint32{1, 2, 3}
	attrOf := func(c uint32) AttributeKey {
		switch c {
		case 1:
			return AttrSQLSelectFrom
		case 2:
			return AttrSQLSelectWhere
		default:
			return AttrNone
		}
	}
	g := idx.Load(children, attrOf)
	require.Equal(t, uint32(1), idx.Get(AttrSQLSelectFrom))
	require.Equal(t, uint32(2), idx.Get(AttrSQLSelectWhere))
	require.Equal(t, NullIndex, idx.Get(AttrSQLSelectGroupBy))

	g.Release()
	require.Equal(t, NullIndex, idx.Get(AttrSQLSelectFrom))
	require.Equal(t, NullIndex, idx.Get(AttrSQLSelectWhere))

	// a second Load after Release must succeed
	g2 := idx.Load(nil, attrOf)
	defer g2.Release()
}

func TestAttributeIndexRejectsOverlappingGuards(t *testing.T) {
	idx := NewAttributeIndex()
	g := idx.Load([]uint32{1}, func(uint32) AttributeKey { return AttrSQLSelectFrom })
	defer g.Release()

	require.Panics(t, func() {
		idx.Load([]uint32{2}, func(uint32) AttributeKey { return AttrSQLSelectWhere })
	})
}
