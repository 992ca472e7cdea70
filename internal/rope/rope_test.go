package rope

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestRopeRoundTrip(t *testing.T) {
	text := strings.Repeat("select 1 from t; ", 500) + "-- end"
	r := NewRope(text)
	require.Equal(t, len(text), r.Size())
	require.Equal(t, text, r.String())
	require.Equal(t, []byte(text[10:40]), r.Read(10, 30))
}

func TestRopeInsertErase(t *testing.T) {
	r := NewRope("select * from t")
	r.InsertAt(7, "distinct ")
	require.Equal(t, "select distinct * from t", r.String())

	r.EraseAt(7, 9)
	require.Equal(t, "select * from t", r.String())
}

func TestRopeSnapsToCodepointBoundary(t *testing.T) {
	// 'é' is 2 bytes (0xC3 0xA9) starting at offset 1; offset 2 sits inside it.
	r := NewRope("sélect")
	r.InsertAt(2, "X") // byte 2 is inside the 2-byte 'é' starting at byte 1
	got := r.String()
	require.True(t, strings.HasPrefix(got, "s"))
	// the insertion must not have produced invalid UTF-8
	require.True(t, utf8.ValidString(got))
}

func TestChunkBufferAppendStablePointers(t *testing.T) {
	var b ChunkBuffer[int]
	var ptrs []*int
	for i := 0; i < 5000; i++ {
		idx := b.Append(i)
		require.Equal(t, i, idx)
		ptrs = append(ptrs, b.Ptr(idx))
	}
	for i, p := range ptrs {
		require.Equal(t, i, *p)
	}
	require.Equal(t, 5000, b.Len())
	flat := b.Flatten()
	require.Len(t, flat, 5000)
	for i, v := range flat {
		require.Equal(t, i, v)
	}
}

func TestChunkBufferForEachIn(t *testing.T) {
	var b ChunkBuffer[string]
	for i := 0; i < 10; i++ {
		b.Append(string(rune('a' + i)))
	}
	var seen []string
	b.ForEachIn(3, 4, func(i int, v string) {
		seen = append(seen, v)
	})
	require.Equal(t, []string{"d", "e", "f", "g"}, seen)
}

func TestStringPoolDedup(t *testing.T) {
	p := NewStringPool()
	a := p.Intern("foo")
	b := p.Intern("bar")
	c := p.Intern("foo")
	require.Equal(t, a, c)
	require.NotEqual(t, a, b)
	require.Equal(t, "foo", p.Get(a))
	require.Equal(t, "bar", p.Get(b))
}
