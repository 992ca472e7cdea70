package pass_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlstudio/sqlcore/internal/pass"
)

type recorder struct {
	prepared bool
	finished bool
	morsels  [][]int
	begins   []int
}

func (r *recorder) Prepare() { r.prepared = true }
func (r *recorder) Finish()  { r.finished = true }
func (r *recorder) Visit(morsel []int, begin int) {
	cp := make([]int, len(morsel))
	copy(cp, morsel)
	r.morsels = append(r.morsels, cp)
	r.begins = append(r.begins, begin)
}

func TestRunMorselSizing(t *testing.T) {
	r := &recorder{}
	pass.Run(pass.MorselSize*2+100, r)

	require.True(t, r.prepared)
	require.True(t, r.finished)
	require.Len(t, r.morsels, 3)
	require.Len(t, r.morsels[0], pass.MorselSize)
	require.Len(t, r.morsels[1], pass.MorselSize)
	require.Len(t, r.morsels[2], 100)
	require.Equal(t, []int{0, pass.MorselSize, pass.MorselSize * 2}, r.begins)

	// indexes are consecutive across morsels: a left-to-right scan of the
	// post-order buffer
	last := -1
	for _, m := range r.morsels {
		for _, idx := range m {
			require.Equal(t, last+1, idx)
			last = idx
		}
	}
}

func TestRunInterleavesPassesPerMorsel(t *testing.T) {
	a := &recorder{}
	b := &recorder{}
	pass.Run(pass.MorselSize+1, a, b)

	require.Equal(t, a.morsels, b.morsels)
	require.Len(t, a.morsels, 2)
}

func TestRunEmpty(t *testing.T) {
	r := &recorder{}
	pass.Run(0, r)
	require.True(t, r.prepared)
	require.True(t, r.finished)
	require.Empty(t, r.morsels)
}
