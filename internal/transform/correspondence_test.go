package transform

import (
	"testing"

	"github.com/rm-hull/affine-warp/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairs(t *testing.T) {
	c, err := ParsePairs("0,0:1,2; 10,0:11,2;0,10:1,12;")
	require.NoError(t, err)
	require.Len(t, c, 3)
	assert.Equal(t, geometry.Pt(10, 0), c[1].Src)
	assert.Equal(t, geometry.Pt(1, 12), c[2].Dst)
	assert.Equal(t, "0,0:1,2;10,0:11,2;0,10:1,12", c.String())

	for _, bad := range []string{"0,0", "0,0:1", "a,0:1,1", "0,0:1,b"} {
		_, err := ParsePairs(bad)
		assert.Error(t, err, bad)
	}
}

func TestCollector(t *testing.T) {
	t.Run("click mode", func(t *testing.T) {
		c := NewCollector()
		c.AddSource(geometry.Pt(0, 0))
		c.AddSource(geometry.Pt(1, 0))
		c.AddDestination(geometry.Pt(5, 5))
		assert.False(t, c.Ready())

		_, err := c.Freeze()
		assert.ErrorIs(t, err, ErrInsufficientCorrespondence)

		c.AddSource(geometry.Pt(0, 1))
		c.AddDestination(geometry.Pt(6, 5))
		c.AddDestination(geometry.Pt(5, 6))
		c.AddDestination(geometry.Pt(9, 9))
		assert.False(t, c.Ready())
		_, err = c.Freeze()
		assert.ErrorIs(t, err, ErrUnbalanced)

		c.AddSource(geometry.Pt(1, 1))
		require.True(t, c.Ready())
		set, err := c.Freeze()
		require.NoError(t, err)
		assert.Len(t, set, 4)
		assert.Equal(t, Pair{Src: geometry.Pt(1, 0), Dst: geometry.Pt(6, 5)}, set[1])

		c.Reset()
		assert.False(t, c.Ready())
		assert.Len(t, set, 4, "frozen set is unaffected by reset")
	})

	t.Run("triangle mode", func(t *testing.T) {
		c := NewCollector()
		for _, p := range []geometry.Point{
			geometry.Pt(0, 0), geometry.Pt(1, 0), geometry.Pt(0, 1),
			geometry.Pt(2, 2), geometry.Pt(3, 2), geometry.Pt(2, 3),
		} {
			require.NoError(t, c.Add(p))
		}
		assert.ErrorIs(t, c.Add(geometry.Pt(9, 9)), ErrCollectorFull)

		set, err := c.Freeze()
		require.NoError(t, err)
		a, err := Estimate(set)
		require.NoError(t, err)
		assert.Equal(t, geometry.Pt(2, 2), a.Apply(geometry.Pt(0, 0)))
	})
}
