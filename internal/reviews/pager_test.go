package reviews

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPager(t *testing.T) {
	t.Run("starts at two", func(t *testing.T) {
		p := NewPager(10)
		assert.Equal(t, 2, p.Visible())
	})

	t.Run("each advance adds exactly two", func(t *testing.T) {
		p := NewPager(10)
		require.True(t, p.Advance())
		assert.Equal(t, 4, p.Visible())
		require.True(t, p.Advance())
		assert.Equal(t, 6, p.Visible())
	})

	t.Run("visible never exceeds the retained count", func(t *testing.T) {
		p := NewPager(3)
		require.True(t, p.Advance())
		assert.Equal(t, 3, p.Visible())
		assert.False(t, p.Advance())
		assert.Equal(t, 3, p.Visible())
	})

	t.Run("short lists are already fully visible", func(t *testing.T) {
		p := NewPager(1)
		assert.Equal(t, 1, p.Visible())
		assert.False(t, p.Advance())

		empty := NewPager(0)
		assert.Zero(t, empty.Visible())
		assert.False(t, empty.Advance())
	})

	t.Run("window slices the aggregated list", func(t *testing.T) {
		list := []Review{
			{Author: "0xA"}, {Author: "0xB"}, {Author: "0xC"},
		}
		p := NewPager(len(list))
		assert.Len(t, p.Window(list), 2)
		p.Advance()
		assert.Len(t, p.Window(list), 3)
	})
}
