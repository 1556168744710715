package generic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type scratch struct {
	buf []int
}

func TestPool(t *testing.T) {
	t.Run("generates on empty", func(t *testing.T) {
		p := NewPool(func() *scratch { return &scratch{buf: make([]int, 0, 4)} })
		s := p.Get()
		require.NotNil(t, s)
		require.Equal(t, 4, cap(s.buf))
	})

	t.Run("reset runs on put", func(t *testing.T) {
		var resets int
		p := NewResetPool(
			func() *scratch { return &scratch{} },
			func(s *scratch) {
				resets++
				s.buf = s.buf[:0]
			},
		)
		s := p.Get()
		s.buf = append(s.buf, 1, 2, 3)
		p.Put(s)
		require.Equal(t, 1, resets)
		require.Empty(t, s.buf)
	})
}
