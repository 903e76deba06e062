package concurrent

import (
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
)

func TestMap_Compute(t *testing.T) {
	m := NewMap[string, int]()

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Compute("k", func(v int, ok bool) (int, bool) {
				return v + 1, true
			})
		}()
	}

	wg.Wait()

	v, ok := m.Load("k")
	assert.True(t, ok)
	assert.Equal(t, 100, v)

	m.Compute("k", func(v int, ok bool) (int, bool) {
		return 0, false
	})

	_, ok = m.Load("k")
	assert.False(t, ok)
}

func TestMap_DeleteFunc(t *testing.T) {
	m := NewMap[int, int]()
	for i := range 10 {
		m.Store(i, i)
	}

	removed := m.DeleteFunc(func(k, v int) bool {
		return v%2 == 0
	})

	assert.Equal(t, 5, removed)
	assert.Equal(t, 5, m.Len())
	assert.True(t, m.CompareAndDelete(1, func(v int) bool { return v == 1 }))
	assert.False(t, m.CompareAndDelete(3, func(v int) bool { return v == 0 }))
}
