package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeMapSetGetDel(t *testing.T) {
	m := NewSafeMap()

	m.Set("a", 1)
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	m.Del("a")
	_, ok = m.Get("a")
	assert.False(t, ok)
}

func TestSafeMapSizeAndRange(t *testing.T) {
	m := NewSafeMap()
	m.Set("a", 1)
	m.Set("b", 2)

	assert.Equal(t, 2, m.Size())

	seen := map[interface{}]interface{}{}
	err := m.Range(func(k, v interface{}) error {
		seen[k] = v
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, map[interface{}]interface{}{"a": 1, "b": 2}, seen)
}
