package setbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_AddDeduplicatesLastWriteWins(t *testing.T) {
	b := NewBuffer[string, int]()
	b.Add("a", 1)
	b.Add("b", 2)
	b.Add("a", 3)

	assert.Equal(t, 2, b.Len())
	v, ok := b.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestBuffer_ValuesPreservesFirstSeenOrder(t *testing.T) {
	b := NewBuffer[string, int]()
	b.Add("z", 1)
	b.Add("a", 2)
	b.Add("z", 3)
	b.Add("m", 4)

	assert.Equal(t, []int{3, 2, 4}, b.Values())
}

func TestBuffer_GetMissingKey(t *testing.T) {
	b := NewBuffer[string, int]()
	_, ok := b.Get("missing")
	assert.False(t, ok)
}

func TestBuffer_Empty(t *testing.T) {
	b := NewBuffer[string, int]()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Values())
}
