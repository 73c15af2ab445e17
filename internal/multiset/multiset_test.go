package multiset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounted_InsertEraseCancel(t *testing.T) {
	m := New[int]()

	m.Insert(3)
	m.Insert(1)
	m.Insert(3)
	require.Equal(t, 2, m.Len())
	assert.Equal(t, []int{1, 3}, m.Items())

	m.Erase(3)
	assert.True(t, m.Contains(3), "one insert of 3 is still outstanding")
	m.Erase(3)
	assert.False(t, m.Contains(3))
	assert.Equal(t, []int{1}, m.Items())

	m.Erase(1)
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.Len())
}

func TestCounted_NegativeCountsStayHidden(t *testing.T) {
	m := New(5)

	m.Erase(7)
	assert.Equal(t, -1, m.Count(7))
	assert.False(t, m.Contains(7))
	assert.Equal(t, []int{5}, m.Items())

	m.Insert(7)
	assert.Equal(t, 0, m.Count(7))
	assert.False(t, m.Contains(7), "insert after erase only cancels")

	m.Insert(7)
	assert.True(t, m.Contains(7))
}

func TestCounted_OverlappingChainsRevertIndependently(t *testing.T) {
	m := New[uint16]()
	chainA := []uint16{4, 2, 1}
	chainB := []uint16{6, 2, 1}

	for _, v := range chainA {
		m.Insert(v)
	}
	for _, v := range chainB {
		m.Insert(v)
	}
	require.Equal(t, []uint16{1, 2, 4, 6}, m.Items())

	for _, v := range chainA {
		m.Erase(v)
	}
	assert.Equal(t, []uint16{1, 2, 6}, m.Items())

	for _, v := range chainB {
		m.Erase(v)
	}
	assert.True(t, m.Empty())
}

func TestCounted_CloneIsIndependent(t *testing.T) {
	m := New(1, 2)
	c := m.Clone()

	m.Erase(1)
	assert.Equal(t, []int{1, 2}, c.Items())
	assert.False(t, m.Equal(c))

	m.Insert(1)
	assert.True(t, m.Equal(c))
}

func TestCounted_Compare(t *testing.T) {
	assert.Equal(t, -1, New(1, 2).Compare(New(1, 3)))
	assert.Equal(t, 0, New(2, 1).Compare(New(1, 2)))
	assert.Equal(t, 1, New(2).Compare(New(1, 5)))
}
