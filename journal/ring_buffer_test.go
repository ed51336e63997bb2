package journal_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/flightsearch/journal"
)

func TestRingBuffer_FillsUpToCapacity(t *testing.T) {
	rb := journal.NewRingBuffer[string](3)
	assert.Equal(t, 0, rb.Len())
	assert.Equal(t, 3, rb.Cap())

	rb.Add("step 1")
	assert.Equal(t, 1, rb.Len())
	assert.Equal(t, []string{"step 1"}, rb.Last(1))

	rb.Add("step 2")
	rb.Add("step 3")
	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []string{"step 1", "step 2", "step 3"}, rb.Last(3))
}

func TestRingBuffer_ReplacesOldest(t *testing.T) {
	rb := journal.NewRingBuffer[string](3)
	for _, s := range []string{"a", "b", "c", "d"} {
		rb.Add(s)
	}
	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []string{"b", "c", "d"}, rb.Last(3))

	rb.Add("e")
	rb.Add("f")
	assert.Equal(t, []string{"d", "e", "f"}, rb.Last(5))
}

func TestRingBuffer_Last(t *testing.T) {
	rb := journal.NewRingBuffer[int](5)
	for i := 1; i <= 3; i++ {
		rb.Add(i)
	}
	assert.Equal(t, []int{2, 3}, rb.Last(2))
	assert.Equal(t, []int{1, 2, 3}, rb.Last(10))
	assert.NotNil(t, rb.Last(0))
	assert.Empty(t, rb.Last(0))
	assert.Empty(t, rb.Last(-1))

	for i := 4; i <= 6; i++ {
		rb.Add(i)
	}
	assert.Equal(t, []int{2, 3, 4, 5, 6}, rb.Last(5))
	assert.Equal(t, []int{4, 5, 6}, rb.Last(3))
}

func TestRingBuffer_LastMatching(t *testing.T) {
	rb := journal.NewRingBuffer[string](4)
	for _, s := range []string{"first: open", "second: open", "first: click", "second: fail", "first: done"} {
		rb.Add(s)
	}
	first := func(s string) bool { return strings.HasPrefix(s, "first:") }

	// "first: open" was replaced when the fifth entry came in
	assert.Equal(t, []string{"first: click", "first: done"}, rb.LastMatching(10, first))
	assert.Equal(t, []string{"first: done"}, rb.LastMatching(1, first))
	assert.Empty(t, rb.LastMatching(3, func(string) bool { return false }))
}

func TestRingBuffer_Reset(t *testing.T) {
	rb := journal.NewRingBuffer[string](2)
	rb.Add("a")
	rb.Add("b")
	rb.Add("c")

	rb.Reset()
	assert.Equal(t, 0, rb.Len())
	assert.Empty(t, rb.Last(2))

	rb.Add("d")
	assert.Equal(t, []string{"d"}, rb.Last(2))
}

func TestRingBuffer_InvalidCapacity(t *testing.T) {
	assert.Panics(t, func() { journal.NewRingBuffer[string](0) })
	assert.Panics(t, func() { journal.NewRingBuffer[string](-1) })
}

func TestRingBuffer_ManyWrites(t *testing.T) {
	rb := journal.NewRingBuffer[int](1000)
	for i := 0; i < 2500; i++ {
		rb.Add(i)
	}

	assert.Equal(t, 1000, rb.Len())
	records := rb.Last(10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 2490+i, records[i])
	}
}
