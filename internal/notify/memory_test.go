package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainRemovesDelivered(t *testing.T) {
	n := NewMemoryNotifier()
	n.Success("s1", "Product added to cart")
	n.Error("s1", "Could not update quantity")

	drained := n.Drain("s1")
	require.Len(t, drained, 2)
	assert.Equal(t, LevelSuccess, drained[0].Level)
	assert.Equal(t, LevelError, drained[1].Level)

	assert.Empty(t, n.Drain("s1"))
}

func TestSessionsAreIsolated(t *testing.T) {
	n := NewMemoryNotifier()
	n.Success("s1", "for s1")
	n.Success("s2", "for s2")

	drained := n.Drain("s1")
	require.Len(t, drained, 1)
	assert.Equal(t, "for s1", drained[0].Message)

	require.Len(t, n.Drain("s2"), 1)
}

func TestQueueDropsOldestPastLimit(t *testing.T) {
	n := NewMemoryNotifier()
	for i := 0; i < maxPerSession+5; i++ {
		n.Success("s1", fmt.Sprintf("message %d", i))
	}

	drained := n.Drain("s1")
	require.Len(t, drained, maxPerSession)
	assert.Equal(t, "message 5", drained[0].Message)
	assert.Equal(t, fmt.Sprintf("message %d", maxPerSession+4), drained[len(drained)-1].Message)
}
