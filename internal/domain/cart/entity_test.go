package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCart_AddItemAccumulates(t *testing.T) {
	now := time.Now().UTC()
	c := &SessionCart{SessionID: "s1"}

	c.AddItem(7, 2, now)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)

	// Second add for the same book accumulates instead of creating a new line.
	c.AddItem(7, 3, now)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)

	// A different book gets its own line with the given quantity.
	c.AddItem(9, 4, now)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 4, c.Items[1].Quantity)
}

func TestSessionCart_RemoveItem(t *testing.T) {
	now := time.Now().UTC()
	c := &SessionCart{SessionID: "s1"}
	c.AddItem(7, 1, now)
	c.AddItem(9, 1, now)

	assert.True(t, c.RemoveItem(7, now))
	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(9), c.Items[0].BookID)

	// Removing an absent line is reported, not fatal.
	assert.False(t, c.RemoveItem(7, now))
}
