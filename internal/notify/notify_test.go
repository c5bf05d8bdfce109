package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsExpire(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := NewCenter(5 * time.Second).WithClock(func() time.Time { return now })

	n := c.Notify("Task created", Success)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, now.Add(5*time.Second), n.ExpiresAt)
	assert.Len(t, c.Pending(), 1)

	now = now.Add(4 * time.Second)
	assert.Len(t, c.Pending(), 1, "still alive just before the TTL")

	now = now.Add(2 * time.Second)
	assert.Empty(t, c.Pending(), "self-removes once the TTL elapses")
}

func TestDismissBeforeExpiry(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := NewCenter(0).WithClock(func() time.Time { return now }) // 0 falls back to default

	n := c.Notify("Failed to delete task", Error)
	require.Len(t, c.Pending(), 1)

	assert.True(t, c.Dismiss(n.ID))
	assert.Empty(t, c.Pending())
	assert.False(t, c.Dismiss(n.ID), "second dismiss is a no-op")
}

func TestArrivalOrderAndDistinctIDs(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := NewCenter(5 * time.Second).WithClock(func() time.Time { return now })

	a := c.Notify("first", Info)
	b := c.Notify("second", Warning)
	d := c.Notify("third", Success)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, b.ID, d.ID)

	pending := c.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, "first", pending[0].Message)
	assert.Equal(t, "second", pending[1].Message)
	assert.Equal(t, "third", pending[2].Message)

	c.Dismiss(b.ID)
	pending = c.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "first", pending[0].Message)
	assert.Equal(t, "third", pending[1].Message)
}
