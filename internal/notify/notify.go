package notify

import (
	"time"

	"github.com/google/uuid"
)

// Severity tags a notification for rendering.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// DefaultTTL is how long a notification lives unless dismissed first.
const DefaultTTL = 5 * time.Second

// Notification is one ephemeral user-facing message.
type Notification struct {
	ID        string
	Message   string
	Severity  Severity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Center holds pending notifications in arrival order. Entries self-expire
// after the TTL; no persistence across runs.
type Center struct {
	pending []Notification
	ttl     time.Duration
	now     func() time.Time
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// WithClock swaps the time source, for tests.
func (c *Center) WithClock(now func() time.Time) *Center {
	c.now = now
	return c
}

// Notify appends a message under a freshly generated id and returns it.
func (c *Center) Notify(message string, severity Severity) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: c.now(),
	}
	n.ExpiresAt = n.CreatedAt.Add(c.ttl)
	c.pending = append(c.pending, n)
	return n
}

// Dismiss removes a notification by id before its expiry.
func (c *Center) Dismiss(id string) bool {
	for i, n := range c.pending {
		if n.ID == id {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending prunes expired entries and returns the live ones, oldest first.
func (c *Center) Pending() []Notification {
	now := c.now()
	live := c.pending[:0]
	for _, n := range c.pending {
		if n.ExpiresAt.After(now) {
			live = append(live, n)
		}
	}
	c.pending = live
	return c.pending
}

func (c *Center) Len() int { return len(c.Pending()) }
