package model

import (
	"strings"
	"time"
)

// Priority of a task. The server rejects anything outside this set.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultCategory is assigned server-side when a create omits the category.
const DefaultCategory = "General"

// Task is the domain model for a todo entry as the server returns it.
// Timestamps are server-authoritative; the client never sets them.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Overdue reports whether the task has a due date in the past and is not done.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && !t.Completed && t.DueDate.Before(now)
}

// TaskCreate is the payload for POST /todos/.
type TaskCreate struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Category    string     `json:"category,omitempty"`
}

// Validate runs client-side checks so bad payloads never reach the network.
func (c TaskCreate) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	return validate.Struct(c)
}

// TaskUpdate is the payload for PUT /todos/{id}. Every field is optional;
// only non-nil fields are sent, so omitted fields keep their server values.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *Priority  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Category    *string    `json:"category,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (u TaskUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ErrEmptyTitle
	}
	return validate.Struct(u)
}

// IsZero reports whether the update carries no fields at all.
func (u TaskUpdate) IsZero() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil &&
		u.Priority == nil && u.Category == nil && u.DueDate == nil
}

// TaskSummary is the trimmed representation the dashboard endpoints return.
type TaskSummary struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Status   string     `json:"status"`
	Priority Priority   `json:"priority"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Category string     `json:"category"`
}

// Summary projects a full task into the dashboard shape.
func (t Task) Summary() TaskSummary {
	status := "pending"
	if t.Completed {
		status = "completed"
	}
	return TaskSummary{
		ID:       t.ID,
		Title:    t.Title,
		Status:   status,
		Priority: t.Priority,
		DueDate:  t.DueDate,
		Category: t.Category,
	}
}
