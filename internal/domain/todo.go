package domain

import "time"

// Domain entity. Does not depend on Gin, Postgres or Redis.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Resolved    bool
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Overdue reports whether the item is unresolved with a due date before now.
func (t Todo) Overdue(now time.Time) bool {
	return !t.Resolved && t.DueDate != nil && t.DueDate.Before(now)
}
