package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Title length bounds, counted in characters after trimming.
const (
	TaskTitleMinLength = 2
	TaskTitleMaxLength = 200
)

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID        string
	OwnerID   string
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskPatch carries the fields of a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

// NormalizeTaskTitle trims surrounding whitespace and reports whether the
// result satisfies the length bounds.
func NormalizeTaskTitle(title string) (string, bool) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	return title, n >= TaskTitleMinLength && n <= TaskTitleMaxLength
}
