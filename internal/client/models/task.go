// Package models defines the task and content records the client persists,
// together with the backup document and user settings.
package models

import (
	"strings"
	"time"
)

// ContentType classifies a content item attached to a task.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

// Priority ranks a task. The zero value means "not set".
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting; unknown or missing values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Status is the completion state of a task. The zero value means "not set".
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

const (
	DefaultCategory = "General"
	DefaultPriority = PriorityMedium
	DefaultStatus   = StatusActive

	// CopySuffix marks the title of a duplicated task.
	CopySuffix = " (Copy)"
)

// ContentItem is a note or image owned by exactly one task.
type ContentItem struct {
	ID        int64       `json:"id"`
	Type      ContentType `json:"type"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Task is a titled unit of work with an ordered list of content items.
// Category, Priority and Status are empty in the simple variant.
type Task struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Category  string        `json:"category,omitempty"`
	Priority  Priority      `json:"priority,omitempty"`
	Status    Status        `json:"status,omitempty"`
	Content   []ContentItem `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// TaskFields carries user input for a new task.
type TaskFields struct {
	Title    string
	Category string
	Priority Priority
}

// TaskPatch carries a partial edit; nil fields are left untouched.
type TaskPatch struct {
	Title    *string
	Category *string
	Priority *Priority
	Status   *Status
}

// Clone returns a deep copy so callers can mutate it freely.
func (t Task) Clone() Task {
	out := t
	if t.Content != nil {
		out.Content = make([]ContentItem, len(t.Content))
		copy(out.Content, t.Content)
	}
	return out
}

// ContentIndex returns the position of the item with the given id, or -1.
func (t *Task) ContentIndex(id int64) int {
	for i := range t.Content {
		if t.Content[i].ID == id {
			return i
		}
	}
	return -1
}

// Texts returns the bodies of all text items in order.
func (t *Task) Texts() []string {
	var out []string
	for _, c := range t.Content {
		if c.Type == ContentText {
			out = append(out, c.Content)
		}
	}
	return out
}

// IsBlank reports whether a text item carries no visible text.
func (c ContentItem) IsBlank() bool {
	return strings.TrimSpace(c.Content) == ""
}

// Timestamp normalizes t the way records store it: UTC, millisecond precision.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// MaxID returns the largest task or content id in tasks.
func MaxID(tasks []Task) int64 {
	var max int64
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
		for _, c := range t.Content {
			if c.ID > max {
				max = c.ID
			}
		}
	}
	return max
}
