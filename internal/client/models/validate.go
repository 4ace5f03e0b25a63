package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// NormalizeTitle trims title and rejects it when nothing is left.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", common.Invalid("title", "must not be empty")
	}
	return title, nil
}

// ParsePriority accepts low/medium/high in any case; "" yields "".
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", common.Invalid("priority", fmt.Sprintf("unknown value %q", s))
}

// ParseStatus accepts active/completed in any case; "" yields "".
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case "", StatusActive, StatusCompleted:
		return st, nil
	}
	return "", common.Invalid("status", fmt.Sprintf("unknown value %q", s))
}

// ValidateContent checks a content payload against its type. Text may be
// empty (a fresh placeholder note); images must be a data URI.
func ValidateContent(typ ContentType, content string) error {
	switch typ {
	case ContentText:
		return nil
	case ContentImage:
		if !strings.HasPrefix(content, "data:") || len(content) <= len("data:") {
			return common.Invalid("content", "image must be a non-empty data URI")
		}
		return nil
	default:
		return common.Invalid("type", fmt.Sprintf("unknown content type %q", typ))
	}
}

// ValidateImported checks the invariants a stored task must hold before an
// imported copy may replace it. Enum fields must already be canonical.
func ValidateImported(t Task) error {
	if t.ID <= 0 {
		return common.Invalid("id", "must be positive")
	}
	if strings.TrimSpace(t.Title) == "" {
		return common.Invalid("title", fmt.Sprintf("task %d has an empty title", t.ID))
	}
	if p, err := ParsePriority(string(t.Priority)); err != nil || p != t.Priority {
		return common.Invalid("priority", fmt.Sprintf("task %d has priority %q", t.ID, t.Priority))
	}
	if st, err := ParseStatus(string(t.Status)); err != nil || st != t.Status {
		return common.Invalid("status", fmt.Sprintf("task %d has status %q", t.ID, t.Status))
	}
	seen := make(map[int64]struct{}, len(t.Content))
	for _, c := range t.Content {
		if c.ID <= 0 {
			return common.Invalid("content", fmt.Sprintf("task %d has content without an id", t.ID))
		}
		if _, dup := seen[c.ID]; dup {
			return common.Invalid("content", fmt.Sprintf("task %d repeats content id %d", t.ID, c.ID))
		}
		seen[c.ID] = struct{}{}
		if err := ValidateContent(c.Type, c.Content); err != nil {
			return fmt.Errorf("task %d content %d: %w", t.ID, c.ID, err)
		}
	}
	return nil
}

// CheckContentOwnership reports a content id that appears under two
// different task ids in tasks. A task id listed twice counts as one owner.
func CheckContentOwnership(tasks []Task) error {
	owner := make(map[int64]int64)
	for _, t := range tasks {
		for _, c := range t.Content {
			if prev, ok := owner[c.ID]; ok && prev != t.ID {
				return common.Invalid("content", fmt.Sprintf("content id %d is used by tasks %d and %d", c.ID, prev, t.ID))
			}
			owner[c.ID] = t.ID
		}
	}
	return nil
}
