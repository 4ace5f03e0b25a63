// Package query filters, searches and sorts a task set. It works on a
// materialized snapshot and never touches storage.
package query

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// All is the filter value meaning "do not restrict".
const All = "all"

type SortBy string

const (
	SortDate     SortBy = "date"
	SortTitle    SortBy = "title"
	SortPriority SortBy = "priority"
)

// ParseSort maps user input to a sort order; anything unknown sorts by date.
func ParseSort(s string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortTitle:
		return SortTitle
	case SortPriority:
		return SortPriority
	default:
		return SortDate
	}
}

// Filters restrict the result to exact field values. Empty or All means
// no restriction on that dimension.
type Filters struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
}

type Query struct {
	Text    string
	Filters Filters
	SortBy  SortBy
	// MatchContent extends text search to the bodies of text notes.
	MatchContent bool
	// Language selects the collation used for title sorting.
	Language string
}

// Apply returns the matching tasks in sorted order. The input slice and its
// elements are left untouched.
func Apply(tasks []models.Task, q Query) []models.Task {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if matchText(&tasks[i], needle, q.MatchContent) && q.Filters.match(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}

	sortTasks(out, q.SortBy, q.Language)
	return out
}

func matchText(t *models.Task, needle string, content bool) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Category), needle) {
		return true
	}
	if !content {
		return false
	}
	for _, body := range t.Texts() {
		if strings.Contains(strings.ToLower(body), needle) {
			return true
		}
	}
	return false
}

func (f Filters) match(t *models.Task) bool {
	return matchField(f.Status, string(t.Status)) &&
		matchField(f.Priority, string(t.Priority)) &&
		matchField(f.Category, t.Category)
}

func matchField(want, got string) bool {
	if want == "" || want == All {
		return true
	}
	return want == got
}

func sortTasks(list []models.Task, by SortBy, lang string) {
	switch by {
	case SortTitle:
		c := collate.New(languageTag(lang), collate.Loose)
		sort.SliceStable(list, func(i, j int) bool {
			return c.CompareString(list[i].Title, list[j].Title) < 0
		})
	case SortPriority:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority.Rank() > list[j].Priority.Rank()
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	}
}

func languageTag(lang string) language.Tag {
	if lang == "" {
		return language.Und
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}
