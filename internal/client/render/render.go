// Package render prepares a task for an external PDF renderer: a
// materialized document record and the HTML fragment built from it.
// Layout and rasterizing are the renderer's business.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// PreviewLength is the number of characters kept by Preview.
const PreviewLength = 80

// Item is one content entry in document order.
type Item struct {
	Type models.ContentType
	Text string
	// Image is set only for image items carrying a data:image/ URI.
	Image     template.URL
	CreatedAt time.Time
}

// Document is everything the renderer needs for one task.
type Document struct {
	Title       string
	Category    string
	Priority    string
	Status      string
	CreatedAt   time.Time
	GeneratedAt time.Time
	Items       []Item
}

func NewDocument(t models.Task, now time.Time) Document {
	doc := Document{
		Title:       t.Title,
		Category:    t.Category,
		Priority:    priorityLabel(t.Priority),
		Status:      statusLabel(t.Status),
		CreatedAt:   t.CreatedAt,
		GeneratedAt: now,
		Items:       make([]Item, 0, len(t.Content)),
	}
	for _, c := range t.Content {
		it := Item{Type: c.Type, CreatedAt: c.CreatedAt}
		switch c.Type {
		case models.ContentImage:
			// only inline images are trusted as URLs
			if strings.HasPrefix(c.Content, "data:image/") {
				it.Image = template.URL(c.Content)
			}
		default:
			if c.IsBlank() {
				continue
			}
			it.Text = c.Content
		}
		doc.Items = append(doc.Items, it)
	}
	return doc
}

func priorityLabel(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "High"
	case models.PriorityMedium:
		return "Medium"
	case models.PriorityLow:
		return "Low"
	}
	return ""
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusCompleted:
		return "Completed"
	case models.StatusActive:
		return "Active"
	}
	return ""
}

var fragment = template.Must(template.New("task").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}).Parse(`<div class="task-export">
<h1>{{.Title}}</h1>
<div class="task-meta">
<p>Created: {{date .CreatedAt}}</p>
{{- with .Status}}
<p>Status: {{.}}</p>
{{- end}}
{{- with .Category}}
<p>Category: {{.}}</p>
{{- end}}
{{- with .Priority}}
<p>Priority: {{.}}</p>
{{- end}}
</div>
<div class="task-content">
{{- range .Items}}
{{- if .Image}}
<img class="content-image" src="{{.Image}}" alt="">
{{- else if .Text}}
<div class="content-text">{{.Text}}</div>
{{- end}}
{{- end}}
</div>
<p class="task-footer">Generated {{date .GeneratedAt}}</p>
</div>
`))

// HTML assembles the escaped fragment for doc.
func HTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := fragment.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render task: %w", err)
	}
	return buf.String(), nil
}

// Preview returns the first non-blank text note, trimmed and cut to
// PreviewLength characters with "..." appended when cut.
func Preview(t models.Task) string {
	for _, c := range t.Content {
		if c.Type != models.ContentText || c.IsBlank() {
			continue
		}
		text := strings.TrimSpace(c.Content)
		if utf8.RuneCountInString(text) <= PreviewLength {
			return text
		}
		return string([]rune(text)[:PreviewLength]) + "..."
	}
	return ""
}

// Summary counts what a task carries.
type Summary struct {
	Images int
	Notes  int
}

func (s Summary) Empty() bool { return s.Images == 0 && s.Notes == 0 }

func (s Summary) String() string {
	if s.Empty() {
		return "no content"
	}
	var parts []string
	if s.Images > 0 {
		parts = append(parts, plural(s.Images, "image"))
	}
	if s.Notes > 0 {
		parts = append(parts, plural(s.Notes, "note"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Summarize counts images and non-blank notes.
func Summarize(t models.Task) Summary {
	var s Summary
	for _, c := range t.Content {
		switch {
		case c.Type == models.ContentImage:
			s.Images++
		case c.Type == models.ContentText && !c.IsBlank():
			s.Notes++
		}
	}
	return s
}

// FileName derives the PDF file name from a title: every character outside
// [A-Za-z0-9] becomes an underscore.
func FileName(title string) string {
	var b strings.Builder
	for _, r := range title {
		if r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return "task_" + b.String() + ".pdf"
}
