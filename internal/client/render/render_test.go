package render

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)

func taskWith(content ...models.ContentItem) models.Task {
	return models.Task{
		ID: 1, Title: "Fix <roof>", Category: "Home",
		Priority: models.PriorityHigh, Status: models.StatusActive,
		Content: content, CreatedAt: created, UpdatedAt: created,
	}
}

func text(id int64, s string) models.ContentItem {
	return models.ContentItem{ID: id, Type: models.ContentText, Content: s}
}

func image(id int64, s string) models.ContentItem {
	return models.ContentItem{ID: id, Type: models.ContentImage, Content: s}
}

func TestNewDocument(t *testing.T) {
	task := taskWith(text(1, "  "), text(2, "step one"), image(3, "data:image/png;base64,AA"), image(4, "javascript:alert(1)"))
	doc := NewDocument(task, created.Add(time.Hour))

	assert.Equal(t, "Fix <roof>", doc.Title)
	assert.Equal(t, "High", doc.Priority)
	assert.Equal(t, "Active", doc.Status)
	require.Len(t, doc.Items, 3, "blank notes are dropped")
	assert.Equal(t, "step one", doc.Items[0].Text)
	assert.NotEmpty(t, doc.Items[1].Image)
	assert.Empty(t, doc.Items[2].Image, "non data: URIs are not trusted")
}

func TestHTML_EscapesAndOrders(t *testing.T) {
	task := taskWith(text(1, "<b>bold</b>"), image(2, "data:image/png;base64,AA"), text(3, "last"))
	out, err := HTML(NewDocument(task, created))
	require.NoError(t, err)

	assert.Contains(t, out, "Fix &lt;roof&gt;")
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, out, `src="data:image/png;base64,AA"`)
	assert.Contains(t, out, "Created: 2024-04-02 09:30")
	assert.Contains(t, out, "Priority: High")
	assert.Less(t, strings.Index(out, "bold"), strings.Index(out, "last"))
}

func TestHTML_SimpleTaskOmitsMeta(t *testing.T) {
	out, err := HTML(NewDocument(models.Task{Title: "plain", CreatedAt: created}, created))
	require.NoError(t, err)
	assert.NotContains(t, out, "Status:")
	assert.NotContains(t, out, "Category:")
	assert.NotContains(t, out, "Priority:")
}

func TestHTML_UnsafeImageDropped(t *testing.T) {
	out, err := HTML(NewDocument(taskWith(image(1, "javascript:alert(1)")), created))
	require.NoError(t, err)
	assert.NotContains(t, out, "javascript")
	assert.NotContains(t, out, "<img")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", Preview(taskWith()))
	assert.Equal(t, "", Preview(taskWith(image(1, "data:image/png;base64,AA"), text(2, "   "))))
	assert.Equal(t, "hello", Preview(taskWith(text(1, ""), text(2, "  hello  "), text(3, "second"))))

	long := strings.Repeat("ñ", 100)
	got := Preview(taskWith(text(1, long)))
	assert.Equal(t, strings.Repeat("ñ", 80)+"...", got)

	exact := strings.Repeat("a", 80)
	assert.Equal(t, exact, Preview(taskWith(text(1, exact))))
}

func TestSummarize(t *testing.T) {
	s := Summarize(taskWith(text(1, ""), text(2, "a"), image(3, "data:image/png;base64,AA"), image(4, "data:image/png;base64,BB")))
	assert.Equal(t, Summary{Images: 2, Notes: 1}, s)
	assert.Equal(t, "2 images, 1 note", s.String())
	assert.Equal(t, "no content", Summarize(taskWith()).String())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "task_Fix__roof_.pdf", FileName("Fix <roof>"))
	assert.Equal(t, "task_Caf_.pdf", FileName("Café"))
	assert.Equal(t, "task_.pdf", FileName(""))
}
