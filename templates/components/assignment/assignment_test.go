package assignment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/viewer"
)

func renderPage(t *testing.T, rec *viewer.Recorder) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Page(rec, "id=a1").Render(context.Background(), &sb))
	return sb.String()
}

func TestPageRendersEveryMount(t *testing.T) {
	rec := viewer.NewRecorder()
	rec.Push(viewer.MountTitle, viewer.Title{Text: "Notes & Slides"})
	rec.Push(viewer.MountMeta, viewer.Progress{Percent: 30})
	rec.Push(viewer.MountToolbar, viewer.FontControls{Size: 24, Min: 10, Max: 24})
	rec.Push(viewer.MountContent, viewer.Text{Body: "line <1>", FontSize: 24})
	html := renderPage(t, rec)

	assert.Contains(t, html, `<h1 id="assignment-title">Notes &amp; Slides</h1>`)
	assert.Contains(t, html, "Progress: 30%")
	assert.Contains(t, html, `<pre style="white-space: pre-wrap; font-size: 24px">line &lt;1&gt;</pre>`)
	assert.Contains(t, html, `hx-post="/assignment/font?id=a1&amp;delta=1" hx-target="#page" disabled>Text size +`)
	assert.NotContains(t, html, `delta=-1" hx-target="#page" disabled`)
	for _, id := range []string{viewer.MountMeta, viewer.MountToolbar, viewer.MountContent, viewer.MountControls, viewer.MountAssign} {
		assert.Contains(t, html, `<div id="`+id+`">`)
	}
}

func TestQuizShowsLatestGrading(t *testing.T) {
	first := 1
	rec := viewer.NewRecorder()
	rec.Push(viewer.MountContent, viewer.QuizForm{
		Questions: []viewer.QuestionView{
			{Prompt: "2 + 2?", Choices: []string{"3", "4"}, Selected: &first},
			{Prompt: "Capital of France?", Choices: []string{"Paris", "Rome"}},
		},
		Gradable: true,
	})
	rec.Push(viewer.MountContent, viewer.QuizResult{
		Marks: []viewer.Mark{viewer.MarkCorrect, viewer.MarkUnanswered},
		Score: 1,
		Total: 2,
	})
	html := renderPage(t, rec)

	assert.Contains(t, html, "<strong>1. 2 + 2?</strong>")
	assert.Contains(t, html, `<input type="radio" name="q0" value="1" checked> 4`)
	assert.Contains(t, html, `<div class="result" id="r1">Select an answer.</div>`)
	assert.Contains(t, html, "Score: 1 / 2")
	assert.Contains(t, html, `<button type="submit">Submit</button>`)
}

func TestRedirectLinkIsSanitized(t *testing.T) {
	rec := viewer.NewRecorder()
	rec.Push(viewer.MountContent, viewer.Redirect{To: "javascript:alert(1)"})
	html := renderPage(t, rec)

	assert.NotContains(t, html, `href="javascript:`)
	assert.Contains(t, html, "about:invalid#TemplFailedSanitizationURL")
}
