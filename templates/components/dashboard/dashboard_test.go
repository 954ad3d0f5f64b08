package dashboard

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/dto"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestListEscapesTitles(t *testing.T) {
	html := render(t, List([]dto.Assignment{
		{Id: "a1", Title: "<b>Intro</b>", Progress: 100, Completed: true, OpenURL: "/assignment?id=a1"},
		{Id: "a2", Title: "Quiz 1", Progress: 40, OpenURL: "/assignment?id=a2"},
	}))

	assert.Contains(t, html, "&lt;b&gt;Intro&lt;/b&gt;")
	assert.NotContains(t, html, "<b>Intro</b>")
	assert.Contains(t, html, `<progress class="assignment-progress completed" max="100" value="100">`)
	assert.Contains(t, html, `<progress class="assignment-progress" max="100" value="40">`)
	assert.Contains(t, html, `href="/assignment?id=a2"`)
	assert.Contains(t, html, `hx-post="/dashboard/assignments/a2/progress?delta=-10"`)
	assert.NotContains(t, html, "No assigned resources")
}

func TestListEmpty(t *testing.T) {
	assert.Contains(t, render(t, List(nil)), "No assigned resources. Assign resources from the Resources page.")
}

func TestProgressButtons(t *testing.T) {
	locked := render(t, Progress(dto.Dashboard{Aggregate: 40}))
	assert.Contains(t, locked, "40% complete")
	assert.Contains(t, locked, `hx-post="/dashboard/progress?steps=-1" hx-target="#page" disabled>`)

	open := render(t, Progress(dto.Dashboard{Aggregate: 100, Completed: true, Adjustable: true}))
	assert.Contains(t, open, `class="progress completed"`)
	assert.NotContains(t, open, "disabled")
}

func TestDashboardSubscribesToEvents(t *testing.T) {
	html := render(t, Dashboard(dto.Dashboard{}))
	assert.Contains(t, html, `hx-trigger="storage-change from:body"`)
	assert.Contains(t, html, "new EventSource('/events')")
}
