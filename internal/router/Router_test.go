package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/database"
	"learnhub/internal/handlers"
	"learnhub/internal/viewer"
	"learnhub/storage"
)

const quizJSON = `{"questions":[
	{"prompt":"2+2?","choices":["3","4"],"answerIndex":1},
	{"prompt":"Capital of France?","choices":["Paris","Rome"],"answerIndex":0},
	{"prompt":"Red is a...","choices":["color","fruit"],"answerIndex":0}
]}`

const catalogJSON = `[
	{"title":"Intro","href":"docs/intro.txt"},
	{"title":"Handout","href":"files/handout.pdf"},
	{"title":"Quiz 1","href":""}
]`

func setup(t *testing.T) (*database.Store, http.Handler) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"data/quizzes.json":   quizJSON,
		"data/resources.json": catalogJSON,
		"docs/intro.txt":      "Welcome to the course.",
		"page.html":           "<html></html>",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	store, err := database.Init(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := viewer.NewService(storage.NewDirSource(root, ""), "data/quizzes.json")
	svc.ContentURL = handlers.ContentURL
	return store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Router(store, svc, w, r)
	})
}

func do(h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: "tab-1"})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirectsAndStartsSession(t *testing.T) {
	_, h := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), handlers.SessionCookie+"=")
}

func TestDashboardAndFallbackProgress(t *testing.T) {
	_, h := setup(t)

	rec := do(h, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No assigned resources")
	assert.Contains(t, rec.Body.String(), "0% complete")

	rec = do(h, http.MethodPost, "/dashboard/progress?steps=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "10% complete")
}

func TestAssignFromListing(t *testing.T) {
	store, h := setup(t)
	form := url.Values{"title": {"Intro"}, "href": {"docs/intro.txt"}}

	for loopIdx := 0; loopIdx < 2; loopIdx++ {
		rec := do(h, http.MethodPost, "/resources/assign", form)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Assigned")
	}
	assert.Len(t, database.LoadAssignments(store), 1)

	rec := do(h, http.MethodGet, "/resources", nil)
	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, ">Assigned<"))
	assert.Equal(t, 2, strings.Count(body, "Assign to Dashboard"))

	rec = do(h, http.MethodGet, "/dashboard", nil)
	assert.Contains(t, rec.Body.String(), "Intro")
	assert.Contains(t, rec.Body.String(), `id="progress-inc" type="button" hx-post="/dashboard/progress?steps=1" hx-target="#page" disabled`)
}

func TestPreviewAndPromote(t *testing.T) {
	store, h := setup(t)

	rec := do(h, http.MethodGet, "/assignment?href=docs/intro.txt&title=Intro", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to the course.")
	assert.Contains(t, rec.Body.String(), "Assign to Dashboard")
	assert.Empty(t, database.LoadAssignments(store))

	rec = do(h, http.MethodPost, "/assignment/font?href=docs/intro.txt&title=Intro&delta=1", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "font-size: 17px")
	assert.Empty(t, database.LoadAssignments(store))

	rec = do(h, http.MethodPost, "/assignment/promote?href=docs/intro.txt&title=Intro", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	records := database.LoadAssignments(store)
	require.Len(t, records, 1)
	assert.Equal(t, 17, *records[0].FontSize)
	assert.Equal(t, "/assignment?id="+url.QueryEscape(records[0].Id), rec.Header().Get("HX-Redirect"))
}

func TestAssignmentNotFound(t *testing.T) {
	_, h := setup(t)

	rec := do(h, http.MethodGet, "/assignment?id=nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Assignment ID not found.")

	rec = do(h, http.MethodGet, "/assignment", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No assignment id or href provided.")
}

func TestQuizSubmission(t *testing.T) {
	store, h := setup(t)
	do(h, http.MethodPost, "/resources/assign", url.Values{"title": {"Quiz 1"}})
	id := database.LoadAssignments(store)[0].Id

	rec := do(h, http.MethodPost, "/assignment/quiz?id="+id, url.Values{"q0": {"1"}, "q2": {"0"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Score: 2 / 3")
	assert.Contains(t, body, "Select an answer.")
	assert.Contains(t, body, "Progress: 67%")

	stored, err := database.GetAssignment(store, id)
	require.NoError(t, err)
	assert.Equal(t, 67, stored.Progress)
	require.Len(t, stored.Answers, 3)
	assert.Nil(t, stored.Answers[1])

	rec = do(h, http.MethodPost, "/assignment/quiz?title=Quiz+1", url.Values{"q0": {"1"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHTMLReferenceRedirects(t *testing.T) {
	_, h := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/assignment?href=page.html", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/content?ref=page.html", rec.Header().Get("Location"))
}

func TestContentProxy(t *testing.T) {
	_, h := setup(t)
	rec := do(h, http.MethodGet, "/content?ref=docs/intro.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the course.", rec.Body.String())

	rec = do(h, http.MethodGet, "/content?ref=missing.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarAppointments(t *testing.T) {
	store, h := setup(t)

	rec := do(h, http.MethodPost, "/calendar/appointments", url.Values{"date": {"2031-03-14"}, "time": {"16:00"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill out all fields")
	assert.Empty(t, database.ListExtraSessions(store))

	rec = do(h, http.MethodPost, "/calendar/appointments", url.Values{
		"date": {"2031-03-14"}, "time": {"16:00"}, "subject": {"Physics"}, "tutor": {"Dr. Lee"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	extra := database.ListExtraSessions(store)
	require.Len(t, extra, 1)
	assert.Equal(t, "4:00 PM", extra[0].Time)

	rec = do(h, http.MethodGet, "/calendar/ics?date=2031-03-14&index=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Physics.ics")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Physics")

	base := database.ListBaseSessions(store)[0]
	rec = do(h, http.MethodPost, "/calendar/remove?date="+base.Date+"&index=0", nil)
	assert.Contains(t, rec.Body.String(), "base appointment")

	rec = do(h, http.MethodPost, "/calendar/remove?date=2031-03-14&index=0", nil)
	assert.NotEmpty(t, rec.Header().Get("HX-Redirect"))
	assert.Empty(t, database.ListExtraSessions(store))
}

func TestUnknownRoutes(t *testing.T) {
	_, h := setup(t)
	for _, target := range []string{"/nope", "/dashboard/extra/x", "/assignment/a/b"} {
		rec := do(h, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}
