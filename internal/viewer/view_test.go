package viewer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/database"
	"learnhub/database/models"
	"learnhub/helper"
	"learnhub/storage"
)

type fakeSource map[string]storage.Response

func (f fakeSource) Fetch(_ context.Context, ref string) (storage.Response, error) {
	if r, ok := f[ref]; ok {
		return r, nil
	}
	return storage.Response{StatusCode: 404}, nil
}

type brokenSource struct{}

func (brokenSource) Fetch(context.Context, string) (storage.Response, error) {
	return storage.Response{}, errors.New("connection refused")
}

func text(body string) storage.Response {
	return storage.Response{StatusCode: 200, ContentType: "text/plain", Body: []byte(body)}
}

const manifestJSON = `{"questions":[
	{"prompt":"2+2?","choices":["3","4"],"answerIndex":1},
	{"prompt":"Capital of France?","choices":["Paris","Rome"],"answerIndex":0},
	{"prompt":"Red is a...","choices":["color","fruit"],"answerIndex":0}
]}`

func setup(t *testing.T, src storage.Source) (*Service, *database.Store) {
	t.Helper()
	store, err := database.Init(filepath.Join(t.TempDir(), "viewer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(src, "data/quizzes.json"), store.Tab("tab-a")
}

func TestResolve(t *testing.T) {
	_, tab := setup(t, fakeSource{})

	_, err := Resolve(tab, Request{})
	assert.ErrorIs(t, err, ErrNoReference)

	_, err = Resolve(tab, Request{ID: "missing"})
	assert.ErrorIs(t, err, database.ErrNotFound)

	a, err := Resolve(tab, Request{Href: "docs/intro.txt"})
	require.NoError(t, err)
	assert.True(t, a.IsPreview())
	assert.Equal(t, "docs/intro.txt", a.Title)

	a, err = Resolve(tab, Request{Title: "Weekly Quiz"})
	require.NoError(t, err)
	assert.Equal(t, models.KindQuiz, a.Kind())
}

func TestGrade(t *testing.T) {
	manifest := models.QuizManifest{Questions: []models.Question{
		{AnswerIndex: 1}, {AnswerIndex: 0}, {AnswerIndex: 0},
	}}

	res := Grade(manifest, []*int{helper.Ptr(1), nil, helper.Ptr(0)})

	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 67, res.Percent)
	assert.Equal(t, []Mark{MarkCorrect, MarkUnanswered, MarkCorrect}, res.Marks)
	require.Len(t, res.Answers, 3)
	assert.Equal(t, 1, *res.Answers[0])
	assert.Nil(t, res.Answers[1])
	assert.Equal(t, 0, *res.Answers[2])

	empty := Grade(models.QuizManifest{}, nil)
	assert.Equal(t, 0, empty.Percent)
}

func TestQuizSubmitPersists(t *testing.T) {
	svc, tab := setup(t, fakeSource{"data/quizzes.json": text(manifestJSON)})
	id, err := database.UpsertAssigned(tab, models.Assignment{Title: "Quiz 1"})
	require.NoError(t, err)

	rec := NewRecorder()
	view, err := svc.Open(tab, Request{ID: id}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))

	form, ok := Last[QuizForm](rec, MountContent)
	require.True(t, ok)
	assert.True(t, form.Gradable)
	assert.Len(t, form.Questions, 3)

	res, err := view.SubmitQuiz(context.Background(), []*int{helper.Ptr(1), nil, helper.Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, 33, res.Percent)

	stored, err := database.GetAssignment(tab, id)
	require.NoError(t, err)
	assert.Equal(t, 33, stored.Progress)
	require.Len(t, stored.Answers, 3)
	assert.Nil(t, stored.Answers[1])

	// answers are restored on the next visit
	rec = NewRecorder()
	view, err = svc.Open(tab, Request{ID: id}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))
	form, _ = Last[QuizForm](rec, MountContent)
	require.NotNil(t, form.Questions[0].Selected)
	assert.Equal(t, 1, *form.Questions[0].Selected)
	assert.Nil(t, form.Questions[1].Selected)
}

func TestQuizPreviewIsInspectionOnly(t *testing.T) {
	svc, tab := setup(t, fakeSource{"data/quizzes.json": text(manifestJSON)})

	rec := NewRecorder()
	view, err := svc.Open(tab, Request{Title: "Practice Quiz"}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))

	form, ok := Last[QuizForm](rec, MountContent)
	require.True(t, ok)
	assert.True(t, form.Disabled)
	assert.False(t, form.Gradable)

	_, err = view.SubmitQuiz(context.Background(), []*int{helper.Ptr(1)})
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Empty(t, database.LoadAssignments(tab))
}

func TestDocumentCandidateFallback(t *testing.T) {
	tests := []struct {
		name string
		src  fakeSource
		want string
	}{
		{
			name: "literal 404, root relative ok",
			src:  fakeSource{"/docs/a.txt": text("root body")},
			want: "root body",
		},
		{
			name: "html content type skipped",
			src: fakeSource{
				"docs/a.txt":    {StatusCode: 200, ContentType: "text/html; charset=utf-8", Body: []byte("index")},
				"../docs/a.txt": text("parent body"),
			},
			want: "parent body",
		},
		{
			name: "sniffed html skipped",
			src: fakeSource{
				"docs/a.txt":    text("  <!DOCTYPE html><html></html>"),
				"/docs/a.txt":   text("<html><body>spa</body></html>"),
				"../docs/a.txt": text("plain"),
			},
			want: "plain",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tab := setup(t, tt.src)
			rec := NewRecorder()
			view, err := svc.Open(tab, Request{Href: "docs/a.txt"}, rec)
			require.NoError(t, err)
			require.NoError(t, view.Render(context.Background()))

			got, ok := Last[Text](rec, MountContent)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Body)
		})
	}
}

func TestDocumentUnavailable(t *testing.T) {
	svc, tab := setup(t, brokenSource{})
	rec := NewRecorder()
	view, err := svc.Open(tab, Request{Href: "notes.md"}, rec)
	require.NoError(t, err)

	err = view.Render(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	notice, ok := Last[Notice](rec, MountContent)
	require.True(t, ok)
	assert.Equal(t, "Unable to load document. Tried: notes.md, /notes.md, ../notes.md", notice.Message)
	_, rendered := Last[Text](rec, MountContent)
	assert.False(t, rendered)
}

func TestPreviewFontStaysInSession(t *testing.T) {
	svc, tab := setup(t, fakeSource{"a.txt": text("hello")})
	rec := NewRecorder()
	view, err := svc.Open(tab, Request{Href: "a.txt", Title: "Reading"}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))

	size, err := view.AdjustFont(+1)
	require.NoError(t, err)
	assert.Equal(t, 17, size)
	assert.Empty(t, database.LoadAssignments(tab), "preview never writes the collection")

	// another view of the same reference in the same tab resumes the size
	again, err := svc.Open(tab, Request{Href: "a.txt", Title: "Reading"}, NewRecorder())
	require.NoError(t, err)
	require.NotNil(t, again.Record.FontSize)
	assert.Equal(t, 17, *again.Record.FontSize)

	// other tabs do not see it
	other, err := Resolve(tab.Tab("tab-b"), Request{Href: "a.txt"})
	require.NoError(t, err)
	assert.Nil(t, other.FontSize)

	assert.ErrorIs(t, again.SaveNotes("x"), ErrReadOnly)
	assert.ErrorIs(t, again.ToggleComplete(), ErrReadOnly)

	promoted, err := again.Promote()
	require.NoError(t, err)
	assert.False(t, promoted.ReadOnly())
	require.NotNil(t, promoted.Record.FontSize)
	assert.Equal(t, 17, *promoted.Record.FontSize)
	assert.True(t, promoted.Record.Assigned)
	assert.Len(t, database.LoadAssignments(tab), 1)
}

func TestFontSizeBounds(t *testing.T) {
	svc, tab := setup(t, fakeSource{})
	id, err := database.UpsertAssigned(tab, models.Assignment{Title: "Big", Href: "big.md", FontSize: helper.Ptr(35)})
	require.NoError(t, err)

	view, err := svc.Open(tab, Request{ID: id}, NewRecorder())
	require.NoError(t, err)
	for loopIdx := 0; loopIdx < 3; loopIdx++ {
		_, err = view.AdjustFont(+1)
		require.NoError(t, err)
	}
	stored, err := database.GetAssignment(tab, id)
	require.NoError(t, err)
	assert.Equal(t, MaxFontSize, *stored.FontSize)
}

func TestDocumentToggleAndNotes(t *testing.T) {
	svc, tab := setup(t, fakeSource{"a.md": text("# A")})
	id, err := database.UpsertAssigned(tab, models.Assignment{Title: "A", Href: "a.md"})
	require.NoError(t, err)

	rec := NewRecorder()
	view, err := svc.Open(tab, Request{ID: id}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))

	controls, _ := Last[Controls](rec, MountControls)
	assert.Equal(t, "Mark as Done", controls.Toggle)

	require.NoError(t, view.SaveNotes("chapter 2 answers"))
	require.NoError(t, view.ToggleComplete())

	controls, _ = Last[Controls](rec, MountControls)
	assert.Equal(t, "Mark as Incomplete", controls.Toggle)
	progress, _ := Last[Progress](rec, MountMeta)
	assert.Equal(t, 100, progress.Percent)

	stored, err := database.GetAssignment(tab, id)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, "chapter 2 answers", stored.Notes)
}

func TestVideoProgressIsMonotonic(t *testing.T) {
	svc, tab := setup(t, fakeSource{})
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return clock }

	id, err := database.UpsertAssigned(tab, models.Assignment{Title: "Lecture", Href: "lecture.mp4"})
	require.NoError(t, err)
	view, err := svc.Open(tab, Request{ID: id}, NewRecorder())
	require.NoError(t, err)

	prev := 0
	for _, current := range []float64{5, 20, 55, 80, 99.6} {
		clock = clock.Add(SaveInterval)
		saved, err := view.VideoTick(current, 100)
		require.NoError(t, err)
		assert.True(t, saved)

		stored, err := database.GetAssignment(tab, id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stored.Progress, prev)
		assert.LessOrEqual(t, stored.Progress, 99)
		prev = stored.Progress
	}
	assert.Equal(t, 99, prev)

	// seeking back does not lower progress
	clock = clock.Add(SaveInterval)
	_, err = view.VideoTick(10, 100)
	require.NoError(t, err)
	stored, _ := database.GetAssignment(tab, id)
	assert.Equal(t, 99, stored.Progress)
	assert.Equal(t, 10, *stored.VideoTime)

	require.NoError(t, view.VideoEnded(100))
	stored, _ = database.GetAssignment(tab, id)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, 100, *stored.VideoTime)
}

func TestVideoTickThrottle(t *testing.T) {
	svc, tab := setup(t, fakeSource{})
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return clock }

	id, err := database.UpsertAssigned(tab, models.Assignment{Title: "Clip", Href: "clip.webm"})
	require.NoError(t, err)
	view, err := svc.Open(tab, Request{ID: id}, NewRecorder())
	require.NoError(t, err)

	saved, err := view.VideoTick(1, 60)
	require.NoError(t, err)
	assert.True(t, saved)

	clock = clock.Add(time.Second)
	saved, err = view.VideoTick(2, 60)
	require.NoError(t, err)
	assert.False(t, saved)

	require.NoError(t, view.VideoPause(2, 60), "pause saves regardless")
	stored, _ := database.GetAssignment(tab, id)
	assert.Equal(t, 2, *stored.VideoTime)

	clock = clock.Add(SaveInterval)
	saved, err = view.VideoTick(6, 60)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestSeekTarget(t *testing.T) {
	tests := []struct {
		name     string
		resume   *int
		duration float64
		want     float64
		seek     bool
	}{
		{"no resume", nil, 60, 0, false},
		{"middle", helper.Ptr(30), 60, 30, true},
		{"at the very end", helper.Ptr(59), 60, 0, false},
		{"just over a second left", helper.Ptr(58), 60, 58, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, seek := SeekTarget(tt.resume, tt.duration)
			assert.Equal(t, tt.seek, seek)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOtherKinds(t *testing.T) {
	svc, tab := setup(t, brokenSource{})
	svc.ContentURL = func(ref string) string { return "/content/" + ref }

	rec := NewRecorder()
	view, err := svc.Open(tab, Request{Href: "slides.key"}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))
	redirect, ok := Last[Redirect](rec, MountContent)
	require.True(t, ok)
	assert.Equal(t, "/content/slides.key", redirect.To)

	rec = NewRecorder()
	view, err = svc.Open(tab, Request{Href: "guide.pdf"}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))
	embed, ok := Last[Embed](rec, MountContent)
	require.True(t, ok)
	assert.Equal(t, "/content/guide.pdf", embed.Src)
	_, hasControls := Last[Controls](rec, MountControls)
	assert.False(t, hasControls, "preview pdf has no toggle")

	id, err := database.UpsertAssigned(tab, models.Assignment{Title: "Reading list"})
	require.NoError(t, err)
	rec = NewRecorder()
	view, err = svc.Open(tab, Request{ID: id}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))
	notice, _ := Last[Notice](rec, MountContent)
	assert.Equal(t, "No preview available for this assignment.", notice.Message)
	assert.ErrorIs(t, view.ToggleComplete(), ErrUnsupported)
}

func TestThrottleEntriesAreDropped(t *testing.T) {
	svc, tab := setup(t, fakeSource{})
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return clock }

	views := make([]*View, 3)
	for i, href := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		id, err := database.UpsertAssigned(tab, models.Assignment{Title: href, Href: href})
		require.NoError(t, err)
		views[i], err = svc.Open(tab.Tab(fmt.Sprintf("tab-%d", i)), Request{ID: id}, NewRecorder())
		require.NoError(t, err)
		_, err = views[i].VideoTick(1, 60)
		require.NoError(t, err)
	}
	assert.Len(t, svc.lastSaved, 3)

	require.NoError(t, views[0].VideoPause(2, 60))
	assert.Len(t, svc.lastSaved, 2, "pause ends the throttle window")

	// the other two players went away without a pause
	clock = clock.Add(throttleTTL + time.Second)
	saved, err := views[0].VideoTick(3, 60)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Len(t, svc.lastSaved, 1)
}

func TestFallbackShowsText(t *testing.T) {
	svc, tab := setup(t, fakeSource{"notes.cfg": text("key = value")})
	rec := NewRecorder()
	view, err := svc.Open(tab, Request{Href: "notes.cfg"}, rec)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))

	body, ok := Last[Text](rec, MountContent)
	require.True(t, ok)
	assert.Equal(t, "key = value", body.Body)
	assert.Equal(t, DefaultFontSize, body.FontSize)
	_, redirected := Last[Redirect](rec, MountContent)
	assert.False(t, redirected)
}

// pushLog is a surface that is not a Recorder.
type pushLog struct{ pushed []Pushed }

func (p *pushLog) Push(mount string, u Update) {
	p.pushed = append(p.pushed, Pushed{Mount: mount, Update: u})
}

func TestAdjustFontRepaintsAnySurface(t *testing.T) {
	svc, tab := setup(t, fakeSource{"a.txt": text("hello")})
	surface := &pushLog{}
	view, err := svc.Open(tab, Request{Href: "a.txt"}, surface)
	require.NoError(t, err)
	require.NoError(t, view.Render(context.Background()))

	_, err = view.AdjustFont(-2)
	require.NoError(t, err)

	last := surface.pushed[len(surface.pushed)-1]
	assert.Equal(t, MountContent, last.Mount)
	assert.Equal(t, Text{Body: "hello", FontSize: 14}, last.Update)
}

func TestResumeAtFollowsKind(t *testing.T) {
	at := 42
	assert.Equal(t, &at, ResumeAt(models.Assignment{Title: "Lecture", Href: "lecture.mp4", VideoTime: &at}))
	assert.Nil(t, ResumeAt(models.Assignment{Title: "Lecture", Href: "lecture.mp4"}))
	// a stray video_time on a document is not a resume position
	assert.Nil(t, ResumeAt(models.Assignment{Title: "Notes", Href: "notes.txt", VideoTime: &at}))
}
