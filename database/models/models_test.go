package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		title, href string
		want        Kind
	}{
		{"Reading", "docs/intro.txt", KindDocument},
		{"Notes", "NOTES.MD", KindDocument},
		{"Handout", "files/handout.pdf", KindOpaque},
		{"Lecture", "media/lecture.mp4", KindVideo},
		{"Clip", "clip.webm", KindVideo},
		{"Lab page", "labs/index.html", KindPage},
		{"Slides", "slides.key", KindUnknown},
		{"Weekly quiz", "", KindQuiz},
		{"Reading list", "", KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.title, tt.href))
		})
	}
}

func TestContentCarriesOnlyKindFields(t *testing.T) {
	size, at := 18, 42
	a := Assignment{Title: "Lecture", Href: "l.mp4", FontSize: &size, VideoTime: &at}

	video, ok := a.Content().(Video)
	assert.True(t, ok)
	assert.Equal(t, 42, *video.ResumeAt)

	a.Href = "l.txt"
	doc, ok := a.Content().(Document)
	assert.True(t, ok)
	assert.Equal(t, 18, *doc.FontSize)

	a.Href = "l.html"
	assert.Equal(t, KindPage, a.Content().ContentKind())
}

func TestSameResource(t *testing.T) {
	a := Assignment{Title: "Quiz"}
	assert.True(t, a.SameResource("Quiz", ""))
	assert.False(t, a.SameResource("Quiz", "q.json"))
	assert.False(t, a.SameResource("quiz", ""))
}

func TestHrefNullRoundTrip(t *testing.T) {
	quiz, err := json.Marshal(Assignment{Id: "1-abc", Title: "Quiz"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1-abc","title":"Quiz","href":null,"progress":0,"notes":""}`, string(quiz))

	doc, err := json.Marshal(Assignment{Id: "2-abc", Title: "Intro", Href: "docs/intro.txt", FontSize: &[]int{18}[0]})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"2-abc","title":"Intro","href":"docs/intro.txt","progress":0,"notes":"","fontSize":18}`, string(doc))

	var list []Assignment
	require.NoError(t, json.Unmarshal([]byte(`[{"title":"Quiz","href":null},{"title":"Quiz","href":""}]`), &list))
	assert.True(t, list[0].SameResource("Quiz", ""))
	assert.True(t, list[1].SameResource(list[0].Title, list[0].Href))
}
