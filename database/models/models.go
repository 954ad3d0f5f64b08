package models

import (
	"encoding/json"
	"path"
	"regexp"
	"strings"
	"time"
)

// Kind is the content type behind an assignment reference.
type Kind string

const (
	KindDocument Kind = "document"
	KindQuiz     Kind = "quiz"
	KindVideo    Kind = "video"
	KindOpaque   Kind = "opaque" // pdf, embedded as-is
	KindPage     Kind = "page"   // html, navigated to directly
	KindUnknown  Kind = "unknown"
	KindNone     Kind = "none" // no href and not a quiz
)

var quizTitle = regexp.MustCompile(`(?i)quiz`)

// KindOf classifies a reference by extension. An empty href is a quiz when the title says so.
func KindOf(title, href string) Kind {
	if href == "" {
		if quizTitle.MatchString(title) {
			return KindQuiz
		}
		return KindNone
	}
	switch strings.ToLower(path.Ext(href)) {
	case ".txt", ".md":
		return KindDocument
	case ".pdf":
		return KindOpaque
	case ".mp4", ".webm", ".ogg", ".ogv", ".mov", ".m4v":
		return KindVideo
	case ".html", ".htm":
		return KindPage
	default:
		return KindUnknown
	}
}

// Assignment is one assigned (or previewed) learning resource.
// Id is empty for preview records, which are never persisted.
type Assignment struct {
	Id         string     `json:"id,omitempty"`
	Title      string     `json:"title"`
	Href       string     `json:"href"`
	Progress   int        `json:"progress"`
	Assigned   bool       `json:"assigned,omitempty"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`
	Notes      string     `json:"notes"`
	Answers    []*int     `json:"answers,omitempty"`
	FontSize   *int       `json:"fontSize,omitempty"`
	VideoTime  *int       `json:"videoTime,omitempty"`
}

// MarshalJSON writes an empty href as null, the stored form of a quiz without a manifest reference.
// Decoding needs no counterpart: null leaves Href empty.
func (a Assignment) MarshalJSON() ([]byte, error) {
	type plain Assignment
	out := struct {
		plain
		Href *string `json:"href"`
	}{plain: plain(a)}
	if a.Href != "" {
		out.Href = &a.Href
	}
	return json.Marshal(out)
}

func (a Assignment) Kind() Kind { return KindOf(a.Title, a.Href) }

func (a Assignment) IsPreview() bool { return a.Id == "" }

// SameResource reports whether a and the (title, href) pair identify the same resource.
// A null href and an empty one are the same key.
func (a Assignment) SameResource(title, href string) bool {
	return a.Title == title && a.Href == href
}

// Content returns the kind-specific view of the record.
func (a Assignment) Content() Content {
	switch a.Kind() {
	case KindDocument:
		return Document{FontSize: a.FontSize}
	case KindQuiz:
		return Quiz{Answers: a.Answers}
	case KindVideo:
		return Video{ResumeAt: a.VideoTime}
	case KindOpaque:
		return Opaque{}
	default:
		return Other{Kind: a.Kind()}
	}
}

// Content is the tagged part of an Assignment: only the fields meaningful for its kind.
type Content interface {
	ContentKind() Kind
}

type Document struct {
	FontSize *int
}

type Quiz struct {
	Answers []*int
}

type Video struct {
	ResumeAt *int
}

type Opaque struct{}

type Other struct {
	Kind Kind
}

func (Document) ContentKind() Kind { return KindDocument }
func (Quiz) ContentKind() Kind     { return KindQuiz }
func (Video) ContentKind() Kind    { return KindVideo }
func (Opaque) ContentKind() Kind   { return KindOpaque }
func (o Other) ContentKind() Kind  { return o.Kind }

// Question is one entry of a quiz manifest.
type Question struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answerIndex"`
}

type QuizManifest struct {
	Questions []Question `json:"questions"`
}

// Session is a tutoring session shown on the calendar. Time is 12h, e.g. "4:00 PM".
type Session struct {
	Date     string `json:"date"` // 2006-01-02
	Time     string `json:"time"`
	Subject  string `json:"subject"`
	Tutor    string `json:"tutor"`
	Location string `json:"location,omitempty"`
}

// Resource is a listing entry that can be assigned. An empty Href with a quiz
// title is the default quiz.
type Resource struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}
