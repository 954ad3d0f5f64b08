package viewer

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"learnhub/database/models"
	"learnhub/helper"
	"learnhub/storage"
)

// Quiz renders the fixed quiz manifest as single-select questions.
type Quiz struct{}

// GradeResult is a graded attempt.
type GradeResult struct {
	Marks   []Mark
	Score   int
	Total   int
	Percent int
	// Answers has one slot per question; nil is unanswered.
	Answers []*int
}

// Grade scores answers against the manifest. An unanswered question is marked
// as such and counts as not correct.
func Grade(manifest models.QuizManifest, answers []*int) GradeResult {
	total := len(manifest.Questions)
	res := GradeResult{
		Marks:   make([]Mark, total),
		Total:   total,
		Answers: make([]*int, total),
	}
	for i, q := range manifest.Questions {
		if i >= len(answers) || answers[i] == nil {
			res.Marks[i] = MarkUnanswered
			continue
		}
		sel := *answers[i]
		res.Answers[i] = &sel
		if sel == q.AnswerIndex {
			res.Marks[i] = MarkCorrect
			res.Score++
		} else {
			res.Marks[i] = MarkWrong
		}
	}
	res.Percent = helper.Percent(res.Score, total)
	return res
}

// LoadManifest fetches and decodes the quiz manifest.
func LoadManifest(ctx context.Context, src storage.Source, ref string) (models.QuizManifest, error) {
	var m models.QuizManifest
	resp, err := src.Fetch(ctx, ref)
	if err != nil {
		return m, errors.Wrap(ErrUnavailable, err.Error())
	}
	if !resp.OK() {
		return m, errors.Wrapf(ErrUnavailable, "quiz manifest %s: status %d", ref, resp.StatusCode)
	}
	if err := json.Unmarshal(resp.Body, &m); err != nil {
		return m, errors.Wrapf(ErrUnavailable, "quiz manifest %s: %v", ref, err)
	}
	return m, nil
}

func (Quiz) Render(ctx context.Context, v *View) error {
	v.pushProgress()
	m, err := LoadManifest(ctx, v.svc.Source, v.svc.QuizManifest)
	if err != nil {
		v.push(MountContent, Notice{Message: "Unable to load quiz."})
		return err
	}

	var restored []*int
	// previous answers only come back for stored records
	if quiz, ok := v.Record.Content().(models.Quiz); ok && !v.ReadOnly() {
		restored = quiz.Answers
	}
	v.push(MountContent, quizForm(m, restored, v.ReadOnly()))
	return nil
}

func quizForm(m models.QuizManifest, answers []*int, readOnly bool) QuizForm {
	form := QuizForm{
		Questions: make([]QuestionView, len(m.Questions)),
		Disabled:  readOnly,
		Gradable:  !readOnly,
	}
	for i, q := range m.Questions {
		form.Questions[i] = QuestionView{Prompt: q.Prompt, Choices: q.Choices}
		if i < len(answers) && answers[i] != nil {
			if sel := *answers[i]; sel >= 0 && sel < len(q.Choices) {
				form.Questions[i].Selected = &sel
			}
		}
	}
	return form
}

// SubmitQuiz grades answers and stores the percent as progress together with the
// raw selections.
func (v *View) SubmitQuiz(ctx context.Context, answers []*int) (GradeResult, error) {
	if _, ok := v.strategy.(Quiz); !ok {
		return GradeResult{}, ErrUnsupported
	}
	if v.ReadOnly() {
		return GradeResult{}, ErrReadOnly
	}
	m, err := LoadManifest(ctx, v.svc.Source, v.svc.QuizManifest)
	if err != nil {
		return GradeResult{}, err
	}
	res := Grade(m, answers)
	if err := v.writer.SubmitQuiz(&v.Record, res.Percent, res.Answers); err != nil {
		return res, err
	}
	v.pushProgress()
	v.push(MountContent, quizForm(m, res.Answers, false))
	v.push(MountContent, QuizResult{Marks: res.Marks, Score: res.Score, Total: res.Total})
	return res, nil
}
