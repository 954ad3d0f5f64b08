package database

import "learnhub/database/models"

// SubmitQuiz stores a graded attempt: the rounded percent as progress and the raw
// per-question selections (nil for unanswered) as answers, in a single write.
func SubmitQuiz(s *Store, id string, percent int, answers []*int) (bool, error) {
	saved := make([]*int, len(answers))
	for i, a := range answers {
		if a != nil {
			v := *a
			saved[i] = &v
		}
	}
	return UpdateAssignment(s, id, func(a *models.Assignment) {
		a.Progress = percent
		a.Answers = saved
	})
}

// SaveVideoPosition records the resume time and raises progress to at most 99.
// Progress is never lowered here, so a completed or toggled record keeps its value.
func SaveVideoPosition(s *Store, id string, progress, seconds int) (bool, error) {
	return UpdateAssignment(s, id, func(a *models.Assignment) {
		a.VideoTime = &seconds
		if p := min(progress, 99); p > a.Progress {
			a.Progress = p
		}
	})
}

// CompleteVideo marks the natural end of playback.
func CompleteVideo(s *Store, id string, duration int) (bool, error) {
	return UpdateAssignment(s, id, func(a *models.Assignment) {
		a.Progress = 100
		a.VideoTime = &duration
	})
}
