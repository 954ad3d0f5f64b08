package viewer

import (
	"strconv"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"learnhub/database"
	"learnhub/database/models"
)

// ErrReadOnly is returned by actions a preview cannot perform.
var ErrReadOnly = errors.New("preview mode: assign to save progress")

// Writer is where a view sends the changes its strategy makes.
type Writer interface {
	Persistent() bool
	SetFontSize(a *models.Assignment, size int) error
	SetNotes(a *models.Assignment, notes string) error
	ToggleComplete(a *models.Assignment) error
	SubmitQuiz(a *models.Assignment, percent int, answers []*int) error
	SaveVideo(a *models.Assignment, progress, seconds int) error
	CompleteVideo(a *models.Assignment, duration int) error
}

// persistentWriter writes through to the assignment collection by record id.
// A record removed elsewhere is skipped silently; the in-memory copy still changes.
type persistentWriter struct {
	store *database.Store
}

func (w persistentWriter) Persistent() bool { return true }

func (w persistentWriter) SetFontSize(a *models.Assignment, size int) error {
	a.FontSize = &size
	return w.check(database.SetFontSize(w.store, a.Id, size))
}

func (w persistentWriter) SetNotes(a *models.Assignment, notes string) error {
	a.Notes = notes
	return w.check(database.SetNotes(w.store, a.Id, notes))
}

func (w persistentWriter) ToggleComplete(a *models.Assignment) error {
	progress, found, err := database.ToggleComplete(w.store, a.Id)
	if err != nil {
		return err
	}
	if found {
		a.Progress = progress
	}
	return nil
}

func (w persistentWriter) SubmitQuiz(a *models.Assignment, percent int, answers []*int) error {
	a.Progress = percent
	a.Answers = answers
	return w.check(database.SubmitQuiz(w.store, a.Id, percent, answers))
}

func (w persistentWriter) SaveVideo(a *models.Assignment, progress, seconds int) error {
	a.VideoTime = &seconds
	a.Progress = max(a.Progress, min(progress, 99))
	return w.check(database.SaveVideoPosition(w.store, a.Id, progress, seconds))
}

func (w persistentWriter) CompleteVideo(a *models.Assignment, duration int) error {
	a.Progress = 100
	a.VideoTime = &duration
	return w.check(database.CompleteVideo(w.store, a.Id, duration))
}

func (w persistentWriter) check(found bool, err error) error {
	if err != nil {
		return err
	}
	if !found {
		log.Debugf("viewer: record gone before write, nothing saved")
	}
	return nil
}

// previewWriter keeps what a preview may remember in the tab's session, keyed by
// content reference. Everything else is refused.
type previewWriter struct {
	store *database.Store
}

func (w previewWriter) Persistent() bool { return false }

func (w previewWriter) SetFontSize(a *models.Assignment, size int) error {
	a.FontSize = &size
	return database.SetSessionValue(w.store, database.PreviewFontKey(a.Href), strconv.Itoa(size))
}

func (w previewWriter) SaveVideo(a *models.Assignment, _ int, seconds int) error {
	a.VideoTime = &seconds
	return database.SetSessionValue(w.store, database.PreviewVideoKey(a.Href), strconv.Itoa(seconds))
}

func (w previewWriter) CompleteVideo(a *models.Assignment, duration int) error {
	return w.SaveVideo(a, 100, duration)
}

func (previewWriter) SetNotes(*models.Assignment, string) error        { return ErrReadOnly }
func (previewWriter) ToggleComplete(*models.Assignment) error          { return ErrReadOnly }
func (previewWriter) SubmitQuiz(*models.Assignment, int, []*int) error { return ErrReadOnly }

// sessionInt reads an integer session value.
func sessionInt(store *database.Store, key string) (int, bool) {
	raw, ok := database.GetSessionValue(store, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
