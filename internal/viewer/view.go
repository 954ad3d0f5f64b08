package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"learnhub/database"
	"learnhub/database/models"
	"learnhub/storage"
)

var (
	ErrNoReference = errors.New("no assignment id or href provided")
	ErrUnavailable = errors.New("content unavailable")
	ErrUnsupported = errors.New("action not supported for this content")
)

// Request selects what the assignment page shows: a stored record by ID, or a
// preview of Href (or of a quiz Title) that is not stored.
type Request struct {
	ID    string
	Href  string
	Title string
}

// Service builds views. It is shared by every browsing context and keeps the
// video save throttle per context and record.
type Service struct {
	Source       storage.Source
	QuizManifest string
	// ContentURL maps a reference onto the URL the browser loads it from.
	ContentURL func(ref string) string
	Now        func() time.Time

	mu        sync.Mutex
	lastSaved map[string]time.Time
}

func NewService(src storage.Source, quizManifest string) *Service {
	return &Service{
		Source:       src,
		QuizManifest: quizManifest,
		ContentURL:   func(ref string) string { return ref },
		Now:          time.Now,
		lastSaved:    make(map[string]time.Time),
	}
}

// Resolve finds or synthesizes the record a request is about.
// A preview picks up the font size and resume time remembered in the tab's session.
func Resolve(tab *database.Store, req Request) (models.Assignment, error) {
	switch {
	case req.ID != "":
		a, err := database.GetAssignment(tab, req.ID)
		if err != nil {
			return models.Assignment{}, errors.Wrapf(err, "assignment %s", req.ID)
		}
		return a, nil

	case req.Href != "" || models.KindOf(req.Title, "") == models.KindQuiz:
		title := req.Title
		if title == "" {
			title = req.Href
		}
		a := models.Assignment{Title: title, Href: req.Href}
		if req.Href != "" {
			if n, ok := sessionInt(tab, database.PreviewFontKey(req.Href)); ok {
				a.FontSize = &n
			}
			if n, ok := sessionInt(tab, database.PreviewVideoKey(req.Href)); ok {
				a.VideoTime = &n
			}
		}
		return a, nil

	default:
		return models.Assignment{}, ErrNoReference
	}
}

// Open resolves req for tab and binds the matching view: mutable for stored
// records, read-only for previews.
func (s *Service) Open(tab *database.Store, req Request, surface Surface) (*View, error) {
	a, err := Resolve(tab, req)
	if err != nil {
		return nil, err
	}
	if a.IsPreview() {
		return s.NewReadOnlyView(tab, a, surface), nil
	}
	return s.NewMutableView(tab, a, surface), nil
}

// View drives one record's strategy against a surface.
type View struct {
	Record  models.Assignment
	Surface Surface

	svc      *Service
	tab      *database.Store
	writer   Writer
	strategy Strategy
	// text is the body currently shown, kept for re-rendering at another size
	text *Text
}

func (s *Service) NewMutableView(tab *database.Store, a models.Assignment, surface Surface) *View {
	return s.newView(tab, a, surface, persistentWriter{store: tab})
}

func (s *Service) NewReadOnlyView(tab *database.Store, a models.Assignment, surface Surface) *View {
	return s.newView(tab, a, surface, previewWriter{store: tab})
}

func (s *Service) newView(tab *database.Store, a models.Assignment, surface Surface, w Writer) *View {
	return &View{
		Record:   a,
		Surface:  surface,
		svc:      s,
		tab:      tab,
		writer:   w,
		strategy: StrategyFor(a.Kind()),
	}
}

// ReadOnly reports whether the view is a preview.
func (v *View) ReadOnly() bool { return !v.writer.Persistent() }

func (v *View) push(mount string, u Update) { v.Surface.Push(mount, u) }

// Render fills every mount for the record. A failed retrieval leaves a notice on
// the content mount and returns ErrUnavailable.
func (v *View) Render(ctx context.Context) error {
	v.push(MountTitle, Title{Text: v.Record.Title})
	v.push(MountAssign, AssignButton{Visible: v.ReadOnly(), Assigned: v.Record.Assigned})
	return v.strategy.Render(ctx, v)
}

func (v *View) showText(t Text) {
	v.text = &t
	v.push(MountContent, t)
}

func (v *View) pushProgress() {
	v.push(MountMeta, Progress{Percent: v.Record.Progress})
}

// ToggleComplete flips the record between done and not started.
func (v *View) ToggleComplete() error {
	if _, ok := v.strategy.(toggler); !ok {
		return ErrUnsupported
	}
	if err := v.writer.ToggleComplete(&v.Record); err != nil {
		return err
	}
	v.pushProgress()
	v.strategy.(toggler).pushControls(v)
	return nil
}

type toggler interface {
	pushControls(v *View)
}

func toggleLabel(progress int) string {
	if progress == 100 {
		return "Mark as Incomplete"
	}
	return "Mark as Done"
}

// Promote assigns the previewed resource, carrying over font size or resume time,
// and returns a mutable view of the stored record.
func (v *View) Promote() (*View, error) {
	if !v.ReadOnly() {
		return v, nil
	}
	base := models.Assignment{Title: v.Record.Title, Href: v.Record.Href}
	switch v.Record.Kind() {
	case models.KindDocument:
		size := documentFontSize(v.Record)
		base.FontSize = &size
	case models.KindVideo:
		base.VideoTime = ResumeAt(v.Record)
	}

	id, err := database.UpsertAssigned(v.tab, base)
	if err != nil {
		return nil, errors.Wrap(err, "promoting preview")
	}
	log.Debugf("viewer: promoted %q to %s", base.Title, id)
	return v.svc.Open(v.tab, Request{ID: id}, v.Surface)
}
