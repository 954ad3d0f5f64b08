package viewer

import (
	"reflect"
	"sync"
)

// Mount points of the assignment page.
const (
	MountTitle    = "assignment-title"
	MountMeta     = "assignment-meta"
	MountContent  = "assignment-content"
	MountToolbar  = "assignment-toolbar"
	MountControls = "assignment-controls"
	MountAssign   = "assign-to-dashboard"
)

// Surface receives structured view updates addressed to named mount points.
// It owns layout; strategies only say what each mount shows.
type Surface interface {
	Push(mount string, u Update)
}

// Update is one of the types below.
type Update interface {
	update()
}

type Title struct{ Text string }

type Progress struct{ Percent int }

// Notice is a plain message in place of content.
type Notice struct{ Message string }

// Text is fetched raw text shown preformatted.
type Text struct {
	Body     string
	FontSize int
}

// FontControls are the text size buttons of the toolbar.
type FontControls struct {
	Size     int
	Min, Max int
}

// Embed shows a resource as-is, e.g. a pdf.
type Embed struct{ Src string }

type Player struct {
	Src      string
	ResumeAt int
}

type Redirect struct{ To string }

// Controls is the bottom control row. Notes is nil when no notes editor is shown.
type Controls struct {
	Notes  *string
	Toggle string // "Mark as Done" / "Mark as Incomplete"; empty hides the button
	Info   string
}

type AssignButton struct {
	Visible  bool
	Assigned bool
}

type QuizForm struct {
	Questions []QuestionView
	Disabled  bool
	Gradable  bool
}

type QuestionView struct {
	Prompt   string
	Choices  []string
	Selected *int
}

type Mark string

const (
	MarkCorrect    Mark = "Correct"
	MarkWrong      Mark = "Try again"
	MarkUnanswered Mark = "Select an answer."
)

type QuizResult struct {
	Marks []Mark
	Score int
	Total int
}

func (Title) update()        {}
func (Progress) update()     {}
func (Notice) update()       {}
func (Text) update()         {}
func (FontControls) update() {}
func (Embed) update()        {}
func (Player) update()       {}
func (Redirect) update()     {}
func (Controls) update()     {}
func (AssignButton) update() {}
func (QuizForm) update()     {}
func (QuizResult) update()   {}

// Pushed is one recorded update.
type Pushed struct {
	Mount  string
	Update Update
}

// Recorder is a Surface that keeps every update, and the latest per mount and type.
type Recorder struct {
	mu     sync.Mutex
	log    []Pushed
	latest map[string][]Update
}

func NewRecorder() *Recorder {
	return &Recorder{latest: make(map[string][]Update)}
}

func (r *Recorder) Push(mount string, u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, Pushed{Mount: mount, Update: u})

	// one slot per update type and mount; a newer update of the same type replaces it
	slots := r.latest[mount]
	for i, old := range slots {
		if sameType(old, u) {
			slots[i] = u
			return
		}
	}
	r.latest[mount] = append(slots, u)
}

// Mount returns the current updates of a mount in first-push order.
func (r *Recorder) Mount(mount string) []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.latest[mount]...)
}

func (r *Recorder) Updates() []Pushed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Pushed(nil), r.log...)
}

// Reset drops the updates of a mount, for strategies that rebuild it.
func (r *Recorder) Reset(mount string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.latest, mount)
}

// Last returns the latest update of type T on mount.
func Last[T Update](r *Recorder, mount string) (T, bool) {
	for _, u := range r.Mount(mount) {
		if t, ok := u.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func sameType(a, b Update) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}
