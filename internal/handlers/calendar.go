package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"learnhub/calendar"
	"learnhub/database"
	"learnhub/database/models"
	"learnhub/dto"
	"learnhub/internal/render"
	"learnhub/templates/body"
	"learnhub/templates/components/sessions"
)

// now is swapped in tests.
var now = time.Now

func offsetFrom(r *http.Request) int {
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil {
		return 0
	}
	return offset
}

func renderCalendar(tab *database.Store, w http.ResponseWriter, r *http.Request, fieldErrs []calendar.FieldError) {
	month := calendar.BuildMonth(now(), offsetFrom(r), database.AllSessions(tab))
	render.RenderWithLayout(w, r, sessions.Calendar(month, fieldErrs), body.Home)
}

func HandleCalendar(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	renderCalendar(tab, w, r, nil)
}

// lookupEvent finds the session addressed by ?date=&index=.
func lookupEvent(tab *database.Store, r *http.Request) (models.Session, int, bool) {
	date := r.URL.Query().Get("date")
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		return models.Session{}, 0, false
	}
	ev, ok := calendar.EventAt(database.AllSessions(tab), date, index)
	return ev, index, ok
}

func HandleCalendarEvent(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	ev, index, ok := lookupEvent(tab, r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	render.RenderWithLayout(w, r, sessions.Details(dto.SessionSlotFromModel(ev, index, time.Local)))
}

func HandleCalendarICS(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	ev, _, ok := lookupEvent(tab, r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	payload, err := calendar.ICS(ev, time.Local, now())
	if err != nil {
		log.Warnf("ics export: %v", err)
		http.Error(w, "Invalid session date", http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+calendar.Filename(ev)+`"`)
	w.Write([]byte(payload))
}

// HandleAddAppointment stores a validated appointment; a rejected form stores nothing.
func HandleAddAppointment(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	form := calendar.AppointmentForm{
		Date:     r.FormValue("date"),
		Time:     r.FormValue("time"),
		Subject:  r.FormValue("subject"),
		Tutor:    r.FormValue("tutor"),
		Location: r.FormValue("location"),
	}
	ev, err := form.Session()
	var verr *calendar.ValidationError
	if errors.As(err, &verr) {
		renderCalendar(tab, w, r, verr.Fields)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := database.AddAppointment(tab, ev); err != nil {
		log.Errorf("adding appointment: %v", err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return
	}
	log.Infof("📅 appointment %q on %s %s", ev.Subject, ev.Date, ev.Time)
	renderCalendar(tab, w, r, nil)
}

func HandleRemoveAppointment(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ev, _, ok := lookupEvent(tab, r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	err := database.RemoveAppointment(tab, ev.Date, ev.Subject, ev.Tutor)
	if errors.Is(err, database.ErrBaseAppointment) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<p class="notice">This is a base appointment and cannot be removed.</p>`))
		return
	}
	if err != nil {
		log.Errorf("removing appointment: %v", err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return
	}
	render.Redirect(w, r, "/calendar?"+url.Values{"offset": {strconv.Itoa(offsetFrom(r))}}.Encode())
}
