package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"learnhub/database"
	"learnhub/helper"
	"learnhub/internal/render"
	"learnhub/internal/viewer"
	"learnhub/storage"
	"learnhub/templates/body"
	"learnhub/templates/components/assignment"
)

// ContentURL is where the browser loads a reference from.
func ContentURL(ref string) string {
	return "/content?ref=" + url.QueryEscape(ref)
}

func requestFrom(r *http.Request) viewer.Request {
	q := r.URL.Query()
	return viewer.Request{ID: q.Get("id"), Href: q.Get("href"), Title: q.Get("title")}
}

// selector is the query string that selects the same record again.
func selector(req viewer.Request) string {
	if req.ID != "" {
		return url.Values{"id": {req.ID}}.Encode()
	}
	v := url.Values{}
	if req.Href != "" {
		v.Set("href", req.Href)
	}
	if req.Title != "" {
		v.Set("title", req.Title)
	}
	return v.Encode()
}

// openView resolves the request and renders it into a fresh recorder. It writes
// the error response itself and returns nil when the page cannot be shown.
func openView(tab *database.Store, svc *viewer.Service, w http.ResponseWriter, r *http.Request) (*viewer.View, *viewer.Recorder) {
	rec := viewer.NewRecorder()
	view, err := svc.Open(tab, requestFrom(r), rec)
	switch {
	case errors.Is(err, database.ErrNotFound):
		render.RenderStatus(w, r, http.StatusNotFound, body.NotFound("Assignment not found", "Assignment ID not found."), body.Home)
		return nil, nil
	case errors.Is(err, viewer.ErrNoReference):
		render.RenderStatus(w, r, http.StatusNotFound, body.NotFound("Assignment not found", "No assignment id or href provided."), body.Home)
		return nil, nil
	case err != nil:
		log.Errorf("opening assignment: %v", err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return nil, nil
	}

	if err := view.Render(r.Context()); err != nil {
		if !errors.Is(err, viewer.ErrUnavailable) {
			log.Errorf("rendering %q: %v", view.Record.Title, err)
			http.Error(w, "Render error", http.StatusInternalServerError)
			return nil, nil
		}
		log.Debugf("⚠️ %v", err)
	}
	return view, rec
}

func HandleAssignment(tab *database.Store, svc *viewer.Service, w http.ResponseWriter, r *http.Request) {
	view, rec := openView(tab, svc, w, r)
	if view == nil {
		return
	}
	if to, ok := viewer.Last[viewer.Redirect](rec, viewer.MountContent); ok {
		render.Redirect(w, r, to.To)
		return
	}
	render.RenderWithLayout(w, r, assignment.Page(rec, selector(requestFrom(r))), body.Home)
}

// HandleAssignmentAction runs one interaction on the assignment page and re-renders it.
func HandleAssignmentAction(tab *database.Store, svc *viewer.Service, action string, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if action == "video" {
		handleVideoEvent(tab, svc, w, r)
		return
	}

	view, rec := openView(tab, svc, w, r)
	if view == nil {
		return
	}

	var err error
	switch action {
	case "font":
		delta, convErr := strconv.Atoi(r.URL.Query().Get("delta"))
		if convErr != nil {
			http.Error(w, "Invalid delta", http.StatusBadRequest)
			return
		}
		_, err = view.AdjustFont(delta)

	case "notes":
		err = view.SaveNotes(r.PostFormValue("notes"))

	case "toggle":
		err = view.ToggleComplete()

	case "quiz":
		form, _ := viewer.Last[viewer.QuizForm](rec, viewer.MountContent)
		raw := make([]string, len(form.Questions))
		for i := range raw {
			raw[i] = r.PostFormValue(fmt.Sprintf("q%d", i))
		}
		answers, convErr := helper.OptionalInts(raw...)
		if convErr != nil {
			http.Error(w, "Invalid answer", http.StatusBadRequest)
			return
		}
		_, err = view.SubmitQuiz(r.Context(), answers)

	case "promote":
		promoted, err := view.Promote()
		if err != nil {
			log.Errorf("promoting %q: %v", view.Record.Title, err)
			http.Error(w, "Server database error", http.StatusInternalServerError)
			return
		}
		render.Redirect(w, r, "/assignment?"+selector(viewer.Request{ID: promoted.Record.Id}))
		return

	default:
		http.NotFound(w, r)
		return
	}

	switch {
	case errors.Is(err, viewer.ErrReadOnly):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, viewer.ErrUnsupported):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("assignment %s: %v", action, err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return
	}
	render.RenderWithLayout(w, r, assignment.Page(rec, selector(requestFrom(r))), body.Home)
}

type videoReply struct {
	Saved bool    `json:"saved"`
	Seek  bool    `json:"seek"`
	At    float64 `json:"at"`
}

// handleVideoEvent takes the player's metadata, tick, pause and ended events.
func handleVideoEvent(tab *database.Store, svc *viewer.Service, w http.ResponseWriter, r *http.Request) {
	view, err := svc.Open(tab, requestFrom(r), viewer.NewRecorder())
	if err != nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}
	current, _ := strconv.ParseFloat(r.PostFormValue("current"), 64)
	duration, _ := strconv.ParseFloat(r.PostFormValue("duration"), 64)

	var reply videoReply
	switch r.PostFormValue("event") {
	case "metadata":
		reply.At, reply.Seek = viewer.SeekTarget(viewer.ResumeAt(view.Record), duration)
	case "tick":
		reply.Saved, err = view.VideoTick(current, duration)
	case "pause":
		err = view.VideoPause(current, duration)
		reply.Saved = err == nil
	case "ended":
		err = view.VideoEnded(duration)
		reply.Saved = err == nil
	default:
		http.Error(w, "Unknown event", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("video event: %v", err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply)
}

// HandleContent serves a reference from the content source to the browser.
func HandleContent(src storage.Source, w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		http.NotFound(w, r)
		return
	}
	resp, err := src.Fetch(r.Context(), ref)
	if err != nil {
		log.Warnf("content %s: %v", ref, err)
		http.Error(w, "Content unavailable", http.StatusBadGateway)
		return
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	if !resp.OK() {
		w.WriteHeader(resp.StatusCode)
		w.Write(resp.Body)
		return
	}
	http.ServeContent(w, r, path.Base(ref), time.Time{}, bytes.NewReader(resp.Body))
}
