package router

import (
	"net/http"
	"strings"

	"github.com/labstack/gommon/log"

	"learnhub/database"
	"learnhub/internal/handlers"
	"learnhub/internal/viewer"
)

func Router(store *database.Store, svc *viewer.Service, w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")
	tab := tabFor(store, w, r)

	log.Debugf("🔎 %s %v", r.Method, parts)

	switch parts[0] {
	case "":
		http.Redirect(w, r, "/dashboard", http.StatusFound)

	case "dashboard":
		switch {
		case len(parts) == 1:
			handlers.HandleDashboard(tab, w, r)
		case len(parts) == 2 && parts[1] == "progress":
			handlers.HandleFallbackStep(tab, w, r)
		case len(parts) == 4 && parts[1] == "assignments" && parts[3] == "progress":
			handlers.HandleAssignmentProgress(tab, parts[2], w, r)
		case len(parts) == 4 && parts[1] == "assignments" && parts[3] == "remove":
			handlers.HandleAssignmentRemove(tab, parts[2], w, r)
		default:
			http.NotFound(w, r)
		}

	case "resources":
		switch {
		case len(parts) == 1:
			handlers.HandleResources(tab, svc.Source, w, r)
		case len(parts) == 2 && parts[1] == "assign":
			handlers.HandleAssign(tab, w, r)
		default:
			http.NotFound(w, r)
		}

	case "assignment":
		switch len(parts) {
		case 1:
			handlers.HandleAssignment(tab, svc, w, r)
		case 2:
			handlers.HandleAssignmentAction(tab, svc, parts[1], w, r)
		default:
			http.NotFound(w, r)
		}

	case "calendar":
		if len(parts) == 1 {
			handlers.HandleCalendar(tab, w, r)
			return
		}
		switch parts[1] {
		case "event":
			handlers.HandleCalendarEvent(tab, w, r)
		case "ics":
			handlers.HandleCalendarICS(tab, w, r)
		case "appointments":
			handlers.HandleAddAppointment(tab, w, r)
		case "remove":
			handlers.HandleRemoveAppointment(tab, w, r)
		default:
			http.NotFound(w, r)
		}

	case "content":
		handlers.HandleContent(svc.Source, w, r)

	case "events":
		handlers.HandleEvents(tab, w, r)

	case "session":
		if len(parts) == 2 && parts[1] == "end" && r.Method == http.MethodPost {
			handlers.HandleSessionEnd(tab, w, r)
			return
		}
		http.NotFound(w, r)

	default:
		http.NotFound(w, r)
	}
}
