package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/gommon/log"

	"learnhub/database"
	"learnhub/dto"
	"learnhub/internal/render"
	"learnhub/templates/body"
	"learnhub/templates/components/dashboard"
)

// DashboardModel derives the dashboard from a fresh load of the collection.
func DashboardModel(tab *database.Store) dto.Dashboard {
	records := database.LoadAssignments(tab)
	aggregate := database.Aggregate(records, database.GetFallbackProgress(tab))
	return dto.DashboardFromModels(database.Assigned(records), aggregate, database.FallbackAdjustable(records))
}

func HandleDashboard(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	render.RenderWithLayout(w, r, dashboard.Dashboard(DashboardModel(tab)), body.Home)
}

// HandleFallbackStep moves the manual progress by ?steps=n steps.
func HandleFallbackStep(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	steps, err := strconv.Atoi(r.URL.Query().Get("steps"))
	if err != nil {
		http.Error(w, "Invalid steps", http.StatusBadRequest)
		return
	}
	if _, changed, err := database.StepFallbackProgress(tab, steps); err != nil {
		log.Errorf("stepping fallback progress: %v", err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return
	} else if !changed {
		log.Debug("fallback progress locked while assignments exist")
	}
	HandleDashboard(tab, w, r)
}

// HandleAssignmentProgress adds ?delta=n to one record's progress.
func HandleAssignmentProgress(tab *database.Store, id string, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	delta, err := strconv.Atoi(r.URL.Query().Get("delta"))
	if err != nil {
		http.Error(w, "Invalid delta", http.StatusBadRequest)
		return
	}
	if _, err := database.ChangeProgress(tab, id, delta); err != nil {
		log.Errorf("changing progress of %s: %v", id, err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return
	}
	HandleDashboard(tab, w, r)
}

func HandleAssignmentRemove(tab *database.Store, id string, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := database.RemoveAssignment(tab, id); err != nil {
		log.Errorf("removing %s: %v", id, err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return
	}
	log.Infof("🗑 removed assignment %s", id)
	HandleDashboard(tab, w, r)
}
