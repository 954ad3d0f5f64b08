package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/gommon/log"

	"learnhub/database"
	"learnhub/database/models"
	"learnhub/dto"
	"learnhub/internal/render"
	"learnhub/storage"
	"learnhub/templates/body"
	"learnhub/templates/components/resources"
)

// CatalogRef is where the resources listing is read from.
const CatalogRef = "data/resources.json"

// LoadCatalog reads the listing; an unreadable catalog lists nothing.
func LoadCatalog(ctx context.Context, src storage.Source) []models.Resource {
	resp, err := src.Fetch(ctx, CatalogRef)
	if err != nil || !resp.OK() {
		log.Warnf("catalog %s unavailable (status %d): %v", CatalogRef, resp.StatusCode, err)
		return []models.Resource{}
	}
	var list []models.Resource
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		log.Warnf("catalog %s malformed: %v", CatalogRef, err)
		return []models.Resource{}
	}
	return list
}

func HandleResources(tab *database.Store, src storage.Source, w http.ResponseWriter, r *http.Request) {
	records := database.LoadAssignments(tab)
	list := dto.ResourceFromModels(LoadCatalog(r.Context(), src), func(title, href string) bool {
		return database.IsAssigned(records, title, href)
	})
	render.RenderWithLayout(w, r, resources.Resources(list), body.Home)
}

// HandleAssign attaches a listed resource to the dashboard. Repeated clicks keep one record.
func HandleAssign(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res := models.Resource{Title: r.FormValue("title"), Href: r.FormValue("href")}
	if res.Title == "" {
		http.Error(w, "Missing title", http.StatusBadRequest)
		return
	}
	id, err := database.UpsertAssigned(tab, models.Assignment{Title: res.Title, Href: res.Href})
	if err != nil {
		log.Errorf("assigning %q: %v", res.Title, err)
		http.Error(w, "Server database error", http.StatusInternalServerError)
		return
	}
	log.Infof("📌 assigned %q as %s", res.Title, id)
	render.RenderWithLayout(w, r, resources.Item(dto.ResourceFromModel(res, true)))
}
