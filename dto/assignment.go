package dto

import (
	"net/url"

	"learnhub/database/models"
)

type Assignment struct {
	Id         string
	Title      string
	Href       string
	Kind       models.Kind
	Progress   int
	Completed  bool
	AssignedAt string // Formatted as "2025-09-30"
	OpenURL    string
}

type Dashboard struct {
	Aggregate   int
	Completed   bool
	Adjustable  bool // fallback +/- buttons enabled
	Assignments []Assignment
}

func AssignmentFromModel(a models.Assignment) Assignment {
	dto := Assignment{
		Id:        a.Id,
		Title:     a.Title,
		Href:      a.Href,
		Kind:      a.Kind(),
		Progress:  a.Progress,
		Completed: a.Progress == 100,
		OpenURL:   "/assignment?id=" + url.QueryEscape(a.Id),
	}
	if a.AssignedAt != nil {
		dto.AssignedAt = a.AssignedAt.Format("2006-01-02")
	}
	return dto
}

func AssignmentFromModels(list []models.Assignment) []Assignment {
	result := make([]Assignment, len(list))
	for i, a := range list {
		result[i] = AssignmentFromModel(a)
	}
	return result
}

// DashboardFromModels maps the assigned records; aggregate and adjustable are
// derived by the caller from the full collection.
func DashboardFromModels(assigned []models.Assignment, aggregate int, adjustable bool) Dashboard {
	return Dashboard{
		Aggregate:   aggregate,
		Completed:   aggregate == 100,
		Adjustable:  adjustable,
		Assignments: AssignmentFromModels(assigned),
	}
}
