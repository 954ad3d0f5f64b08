package dto

import (
	"net/url"

	"learnhub/database/models"
)

// Resource is one entry of the resources listing with its assign button state.
type Resource struct {
	Title      string
	Href       string
	Assigned   bool
	PreviewURL string // empty when there is nothing to preview
}

func ResourceFromModel(r models.Resource, assigned bool) Resource {
	res := Resource{Title: r.Title, Href: r.Href, Assigned: assigned}
	switch {
	case r.Href != "":
		res.PreviewURL = "/assignment?" + url.Values{"href": {r.Href}, "title": {r.Title}}.Encode()
	case models.KindOf(r.Title, "") == models.KindQuiz:
		res.PreviewURL = "/assignment?" + url.Values{"title": {r.Title}}.Encode()
	}
	return res
}

// ResourceFromModels marks each resource assigned when isAssigned says so.
func ResourceFromModels(list []models.Resource, isAssigned func(title, href string) bool) []Resource {
	result := make([]Resource, len(list))
	for i, r := range list {
		result[i] = ResourceFromModel(r, isAssigned(r.Title, r.Href))
	}
	return result
}
