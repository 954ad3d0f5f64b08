package render

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/gommon/log"

	"learnhub/templates/views"
)

// IsPartial reports whether the request came from htmx and wants the fragment only.
func IsPartial(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func RenderWithLayout(
	w http.ResponseWriter,
	r *http.Request,
	content templ.Component,
	wrappers ...func(templ.Component) templ.Component,
) {
	RenderStatus(w, r, http.StatusOK, content, wrappers...)
}

// RenderStatus is RenderWithLayout with an explicit status code.
func RenderStatus(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	content templ.Component,
	wrappers ...func(templ.Component) templ.Component,
) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if IsPartial(r) {
		if err := content.Render(r.Context(), w); err != nil {
			log.Errorf("render %s: %v", r.URL.Path, err)
		}
		return
	}

	// Apply wrappers in order
	wrapped := content
	for _, wrap := range wrappers {
		wrapped = wrap(wrapped)
	}

	if err := views.Layout(wrapped).Render(r.Context(), w); err != nil {
		log.Errorf("render %s: %v", r.URL.Path, err)
	}
}

// Redirect navigates the browser: HX-Redirect for htmx requests, a 303 otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, to string) {
	if IsPartial(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
