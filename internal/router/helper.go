package router

import (
	"net/http"

	"learnhub/database"
	"learnhub/internal/handlers"
)

// tabFor returns the browsing context of the request, starting a session when
// the cookie is missing.
func tabFor(store *database.Store, w http.ResponseWriter, r *http.Request) *database.Store {
	if cookie, err := r.Cookie(handlers.SessionCookie); err == nil && cookie.Value != "" {
		return store.Tab(cookie.Value)
	}
	sessionID := database.GenerateSession()
	http.SetCookie(w, &http.Cookie{
		Name:     handlers.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // set true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	})
	return store.Tab(sessionID)
}
