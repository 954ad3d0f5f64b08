package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"

	"learnhub/database"
)

const heartbeat = 25 * time.Second

type changeEvent struct {
	Key    string `json:"key"`
	Remote bool   `json:"remote"`
}

// HandleEvents streams change notifications of the persistent store to the browser
// as server-sent "change" events until the client goes away.
func HandleEvents(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	// subscribed before the headers go out, so a connected client misses nothing
	changes := make(chan database.Change, 16)
	unsubscribe := tab.OnChange(func(c database.Change) {
		select {
		case changes <- c:
		default:
			// a slow client misses signals, not state: it reloads on the next one
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case c := <-changes:
			data, err := json.Marshal(changeEvent{Key: c.Key, Remote: c.Remote})
			if err != nil {
				log.Errorf("encoding change: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// HandleSessionEnd drops the tab's session values and its cookie.
func HandleSessionEnd(tab *database.Store, w http.ResponseWriter, r *http.Request) {
	if err := database.EndSession(tab); err != nil {
		log.Errorf("ending session: %v", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("HX-Redirect", "/dashboard")
	w.WriteHeader(http.StatusOK)
}

// SessionCookie carries the browsing context id.
const SessionCookie = "session_id"
