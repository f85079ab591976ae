package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func generateSessionId() int {
	return int(time.Now().UnixNano())
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId int) {
	http.SetCookie(w, &http.Cookie{
		Name:     "sid",
		Value:    fmt.Sprintf("%d", sessionId),
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteNoneMode,
		HttpOnly: true,
		MaxAge:   2592000,
		Path:     "/",
	})
}

// HandleSessionCookie reads or assigns the sid cookie used to attribute
// interaction events to a browser session.
func HandleSessionCookie(trk SessionTracker, w http.ResponseWriter, r *http.Request) int {
	sessionId := generateSessionId()
	c, err := r.Cookie("sid")
	if err != nil {
		if trk != nil {
			go trk.TrackSession(sessionId, r)
		}
		setSessionCookie(w, r, sessionId)
	} else if parsed, err := strconv.Atoi(c.Value); err == nil {
		sessionId = parsed
	} else {
		// malformed cookie, keep the fresh id so clients never share one
		setSessionCookie(w, r, sessionId)
	}
	return sessionId
}
