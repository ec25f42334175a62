// Package flash carries one-shot notices across a redirect.
//
// Messages ride in a short-lived signed cookie rather than the session so
// that reading them never rewrites the auth cookie. Pop returns and clears
// whatever is pending; handlers call it once per page render.
package flash

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/securecookie"
)

const cookieName = "studybuddy-flash"

// Message kinds, used by templates to pick a banner style.
const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindError   = "error"
)

// Message is a single flash notice.
type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

var codec *securecookie.SecureCookie

// Init configures the cookie codec. Call once at startup with the session
// signing key; tests may call it with any fixed key.
func Init(key []byte) {
	codec = securecookie.New(key, nil)
	codec.MaxAge(300) // flashes older than 5 minutes are stale anyway
}

// Set queues a flash message for the next rendered page.
// It is a no-op when Init has not been called.
func Set(w http.ResponseWriter, kind, text string) {
	if codec == nil {
		return
	}
	msgs := []Message{{Kind: kind, Text: text}}
	payload, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	encoded, err := codec.Encode(cookieName, payload)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})
}

// Pop returns any pending messages and clears the cookie.
func Pop(w http.ResponseWriter, r *http.Request) []Message {
	if codec == nil {
		return nil
	}
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}

	// Clear regardless of decode outcome; a bad cookie should not linger.
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	var payload []byte
	if err := codec.Decode(cookieName, c.Value, &payload); err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(payload, &msgs); err != nil {
		return nil
	}
	return msgs
}
