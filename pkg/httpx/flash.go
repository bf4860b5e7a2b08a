package httpx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const FlashCookieName = "flash"

// Flash levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// Message is a one-shot user-facing notice.
type Message struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SetFlash stores m in a short-lived cookie for the next page to render.
func SetFlash(w http.ResponseWriter, m Message) {
	b, _ := json.Marshal(m)
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the flash cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) (Message, bool) {
	c, err := r.Cookie(FlashCookieName)
	if err != nil {
		return Message{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: FlashCookieName, Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Message{}, false
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil || m.Message == "" {
		return Message{}, false
	}
	return m, true
}

// Respond delivers m as JSON when the client asks for it, otherwise as a
// flash cookie plus a 303 to redirectTo.
func Respond(w http.ResponseWriter, r *http.Request, code int, m Message, redirectTo string) {
	if WantsJSON(r) {
		WriteJSON(w, code, m)
		return
	}
	SetFlash(w, m)
	NoCache(w)
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}
