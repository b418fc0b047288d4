package middlewarectx

import (
	"net/http"
	"time"

	"github.com/nguyenbachduyhoang/cafedaily/internal/lib/jwt"
)

// SetSessionCookie signs the session id and sets it as the session
// cookie.
func SetSessionCookie(w http.ResponseWriter, maker jwt.Maker, cookieName, sessionID string, ttl time.Duration) error {
	signed, err := maker.GenerateToken(sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
