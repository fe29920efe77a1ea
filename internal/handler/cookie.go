package handler

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	Secure bool
}

func (cc CookieConfig) session(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: cc.sameSite(),
	}
}

func (cc CookieConfig) expired() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: cc.sameSite(),
	}
}

// sameSite allows cross-site delivery only on Secure cookies; browsers reject
// SameSite=None without Secure.
func (cc CookieConfig) sameSite() http.SameSite {
	if cc.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
