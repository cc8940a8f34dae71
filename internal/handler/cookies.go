package handler

import (
	"net/http"
	"time"

	"learnhub/internal/middleware"
	"learnhub/internal/model"
)

const refreshTokenCookie = "refresh_token"

// CookieManager arms and clears the token-pair cookies. Both are
// HttpOnly; Secure is off only for local development.
type CookieManager struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
}

func NewCookieManager(accessTTL, refreshTTL time.Duration, secure bool) *CookieManager {
	return &CookieManager{accessTTL: accessTTL, refreshTTL: refreshTTL, secure: secure}
}

func (c *CookieManager) Set(w http.ResponseWriter, pair *model.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(c.accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(c.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *CookieManager) Clear(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
