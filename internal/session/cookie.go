package session

import (
	"net/http"
	"os"
	"strings"
)

const (
	CookieName = "token"
	// SecureCookieName is the __Secure- prefixed twin set alongside the
	// plain cookie; browsers only send it over HTTPS.
	SecureCookieName = "__Secure-token"
)

// cookieDomain is read per call rather than at package init so a DOMAIN
// supplied via .env (loaded in main) is picked up.
func cookieDomain() string {
	return os.Getenv("DOMAIN")
}

func SetCookies(w http.ResponseWriter, token string) {
	for _, name := range []string{CookieName, SecureCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    token,
			Path:     "/",
			Domain:   cookieDomain(),
			MaxAge:   int(TTL.Seconds()),
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteNoneMode,
		})
	}
}

func ClearCookies(w http.ResponseWriter) {
	for _, name := range []string{CookieName, SecureCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   cookieDomain(),
			MaxAge:   -1,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteNoneMode,
		})
	}
}

// TokenFromRequest reads the session token from either cookie name or a
// Bearer authorization header.
func TokenFromRequest(r *http.Request) string {
	for _, name := range []string{SecureCookieName, CookieName} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}
