package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/foodcodes/pkg/jwtx"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

const SessionCookieName = "session"

// SetSessionCookie stores the session JWT in an HttpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession admits requests carrying a valid session, either as an
// Authorization bearer token or the session cookie.
//
// A bad bearer token gets 401. A missing or invalid cookie redirects to
// loginURL with the original path in "next".
func RequireSession(v jwtx.Verifier, loginURL string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			if authz := r.Header.Get("Authorization"); authz != "" {
				raw, ok := strings.CutPrefix(authz, "Bearer ")
				if !ok {
					writeBearerError(w, "unsupported authorization scheme")
					return
				}
				claims, err := v.Verify(strings.TrimSpace(raw))
				if err != nil {
					log.Warn("session verify failed", "source", "bearer", "err", err)
					writeBearerError(w, "token verification failed")
					return
				}
				next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), claims)))
				return
			}

			c, err := r.Cookie(SessionCookieName)
			if err != nil || c.Value == "" {
				redirectToLogin(w, r, loginURL)
				return
			}
			claims, err := v.Verify(c.Value)
			if err != nil {
				log.Info("session verify failed", "source", "cookie", "err", err)
				redirectToLogin(w, r, loginURL)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), claims)))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, loginURL string) {
	target := loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
	NoCache(w)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
