package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/pkg/accountsdk"
	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

type SessionHandler struct {
	SessionService *service.SessionService
	ProfileURL     string
	LoginURL       string
	SecureCookies  bool
}

// HandleLogin godoc
//
//	@Summary		Log In
//	@Description	Exchange username and password for a session token. The token is also set as an HttpOnly cookie.
//	@Description	Accounts that have not been activated are refused like a wrong password.
//	@Tags			Sessions
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string					true	"Username"
//	@Param			password	formData	string					true	"Password"
//	@Param			next		query		string					false	"Local path to return to (non-JSON clients)"
//	@Success		200			{object}	accountsdk.LoginResponse	"access_token, token_type, expires_in"
//	@Success		303			"Redirect to next or the profile page (non-JSON clients)"
//	@Failure		400			{object}	accountsdk.APIError		"error, error_description"
//	@Failure		401			{object}	accountsdk.APIError		"invalid credentials"
//	@Failure		429			{object}	accountsdk.APIError		"rate limit exceeded"
//	@Router			/v1/sessions [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		accountsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		accountsdk.ErrInvalidCredentials.WriteError(w)
		return
	}

	sess, err := h.SessionService.Login(r.Context(), username, password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, sess.Token, sess.ExpiresIn, h.SecureCookies)

	if !httpx.WantsJSON(r) {
		httpx.NoCache(w)
		http.Redirect(w, r, safeNext(r.URL.Query().Get("next"), h.ProfileURL), http.StatusSeeOther)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.LoginResponse{
		AccessToken: sess.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(sess.ExpiresIn.Seconds()),
	})
}

// HandleLogout godoc
//
//	@Summary		Log Out
//	@Description	Clear the session cookie. Session tokens are stateless and stay valid until they expire.
//	@Tags			Sessions
//	@Success		204	"No Content"
//	@Success		303	"Redirect to the login page (non-JSON clients)"
//	@Router			/v1/sessions/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w, h.SecureCookies)
	slogx.FromContext(r.Context()).Debug("session cookie cleared")

	if httpx.WantsJSON(r) {
		httpx.NoCache(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httpx.Respond(w, r, http.StatusNoContent, httpx.Message{
		Level:   httpx.LevelInfo,
		Message: msgLoggedOut,
	}, h.LoginURL)
}

// safeNext only accepts local absolute paths, so the login form cannot be
// used as an open redirect.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
