package http

import (
	"net/http"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
)

type ActivateHandler struct {
	ActivationService *service.ActivationService
	LoginURL          string
}

// ServeHTTP godoc
//
//	@Summary		Activate Account
//	@Description	Follow the link from the activation email. Every kind of failure gets the same response.
//	@Tags			Accounts
//	@Produce		json
//	@Param			uidb64	path		string						true	"Encoded account id"
//	@Param			token	path		string						true	"Activation token"
//	@Success		200		{object}	accountsdk.MessageResponse	"level, message"
//	@Success		303		"Redirect to the login page (non-JSON clients)"
//	@Failure		400		{object}	accountsdk.MessageResponse	"level, message"
//	@Router			/v1/accounts/activate/{uidb64}/{token} [get].
func (h *ActivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	outcome := h.ActivationService.Activate(r.Context(), r.PathValue("uidb64"), r.PathValue("token"))

	if outcome == service.ActivationSucceeded {
		httpx.Respond(w, r, http.StatusOK, httpx.Message{
			Level:   httpx.LevelSuccess,
			Message: msgActivated,
		}, h.LoginURL)
		return
	}

	httpx.Respond(w, r, http.StatusBadRequest, httpx.Message{
		Level:   httpx.LevelError,
		Message: msgActivationInvalid,
	}, h.LoginURL)
}
