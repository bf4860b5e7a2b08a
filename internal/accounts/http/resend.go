package http

import (
	"net/http"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/pkg/accountsdk"
	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
)

type ResendHandler struct {
	RegistrationService *service.RegistrationService
	LoginURL            string
}

// ServeHTTP godoc
//
//	@Summary		Resend Activation Email
//	@Description	Send a fresh activation link. The response does not reveal whether the address is registered.
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email	formData	string						true	"Email address used at registration"
//	@Success		202		{object}	accountsdk.MessageResponse	"level, message"
//	@Success		303		"Redirect to the login page (non-JSON clients)"
//	@Failure		400		{object}	accountsdk.APIError			"error, error_description"
//	@Failure		429		{object}	accountsdk.APIError			"rate limit exceeded"
//	@Router			/v1/accounts/activation/resend [post].
func (h *ResendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		accountsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	email := r.PostFormValue("email")
	if email == "" {
		accountsdk.NewValidationError(map[string]string{"email": "This field is required."}).WriteError(w)
		return
	}

	// Failures are logged by the service and otherwise swallowed; the reply
	// must look the same for every address.
	_ = h.RegistrationService.ResendActivation(r.Context(), email)

	httpx.Respond(w, r, http.StatusAccepted, httpx.Message{
		Level:   httpx.LevelInfo,
		Message: msgResent,
	}, h.LoginURL)
}
