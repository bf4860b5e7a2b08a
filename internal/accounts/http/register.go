package http

import (
	"net/http"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/pkg/accountsdk"
	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
)

const (
	msgRegistered        = "Please confirm your email to complete registration."
	msgActivated         = "Your account have been activated."
	msgActivationInvalid = "The confirmation link was invalid, possibly because it has already been used."
	msgResent            = "If an account is waiting for activation at that address, a new confirmation email is on its way."
	msgProfileUpdated    = "Account Updated!"
	msgLoggedOut         = "You have been logged out."

	maxFormBytes = 64 << 10
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
	LoginURL            string
}

// ServeHTTP godoc
//
//	@Summary		Register Account
//	@Description	Create an inactive account and email its activation link
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username			formData	string						true	"Desired username"
//	@Param			email				formData	string						true	"Email address"
//	@Param			password			formData	string						true	"Password"
//	@Param			password_confirm	formData	string						true	"Password again"
//	@Success		201					{object}	accountsdk.MessageResponse	"level, message"
//	@Success		303					"Redirect to the login page (non-JSON clients)"
//	@Failure		400					{object}	accountsdk.APIError			"error, error_description, fields"
//	@Failure		502					{object}	accountsdk.APIError			"account created, email not sent"
//	@Failure		500					{object}	accountsdk.APIError			"error, error_description"
//	@Router			/v1/accounts/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		accountsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	in := service.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}

	if _, err := h.RegistrationService.Register(r.Context(), in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.Respond(w, r, http.StatusCreated, httpx.Message{
		Level:   httpx.LevelSuccess,
		Message: msgRegistered,
	}, h.LoginURL)
}
