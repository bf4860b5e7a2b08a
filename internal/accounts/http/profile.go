package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/pkg/accountsdk"
	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

// Multipart parts beyond this are spooled to disk by net/http.
const multipartMemory = 1 << 20

type ProfileHandler struct {
	ProfileService *service.ProfileService
	ProfileURL     string
	MaxUploadBytes int64
}

// HandleGet godoc
//
//	@Summary		Get Profile
//	@Description	Return the logged-in account with its profile and any pending flash notice
//	@Tags			Profile
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	accountsdk.ProfileResponse	"account and profile"
//	@Success		303	"Redirect to the login page when no session cookie is present"
//	@Failure		401	{object}	accountsdk.APIError			"invalid bearer token"
//	@Failure		429	{object}	accountsdk.APIError			"rate limit exceeded"
//	@Router			/v1/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	accountID, ok := httpx.AccountID(r.Context())
	if !ok {
		accountsdk.ErrUnauthorized.WriteError(w)
		return
	}

	view, err := h.ProfileService.Get(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := profileResponse(view)
	if m, ok := httpx.PopFlash(w, r); ok {
		resp.Flash = &accountsdk.MessageResponse{Level: m.Level, Message: m.Message}
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleUpdate godoc
//
//	@Summary		Update Profile
//	@Description	Change username, email and bio, and optionally upload a new avatar
//	@Tags			Profile
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			username	formData	string						true	"Username"
//	@Param			email		formData	string						true	"Email address"
//	@Param			bio			formData	string						false	"Markdown bio"
//	@Param			avatar		formData	file						false	"JPEG, PNG, GIF or WebP image"
//	@Success		200			{object}	accountsdk.MessageResponse	"level, message"
//	@Success		303			"Redirect to the profile page (non-JSON clients)"
//	@Failure		400			{object}	accountsdk.APIError			"error, error_description, fields"
//	@Failure		401			{object}	accountsdk.APIError			"invalid bearer token"
//	@Failure		413			{object}	accountsdk.APIError			"avatar too large"
//	@Failure		415			{object}	accountsdk.APIError			"unsupported avatar format"
//	@Failure		429			{object}	accountsdk.APIError			"rate limit exceeded"
//	@Router			/v1/profile [post].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	accountID, ok := httpx.AccountID(r.Context())
	if !ok {
		accountsdk.ErrUnauthorized.WriteError(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			accountsdk.ErrAvatarTooLarge.WriteError(w)
			return
		}
		log.Debug("failed to parse profile form", "err", err)
		accountsdk.ErrInvalidFormBody.WriteError(w)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	in := service.ProfileInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Bio:      r.PostFormValue("bio"),
	}

	avatar, err := openAvatar(r)
	if err != nil {
		log.Debug("failed to open avatar part", "err", err)
		accountsdk.ErrInvalidFormBody.WriteError(w)
		return
	}
	if avatar != nil {
		defer func() { _ = avatar.Close() }()
		in.Avatar = avatar
	}

	if _, err := h.ProfileService.Update(r.Context(), accountID, in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.Respond(w, r, http.StatusOK, httpx.Message{
		Level:   httpx.LevelSuccess,
		Message: msgProfileUpdated,
	}, h.ProfileURL)
}

// openAvatar returns nil, nil when no file was attached.
func openAvatar(r *http.Request) (multipart.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, hdr, err := r.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if hdr.Size == 0 {
		_ = f.Close()
		return nil, nil
	}
	return f, nil
}

func profileResponse(v service.ProfileView) accountsdk.ProfileResponse {
	return accountsdk.ProfileResponse{
		ID:             v.Account.ID,
		Username:       v.Account.Username,
		Email:          v.Account.Email,
		EmailConfirmed: v.Profile.EmailConfirmed,
		Bio:            v.Profile.Bio,
		BioHTML:        v.BioHTML,
		AvatarURL:      v.AvatarURL(),
		UpdatedAt:      v.UpdatedAt(),
	}
}
