package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/media"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/pkg/accountsdk"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

type AvatarHandler struct {
	ProfileService *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Get Avatar
//	@Description	Serve a stored avatar. Avatar URLs never change content, so responses are cacheable forever.
//	@Tags			Profile
//	@Produce		png
//	@Param			name	path		string				true	"Account id and file name"
//	@Success		200		{file}		binary				"PNG image"
//	@Failure		404		{object}	accountsdk.APIError	"not found"
//	@Router			/v1/avatars/{name} [get].
func (h *AvatarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, err := h.ProfileService.Avatar(r.Context(), r.PathValue("name"))
	if errors.Is(err, media.ErrNotFound) {
		accountsdk.ErrNotFound.WriteError(w)
		return
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to open avatar", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", media.ContentTypePNG)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
