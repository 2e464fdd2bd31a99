package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type profileHandler struct {
	responder Responder
	logger    zerolog.Logger
	profiles  *services.ProfileService
}

func newProfileHandler(profiles *services.ProfileService) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		profiles:  profiles,
	}
}

// getProfile returns the site owner's profile
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Success 200 {object} map[string]interface{} "Profile"
// @Router /profile [get]
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.profiles.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", profile, nil)
	}
}

// updateProfile overwrites the fields present in the body
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param body body services.ProfileInput true "Fields to change"
// @Success 200 {object} map[string]interface{} "Updated profile"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /profile [put]
func (h profileHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ProfileInput
		if !h.responder.decodeJSON(w, r, &in) {
			return
		}

		profile, err := h.profiles.Update(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "Profile updated successfully", profile, nil)
	}
}

type avatarStoreData struct {
	StoreID   string `json:"storeId"`
	SecureURL string `json:"secureUrl"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Format    string `json:"format,omitempty"`
}

// uploadAvatar stores a new profile picture
// @Summary Upload avatar
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Image, at most 5MB"
// @Success 200 {object} map[string]interface{} "New avatar URL"
// @Failure 400 {object} ErrorResponse "Missing, oversized or non-image file"
// @Router /profile/avatar [post]
func (h profileHandler) uploadAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, services.MaxAvatarSize+multipartMemory)
		err := r.ParseMultipartForm(multipartMemory)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteValidationError(w, "avatar", "Avatar file too large. Maximum size is 5MB.")
				return
			}
			h.responder.WriteError(w, errs.NewBadRequestErrorWithDetails("Invalid form data", err.Error()))
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		files, closeFiles, err := formFiles(r, "avatar")
		defer closeFiles()
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithDetails("Invalid form data", err.Error()))
			return
		}

		var avatar *services.UploadFile
		if len(files) > 0 {
			avatar = &files[0]
		}

		profile, desc, err := h.profiles.UploadAvatar(r.Context(), avatar)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "Avatar uploaded successfully", map[string]any{
			"avatar": profile.Avatar,
			"storeData": avatarStoreData{
				StoreID:   desc.StoreID,
				SecureURL: desc.SecureURL,
				Width:     desc.Width,
				Height:    desc.Height,
				Format:    desc.Format,
			},
		}, nil)
	}
}

// formFiles opens every file of a parsed multipart field. The returned func closes them.
func formFiles(r *http.Request, field string) ([]services.UploadFile, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	if r.MultipartForm == nil {
		return nil, closeAll, nil
	}

	headers := r.MultipartForm.File[field]
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		files = append(files, services.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return files, closeAll, nil
}
