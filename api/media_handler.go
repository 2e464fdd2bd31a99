package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/services"
)

const (
	// multipart parts above this are spooled to disk
	multipartMemory = 32 << 20
	// files accepted in one upload request
	maxFilesPerUpload = 20
	// part headers and plain form fields
	multipartOverhead = 1 << 20

	actionSetMain = "setMain"
)

type mediaHandler struct {
	responder Responder
	logger    zerolog.Logger
	media     *services.MediaService
	projects  *services.ProjectService
}

func newMediaHandler(media *services.MediaService, projects *services.ProjectService) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder: NewResponder(logger),
		logger:    logger,
		media:     media,
		projects:  projects,
	}
}

// maxRequestBytes caps an upload request at a full batch of files at the per-file limit.
func (h mediaHandler) maxRequestBytes() int64 {
	return maxFilesPerUpload*h.media.UploadLimit() + multipartOverhead
}

func (h mediaHandler) limitMB() int {
	return int(h.media.UploadLimit() >> 20)
}

// uploadMedia ingests a batch of image and video files into a project
// @Summary Upload project media
// @Description Uploads 1..20 files (multipart field "files"). Files over 25MB are streamed, files over 100MB are rejected.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param files formData file true "Images or videos"
// @Param isMain formData bool false "Mark the first uploaded file as main"
// @Success 200 {object} map[string]interface{} "Uploaded records and per-file errors"
// @Failure 400 {object} ErrorResponse "No files, oversized files or only invalid files"
// @Failure 401 {object} ErrorResponse "Not signed in"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse "Every upload failed"
// @Router /projects/{projectID}/upload [post]
func (h mediaHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("Invalid project ID"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes())
		files, markFirstAsMain, cleanup, err := h.readUploadForm(r)
		defer cleanup()
		if err != nil {
			h.logger.Warn().Err(err).Msg("failed to read upload form")
			h.responder.WriteError(w, err)
			return
		}
		if r.URL.Query().Get("isMain") == "true" {
			markFirstAsMain = true
		}

		result, err := h.media.IngestUploads(r.Context(), projectID, files, markFirstAsMain)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		data := map[string]any{"uploadedFiles": result.Uploaded}
		if len(result.Errors) > 0 {
			data["errors"] = result.Errors
		}
		h.responder.WriteSuccess(w, http.StatusOK,
			fmt.Sprintf("Successfully uploaded %d files", len(result.Uploaded)), data, nil)
	}
}

// readUploadForm walks the multipart body one part at a time. Files over the
// upload limit are drained and kept with their size but no body, so the size
// policy reports them by name. The returned func removes spooled files.
func (h mediaHandler) readUploadForm(r *http.Request) ([]services.UploadFile, bool, func(), error) {
	var (
		files    []services.UploadFile
		releases []func()
		isMain   bool
	)
	cleanup := func() {
		for _, release := range releases {
			release()
		}
	}

	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, false, cleanup, nil
	}
	if err != nil {
		return nil, false, cleanup, errs.NewBadRequestErrorWithDetails("Invalid form data", err.Error())
	}

	limit := h.media.UploadLimit()
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false, cleanup, h.uploadFormError(err, nil)
		}

		switch {
		case part.FormName() == "files" && part.FileName() != "":
			if len(files) == maxFilesPerUpload {
				part.Close()
				return nil, false, cleanup, errs.NewBadRequestErrorWithField(
					fmt.Sprintf("Too many files. At most %d files per upload.", maxFilesPerUpload), "files", "")
			}
			f, release, err := spoolPart(part, limit)
			releases = append(releases, release)
			if err != nil {
				part.Close()
				return nil, false, cleanup, h.uploadFormError(err, &f)
			}
			files = append(files, f)
		case part.FormName() == "isMain":
			raw, err := io.ReadAll(io.LimitReader(part, 16))
			if err != nil {
				part.Close()
				return nil, false, cleanup, h.uploadFormError(err, nil)
			}
			isMain = strings.TrimSpace(string(raw)) == "true"
		}
		part.Close()
	}
	return files, isMain, cleanup, nil
}

// uploadFormError turns a body over the request cap into the file-size error.
func (h mediaHandler) uploadFormError(err error, current *services.UploadFile) error {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return errs.NewBadRequestErrorWithDetails("Invalid form data", err.Error())
	}
	if current != nil && current.Filename != "" {
		return errs.NewFilesTooLargeError([]string{current.Describe()}, h.limitMB())
	}
	return errs.NewUploadTooLargeError(maxFilesPerUpload, h.limitMB())
}

// spoolPart copies one file part into memory, or a temp file once it outgrows
// multipartMemory. A part over limit is drained and returned without a body.
func spoolPart(part *multipart.Part, limit int64) (services.UploadFile, func(), error) {
	f := services.UploadFile{
		Filename:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
	}
	release := func() {}

	inMemory := min(int64(multipartMemory), limit)
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, part, inMemory+1)
	f.Size = n
	if err != nil && !errors.Is(err, io.EOF) {
		return f, release, err
	}
	if n <= inMemory {
		f.Body = bytes.NewReader(buf.Bytes())
		return f, release, nil
	}
	if n > limit {
		return drainPart(part, f, release)
	}

	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return f, release, err
	}
	release = func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return f, release, err
	}
	rest, err := io.CopyN(tmp, part, limit-n+1)
	f.Size += rest
	if err != nil && !errors.Is(err, io.EOF) {
		return f, release, err
	}
	if f.Size > limit {
		release()
		return drainPart(part, f, func() {})
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return f, release, err
	}
	f.Body = tmp
	return f, release, nil
}

// drainPart discards the rest of an oversized part while counting its size.
func drainPart(part *multipart.Part, f services.UploadFile, release func()) (services.UploadFile, func(), error) {
	rest, err := io.Copy(io.Discard, part)
	f.Size += rest
	f.Body = nil
	return f, release, err
}

type youTubeRequest struct {
	YouTubeURL string `json:"youtubeUrl"`
	IsMain     bool   `json:"isMain"`
}

// addYouTubeVideo links a YouTube video to a project
// @Summary Add YouTube video
// @Description Adds a video element pointing at YouTube; no bytes are uploaded
// @Tags Media
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param body body youTubeRequest true "Video link"
// @Success 200 {object} map[string]interface{} "Created video element"
// @Failure 400 {object} ErrorResponse "Missing or unrecognised URL"
// @Failure 401 {object} ErrorResponse "Not signed in"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /projects/{projectID}/youtube [post]
func (h mediaHandler) addYouTubeVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req youTubeRequest
		if !h.responder.decodeJSON(w, r, &req) {
			return
		}
		if req.YouTubeURL == "" {
			h.responder.WriteValidationError(w, "youtubeUrl", "YouTube URL is required")
			return
		}

		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("Invalid project ID"))
			return
		}

		video, err := h.media.IngestExternalVideoLink(r.Context(), projectID, req.YouTubeURL, req.IsMain)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "YouTube video added successfully", map[string]any{
			"video":     video,
			"projectId": projectID,
		}, nil)
	}
}

type mediaActionRequest struct {
	Action string `json:"action"`
}

// updateMedia applies an action to one media element. The only action is "setMain".
// @Summary Update media
// @Tags Media
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param mediaID path string true "Media ID" format(uuid)
// @Param body body mediaActionRequest true "Action"
// @Success 200 {object} map[string]interface{} "mainImage or mainVideo"
// @Failure 400 {object} ErrorResponse "Invalid ids or action"
// @Failure 404 {object} ErrorResponse "Project or media not found"
// @Router /projects/{projectID}/media/{mediaID} [patch]
func (h mediaHandler) updateMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, mediaID, ok := h.mediaIDs(w, r)
		if !ok {
			return
		}

		var req mediaActionRequest
		if !h.responder.decodeJSON(w, r, &req) {
			return
		}

		if req.Action != actionSetMain {
			// a missing project still wins over a bad action
			if _, err := h.projects.Get(r.Context(), projectID); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteValidationError(w, "action", "Invalid action")
			return
		}

		media, err := h.media.SetMain(r.Context(), projectID, mediaID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if media.IsVideo() {
			h.responder.WriteSuccess(w, http.StatusOK, "Main video set successfully", nil, map[string]any{
				"mainVideo": media,
				"projectId": projectID,
			})
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Main image set successfully", nil, map[string]any{
			"mainImage": media,
			"projectId": projectID,
		})
	}
}

// deleteMedia removes one media element from a project. The stored file is kept.
// @Summary Delete media
// @Tags Media
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param mediaID path string true "Media ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Deleted media id"
// @Failure 400 {object} ErrorResponse "Invalid ids"
// @Failure 404 {object} ErrorResponse "Project or media not found"
// @Router /projects/{projectID}/media/{mediaID} [delete]
func (h mediaHandler) deleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, mediaID, ok := h.mediaIDs(w, r)
		if !ok {
			return
		}

		if _, err := h.media.DeleteMedia(r.Context(), projectID, mediaID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "Media deleted successfully", nil, map[string]any{
			"deletedMediaId": mediaID,
			"projectId":      projectID,
		})
	}
}

func (h mediaHandler) mediaIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	mediaID := chi.URLParam(r, "mediaID")
	if err == nil {
		_, err = uuid.Parse(mediaID)
	}
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("Invalid project ID or media ID"))
		return uuid.Nil, "", false
	}
	return projectID, mediaID, true
}
