package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/dvstream/catalog/internal/imagehost"
)

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	host := s.app.ImageHost()
	if host == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	maxBytes := s.app.Config().Upload.MaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			RespondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		RespondWithError(w, http.StatusBadRequest, "No file uploaded.")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	data, mimeType, err := imagehost.Prepare(data, s.app.Config().Upload.MaxWidth)
	if err != nil {
		if errors.Is(err, imagehost.ErrNotImage) {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		RespondWithError(w, http.StatusBadRequest, "Invalid image")
		return
	}

	url, err := host.Upload(r.Context(), bytes.NewReader(data))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("mime", mimeType).Msg("Image upload failed")
		RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	host := s.app.ImageHost()
	if host == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	publicID, err := imagehost.ParsePublicID(payload.URL)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := host.Delete(r.Context(), publicID); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("public_id", publicID).Msg("Image delete failed")
		RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	RespondWithMessage(w, http.StatusOK, "Image deleted")
}
