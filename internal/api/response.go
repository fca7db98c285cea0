// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/dvstream/catalog/internal/catalog"
	"github.com/dvstream/catalog/internal/models"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 5 << 20

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithMessage writes a {"message": ...} body.
func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"message": message})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func notFoundMessage(t models.ContentType) string {
	if t == models.TypeSeries {
		return "Series not found"
	}
	return "Movie not found"
}

// respondWithServiceError maps catalog errors onto HTTP status codes.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, t models.ContentType, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondWithError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, catalog.ErrInvalidType):
		RespondWithError(w, http.StatusBadRequest, catalog.ErrInvalidType.Error())
	case errors.Is(err, catalog.ErrEpisodeNotFound):
		RespondWithError(w, http.StatusNotFound, "Episode not found")
	case errors.Is(err, catalog.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, notFoundMessage(t))
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
		RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
