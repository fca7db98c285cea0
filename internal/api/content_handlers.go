package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/dvstream/catalog/internal/catalog"
	"github.com/dvstream/catalog/internal/models"
)

// contentType reads the {type} URL parameter. Validation is left to the
// catalog service so every route reports the same error.
func contentType(r *http.Request) models.ContentType {
	return models.ContentType(chi.URLParam(r, "type"))
}

func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	t := contentType(r)
	facets, err := s.catalog.Facets(r.Context(), t)
	if err != nil {
		respondWithServiceError(w, r, t, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, facets)
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	t := contentType(r)
	page, err := s.catalog.List(r.Context(), t, catalog.ParseListQuery(r.URL.Query()))
	if err != nil {
		respondWithServiceError(w, r, t, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	t := contentType(r)
	item, err := s.catalog.Get(r.Context(), t, chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, t, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, item)
}

// handleGetAllContent returns every movie and series, unpaginated, for the
// admin dashboard.
func (s *Server) handleGetAllContent(w http.ResponseWriter, r *http.Request) {
	all, err := s.catalog.All(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load content")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load content")
		return
	}
	RespondWithJSON(w, http.StatusOK, all)
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	t := contentType(r)
	var in models.ContentInput
	if err := decodeJSON(w, r, &in); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	item, err := s.catalog.Create(r.Context(), t, in)
	if err != nil {
		respondWithServiceError(w, r, t, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	t := contentType(r)
	var in models.ContentInput
	if err := decodeJSON(w, r, &in); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	item, err := s.catalog.Update(r.Context(), t, chi.URLParam(r, "id"), in)
	if err != nil {
		respondWithServiceError(w, r, t, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	t := contentType(r)
	if err := s.catalog.Delete(r.Context(), t, chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, r, t, err)
		return
	}
	RespondWithMessage(w, http.StatusOK, "Deleted")
}
