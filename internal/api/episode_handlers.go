package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dvstream/catalog/internal/models"
)

func (s *Server) handleAddEpisode(w http.ResponseWriter, r *http.Request) {
	var in models.EpisodeInput
	if err := decodeJSON(w, r, &in); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	series, err := s.catalog.AddEpisode(r.Context(), chi.URLParam(r, "seriesID"), in)
	if err != nil {
		respondWithServiceError(w, r, models.TypeSeries, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}

func (s *Server) handleUpdateEpisode(w http.ResponseWriter, r *http.Request) {
	var in models.EpisodeInput
	if err := decodeJSON(w, r, &in); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	series, err := s.catalog.UpdateEpisode(r.Context(), chi.URLParam(r, "seriesID"), chi.URLParam(r, "episodeID"), in)
	if err != nil {
		respondWithServiceError(w, r, models.TypeSeries, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}

func (s *Server) handleDeleteEpisode(w http.ResponseWriter, r *http.Request) {
	series, err := s.catalog.DeleteEpisode(r.Context(), chi.URLParam(r, "seriesID"), chi.URLParam(r, "episodeID"))
	if err != nil {
		respondWithServiceError(w, r, models.TypeSeries, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}
