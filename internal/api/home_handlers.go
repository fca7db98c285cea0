package api

import (
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// handleGetHomePageData returns the newest movies and series for the showcase.
func (s *Server) handleGetHomePageData(w http.ResponseWriter, r *http.Request) {
	data, err := s.homeStore.Home(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load home page data")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load home page data")
		return
	}
	RespondWithJSON(w, http.StatusOK, data)
}

// handleGetStats returns the dashboard counters and the most recent items.
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.homeStore.Stats(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load stats")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	RespondWithJSON(w, http.StatusOK, stats)
}
