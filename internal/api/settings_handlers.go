package api

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/settings"
)

// handleGetSettings returns the site settings. The bot token is only shown
// to admins.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Get(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load settings")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	if !s.isAdmin(r) {
		st = settings.Masked(st)
	}
	RespondWithJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in models.SettingsInput
	if err := decodeJSON(w, r, &in); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	st, err := s.settings.Update(r.Context(), in)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to update settings")
		RespondWithError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	RespondWithJSON(w, http.StatusOK, st)
}
