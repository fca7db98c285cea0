package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/dvstream/catalog/internal/catalog"
	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/sitemap"
)

// handleRedirect sends short links from announcements to the current
// public domain.
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	t, ok := models.ParseContentType(chi.URLParam(r, "type"))
	if !ok {
		RespondWithError(w, http.StatusBadRequest, catalog.ErrInvalidType.Error())
		return
	}

	st, err := s.settings.Get(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load settings for redirect")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	target := strings.TrimSuffix(st.ActiveDomain, "/") + "/" + string(t) + "/" + chi.URLParam(r, "id")
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Get(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load settings for sitemap")
		RespondWithError(w, http.StatusInternalServerError, "Failed to generate sitemap")
		return
	}

	entries, err := s.store.SitemapEntries(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load sitemap entries")
		RespondWithError(w, http.StatusInternalServerError, "Failed to generate sitemap")
		return
	}

	doc, err := sitemap.Build(st.ActiveDomain, entries)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to render sitemap")
		RespondWithError(w, http.StatusInternalServerError, "Failed to generate sitemap")
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
