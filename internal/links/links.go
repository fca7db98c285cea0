// Package links unifies the two download link shapes. Consumers only ever
// see []models.DownloadLink; the legacy fixed-quality object is converted
// here on read.
package links

import "github.com/dvstream/catalog/internal/models"

// LegacySize is reported for entries derived from the legacy object, which
// never recorded file sizes.
const LegacySize = "N/A"

// FromLegacy derives dynamic entries from a legacy object in the fixed order
// 480p, 720p, 1080p. Qualities without a URL are skipped.
func FromLegacy(legacy *models.LegacyLinks) []models.DownloadLink {
	out := []models.DownloadLink{}
	if legacy == nil {
		return out
	}
	for _, q := range []struct{ quality, url string }{
		{"480p", legacy.P480},
		{"720p", legacy.P720},
		{"1080p", legacy.P1080},
	} {
		if q.url == "" {
			continue
		}
		out = append(out, models.DownloadLink{Quality: q.quality, Size: LegacySize, URL: q.url})
	}
	return out
}

// Resolve prefers the dynamic list when it has entries and falls back to the
// legacy object otherwise. The result is never nil.
func Resolve(current []models.DownloadLink, legacy *models.LegacyLinks) []models.DownloadLink {
	if len(current) > 0 {
		return current
	}
	return FromLegacy(legacy)
}

// FromInput picks the list to persist from a write payload that may carry
// either shape. ok is false when neither was supplied.
func FromInput(current *[]models.DownloadLink, legacy *models.LegacyLinks) (list []models.DownloadLink, ok bool) {
	switch {
	case current != nil:
		if *current == nil {
			return []models.DownloadLink{}, true
		}
		return *current, true
	case legacy != nil:
		return FromLegacy(legacy), true
	}
	return nil, false
}
