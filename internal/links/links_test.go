package links

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvstream/catalog/internal/models"
)

func TestResolve(t *testing.T) {
	t.Run("dynamic list is returned unchanged", func(t *testing.T) {
		current := []models.DownloadLink{{Quality: "720p", Size: "800MB", URL: "https://x/720"}}
		legacy := &models.LegacyLinks{P1080: "https://x/1080"}
		assert.Equal(t, current, Resolve(current, legacy))
	})

	t.Run("legacy only", func(t *testing.T) {
		got := Resolve(nil, &models.LegacyLinks{P720: "https://x/720"})
		assert.Equal(t, []models.DownloadLink{{Quality: "720p", Size: "N/A", URL: "https://x/720"}}, got)
	})

	t.Run("legacy order is fixed", func(t *testing.T) {
		got := Resolve([]models.DownloadLink{}, &models.LegacyLinks{P1080: "c", P480: "a", P720: "b"})
		assert.Equal(t, []string{"480p", "720p", "1080p"}, []string{got[0].Quality, got[1].Quality, got[2].Quality})
	})

	t.Run("nothing stored", func(t *testing.T) {
		got := Resolve(nil, nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestFromInput(t *testing.T) {
	_, ok := FromInput(nil, nil)
	assert.False(t, ok)

	list, ok := FromInput(nil, &models.LegacyLinks{P480: "u"})
	assert.True(t, ok)
	assert.Equal(t, []models.DownloadLink{{Quality: "480p", Size: "N/A", URL: "u"}}, list)

	empty := []models.DownloadLink(nil)
	list, ok = FromInput(&empty, &models.LegacyLinks{P480: "u"})
	assert.True(t, ok)
	assert.Equal(t, []models.DownloadLink{}, list)
}
