package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListQuery(t *testing.T) {
	q := ParseListQuery(url.Values{"page": {"abc"}, "year": {"soon"}, "search": {"  hero "}})
	assert.Equal(t, 1, q.Page)
	assert.Nil(t, q.Year)
	assert.Equal(t, "hero", q.Search)

	q = ParseListQuery(url.Values{"page": {"3"}, "year": {"2024"}, "genre": {"Sci-Fi"}})
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 2024, *q.Year)
	assert.Equal(t, "Sci-Fi", q.Genre)
	assert.Equal(t, 40, q.offset())

	assert.Equal(t, 1, ParseListQuery(url.Values{"page": {"-2"}}).Page)
	assert.Equal(t, 0, totalPages(0))
	assert.Equal(t, 1, totalPages(20))
	assert.Equal(t, 2, totalPages(21))
}
