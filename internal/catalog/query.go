package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/dvstream/catalog/internal/store"
)

// PageSize is the fixed number of items per list page.
const PageSize = 20

// ListQuery is a parsed /list request.
type ListQuery struct {
	Page   int
	Search string
	Genre  string
	Year   *int
}

// ParseListQuery reads page, search, genre and year from query parameters.
// A missing or non-numeric page becomes 1; a non-numeric year is ignored.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Page:   1,
		Search: strings.TrimSpace(values.Get("search")),
		Genre:  values.Get("genre"),
	}
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p >= 1 {
		q.Page = p
	}
	if y, err := strconv.Atoi(strings.TrimSpace(values.Get("year"))); err == nil {
		q.Year = &y
	}
	return q
}

func (q ListQuery) filter() store.Filter {
	return store.Filter{Search: q.Search, Genre: q.Genre, Year: q.Year}
}

func (q ListQuery) offset() int {
	// Far past the end either way; keep the multiplication from overflowing.
	page := min(q.Page, math.MaxInt32)
	return (page - 1) * PageSize
}

// totalPages is ceil(count / PageSize).
func totalPages(count int) int {
	return (count + PageSize - 1) / PageSize
}
