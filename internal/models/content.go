// This file defines the catalog's core data structures: movies, series and
// their episodes, plus the download link shapes they carry.

package models

import "time"

// ContentType selects between the movie and series collections.
type ContentType string

const (
	TypeMovie  ContentType = "movie"
	TypeSeries ContentType = "series"
)

// ParseContentType validates a path segment such as "movie" or "series".
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case TypeMovie, TypeSeries:
		return ContentType(s), true
	}
	return "", false
}

// DownloadLink is the dynamic link shape: arbitrary quality labels and sizes.
type DownloadLink struct {
	Quality string `json:"quality" bson:"quality"`
	Size    string `json:"size" bson:"size"`
	URL     string `json:"url" bson:"url"`
}

// LegacyLinks is the fixed-quality link object older records were stored with.
// It is read-only: new writes always use []DownloadLink.
type LegacyLinks struct {
	P480  string `json:"p480,omitempty" bson:"p480,omitempty"`
	P720  string `json:"p720,omitempty" bson:"p720,omitempty"`
	P1080 string `json:"p1080,omitempty" bson:"p1080,omitempty"`
}

// IsEmpty reports whether no quality carries a URL.
func (l *LegacyLinks) IsEmpty() bool {
	return l == nil || (l.P480 == "" && l.P720 == "" && l.P1080 == "")
}

// Content is implemented by *Movie and *Series so mixed lists (stats,
// sitemap) can be handled uniformly.
type Content interface {
	ContentID() string
	ContentType() ContentType
	Created() time.Time
}

// Movie is a single downloadable film.
type Movie struct {
	ID            string         `json:"_id"`
	Type          ContentType    `json:"type"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Genre         []string       `json:"genre"`
	Year          *int           `json:"year,omitempty"`
	Poster        string         `json:"poster"`
	PreviewImages []string       `json:"previewImages"`
	DownloadLinks []DownloadLink `json:"downloadLinks"`
	// LegacyDownloads is only populated by the legacy importer.
	LegacyDownloads *LegacyLinks `json:"-"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func (m *Movie) ContentID() string        { return m.ID }
func (m *Movie) ContentType() ContentType { return TypeMovie }
func (m *Movie) Created() time.Time       { return m.CreatedAt }

// Series is a show with an ordered list of episodes and optional
// whole-season batch links.
type Series struct {
	ID                 string         `json:"_id"`
	Type               ContentType    `json:"type"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Genre              []string       `json:"genre"`
	Year               *int           `json:"year,omitempty"`
	Poster             string         `json:"poster"`
	PreviewImages      []string       `json:"previewImages"`
	BatchDownloadLinks []DownloadLink `json:"batchDownloadLinks"`
	Episodes           []*Episode     `json:"episodes"`
	LegacyBatchLinks   *LegacyLinks   `json:"-"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

func (s *Series) ContentID() string        { return s.ID }
func (s *Series) ContentType() ContentType { return TypeSeries }
func (s *Series) Created() time.Time       { return s.CreatedAt }

// Episode is embedded in a series. Its ID is unique within the parent.
type Episode struct {
	ID              string         `json:"_id"`
	Title           string         `json:"title"`
	EpisodeNumber   *int           `json:"episodeNumber,omitempty"`
	DownloadLinks   []DownloadLink `json:"downloadLinks"`
	LegacyDownloads *LegacyLinks   `json:"-"`
}

// Page is the paginated list response.
type Page struct {
	Items       []Content `json:"items"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// Facets lists the distinct filter values present in a collection.
type Facets struct {
	Genres []string `json:"genres"`
	Years  []int    `json:"years"`
}

// HomePageData is the response for /api/home.
type HomePageData struct {
	Movies []*Movie  `json:"movies"`
	Series []*Series `json:"series"`
}

// AllContent is the unpaginated admin listing.
type AllContent struct {
	Movies []*Movie  `json:"movies"`
	Series []*Series `json:"series"`
}

// Stats aggregates catalog counts for the admin dashboard.
type Stats struct {
	Movies   int       `json:"movies"`
	Series   int       `json:"series"`
	Episodes int       `json:"episodes"`
	Total    int       `json:"total"`
	Recent   []Content `json:"recent"`
}

// SitemapEntry is the minimal projection used to build the sitemap.
type SitemapEntry struct {
	Type      ContentType
	ID        string
	UpdatedAt time.Time
}
