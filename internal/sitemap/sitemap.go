// Package sitemap renders the public XML sitemap.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/dvstream/catalog/internal/models"
)

const namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// staticPaths are listed before any content item.
var staticPaths = []string{"/", "/movies", "/series"}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Build renders a sitemap for base and entries. Item locations are
// {base}/{type}/{id} and lastmod is the item's update time in UTC.
func Build(base string, entries []models.SitemapEntry) ([]byte, error) {
	base = strings.TrimSuffix(base, "/")

	set := urlset{Xmlns: namespace, URLs: make([]url, 0, len(staticPaths)+len(entries))}
	for _, p := range staticPaths {
		set.URLs = append(set.URLs, url{Loc: base + p})
	}
	for _, e := range entries {
		set.URLs = append(set.URLs, url{
			Loc:     fmt.Sprintf("%s/%s/%s", base, e.Type, e.ID),
			LastMod: e.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
