// Package imagehost stores uploaded poster and preview images with an
// external image host.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

var (
	// ErrNotImage is returned when uploaded bytes are not a supported image.
	ErrNotImage = errors.New("file is not a supported image")
	// ErrBadURL is returned when a hosted image URL has no recognisable public id.
	ErrBadURL = errors.New("invalid image url")
)

// Host uploads and deletes images.
type Host interface {
	// Upload stores the image and returns its public https URL.
	Upload(ctx context.Context, r io.Reader) (string, error)
	// Delete removes the image with the given public id.
	Delete(ctx context.Context, publicID string) error
}

// ParsePublicID derives the host's public id from a hosted image URL. The
// id is the parent folder plus the file name without its extension, e.g.
// .../upload/v17/movie-site/abc.jpg -> movie-site/abc.
func ParsePublicID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Path == "" {
		return "", ErrBadURL
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return "", ErrBadURL
	}
	folder := segments[len(segments)-2]
	file := segments[len(segments)-1]
	name := strings.TrimSuffix(file, path.Ext(file))
	if folder == "" || name == "" {
		return "", ErrBadURL
	}
	return fmt.Sprintf("%s/%s", folder, name), nil
}
