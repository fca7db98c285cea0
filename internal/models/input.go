package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ContentInput is the write payload for movies and series. Pointer fields
// distinguish "absent" from "set to zero value" so updates can merge.
type ContentInput struct {
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Genre         *GenreInput     `json:"genre"`
	Year          *FlexInt        `json:"year"`
	Poster        *string         `json:"poster"`
	PreviewImages *[]string       `json:"previewImages"`
	DownloadLinks *[]DownloadLink `json:"downloadLinks"`
	// Downloads accepts the legacy object; it is converted before storage.
	Downloads          *LegacyLinks    `json:"downloads"`
	BatchDownloadLinks *[]DownloadLink `json:"batchDownloadLinks"`
	BatchLinks         *LegacyLinks    `json:"batchLinks"`
	// Episodes is honoured on series creation only; afterwards episodes are
	// managed through the episode operations.
	Episodes []EpisodeInput `json:"episodes"`
}

// EpisodeInput is the write payload for an episode.
type EpisodeInput struct {
	Title         *string         `json:"title"`
	EpisodeNumber *FlexInt        `json:"episodeNumber"`
	DownloadLinks *[]DownloadLink `json:"downloadLinks"`
	Downloads     *LegacyLinks    `json:"downloads"`
}

// GenreInput accepts either a JSON array of strings or a single
// comma-separated string and always yields a list.
type GenreInput []string

func (g *GenreInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*g = GenreInput{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("genre: %w", err)
		}
		*g = GenreInput(NormalizeGenres(list))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("genre must be a string or a list of strings")
	}
	*g = GenreInput(SplitGenres(s))
	return nil
}

// SplitGenres turns "Action, Sci-Fi" into ["Action", "Sci-Fi"].
func SplitGenres(s string) []string {
	return NormalizeGenres(strings.Split(s, ","))
}

// NormalizeGenres trims each entry, drops empties and removes duplicates
// while keeping the first occurrence.
func NormalizeGenres(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, g := range list {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// FlexInt decodes a JSON number or numeric string. An empty string clears
// the value (Valid is false).
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexInt{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = FlexInt{}
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%q is not an integer", s)
		}
		*f = FlexInt{Value: n, Valid: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	i, err := n.Int64()
	if err != nil {
		// Form builders sometimes send 2024.0.
		fl, ferr := n.Float64()
		if ferr != nil || fl != float64(int64(fl)) {
			return fmt.Errorf("%s is not an integer", n)
		}
		i = int64(fl)
	}
	*f = FlexInt{Value: int(i), Valid: true}
	return nil
}

// Ptr returns the value as *int, nil when cleared.
func (f FlexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
