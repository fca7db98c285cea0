package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvstream/catalog/internal/links"
	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/store"
)

const (
	// MaxPreviewImages caps previewImages per item.
	MaxPreviewImages = 4
	homeSectionSize  = 6
	recentSize       = 5
)

// Notifier accepts newly created content for asynchronous announcement.
type Notifier interface {
	Enqueue(item models.Content) bool
}

// Broadcaster publishes admin events.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// Service implements catalog reads and admin writes on top of the store.
type Service struct {
	store    *store.Store
	notifier Notifier
	events   Broadcaster
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService creates a catalog service. notifier and events may be nil.
func NewService(st *store.Store, notifier Notifier, events Broadcaster, logger zerolog.Logger) *Service {
	return &Service{
		store:    st,
		notifier: notifier,
		events:   events,
		logger:   logger.With().Str("component", "catalog").Logger(),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:    func() string { return xid.New().String() },
	}
}

func asContent[T models.Content](list []T) []models.Content {
	out := make([]models.Content, 0, len(list))
	for _, item := range list {
		out = append(out, item)
	}
	return out
}

// List returns one page of movies or series matching q. Items and the total
// count are fetched concurrently.
func (s *Service) List(ctx context.Context, t models.ContentType, q ListQuery) (*models.Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	f := q.filter()
	g, gctx := errgroup.WithContext(ctx)
	var items []models.Content
	var count int

	switch t {
	case models.TypeMovie:
		g.Go(func() error {
			movies, err := s.store.ListMovies(gctx, f, PageSize, q.offset())
			items = asContent(movies)
			return err
		})
		g.Go(func() error {
			var err error
			count, err = s.store.CountMovies(gctx, f)
			return err
		})
	case models.TypeSeries:
		g.Go(func() error {
			series, err := s.store.ListSeries(gctx, f, PageSize, q.offset())
			items = asContent(series)
			return err
		})
		g.Go(func() error {
			var err error
			count, err = s.store.CountSeries(gctx, f)
			return err
		})
	default:
		return nil, ErrInvalidType
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t, err)
	}
	return &models.Page{Items: items, TotalPages: totalPages(count), CurrentPage: q.Page}, nil
}

// Facets returns the distinct genres and years for one content type.
func (s *Service) Facets(ctx context.Context, t models.ContentType) (*models.Facets, error) {
	var genres []string
	var years []int
	var err error
	switch t {
	case models.TypeMovie:
		genres, years, err = s.store.MovieFacets(ctx)
	case models.TypeSeries:
		genres, years, err = s.store.SeriesFacets(ctx)
	default:
		return nil, ErrInvalidType
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s filters: %w", t, err)
	}
	return &models.Facets{Genres: genres, Years: years}, nil
}

// Get returns a single movie or series.
func (s *Service) Get(ctx context.Context, t models.ContentType, id string) (models.Content, error) {
	switch t {
	case models.TypeMovie:
		m, err := s.store.GetMovie(ctx, id)
		if err != nil {
			return nil, err
		}
		return m, nil
	case models.TypeSeries:
		sr, err := s.store.GetSeries(ctx, id)
		if err != nil {
			return nil, err
		}
		return sr, nil
	}
	return nil, ErrInvalidType
}

// Home returns the newest movies and series for the landing page.
func (s *Service) Home(ctx context.Context) (*models.HomePageData, error) {
	data := &models.HomePageData{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Movies, err = s.store.ListMovies(gctx, store.Filter{}, homeSectionSize, 0)
		return err
	})
	g.Go(func() error {
		var err error
		data.Series, err = s.store.ListSeries(gctx, store.Filter{}, homeSectionSize, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load home page: %w", err)
	}
	return data, nil
}

// All returns both full collections, unpaginated.
func (s *Service) All(ctx context.Context) (*models.AllContent, error) {
	data := &models.AllContent{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Movies, err = s.store.ListMovies(gctx, store.Filter{}, -1, 0)
		return err
	})
	g.Go(func() error {
		var err error
		data.Series, err = s.store.ListSeries(gctx, store.Filter{}, -1, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return data, nil
}

// Stats aggregates counts and the most recently created items of either type.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}
	var movies []*models.Movie
	var series []*models.Series

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Movies, err = s.store.CountMovies(gctx, store.Filter{})
		return err
	})
	g.Go(func() (err error) {
		stats.Series, err = s.store.CountSeries(gctx, store.Filter{})
		return err
	})
	g.Go(func() (err error) {
		stats.Episodes, err = s.store.CountEpisodes(gctx)
		return err
	})
	g.Go(func() (err error) {
		movies, err = s.store.ListMovies(gctx, store.Filter{}, recentSize, 0)
		return err
	})
	g.Go(func() (err error) {
		series, err = s.store.RecentSeries(gctx, recentSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	stats.Total = stats.Movies + stats.Series
	recent := append(asContent(movies), asContent(series)...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Created().After(recent[j].Created())
	})
	if len(recent) > recentSize {
		recent = recent[:recentSize]
	}
	stats.Recent = recent
	return stats, nil
}

func validate(in *models.ContentInput, creating bool) error {
	switch {
	case creating && (in.Title == nil || strings.TrimSpace(*in.Title) == ""):
		return invalid("title", "is required")
	case in.Title != nil && strings.TrimSpace(*in.Title) == "":
		return invalid("title", "cannot be empty")
	case in.PreviewImages != nil && len(*in.PreviewImages) > MaxPreviewImages:
		return invalid("previewImages", "at most %d images are allowed", MaxPreviewImages)
	}
	return nil
}

// prepare converts legacy link input into the dynamic shape and drops fields
// that do not belong to the content type.
func prepare(t models.ContentType, in *models.ContentInput) {
	if t == models.TypeMovie {
		if list, ok := links.FromInput(in.DownloadLinks, in.Downloads); ok {
			in.DownloadLinks = &list
		}
		in.BatchDownloadLinks, in.BatchLinks, in.Episodes = nil, nil, nil
	} else {
		if list, ok := links.FromInput(in.BatchDownloadLinks, in.BatchLinks); ok {
			in.BatchDownloadLinks = &list
		}
		in.DownloadLinks = nil
	}
	in.Downloads, in.BatchLinks = nil, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func genreList(g *models.GenreInput) []string {
	if g == nil {
		return []string{}
	}
	return *g
}

func (s *Service) newEpisode(in models.EpisodeInput) *models.Episode {
	ep := &models.Episode{ID: s.newID(), Title: deref(in.Title)}
	if in.EpisodeNumber != nil {
		ep.EpisodeNumber = in.EpisodeNumber.Ptr()
	}
	ep.DownloadLinks, _ = links.FromInput(in.DownloadLinks, in.Downloads)
	return ep
}

// Create stores a new movie or series, announces it to admin clients and
// queues a notification. Notification failures never fail the create.
func (s *Service) Create(ctx context.Context, t models.ContentType, in models.ContentInput) (models.Content, error) {
	if _, ok := models.ParseContentType(string(t)); !ok {
		return nil, ErrInvalidType
	}
	if err := validate(&in, true); err != nil {
		return nil, err
	}
	prepare(t, &in)

	now := s.now()
	id := s.newID()
	var item models.Content
	var err error

	if t == models.TypeMovie {
		m := &models.Movie{
			ID:            id,
			Title:         *in.Title,
			Description:   deref(in.Description),
			Genre:         genreList(in.Genre),
			Poster:        deref(in.Poster),
			PreviewImages: deref(in.PreviewImages),
			DownloadLinks: deref(in.DownloadLinks),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if in.Year != nil {
			m.Year = in.Year.Ptr()
		}
		if err = s.store.CreateMovie(ctx, m); err == nil {
			item, err = s.store.GetMovie(ctx, id)
		}
	} else {
		sr := &models.Series{
			ID:                 id,
			Title:              *in.Title,
			Description:        deref(in.Description),
			Genre:              genreList(in.Genre),
			Poster:             deref(in.Poster),
			PreviewImages:      deref(in.PreviewImages),
			BatchDownloadLinks: deref(in.BatchDownloadLinks),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if in.Year != nil {
			sr.Year = in.Year.Ptr()
		}
		for _, epIn := range in.Episodes {
			sr.Episodes = append(sr.Episodes, s.newEpisode(epIn))
		}
		if err = s.store.CreateSeries(ctx, sr); err == nil {
			item, err = s.store.GetSeries(ctx, id)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", t, err)
	}

	s.logger.Info().Str("type", string(t)).Str("id", id).Str("title", *in.Title).Msg("Content created")
	s.publish("content:created", t, id, "")
	if s.notifier != nil {
		s.notifier.Enqueue(item)
	}
	return item, nil
}

// Update merges the supplied fields into an existing item.
func (s *Service) Update(ctx context.Context, t models.ContentType, id string, in models.ContentInput) (models.Content, error) {
	if _, ok := models.ParseContentType(string(t)); !ok {
		return nil, ErrInvalidType
	}
	if err := validate(&in, false); err != nil {
		return nil, err
	}
	prepare(t, &in)

	var item models.Content
	var err error
	if t == models.TypeMovie {
		item, err = s.store.UpdateMovie(ctx, id, in, s.now())
	} else {
		item, err = s.store.UpdateSeries(ctx, id, in, s.now())
	}
	if err != nil {
		return nil, err
	}
	s.publish("content:updated", t, id, "")
	return item, nil
}

// Delete removes an item. Deleting a missing id succeeds.
func (s *Service) Delete(ctx context.Context, t models.ContentType, id string) error {
	var err error
	switch t {
	case models.TypeMovie:
		err = s.store.DeleteMovie(ctx, id)
	case models.TypeSeries:
		err = s.store.DeleteSeries(ctx, id)
	default:
		return ErrInvalidType
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", t, err)
	}
	s.publish("content:deleted", t, id, "")
	return nil
}

// AddEpisode appends an episode and returns the updated series.
func (s *Service) AddEpisode(ctx context.Context, seriesID string, in models.EpisodeInput) (*models.Series, error) {
	ep := s.newEpisode(in)
	if err := s.store.AddEpisode(ctx, seriesID, ep, s.now()); err != nil {
		return nil, err
	}
	s.publish("content:updated", models.TypeSeries, seriesID, ep.ID)
	return s.store.GetSeries(ctx, seriesID)
}

// UpdateEpisode overwrites the supplied episode fields and returns the
// updated series.
func (s *Service) UpdateEpisode(ctx context.Context, seriesID, episodeID string, in models.EpisodeInput) (*models.Series, error) {
	if list, ok := links.FromInput(in.DownloadLinks, in.Downloads); ok {
		in.DownloadLinks = &list
	}
	in.Downloads = nil
	if err := s.store.UpdateEpisode(ctx, seriesID, episodeID, in, s.now()); err != nil {
		return nil, err
	}
	s.publish("content:updated", models.TypeSeries, seriesID, episodeID)
	return s.store.GetSeries(ctx, seriesID)
}

// DeleteEpisode removes an episode and returns the updated series. A missing
// episode id is a no-op.
func (s *Service) DeleteEpisode(ctx context.Context, seriesID, episodeID string) (*models.Series, error) {
	if err := s.store.DeleteEpisode(ctx, seriesID, episodeID, s.now()); err != nil {
		return nil, err
	}
	s.publish("content:updated", models.TypeSeries, seriesID, episodeID)
	return s.store.GetSeries(ctx, seriesID)
}

func (s *Service) publish(event string, t models.ContentType, id, episodeID string) {
	if s.events == nil {
		return
	}
	payload := models.ContentEvent{Event: event, Type: t, ID: id, EpisodeID: episodeID}
	if err := s.events.Broadcast(event, payload); err != nil {
		s.logger.Debug().Err(err).Str("event", event).Msg("Admin event dropped")
	}
}
