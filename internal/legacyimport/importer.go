// Package legacyimport copies an existing MongoDB catalog into the local
// database. Records are upserted by id, so an import can be repeated.
package legacyimport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dvstream/catalog/internal/models"
	"github.com/dvstream/catalog/internal/store"
)

// Result counts what an import wrote.
type Result struct {
	Movies   int
	Series   int
	Episodes int
	Settings bool
	Skipped  int
}

// cursor is the subset of *mongo.Cursor the importer reads from.
type cursor interface {
	Next(ctx context.Context) bool
	Decode(v any) error
	Err() error
	Close(ctx context.Context) error
}

// Importer writes Mongo documents into the store.
type Importer struct {
	store    *store.Store
	defaults models.Settings
	logger   zerolog.Logger
	now      func() time.Time
}

// New returns an importer writing to st. defaults seed the settings row
// when it does not exist yet.
func New(st *store.Store, defaults models.Settings, logger zerolog.Logger) *Importer {
	return &Importer{
		store:    st,
		defaults: defaults,
		logger:   logger.With().Str("component", "legacyimport").Logger(),
		now:      time.Now,
	}
}

// Connect opens a client for uri and checks the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// Run imports the movies, series and settings collections of database.
func (im *Importer) Run(ctx context.Context, database *mongo.Database) (*Result, error) {
	res := &Result{}

	movies, err := database.Collection("movies").Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	if err := im.ImportMovies(ctx, movies, res); err != nil {
		return res, err
	}

	series, err := database.Collection("series").Find(ctx, bson.D{})
	if err != nil {
		return res, fmt.Errorf("failed to query series: %w", err)
	}
	if err := im.ImportSeries(ctx, series, res); err != nil {
		return res, err
	}

	var doc settingsDoc
	err = database.Collection("settings").FindOne(ctx, bson.D{}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		im.logger.Info().Msg("No settings document to import")
	case err != nil:
		return res, fmt.Errorf("failed to read settings: %w", err)
	default:
		if err := im.importSettings(ctx, doc); err != nil {
			return res, err
		}
		res.Settings = true
	}
	return res, nil
}

// ImportMovies upserts every movie document read from cur.
func (im *Importer) ImportMovies(ctx context.Context, cur cursor, res *Result) error {
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var doc movieDoc
		if err := cur.Decode(&doc); err != nil {
			im.logger.Warn().Err(err).Msg("Skipping undecodable movie")
			res.Skipped++
			continue
		}
		m, err := doc.toMovie(im.now())
		if err != nil {
			im.logger.Warn().Err(err).Msg("Skipping movie")
			res.Skipped++
			continue
		}
		if err := im.store.ImportMovie(ctx, m); err != nil {
			return fmt.Errorf("failed to import movie %s: %w", m.ID, err)
		}
		res.Movies++
	}
	return cur.Err()
}

// ImportSeries upserts every series document read from cur, replacing
// each series' episodes.
func (im *Importer) ImportSeries(ctx context.Context, cur cursor, res *Result) error {
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var doc seriesDoc
		if err := cur.Decode(&doc); err != nil {
			im.logger.Warn().Err(err).Msg("Skipping undecodable series")
			res.Skipped++
			continue
		}
		sr, err := doc.toSeries(im.now())
		if err != nil {
			im.logger.Warn().Err(err).Msg("Skipping series")
			res.Skipped++
			continue
		}
		if err := im.store.ImportSeries(ctx, sr); err != nil {
			return fmt.Errorf("failed to import series %s: %w", sr.ID, err)
		}
		res.Series++
		res.Episodes += len(sr.Episodes)
	}
	return cur.Err()
}

// importSettings upserts the settings singleton from a Mongo settings document.
func (im *Importer) importSettings(ctx context.Context, doc settingsDoc) error {
	if _, err := im.store.UpsertSettings(ctx, doc.toInput(), im.defaults, im.now().UTC()); err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}
	return nil
}
