package api

import (
	"context"

	"github.com/dvstream/catalog/internal/models"
)

// HomeStore defines the showcase and dashboard reads.
type HomeStore interface {
	Home(ctx context.Context) (*models.HomePageData, error)
	Stats(ctx context.Context) (*models.Stats, error)
}
