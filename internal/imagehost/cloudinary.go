package imagehost

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultFolder is the folder uploads land in when none is configured.
const DefaultFolder = "movie-site"

// Cloudinary is a Host backed by Cloudinary.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// NewCloudinary creates a Cloudinary host from account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret, folder string, logger zerolog.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	if folder == "" {
		folder = DefaultFolder
	}
	return &Cloudinary{
		cld:    cld,
		folder: folder,
		logger: logger.With().Str("component", "imagehost").Logger(),
	}, nil
}

// Upload stores the image under a random public id in the configured folder.
func (c *Cloudinary) Upload(ctx context.Context, r io.Reader) (string, error) {
	publicID := uuid.NewString()
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: publicID,
		Folder:   c.folder,
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload failed: %s", res.Error.Message)
	}
	c.logger.Info().Str("public_id", res.PublicID).Msg("Image uploaded")
	return res.SecureURL, nil
}

// Delete removes an image. Deleting an image that does not exist succeeds.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("delete failed: %s", res.Error.Message)
	}
	c.logger.Info().Str("public_id", publicID).Str("result", res.Result).Msg("Image deleted")
	return nil
}
