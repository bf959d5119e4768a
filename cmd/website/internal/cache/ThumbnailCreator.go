package cache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"github.com/aharding/hardingphotos/cmd/website/internal/gallery"
	"github.com/aharding/hardingphotos/pkg/models"
	"github.com/aharding/hardingphotos/pkg/services"
	"github.com/alitto/pond/v2"
	"github.com/nfnt/resize"
)

const thumbnailMaxSize uint = 400

type ThumbnailCreator interface {
	CreateThumbnails()
}

type ThumbnailCreatorConfig struct {
	Metadata    services.MetadataServicer
	ObjectStore services.ObjectStoreServicer
	MaxWorkers  int
	ShutdownCtx context.Context
}

// ThumbnailCreatorService walks every album and keeps a resized copy of
// each image under the thumbnail prefix. The gallery grid serves these
// instead of the full-size originals.
type ThumbnailCreatorService struct {
	metadata    services.MetadataServicer
	objectStore services.ObjectStoreServicer
	maxWorkers  int
	shutdownCtx context.Context
}

func NewThumbnailCreatorService(config ThumbnailCreatorConfig) ThumbnailCreatorService {
	return ThumbnailCreatorService{
		metadata:    config.Metadata,
		objectStore: config.ObjectStore,
		maxWorkers:  config.MaxWorkers,
		shutdownCtx: config.ShutdownCtx,
	}
}

func (c ThumbnailCreatorService) CreateThumbnails() {
	var (
		err    error
		albums map[string]*models.Album
		keys   []string
	)

	slog.Info("starting thumbnail creation...")

	if albums, err = c.metadata.ListAlbums(c.shutdownCtx); err != nil {
		slog.Error("error retrieving albums from metadata store", "error", err)
		return
	}

	pool := pond.NewPool(c.maxWorkers, pond.WithContext(c.shutdownCtx))

	for albumID := range albums {
		if keys, err = c.objectStore.ListImages(c.shutdownCtx, albumID); err != nil {
			slog.Error("error retrieving image listing for album", "albumID", albumID, "error", err)
			continue
		}

		for _, key := range keys {
			pool.Submit(func() {
				if c.isThumbnailFresh(key) {
					return
				}

				slog.Info("creating thumbnail...", "key", key)

				if thumbErr := c.createThumbnail(key); thumbErr != nil {
					slog.Error("error creating thumbnail", "key", key, "error", thumbErr)
				}
			})
		}
	}

	_ = pool.Stop().Wait()
	slog.Info("thumbnail creation finished.")
}

func (c ThumbnailCreatorService) isThumbnailFresh(originalKey string) bool {
	var (
		err          error
		originalStat *models.ImageStat
		thumbStat    *models.ImageStat
	)

	if thumbStat, err = c.objectStore.StatImage(c.shutdownCtx, gallery.ThumbnailKeyPrefix+originalKey); err != nil {
		slog.Error("error retrieving metadata for thumbnail", "key", originalKey, "error", err)
		return false
	}

	if thumbStat == nil {
		return false
	}

	if originalStat, err = c.objectStore.StatImage(c.shutdownCtx, originalKey); err != nil || originalStat == nil {
		return false
	}

	return !thumbStat.LastModified.Before(originalStat.LastModified)
}

func (c ThumbnailCreatorService) createThumbnail(originalKey string) error {
	var (
		err      error
		original *services.ObjectContent
		img      image.Image
		buf      bytes.Buffer
	)

	if original, err = c.objectStore.GetImage(c.shutdownCtx, originalKey); err != nil {
		return fmt.Errorf("error retrieving original image %s: %w", originalKey, err)
	}

	defer original.Body.Close()

	if img, _, err = image.Decode(original.Body); err != nil {
		return fmt.Errorf("error decoding image: %w", err)
	}

	resizedImage := c.resize(img, thumbnailMaxSize)

	if err = jpeg.Encode(&buf, resizedImage, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("error encoding thumbnail: %w", err)
	}

	bounds := resizedImage.Bounds()
	dims := models.ImageDimensions{Width: bounds.Dx(), Height: bounds.Dy()}

	err = c.objectStore.PutImage(
		c.shutdownCtx,
		gallery.ThumbnailKeyPrefix+originalKey,
		buf.Bytes(),
		"image/jpeg",
		dims,
	)

	if err != nil {
		return fmt.Errorf("error uploading thumbnail: %w", err)
	}

	return nil
}

func (c ThumbnailCreatorService) resize(img image.Image, maxSize uint) image.Image {
	/*
	 * Determine which dimension to resize based on the longest edge
	 */
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	var newWidth, newHeight uint
	if width > height {
		// Landscape orientation
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		// Portrait orientation or square
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
