package gallery

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aharding/hardingphotos/pkg/models"
	"github.com/aharding/hardingphotos/pkg/services"
	"github.com/stretchr/testify/assert"
)

// fakeObjectStore serves stats and presigned URLs from maps so handler
// helpers can be exercised without S3.
type fakeObjectStore struct {
	stats map[string]*models.ImageStat
}

func (f *fakeObjectStore) ListImages(_ context.Context, albumID string) ([]string, error) {
	return nil, nil
}

func (f *fakeObjectStore) DeleteImages(_ context.Context, keys []string) (int, error) {
	return 0, nil
}

func (f *fakeObjectStore) PutImage(_ context.Context, key string, data []byte, contentType string, dims models.ImageDimensions) error {
	return nil
}

func (f *fakeObjectStore) GetImage(_ context.Context, key string) (*services.ObjectContent, error) {
	return nil, fmt.Errorf("no such key '%s'", key)
}

func (f *fakeObjectStore) StatImage(_ context.Context, key string) (*models.ImageStat, error) {
	return f.stats[key], nil
}

func (f *fakeObjectStore) ImageURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://example.test/" + key, nil
}

func newTestController(stats map[string]*models.ImageStat) GalleryController {
	return NewGalleryController(GalleryControllerConfig{
		ObjectStore:       &fakeObjectStore{stats: stats},
		PresignExpiration: time.Minute,
	})
}

func TestCoverImageURLPrefersThumbnail(t *testing.T) {
	coverKey := "summer-trip/a.jpg"

	controller := newTestController(map[string]*models.ImageStat{
		ThumbnailKeyPrefix + coverKey: {Key: ThumbnailKeyPrefix + coverKey},
	})

	url := controller.coverImageURL(context.Background(), coverKey)

	assert.Equal(t, "https://example.test/"+ThumbnailKeyPrefix+coverKey, url)
}

func TestCoverImageURLFallsBackToOriginal(t *testing.T) {
	coverKey := "summer-trip/a.jpg"

	controller := newTestController(map[string]*models.ImageStat{})

	url := controller.coverImageURL(context.Background(), coverKey)

	assert.Equal(t, "https://example.test/"+coverKey, url)
}

func TestBuildAlbumImageFallsBackToOriginal(t *testing.T) {
	key := "summer-trip/a.jpg"

	controller := newTestController(map[string]*models.ImageStat{
		key: {Key: key, Dimensions: models.ImageDimensions{Width: 800, Height: 600}},
	})

	r := httptest.NewRequest("GET", "/albums/summer-trip", nil)
	image := controller.buildAlbumImage(r, key)

	assert.Equal(t, "a.jpg", image.FileName)
	assert.Equal(t, 800, image.Width)
	assert.Equal(t, 600, image.Height)
	assert.Equal(t, "https://example.test/"+key, image.OriginalURL)
	assert.Equal(t, image.OriginalURL, image.ThumbnailURL)
}

func TestBuildAlbumImageUsesThumbnailWhenPresent(t *testing.T) {
	key := "summer-trip/a.jpg"

	controller := newTestController(map[string]*models.ImageStat{
		key:                      {Key: key, Dimensions: models.ImageDimensions{Width: 800, Height: 600}},
		ThumbnailKeyPrefix + key: {Key: ThumbnailKeyPrefix + key},
	})

	r := httptest.NewRequest("GET", "/albums/summer-trip", nil)
	image := controller.buildAlbumImage(r, key)

	assert.Equal(t, "https://example.test/"+key, image.OriginalURL)
	assert.Equal(t, "https://example.test/"+ThumbnailKeyPrefix+key, image.ThumbnailURL)
}
