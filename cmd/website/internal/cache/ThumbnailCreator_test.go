package cache_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aharding/hardingphotos/cmd/website/internal/cache"
	"github.com/aharding/hardingphotos/cmd/website/internal/gallery"
	"github.com/aharding/hardingphotos/pkg/models"
	"github.com/aharding/hardingphotos/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectStore is safe for the pool's concurrent workers.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	stats   map[string]*models.ImageStat
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: map[string][]byte{},
		stats:   map[string]*models.ImageStat{},
	}
}

func (f *fakeObjectStore) addImage(key string, data []byte, lastModified time.Time) {
	f.objects[key] = data
	f.stats[key] = &models.ImageStat{Key: key, LastModified: lastModified}
}

func (f *fakeObjectStore) ListImages(_ context.Context, albumID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string

	for key := range f.objects {
		if strings.HasPrefix(key, albumID+"/") {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (f *fakeObjectStore) DeleteImages(_ context.Context, keys []string) (int, error) {
	return 0, nil
}

func (f *fakeObjectStore) PutImage(_ context.Context, key string, data []byte, contentType string, dims models.ImageDimensions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[key] = data
	f.stats[key] = &models.ImageStat{Key: key, ContentType: contentType, Dimensions: dims, LastModified: time.Now()}
	return nil
}

func (f *fakeObjectStore) GetImage(_ context.Context, key string) (*services.ObjectContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[key]

	if !ok {
		return nil, fmt.Errorf("no such key '%s'", key)
	}

	return &services.ObjectContent{
		Body: io.NopCloser(bytes.NewReader(data)),
		Size: int64(len(data)),
	}, nil
}

func (f *fakeObjectStore) StatImage(_ context.Context, key string) (*models.ImageStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stats[key], nil
}

func (f *fakeObjectStore) ImageURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://example.test/" + key, nil
}

type fakeMetadataStore struct {
	albums map[string]*models.Album
}

func (f *fakeMetadataStore) GetAlbum(_ context.Context, albumID string) (*models.Album, error) {
	return f.albums[albumID], nil
}

func (f *fakeMetadataStore) PutAlbum(_ context.Context, albumID string, album *models.Album) error {
	return nil
}

func (f *fakeMetadataStore) DeleteAlbum(_ context.Context, albumID string) error {
	return nil
}

func (f *fakeMetadataStore) ListAlbums(_ context.Context) (map[string]*models.Album, error) {
	return f.albums, nil
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	buf := bytes.Buffer{}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))

	return buf.Bytes()
}

func TestCreateThumbnailsResizesEveryStaleImage(t *testing.T) {
	objectStore := newFakeObjectStore()
	metadata := &fakeMetadataStore{albums: map[string]*models.Album{
		"summer-trip": {Title: "Summer Trip"},
		"wedding":     {Title: "Wedding"},
	}}

	uploaded := time.Now().Add(-time.Hour)

	for i := 0; i < 8; i++ {
		objectStore.addImage(fmt.Sprintf("summer-trip/img-%d.jpg", i), encodeJPEG(t, 800, 600), uploaded)
	}

	objectStore.addImage("wedding/tall.jpg", encodeJPEG(t, 300, 900), uploaded)

	creator := cache.NewThumbnailCreatorService(cache.ThumbnailCreatorConfig{
		Metadata:    metadata,
		ObjectStore: objectStore,
		MaxWorkers:  4,
		ShutdownCtx: context.Background(),
	})

	creator.CreateThumbnails()

	for i := 0; i < 8; i++ {
		thumbKey := gallery.ThumbnailKeyPrefix + fmt.Sprintf("summer-trip/img-%d.jpg", i)
		stat := objectStore.stats[thumbKey]

		require.NotNil(t, stat, "expected thumbnail at '%s'", thumbKey)
		assert.Equal(t, "image/jpeg", stat.ContentType)
		assert.Equal(t, 400, stat.Dimensions.Width)
		assert.Equal(t, 300, stat.Dimensions.Height)
	}

	tallStat := objectStore.stats[gallery.ThumbnailKeyPrefix+"wedding/tall.jpg"]
	require.NotNil(t, tallStat)
	assert.Equal(t, 400, tallStat.Dimensions.Height)
	assert.Equal(t, 133, tallStat.Dimensions.Width)
}

func TestCreateThumbnailsSkipsFreshThumbnails(t *testing.T) {
	objectStore := newFakeObjectStore()
	metadata := &fakeMetadataStore{albums: map[string]*models.Album{
		"summer-trip": {Title: "Summer Trip"},
	}}

	uploaded := time.Now().Add(-time.Hour)
	key := "summer-trip/a.jpg"
	thumbKey := gallery.ThumbnailKeyPrefix + key

	objectStore.addImage(key, encodeJPEG(t, 800, 600), uploaded)
	objectStore.addImage(thumbKey, []byte("existing thumbnail"), uploaded.Add(time.Minute))

	creator := cache.NewThumbnailCreatorService(cache.ThumbnailCreatorConfig{
		Metadata:    metadata,
		ObjectStore: objectStore,
		MaxWorkers:  2,
		ShutdownCtx: context.Background(),
	})

	creator.CreateThumbnails()

	assert.Equal(t, []byte("existing thumbnail"), objectStore.objects[thumbKey])
}
