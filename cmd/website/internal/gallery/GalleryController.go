package gallery

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/aharding/hardingphotos/cmd/website/internal/viewmodels"
	"github.com/aharding/hardingphotos/pkg/models"
	"github.com/aharding/hardingphotos/pkg/services"
)

// ThumbnailKeyPrefix is where the thumbnail job writes its output. The
// leading underscore is outside the album ID grammar, so this prefix can
// never collide with an album.
const ThumbnailKeyPrefix = "_thumbs/"

type GalleryHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
	ViewAlbumPage(w http.ResponseWriter, r *http.Request)
	DownloadAlbumZip(w http.ResponseWriter, r *http.Request)
}

type GalleryControllerConfig struct {
	Metadata          services.MetadataServicer
	ObjectStore       services.ObjectStoreServicer
	PresignExpiration time.Duration
	Renderer          rendering.TemplateRenderer
}

type GalleryController struct {
	metadata          services.MetadataServicer
	objectStore       services.ObjectStoreServicer
	presignExpiration time.Duration
	renderer          rendering.TemplateRenderer
}

func NewGalleryController(config GalleryControllerConfig) GalleryController {
	return GalleryController{
		metadata:          config.Metadata,
		objectStore:       config.ObjectStore,
		presignExpiration: config.PresignExpiration,
		renderer:          config.Renderer,
	}
}

/*
GET /
*/
func (c GalleryController) HomePage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"

	viewData := viewmodels.AlbumListPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
		},
		Albums: []viewmodels.AlbumCard{},
	}

	albums, err := c.metadata.ListAlbums(r.Context())

	if err != nil {
		slog.Error("error listing albums from metadata store", "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting the album list."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	ids := make([]string, 0, len(albums))

	for id := range albums {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		album := albums[id]

		if album.Private {
			continue
		}

		card := viewmodels.AlbumCard{
			ID:          id,
			Title:       album.Title,
			Description: album.Description,
		}

		if album.CoverKey != "" {
			card.CoverURL = c.coverImageURL(r.Context(), album.CoverKey)
		}

		viewData.Albums = append(viewData.Albums, card)
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
GET /albums/{id}
*/
func (c GalleryController) ViewAlbumPage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/view-album"
	albumID := httphelpers.GetFromRequest[string](r, "id")

	if err := models.ValidateAlbumID(albumID); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "album not found")
		return
	}

	viewData := viewmodels.ViewAlbumPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
		},
		AlbumID: albumID,
		Title:   albumID,
		Images:  []viewmodels.AlbumImage{},
	}

	album, err := c.metadata.GetAlbum(r.Context(), albumID)

	if err != nil {
		slog.Warn("error reading album metadata, continuing without it", "albumID", albumID, "error", err)
		album = nil
	}

	if album != nil {
		viewData.Title = album.Title
		viewData.Description = album.Description
		viewData.AllowDownloads = album.AllowDownloads
	}

	keys, err := c.objectStore.ListImages(r.Context(), albumID)

	if err != nil {
		slog.Warn("error listing album images, continuing with none", "albumID", albumID, "error", err)
		keys = nil
	}

	if album == nil && len(keys) == 0 {
		httphelpers.WriteText(w, http.StatusNotFound, "album not found")
		return
	}

	for _, key := range keys {
		viewData.Images = append(viewData.Images, c.buildAlbumImage(r, key))
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
GET /albums/{id}/download
*/
func (c GalleryController) DownloadAlbumZip(w http.ResponseWriter, r *http.Request) {
	albumID := httphelpers.GetFromRequest[string](r, "id")

	if err := models.ValidateAlbumID(albumID); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "album not found")
		return
	}

	album, err := c.metadata.GetAlbum(r.Context(), albumID)

	if err != nil {
		slog.Error("error reading album metadata for download", "albumID", albumID, "error", err)
		httphelpers.TextInternalServerError(w, "Failed to prepare download")
		return
	}

	if album == nil || !album.AllowDownloads {
		httphelpers.WriteText(w, http.StatusForbidden, "downloads are not enabled for this album")
		return
	}

	keys, err := c.objectStore.ListImages(r.Context(), albumID)

	if err != nil {
		slog.Error("error listing album images for download", "albumID", albumID, "error", err)
		httphelpers.TextInternalServerError(w, "Failed to prepare download")
		return
	}

	if len(keys) == 0 {
		httphelpers.WriteText(w, http.StatusNotFound, "this album has no images")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", albumID))

	zipWriter := zip.NewWriter(w)

	for _, key := range keys {
		if err = c.addImageToZip(r, zipWriter, key); err != nil {
			slog.Error("failed to add image to zip", "error", err, "key", key)
			continue
		}
	}

	if err = zipWriter.Close(); err != nil {
		slog.Error("failed to close zip writer", "error", err, "albumID", albumID)
		return
	}

	slog.Info("album zip download completed", "albumID", albumID, "numImages", len(keys))
}

func (c GalleryController) addImageToZip(r *http.Request, zipWriter *zip.Writer, key string) error {
	imageName := filepath.Base(key)

	src, err := c.objectStore.GetImage(r.Context(), key)

	if err != nil {
		return fmt.Errorf("failed to get source image '%s': %w", key, err)
	}

	defer src.Body.Close()

	dest, err := zipWriter.Create(imageName)

	if err != nil {
		return fmt.Errorf("failed to create file '%s' in zip: %w", imageName, err)
	}

	if _, err = io.Copy(dest, src.Body); err != nil {
		return fmt.Errorf("failed to copy file '%s' to zip: %w", imageName, err)
	}

	return nil
}

// coverImageURL presigns the cover's thumbnail when the thumbnail job has
// produced one, otherwise the full-size original.
func (c GalleryController) coverImageURL(ctx context.Context, coverKey string) string {
	thumbKey := ThumbnailKeyPrefix + coverKey

	if thumbStat, err := c.objectStore.StatImage(ctx, thumbKey); err == nil && thumbStat != nil {
		if thumbnailURL, presignErr := c.objectStore.ImageURL(ctx, thumbKey, c.presignExpiration); presignErr == nil {
			return thumbnailURL
		}
	}

	coverURL, err := c.objectStore.ImageURL(ctx, coverKey, c.presignExpiration)

	if err != nil {
		slog.Error("error presigning cover URL", "coverKey", coverKey, "error", err)
		return ""
	}

	return coverURL
}

// buildAlbumImage assembles the grid entry for one stored image: presigned
// URLs plus the width/height attributes recorded at upload time. The
// thumbnail falls back to the original when the thumbnail job has not
// caught up yet.
func (c GalleryController) buildAlbumImage(r *http.Request, key string) viewmodels.AlbumImage {
	image := viewmodels.AlbumImage{
		FileName: filepath.Base(key),
	}

	stat, err := c.objectStore.StatImage(r.Context(), key)

	if err != nil {
		slog.Warn("error retrieving image attributes", "key", key, "error", err)
	}

	if stat != nil {
		image.Width = stat.Dimensions.Width
		image.Height = stat.Dimensions.Height
	}

	if image.OriginalURL, err = c.objectStore.ImageURL(r.Context(), key, c.presignExpiration); err != nil {
		slog.Error("error presigning original image URL", "key", key, "error", err)
	}

	image.ThumbnailURL = image.OriginalURL

	thumbStat, err := c.objectStore.StatImage(r.Context(), ThumbnailKeyPrefix+key)

	if err == nil && thumbStat != nil {
		if thumbnailURL, presignErr := c.objectStore.ImageURL(r.Context(), ThumbnailKeyPrefix+key, c.presignExpiration); presignErr == nil {
			image.ThumbnailURL = thumbnailURL
		}
	}

	return image
}
