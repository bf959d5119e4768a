package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/aharding/hardingphotos/pkg/models"
	"github.com/aharding/hardingphotos/pkg/services"
)

type ApiHandlers interface {
	AlbumList(w http.ResponseWriter, r *http.Request)
	GetAlbum(w http.ResponseWriter, r *http.Request)
}

type ApiControllerConfig struct {
	Metadata          services.MetadataServicer
	ObjectStore       services.ObjectStoreServicer
	PresignExpiration time.Duration
}

type ApiController struct {
	metadata          services.MetadataServicer
	objectStore       services.ObjectStoreServicer
	presignExpiration time.Duration
}

func NewApiController(config ApiControllerConfig) ApiController {
	return ApiController{
		metadata:          config.Metadata,
		objectStore:       config.ObjectStore,
		presignExpiration: config.PresignExpiration,
	}
}

type albumListEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverKey    string `json:"cover_key"`
}

type albumImageEntry struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type albumDetail struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	CoverKey       string            `json:"cover_key"`
	AllowDownloads bool              `json:"allow_downloads"`
	Images         []albumImageEntry `json:"images"`
}

/*
GET /api/albums
*/
func (c ApiController) AlbumList(w http.ResponseWriter, r *http.Request) {
	albums, err := c.metadata.ListAlbums(r.Context())

	if err != nil {
		slog.Error("error listing albums", "error", err)
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": "could not list albums"})
		return
	}

	entries := []albumListEntry{}

	for id, album := range albums {
		if album.Private {
			continue
		}

		entries = append(entries, albumListEntry{
			ID:          id,
			Title:       album.Title,
			Description: album.Description,
			CoverKey:    album.CoverKey,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})

	writeJson(w, http.StatusOK, entries)
}

/*
GET /api/albums/{id}
*/
func (c ApiController) GetAlbum(w http.ResponseWriter, r *http.Request) {
	albumID := httphelpers.GetFromRequest[string](r, "id")

	if err := models.ValidateAlbumID(albumID); err != nil {
		writeJson(w, http.StatusNotFound, map[string]string{"error": "album not found"})
		return
	}

	album, err := c.metadata.GetAlbum(r.Context(), albumID)

	if err != nil {
		slog.Warn("error reading album metadata, continuing without it", "albumID", albumID, "error", err)
		album = nil
	}

	keys, err := c.objectStore.ListImages(r.Context(), albumID)

	if err != nil {
		slog.Warn("error listing album images, continuing with none", "albumID", albumID, "error", err)
		keys = nil
	}

	if album == nil && len(keys) == 0 {
		writeJson(w, http.StatusNotFound, map[string]string{"error": "album not found"})
		return
	}

	detail := albumDetail{
		ID:     albumID,
		Title:  albumID,
		Images: []albumImageEntry{},
	}

	if album != nil {
		detail.Title = album.Title
		detail.Description = album.Description
		detail.CoverKey = album.CoverKey
		detail.AllowDownloads = album.AllowDownloads
	}

	for _, key := range keys {
		entry := albumImageEntry{Key: key}

		if stat, statErr := c.objectStore.StatImage(r.Context(), key); statErr == nil && stat != nil {
			entry.Width = stat.Dimensions.Width
			entry.Height = stat.Dimensions.Height
		}

		if url, urlErr := c.objectStore.ImageURL(r.Context(), key, c.presignExpiration); urlErr == nil {
			entry.URL = url
		}

		detail.Images = append(detail.Images, entry)
	}

	writeJson(w, http.StatusOK, detail)
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("error encoding JSON response", "error", err)
	}
}
