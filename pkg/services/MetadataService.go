package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aharding/hardingphotos/pkg/models"
	"github.com/redis/go-redis/v9"
)

const albumKeyNamespace = "album:"

type MetadataServicer interface {
	GetAlbum(ctx context.Context, albumID string) (*models.Album, error)
	PutAlbum(ctx context.Context, albumID string, album *models.Album) error
	DeleteAlbum(ctx context.Context, albumID string) error
	ListAlbums(ctx context.Context) (map[string]*models.Album, error)
}

type MetadataServiceConfig struct {
	Redis *redis.Client
}

// MetadataService stores one JSON document per album in a Redis-compatible
// key-value store, keyed "album:<id>".
type MetadataService struct {
	redis *redis.Client
}

func NewMetadataService(config MetadataServiceConfig) MetadataService {
	return MetadataService{
		redis: config.Redis,
	}
}

// GetAlbum fetches and parses the album's metadata document. A missing
// key is a valid empty state, returned as (nil, nil).
func (s MetadataService) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	data, err := s.redis.Get(ctx, albumKeyNamespace+albumID).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("error getting metadata for album '%s': %w", albumID, err)
	}

	album, err := unmarshalAlbumDocument(data)

	if err != nil {
		return nil, fmt.Errorf("error parsing metadata document for album '%s': %w", albumID, err)
	}

	return album, nil
}

// PutAlbum serializes and stores the album document, replacing any prior
// value in full.
func (s MetadataService) PutAlbum(ctx context.Context, albumID string, album *models.Album) error {
	data, err := marshalAlbumDocument(album)

	if err != nil {
		return fmt.Errorf("error serializing metadata for album '%s': %w", albumID, err)
	}

	if err = s.redis.Set(ctx, albumKeyNamespace+albumID, data, 0).Err(); err != nil {
		return fmt.Errorf("error writing metadata for album '%s': %w", albumID, err)
	}

	return nil
}

// DeleteAlbum removes the metadata document. Deleting a document that does
// not exist is a success.
func (s MetadataService) DeleteAlbum(ctx context.Context, albumID string) error {
	if err := s.redis.Del(ctx, albumKeyNamespace+albumID).Err(); err != nil {
		return fmt.Errorf("error deleting metadata for album '%s': %w", albumID, err)
	}

	return nil
}

// marshalAlbumDocument and unmarshalAlbumDocument define the wire format of
// the metadata document. Writes always carry every field, so a stored
// document fully describes its album.
func marshalAlbumDocument(album *models.Album) ([]byte, error) {
	return json.Marshal(album)
}

func unmarshalAlbumDocument(data []byte) (*models.Album, error) {
	album := &models.Album{}

	if err := json.Unmarshal(data, album); err != nil {
		return nil, err
	}

	return album, nil
}

// ListAlbums scans the album namespace and returns every metadata document
// keyed by album ID.
func (s MetadataService) ListAlbums(ctx context.Context) (map[string]*models.Album, error) {
	var (
		err    error
		cursor uint64
		keys   []string
	)

	result := map[string]*models.Album{}

	for {
		if keys, cursor, err = s.redis.Scan(ctx, cursor, albumKeyNamespace+"*", 100).Result(); err != nil {
			return nil, fmt.Errorf("error scanning album metadata keys: %w", err)
		}

		for _, key := range keys {
			albumID := strings.TrimPrefix(key, albumKeyNamespace)
			album, getErr := s.GetAlbum(ctx, albumID)

			if getErr != nil {
				return nil, getErr
			}

			if album != nil {
				result[albumID] = album
			}
		}

		if cursor == 0 {
			break
		}
	}

	return result, nil
}
