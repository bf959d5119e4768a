package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/aharding/hardingphotos/pkg/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxDeleteBatchSize is the largest number of keys S3 accepts in a single
// DeleteObjects call.
const maxDeleteBatchSize = 1000

type ObjectStoreServicer interface {
	ListImages(ctx context.Context, albumID string) ([]string, error)
	DeleteImages(ctx context.Context, keys []string) (int, error)
	PutImage(ctx context.Context, key string, data []byte, contentType string, dims models.ImageDimensions) error
	GetImage(ctx context.Context, key string) (*ObjectContent, error)
	StatImage(ctx context.Context, key string) (*models.ImageStat, error)
	ImageURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// ObjectContent is an open object stream plus the headers callers need to
// serve it. Callers own closing Body.
type ObjectContent struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type ObjectStoreServiceConfig struct {
	Bucket   string
	S3Client *s3.Client
}

type ObjectStoreService struct {
	bucket        string
	s3Client      *s3.Client
	presignClient *s3.PresignClient
}

func NewObjectStoreService(config ObjectStoreServiceConfig) ObjectStoreService {
	return ObjectStoreService{
		bucket:        config.Bucket,
		s3Client:      config.S3Client,
		presignClient: s3.NewPresignClient(config.S3Client),
	}
}

// ListImages returns the keys of every recognized image object under the
// album's prefix, following pagination until the listing is exhausted.
func (s ObjectStoreService) ListImages(ctx context.Context, albumID string) ([]string, error) {
	var (
		err  error
		page *s3.ListObjectsV2Output
		keys []string
	)

	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(models.AlbumKeyPrefix(albumID)),
	})

	for paginator.HasMorePages() {
		if page, err = paginator.NextPage(ctx); err != nil {
			return nil, fmt.Errorf("error listing images for album '%s': %w", albumID, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)

			if models.IsImageFile(key) {
				keys = append(keys, key)
			}
		}
	}

	return keys, nil
}

// DeleteImages removes the given keys in batches of at most 1000. A failed
// batch or key is reported and does not stop the remaining batches. The
// returned count is the number of keys successfully deleted.
func (s ObjectStoreService) DeleteImages(ctx context.Context, keys []string) (int, error) {
	var (
		deleted   int
		batchErrs []error
	)

	if len(keys) == 0 {
		return 0, nil
	}

	for _, batch := range chunkKeys(keys, maxDeleteBatchSize) {
		identifiers := make([]types.ObjectIdentifier, len(batch))

		for i, key := range batch {
			identifiers[i] = types.ObjectIdentifier{Key: aws.String(key)}
		}

		response, err := s.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: identifiers,
				Quiet:   aws.Bool(true),
			},
		})

		if err != nil {
			slog.Error("error deleting batch of objects", "bucket", s.bucket, "batchSize", len(batch), "error", err)
			batchErrs = append(batchErrs, fmt.Errorf("error deleting batch of %d objects: %w", len(batch), err))
			continue
		}

		for _, keyErr := range response.Errors {
			slog.Error("error deleting object",
				"key", aws.ToString(keyErr.Key),
				"code", aws.ToString(keyErr.Code),
				"message", aws.ToString(keyErr.Message),
			)
		}

		deleted += len(batch) - len(response.Errors)
	}

	return deleted, errors.Join(batchErrs...)
}

// PutImage uploads image bytes under key, attaching the pixel dimensions
// as custom object metadata. An existing object at the same key is
// overwritten.
func (s ObjectStoreService) PutImage(ctx context.Context, key string, data []byte, contentType string, dims models.ImageDimensions) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"width":  strconv.Itoa(dims.Width),
			"height": strconv.Itoa(dims.Height),
		},
	})

	if err != nil {
		return &models.UploadError{Key: key, Err: err}
	}

	return nil
}

func (s ObjectStoreService) GetImage(ctx context.Context, key string) (*ObjectContent, error) {
	response, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return nil, fmt.Errorf("error getting object '%s': %w", key, err)
	}

	return &ObjectContent{
		Body:        response.Body,
		ContentType: aws.ToString(response.ContentType),
		Size:        aws.ToInt64(response.ContentLength),
	}, nil
}

// StatImage returns size, content type, and the width/height attributes
// recorded at upload time. A missing object returns (nil, nil).
func (s ObjectStoreService) StatImage(ctx context.Context, key string) (*models.ImageStat, error) {
	var notFound *types.NotFound

	response, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		if errors.As(err, &notFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("error retrieving metadata for object '%s': %w", key, err)
	}

	width, _ := strconv.Atoi(response.Metadata["width"])
	height, _ := strconv.Atoi(response.Metadata["height"])

	return &models.ImageStat{
		Key:          key,
		Size:         aws.ToInt64(response.ContentLength),
		ContentType:  aws.ToString(response.ContentType),
		LastModified: aws.ToTime(response.LastModified),
		Dimensions:   models.ImageDimensions{Width: width, Height: height},
	}, nil
}

// ImageURL returns a presigned GET URL for the given key.
func (s ObjectStoreService) ImageURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	request, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))

	if err != nil {
		return "", fmt.Errorf("error presigning URL for object '%s': %w", key, err)
	}

	return request.URL, nil
}

func chunkKeys(keys []string, size int) [][]string {
	var chunks [][]string

	for len(keys) > size {
		chunks = append(chunks, keys[:size])
		keys = keys[size:]
	}

	if len(keys) > 0 {
		chunks = append(chunks, keys)
	}

	return chunks
}
