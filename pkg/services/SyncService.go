package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aharding/hardingphotos/pkg/models"
)

type SyncServicer interface {
	CreateOrUpdate(ctx context.Context, request CreateOrUpdateRequest) (*SyncResult, error)
	Delete(ctx context.Context, albumID string, confirm ConfirmFunc) (*DeleteResult, error)
	BulkUploadNewAlbum(ctx context.Context, request BulkUploadRequest) (*BulkUploadResult, error)
}

// ConfirmFunc is the gate in front of destructive work. Nothing is
// deleted unless it returns true. The frontend decides how to ask.
type ConfirmFunc func(summary DeleteSummary) bool

// DeleteSummary tells the operator what a delete is about to destroy.
type DeleteSummary struct {
	AlbumID     string
	HasMetadata bool
	ImageCount  int
}

type CreateOrUpdateRequest struct {
	AlbumID string

	// Metadata, when non-nil, fully replaces the album's metadata
	// document. Every field is written; there is no merge.
	Metadata *models.Album

	// FolderPath, when non-empty, is a local folder whose immediate
	// image files are uploaded under the album's prefix.
	FolderPath string
}

type BulkUploadRequest struct {
	FolderName string
	BasePath   string
	Confirm    func(albumID string, imageCount int) bool
}

// UploadOutcome records what happened to a single file. Uploads are
// independent: a failure is captured here and processing continues.
type UploadOutcome struct {
	FileName   string
	Key        string
	Dimensions models.ImageDimensions
	Err        error
}

type SyncResult struct {
	AlbumID       string
	MetadataSaved bool
	Uploads       []UploadOutcome
	Warnings      []string
}

func (r *SyncResult) Processed() int {
	return len(r.Uploads)
}

func (r *SyncResult) Succeeded() int {
	count := 0

	for _, u := range r.Uploads {
		if u.Err == nil {
			count++
		}
	}

	return count
}

func (r *SyncResult) Failed() int {
	return r.Processed() - r.Succeeded()
}

type DeleteResult struct {
	AlbumID         string
	Found           bool
	Confirmed       bool
	ImagesFound     int
	ImagesDeleted   int
	MetadataDeleted bool
	Warnings        []string
}

type BulkUploadResult struct {
	AlbumID   string
	Confirmed bool
	Uploads   []UploadOutcome

	// SuggestedMetadata is not written anywhere. Bulk upload only moves
	// images; the operator applies metadata separately.
	SuggestedMetadata models.Album
}

func (r *BulkUploadResult) Processed() int {
	return len(r.Uploads)
}

func (r *BulkUploadResult) Succeeded() int {
	count := 0

	for _, u := range r.Uploads {
		if u.Err == nil {
			count++
		}
	}

	return count
}

func (r *BulkUploadResult) Failed() int {
	return r.Processed() - r.Succeeded()
}

type SyncServiceConfig struct {
	ObjectStore ObjectStoreServicer
	Metadata    MetadataServicer

	// Inspector defaults to InspectDimensions.
	Inspector DimensionInspector
}

// SyncService reconciles a local folder of images, a remote object-store
// prefix, and a remote metadata record into one consistent album. It owns
// no state of its own; every operation is a one-shot that can safely be
// re-run after an interruption.
type SyncService struct {
	objectStore ObjectStoreServicer
	metadata    MetadataServicer
	inspector   DimensionInspector
}

func NewSyncService(config SyncServiceConfig) SyncService {
	inspector := config.Inspector

	if inspector == nil {
		inspector = InspectDimensions
	}

	return SyncService{
		objectStore: config.ObjectStore,
		metadata:    config.Metadata,
		inspector:   inspector,
	}
}

// CreateOrUpdate writes the album's metadata document (when supplied) and
// uploads the images from the local folder (when supplied). The two
// phases are independent: a metadata write failure is reported and the
// upload phase still runs. Uploads are overwrite-by-key, so re-running
// with the same folder converges on the same end state.
func (s SyncService) CreateOrUpdate(ctx context.Context, request CreateOrUpdateRequest) (*SyncResult, error) {
	if err := models.ValidateAlbumID(request.AlbumID); err != nil {
		return nil, err
	}

	result := &SyncResult{AlbumID: request.AlbumID}

	if request.Metadata != nil {
		if err := s.metadata.PutAlbum(ctx, request.AlbumID, request.Metadata); err != nil {
			slog.Error("error saving album metadata", "albumID", request.AlbumID, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("metadata was not saved: %v", err))
		} else {
			result.MetadataSaved = true
		}
	}

	if request.FolderPath == "" {
		return result, nil
	}

	fileNames, err := listLocalImages(request.FolderPath)

	if err != nil {
		return result, err
	}

	if len(fileNames) == 0 {
		slog.Warn("no images found in folder, skipping upload phase", "folder", request.FolderPath)
		result.Warnings = append(result.Warnings, fmt.Sprintf("no images found in '%s'; nothing uploaded", request.FolderPath))
		return result, nil
	}

	result.Uploads = s.uploadFiles(ctx, request.AlbumID, request.FolderPath, fileNames, result)
	return result, nil
}

// Delete removes an album's images and its metadata document, in that
// order. Metadata outliving images is the recoverable failure mode: a
// re-run of delete finds the record and cleans up the rest.
func (s SyncService) Delete(ctx context.Context, albumID string, confirm ConfirmFunc) (*DeleteResult, error) {
	var (
		err   error
		album *models.Album
		keys  []string
	)

	if err = models.ValidateAlbumID(albumID); err != nil {
		return nil, err
	}

	result := &DeleteResult{AlbumID: albumID}

	if album, err = s.metadata.GetAlbum(ctx, albumID); err != nil {
		slog.Warn("error reading album metadata, treating as absent", "albumID", albumID, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("metadata could not be read: %v", err))
		album = nil
	}

	if keys, err = s.objectStore.ListImages(ctx, albumID); err != nil {
		slog.Warn("error listing album images, treating as empty", "albumID", albumID, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("image listing failed: %v", err))
		keys = nil
	}

	result.ImagesFound = len(keys)

	if album == nil && len(keys) == 0 {
		return result, nil
	}

	result.Found = true

	if !confirm(DeleteSummary{AlbumID: albumID, HasMetadata: album != nil, ImageCount: len(keys)}) {
		return result, nil
	}

	result.Confirmed = true

	if result.ImagesDeleted, err = s.objectStore.DeleteImages(ctx, keys); err != nil {
		slog.Error("error deleting album images", "albumID", albumID, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("some images were not deleted: %v", err))
	}

	if err = s.metadata.DeleteAlbum(ctx, albumID); err != nil {
		slog.Error("error deleting album metadata", "albumID", albumID, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("metadata was not deleted: %v", err))
	} else if album != nil {
		result.MetadataDeleted = true
	}

	return result, nil
}

// BulkUploadNewAlbum uploads a whole folder as a new album under an
// identifier derived from the folder name. It never writes metadata;
// instead it suggests a record for the operator to apply separately.
func (s SyncService) BulkUploadNewAlbum(ctx context.Context, request BulkUploadRequest) (*BulkUploadResult, error) {
	albumID, err := models.DeriveAlbumID(request.FolderName)

	if err != nil {
		return nil, fmt.Errorf("cannot derive an album ID from folder '%s': %w", request.FolderName, err)
	}

	folderPath := filepath.Join(request.BasePath, request.FolderName)
	fileNames, err := listLocalImages(folderPath)

	if err != nil {
		return nil, err
	}

	if len(fileNames) == 0 {
		return nil, fmt.Errorf("%w: '%s'", models.ErrNoImagesFound, folderPath)
	}

	result := &BulkUploadResult{AlbumID: albumID}

	if request.Confirm != nil && !request.Confirm(albumID, len(fileNames)) {
		return result, nil
	}

	result.Confirmed = true

	syncResult := &SyncResult{AlbumID: albumID}
	result.Uploads = s.uploadFiles(ctx, albumID, folderPath, fileNames, syncResult)

	result.SuggestedMetadata = models.Album{
		Title:       request.FolderName,
		Description: "",
		CoverKey:    firstSuccessfulKey(result.Uploads),
	}

	return result, nil
}

// uploadFiles runs the per-file read, inspect, upload loop. Files are
// processed one at a time and a failure on one file never stops the next.
func (s SyncService) uploadFiles(ctx context.Context, albumID, folderPath string, fileNames []string, result *SyncResult) []UploadOutcome {
	outcomes := make([]UploadOutcome, 0, len(fileNames))

	for _, fileName := range fileNames {
		key := albumID + "/" + fileName
		outcome := UploadOutcome{FileName: fileName, Key: key}

		data, err := os.ReadFile(filepath.Join(folderPath, fileName))

		if err != nil {
			slog.Error("error reading image file", "file", fileName, "error", err)
			outcome.Err = fmt.Errorf("error reading '%s': %w", fileName, err)
			outcomes = append(outcomes, outcome)
			continue
		}

		dims, ok := s.inspector(data)

		if !ok {
			slog.Warn("could not determine image dimensions, using fallback", "file", fileName, "width", dims.Width, "height", dims.Height)
			result.Warnings = append(result.Warnings, fmt.Sprintf("dimensions for '%s' could not be determined; using %dx%d", fileName, dims.Width, dims.Height))
		}

		outcome.Dimensions = dims

		if err = s.objectStore.PutImage(ctx, key, data, models.ImageContentType(fileName), dims); err != nil {
			slog.Error("error uploading image", "key", key, "error", err)
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			continue
		}

		slog.Info("uploaded image", "key", key, "width", dims.Width, "height", dims.Height)
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// listLocalImages returns the names of the folder's immediate files that
// carry a recognized image extension. The folder itself must be readable;
// the source folder is never modified.
func listLocalImages(folderPath string) ([]string, error) {
	entries, err := os.ReadDir(folderPath)

	if err != nil {
		return nil, fmt.Errorf("error reading folder '%s': %w", folderPath, err)
	}

	var fileNames []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if models.IsImageFile(entry.Name()) {
			fileNames = append(fileNames, entry.Name())
		}
	}

	return fileNames, nil
}

func firstSuccessfulKey(uploads []UploadOutcome) string {
	for _, u := range uploads {
		if u.Err == nil {
			return u.Key
		}
	}

	return ""
}
