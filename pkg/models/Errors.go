package models

import (
	"fmt"
)

var (
	ErrInvalidAlbumID = fmt.Errorf("album ID must contain only lowercase letters, digits, and hyphens")
	ErrNoImagesFound  = fmt.Errorf("no images found in folder")
)

// UploadError reports a failed upload of a single image object. Uploads
// are independent, so callers collect these and keep going.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("error uploading object '%s': %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
