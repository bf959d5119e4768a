package models

import (
	"path/filepath"
	"strings"
	"time"
)

// ImageDimensions holds the pixel size attached to every uploaded image
// object as custom metadata, so serving code never has to re-decode the
// image to lay out a grid.
type ImageDimensions struct {
	Width  int
	Height int
}

// ImageStat is what a HeadObject-style lookup returns for a stored image.
type ImageStat struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Dimensions   ImageDimensions
}

var recognizedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif"}

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
}

// IsImageFile reports whether the file name carries a recognized image
// extension. The same filter is applied to local folders and to remote
// object listings.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))

	for _, recognized := range recognizedImageExtensions {
		if ext == recognized {
			return true
		}
	}

	return false
}

// ImageContentType maps a file name to its MIME type. Unrecognized
// extensions fall back to a generic binary type.
func ImageContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))

	if contentType, ok := imageContentTypes[ext]; ok {
		return contentType
	}

	return "application/octet-stream"
}
