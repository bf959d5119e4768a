package services

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/aharding/hardingphotos/pkg/models"

	_ "golang.org/x/image/webp"
)

// Fallback dimensions applied when an image header cannot be decoded
// (corrupt files, or formats without a registered decoder such as AVIF).
// A landscape default keeps gallery layouts from collapsing.
var fallbackDimensions = models.ImageDimensions{Width: 1200, Height: 800}

// DimensionInspector derives pixel dimensions from raw image bytes. The
// boolean reports whether the dimensions were read from the image or are
// the fallback.
type DimensionInspector func(data []byte) (models.ImageDimensions, bool)

// InspectDimensions reads just the image header to get pixel width and
// height without decoding the full image. It never fails: anything
// undecodable gets the fallback dimensions.
func InspectDimensions(data []byte) (models.ImageDimensions, bool) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))

	if err != nil || config.Width <= 0 || config.Height <= 0 {
		return fallbackDimensions, false
	}

	return models.ImageDimensions{Width: config.Width, Height: config.Height}, true
}
