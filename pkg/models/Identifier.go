package models

import (
	"regexp"
	"strings"
)

var (
	albumIDPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	disallowedRunes = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// ValidateAlbumID checks an album identifier against the slug grammar:
// lowercase letters, digits, and hyphens only.
func ValidateAlbumID(id string) error {
	if !albumIDPattern.MatchString(id) {
		return ErrInvalidAlbumID
	}

	return nil
}

// DeriveAlbumID turns a folder name into a candidate album identifier by
// lowercasing, replacing disallowed characters with hyphens, collapsing
// repeats, and trimming leading/trailing hyphens. The result is validated
// against the same grammar as interactively-entered identifiers, so a name
// with no usable characters yields ErrInvalidAlbumID.
func DeriveAlbumID(folderName string) (string, error) {
	id := strings.ToLower(folderName)
	id = disallowedRunes.ReplaceAllString(id, "-")
	id = repeatedHyphens.ReplaceAllString(id, "-")
	id = strings.Trim(id, "-")

	if err := ValidateAlbumID(id); err != nil {
		return "", err
	}

	return id, nil
}

// AlbumKeyPrefix returns the object-store prefix that scopes listing and
// deletion to one album's images.
func AlbumKeyPrefix(albumID string) string {
	return albumID + "/"
}
