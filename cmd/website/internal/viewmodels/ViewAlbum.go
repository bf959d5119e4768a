package viewmodels

type ViewAlbumPage struct {
	BaseViewModel

	AlbumID        string
	Title          string
	Description    string
	AllowDownloads bool
	Images         []AlbumImage
}

// AlbumImage carries everything the masonry grid needs. Width and height
// come from the object attributes written at upload time, so the page can
// be laid out without fetching a single image byte.
type AlbumImage struct {
	FileName     string
	ThumbnailURL string
	OriginalURL  string
	Width        int
	Height       int
}
