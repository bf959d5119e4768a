package models

// Album is the metadata document stored in the key-value store, one
// document per album keyed as "album:<id>". Writes always replace the
// whole document; partial updates are not supported.
type Album struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	CoverKey       string `json:"cover_key"`
	AllowDownloads bool   `json:"allow_downloads"`
	Private        bool   `json:"private"`
}
