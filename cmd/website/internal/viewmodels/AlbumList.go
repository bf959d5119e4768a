package viewmodels

type AlbumListPage struct {
	BaseViewModel

	Albums []AlbumCard
}

type AlbumCard struct {
	ID          string
	Title       string
	Description string
	CoverURL    string
}
