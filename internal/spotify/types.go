package spotify

import "time"

// Play is one raw entry from the recently-played feed, before enrichment.
// Only the first credited artist is carried, matching the row schema.
type Play struct {
	PlayedAt    time.Time
	TrackID     string
	TrackName   string
	DurationMs  int
	ArtistID    string
	ArtistName  string
	AlbumID     string
	AlbumName   string
	ReleaseDate string // full release date as reported, e.g. "1997-06-16"
	AlbumImages []Image
}

// Image is one variant from a provider-supplied list, ordered by
// decreasing resolution.
type Image struct {
	URL    string
	Height int
	Width  int
}

// ArtistDetail holds the artist fields resolved by a secondary lookup.
type ArtistDetail struct {
	Genres []string
	Images []Image
}

// AlbumDetail holds the album fields only the full album object carries.
type AlbumDetail struct {
	Label *string
}
