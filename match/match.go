// Package match implements the metadata matching engine: it cleans up noisy
// track and artist names taken from a video, searches a music catalog for
// candidates, scores them against the query with several independent
// similarity signals, and decides whether a candidate is the same song.
package match

import "context"

// Query is the immutable input to one resolution attempt. The title and
// artist come straight from the video source and are expected to be noisy.
type Query struct {
	RawTitle        string
	DurationSeconds float64
	RawArtist       string
	Year            string // optional, e.g. "1975"
}

// Candidate is one catalog search result considered for matching.
type Candidate struct {
	Title             string
	DurationSeconds   float64
	ArtistNames       []string // catalog credit order
	ArtistIDs         []string // parallel to ArtistNames
	AlbumName         string
	AlbumThumbnailURL string
	ThumbnailURL      string // track-level art
	IsSingleRelease   bool
	ReleaseYear       int // 0 when unknown
}

// ScoredCandidate pairs a candidate with its similarity scores for one
// resolution attempt. Never persisted; recomputed per attempt.
type ScoredCandidate struct {
	Candidate     Candidate
	TextScore     float64
	DurationScore float64
	CombinedScore float64
}

// Artist is a credited artist on a resolved track.
type Artist struct {
	Name         string
	ThumbnailURL string // empty when the catalog lookup yielded no image
	Genres       []string
}

// Album describes the release a resolved track belongs to.
type Album struct {
	Name            string
	ThumbnailURL    string
	IsSingleRelease bool
}

// ResolvedTrack is the accepted output of a resolution attempt. It is only
// built from a candidate that passed the acceptance policy or was confirmed
// by the user. Artist order matches the catalog's credit order.
type ResolvedTrack struct {
	Title       string
	ReleaseYear int
	Album       Album
	Artists     []Artist
}

// Catalog is the search surface the resolver runs against. Implementations
// are expected to pace their own outbound calls; errors they return are
// absorbed by the resolver and turned into a "no match" outcome.
type Catalog interface {
	// FindTrack runs a structured search (title + optional artist and year
	// filters) and returns the single top hit, or nil when there is none.
	FindTrack(ctx context.Context, title, artist, year string) (*Candidate, error)

	// SearchTracks runs a free-text title search returning up to limit results.
	SearchTracks(ctx context.Context, title string, limit int) ([]Candidate, error)

	// GetArtist looks up a credited artist by catalog ID for its image and genres.
	GetArtist(ctx context.Context, id string) (*Artist, error)
}
