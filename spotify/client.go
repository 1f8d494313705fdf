// Package spotify implements the catalog client: client-credentials
// authentication, rate-limited search and artist lookups, and mapping of raw
// catalog records into the matching engine's candidate shape.
package spotify

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/garry/wave/config"
	"github.com/garry/wave/match"
	"github.com/garry/wave/ratelimit"
)

// Catalog API pacing. One window shared by every call the client makes.
const (
	RateLimit  = 30
	RateWindow = 30 * time.Second
)

// Client wraps the Spotify API client behind the match.Catalog interface.
// All calls pass through the shared rate limiter.
type Client struct {
	client  *spotify.Client
	limiter *ratelimit.Limiter
	debug   bool
}

// NewClient creates an authenticated catalog client. It fails fast when the
// client credentials are missing and exchanges them for a token immediately,
// so an invalid secret surfaces here rather than mid-resolution.
func NewClient(ctx context.Context, cfg *config.Config, limiter *ratelimit.Limiter) (*Client, error) {
	if err := cfg.ValidateSpotify(); err != nil {
		return nil, err
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.Spotify.ClientID),
		spotifyauth.WithClientSecret(cfg.Spotify.ClientSecret),
	)

	// Client credentials flow: no user authorization involved, the token
	// only grants catalog reads.
	token, err := auth.Exchange(ctx, "", oauth2.SetAuthURLParam("grant_type", "client_credentials"))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)

	if limiter == nil {
		limiter = ratelimit.New(ratelimit.Options{
			Limit:   RateLimit,
			Window:  RateWindow,
			Message: "⏳ Spotify request limit reached, waiting for the window to reset...",
		})
	}

	return &Client{
		client:  spotify.New(httpClient),
		limiter: limiter,
	}, nil
}

// SetDebug enables per-request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FindTrack runs a structured search with track/artist/year filters and
// returns the single top hit, or nil when the catalog has none.
func (c *Client) FindTrack(ctx context.Context, title, artist, year string) (*match.Candidate, error) {
	query := "track:" + title
	if artist != "" {
		query += " artist:" + artist
	}
	if year != "" {
		query += " year:" + year
	}

	tracks, err := c.searchTracks(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, nil
	}

	candidate := convertTrack(tracks[0])
	return &candidate, nil
}

// SearchTracks runs a free-text title search returning up to limit candidates.
func (c *Client) SearchTracks(ctx context.Context, title string, limit int) ([]match.Candidate, error) {
	tracks, err := c.searchTracks(ctx, title, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]match.Candidate, 0, len(tracks))
	for _, track := range tracks {
		candidates = append(candidates, convertTrack(track))
	}
	return candidates, nil
}

func (c *Client) searchTracks(ctx context.Context, query string, limit int) ([]spotify.FullTrack, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	c.debugLog("🔍 spotify: searching %q (limit %d)", query, limit)
	result, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}
	if result.Tracks == nil {
		return nil, nil
	}
	return result.Tracks.Tracks, nil
}

// GetArtist looks up an artist for its image and genres.
func (c *Client) GetArtist(ctx context.Context, id string) (*match.Artist, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	c.debugLog("🔍 spotify: fetching artist %s", id)
	artist, err := c.client.GetArtist(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("spotify artist lookup failed: %w", err)
	}

	return &match.Artist{
		Name:         artist.Name,
		ThumbnailURL: firstImageURL(artist.Images),
		Genres:       artist.Genres,
	}, nil
}

// convertTrack maps a raw catalog record onto the candidate shape the
// matching engine scores. Spotify exposes artwork on the release, so the
// track-level and album-level thumbnails both come from the album images.
func convertTrack(track spotify.FullTrack) match.Candidate {
	names := make([]string, 0, len(track.Artists))
	ids := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		names = append(names, artist.Name)
		ids = append(ids, string(artist.ID))
	}

	art := firstImageURL(track.Album.Images)

	return match.Candidate{
		Title:             track.Name,
		DurationSeconds:   float64(track.Duration) / 1000,
		ArtistNames:       names,
		ArtistIDs:         ids,
		AlbumName:         albumName(track.Album.Name),
		AlbumThumbnailURL: art,
		ThumbnailURL:      art,
		IsSingleRelease:   track.Album.AlbumType == "single",
		ReleaseYear:       releaseYear(track.Album.ReleaseDate),
	}
}

func albumName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

// releaseYear parses the leading year of a catalog release date, which may
// be "2006", "2006-07" or "2006-07-03".
func releaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

func firstImageURL(images []spotify.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf(format, args...)
	}
}
