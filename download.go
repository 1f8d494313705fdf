package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/garry/wave/config"
	"github.com/garry/wave/match"
	"github.com/garry/wave/ratelimit"
	"github.com/garry/wave/spotify"
	"github.com/garry/wave/youtube"
)

type downloadOptions struct {
	title     string
	artist    string
	year      string
	extension string
	basic     bool
	debug     bool
}

type songMetadata struct {
	Title           string         `json:"title"`
	Artists         []string       `json:"artists,omitempty"`
	Album           *albumMetadata `json:"album,omitempty"`
	ReleaseYear     int            `json:"releaseYear,omitempty"`
	DurationSeconds float64        `json:"durationSeconds"`
	VideoID         string         `json:"videoId"`
	VideoTitle      string         `json:"videoTitle"`
	Uploader        string         `json:"uploader,omitempty"`
	UploadDate      string         `json:"uploadDate,omitempty"`
}

type albumMetadata struct {
	Name   string `json:"name"`
	Single bool   `json:"single"`
}

type authorMetadata struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
}

// newResolver wires the matching engine together: the catalog client shares
// one rate limiter across every request made for this invocation, and
// ambiguous matches are confirmed at the terminal.
func newResolver(ctx context.Context, cfg *config.Config, debug bool) (*match.Resolver, error) {
	limiter := ratelimit.New(ratelimit.Options{
		Limit:   spotify.RateLimit,
		Window:  spotify.RateWindow,
		Message: "⏳ Spotify request limit reached, waiting for the window to reset...",
	})

	client, err := spotify.NewClient(ctx, cfg, limiter)
	if err != nil {
		return nil, err
	}
	client.SetDebug(debug)

	resolver := match.NewResolver(client, &match.TerminalConfirmer{})
	resolver.SetDebug(debug)
	return resolver, nil
}

func downloadVideo(ctx context.Context, cfg *config.Config, videoID string, opts downloadOptions) error {
	var resolver *match.Resolver
	if !opts.basic {
		r, err := newResolver(ctx, cfg, opts.debug)
		if err != nil {
			return err
		}
		resolver = r
	}
	return downloadOne(ctx, cfg, resolver, videoID, opts)
}

func downloadPlaylist(ctx context.Context, cfg *config.Config, playlistID string, opts downloadOptions) error {
	var resolver *match.Resolver
	if !opts.basic {
		r, err := newResolver(ctx, cfg, opts.debug)
		if err != nil {
			return err
		}
		resolver = r
	}

	entries, err := youtube.FetchPlaylistEntries(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist %s: %w", playlistID, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("playlist %s has no entries", playlistID)
	}

	// Title, artist and year overrides only make sense for a single video.
	entryOpts := opts
	entryOpts.title = ""
	entryOpts.artist = ""
	entryOpts.year = ""

	failed := 0
	for i, entry := range entries {
		log.Printf("🎵 Processing track %d of %d: %s", i+1, len(entries), entry.Title)
		if err := downloadOne(ctx, cfg, resolver, entry.ID, entryOpts); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("⚠️ Failed to download %s: %v", entry.ID, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tracks failed to download", failed, len(entries))
	}
	log.Printf("✅ Downloaded %d tracks", len(entries))
	return nil
}

func downloadOne(ctx context.Context, cfg *config.Config, resolver *match.Resolver, videoID string, opts downloadOptions) error {
	info, err := youtube.FetchVideoInfo(ctx, videoID)
	if err != nil {
		return err
	}

	log.Printf("🎵 %s", info.Title)

	var resolved *match.ResolvedTrack
	if resolver != nil {
		resolved, err = resolver.Resolve(ctx, buildQuery(info, opts))
		if err != nil {
			return err
		}
		if resolved == nil {
			confirmer := &match.TerminalConfirmer{}
			if !confirmer.Confirm("No catalog match found. Download without metadata? [Y/n] ") {
				log.Printf("⏭️ Skipping %s", videoID)
				return nil
			}
		}
	}

	return writeTrack(ctx, cfg, info, resolved, opts)
}

// buildQuery assembles the catalog lookup from the video's own metadata.
// Explicit overrides win over anything inferred from the video, and the
// release year is only ever set by an override: the upload date says when a
// video was posted, not when the song came out.
func buildQuery(info *youtube.VideoInfo, opts downloadOptions) match.Query {
	query := match.Query{
		RawTitle:        info.TrackTitle(),
		DurationSeconds: info.Duration,
		RawArtist:       info.ArtistName(),
	}
	if opts.title != "" {
		query.RawTitle = opts.title
	}
	if opts.artist != "" {
		query.RawArtist = opts.artist
	}
	if opts.year != "" {
		query.Year = opts.year
	}
	return query
}

// writeTrack lays the download out on disk:
//
//	<download path>/<title>/song/<title>.<ext>
//	<download path>/<title>/song/thumbnail.jpg
//	<download path>/<title>/song/metadata.json
//	<download path>/<title>/author/<artist>.jpg
//	<download path>/<title>/author/metadata.json
func writeTrack(ctx context.Context, cfg *config.Config, info *youtube.VideoInfo, resolved *match.ResolvedTrack, opts downloadOptions) error {
	title := info.TrackTitle()
	if resolved != nil {
		title = resolved.Title
	}

	baseDir := filepath.Join(cfg.Download.Path, youtube.SanitizeFilename(title))
	songDir := filepath.Join(baseDir, "song")
	authorDir := filepath.Join(baseDir, "author")
	for _, dir := range []string{songDir, authorDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	ext := opts.extension
	if ext == "" {
		ext = youtube.DefaultExtension
	}
	audioPath := filepath.Join(songDir, youtube.SanitizeFilename(title))
	if err := youtube.DownloadAudio(ctx, info.ID, audioPath, ext); err != nil {
		return fmt.Errorf("failed to download audio for %s: %w", info.ID, err)
	}
	log.Printf("✅ Saved audio to %s.%s", audioPath, ext)

	songArtURL := info.Thumbnail
	if resolved != nil && resolved.Album.ThumbnailURL != "" {
		songArtURL = resolved.Album.ThumbnailURL
	}
	if songArtURL != "" {
		thumbPath := filepath.Join(songDir, "thumbnail.jpg")
		if err := youtube.DownloadThumbnail(ctx, songArtURL, thumbPath, youtube.SongThumbnailWidth); err != nil {
			log.Printf("⚠️ Failed to download song thumbnail: %v", err)
		}
	}

	if err := writeSongMetadata(songDir, info, resolved, title); err != nil {
		return err
	}
	if err := writeAuthorMetadata(ctx, authorDir, info, resolved); err != nil {
		return err
	}

	log.Printf("✅ Saved %s", title)
	return nil
}

func writeSongMetadata(songDir string, info *youtube.VideoInfo, resolved *match.ResolvedTrack, title string) error {
	meta := songMetadata{
		Title:           title,
		DurationSeconds: info.Duration,
		VideoID:         info.ID,
		VideoTitle:      info.Title,
		Uploader:        info.Uploader,
		UploadDate:      info.UploadDate,
	}
	if resolved != nil {
		meta.ReleaseYear = resolved.ReleaseYear
		for _, artist := range resolved.Artists {
			meta.Artists = append(meta.Artists, artist.Name)
		}
		if resolved.Album.Name != "" {
			meta.Album = &albumMetadata{
				Name:   resolved.Album.Name,
				Single: resolved.Album.IsSingleRelease,
			}
		}
	} else if name := info.ArtistName(); name != "" {
		meta.Artists = []string{name}
	}
	return writeJSON(filepath.Join(songDir, "metadata.json"), meta)
}

func writeAuthorMetadata(ctx context.Context, authorDir string, info *youtube.VideoInfo, resolved *match.ResolvedTrack) error {
	if resolved == nil || len(resolved.Artists) == 0 {
		meta := authorMetadata{Name: info.ArtistName()}
		return writeJSON(filepath.Join(authorDir, "metadata.json"), meta)
	}

	authors := make([]authorMetadata, 0, len(resolved.Artists))
	for _, artist := range resolved.Artists {
		authors = append(authors, authorMetadata{Name: artist.Name, Genres: artist.Genres})
		if artist.ThumbnailURL == "" {
			continue
		}
		thumbPath := filepath.Join(authorDir, youtube.SanitizeFilename(artist.Name)+".jpg")
		if err := youtube.DownloadThumbnail(ctx, artist.ThumbnailURL, thumbPath, youtube.ArtistThumbnailWidth); err != nil {
			log.Printf("⚠️ Failed to download artist thumbnail for %s: %v", artist.Name, err)
		}
	}

	if len(authors) == 1 {
		return writeJSON(filepath.Join(authorDir, "metadata.json"), authors[0])
	}
	return writeJSON(filepath.Join(authorDir, "metadata.json"), authors)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
