// Package youtube drives yt-dlp to inspect videos and extract their audio.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

const (
	watchURL    = "https://www.youtube.com/watch?v="
	playlistURL = "https://music.youtube.com/playlist?list="
)

// ValidExtensions are the audio formats yt-dlp is asked to extract to.
var ValidExtensions = map[string]bool{
	"opus": true,
	"m4a":  true,
	"mp3":  true,
	"flac": true,
	"wav":  true,
}

// DefaultExtension is used when no extension (or an invalid one) is requested.
const DefaultExtension = "opus"

// VideoInfo is the subset of yt-dlp's JSON dump the downloader cares about.
// The artist/track fields are only sometimes present; use ArtistName and
// TrackTitle for the fallback order.
type VideoInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Track      string  `json:"track"`
	Artist     string  `json:"artist"`
	Uploader   string  `json:"uploader"`
	Channel    string  `json:"channel"`
	Duration   float64 `json:"duration"`
	UploadDate string  `json:"upload_date"` // YYYYMMDD
	Thumbnail  string  `json:"thumbnail"`
}

// TrackTitle prefers the explicit track tag over the free-text video title.
func (v *VideoInfo) TrackTitle() string {
	if strings.TrimSpace(v.Track) != "" {
		return v.Track
	}
	return v.Title
}

// ArtistName picks the best available artist hint: tag, then channel, then
// uploader.
func (v *VideoInfo) ArtistName() string {
	if strings.TrimSpace(v.Artist) != "" {
		return v.Artist
	}
	if strings.TrimSpace(v.Channel) != "" {
		return v.Channel
	}
	if strings.TrimSpace(v.Uploader) != "" {
		return v.Uploader
	}
	return "Unknown"
}

// UploadYear returns the upload year, or "" when unknown.
func (v *VideoInfo) UploadYear() string {
	if len(v.UploadDate) < 4 {
		return ""
	}
	return v.UploadDate[:4]
}

// PlaylistEntry is one flat playlist item.
type PlaylistEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Install makes sure a usable yt-dlp binary is available, downloading one
// when the system has none.
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}

// FetchVideoInfo dumps a single video's metadata without downloading it.
func FetchVideoInfo(ctx context.Context, videoID string) (*VideoInfo, error) {
	dl := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		DumpSingleJSON()

	result, err := dl.Run(ctx, watchURL+videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}

	var info VideoInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}
	if info.ID == "" || info.Title == "" {
		return nil, fmt.Errorf("video info for %s is missing id or title", videoID)
	}

	return &info, nil
}

// FetchPlaylistEntries lists a playlist's items without resolving each video.
func FetchPlaylistEntries(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	dl := ytdlp.New().
		NoWarnings().
		FlatPlaylist().
		DumpJSON()

	result, err := dl.Run(ctx, playlistURL+playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	var entries []PlaylistEntry
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry PlaylistEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("failed to parse playlist entry: %w", err)
		}
		if entry.ID != "" {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// DownloadAudio extracts a video's audio into destPath (without extension;
// yt-dlp appends the requested one) in the given format.
func DownloadAudio(ctx context.Context, videoID, destPath, extension string) error {
	if !ValidExtensions[extension] {
		extension = DefaultExtension
	}

	dl := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(extension).
		AudioQuality("0").
		Output(destPath + ".%(ext)s")

	if _, err := dl.Run(ctx, watchURL+videoID); err != nil {
		return fmt.Errorf("audio download failed: %w", err)
	}
	return nil
}

// SanitizeFilename replaces characters that cannot appear in file names.
func SanitizeFilename(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return '-'
		}
		return r
	}, name)

	sanitized = strings.TrimSpace(sanitized)
	if sanitized == "" {
		return "untitled"
	}
	return sanitized
}
