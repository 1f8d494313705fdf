package spotify

import (
	"context"
	"testing"

	"github.com/zmb3/spotify/v2"

	"github.com/garry/wave/config"
)

func TestNewClientMissingCredentials(t *testing.T) {
	cfg := &config.Config{}

	client, err := NewClient(context.Background(), cfg, nil)
	if err == nil {
		t.Fatal("Expected an error for missing credentials, got nil")
	}
	if client != nil {
		t.Errorf("Expected nil client, got %+v", client)
	}
}

func TestConvertTrack(t *testing.T) {
	track := spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			Name:     "Bohemian Rhapsody",
			Duration: 355000,
			Artists: []spotify.SimpleArtist{
				{Name: "Queen", ID: "artist-1"},
			},
		},
		Album: spotify.SimpleAlbum{
			Name:        "A Night at the Opera",
			AlbumType:   "album",
			ReleaseDate: "1975-11-21",
			Images: []spotify.Image{
				{URL: "https://img.example/large.jpg"},
				{URL: "https://img.example/small.jpg"},
			},
		},
	}

	candidate := convertTrack(track)

	if candidate.Title != "Bohemian Rhapsody" {
		t.Errorf("Expected title 'Bohemian Rhapsody', got %s", candidate.Title)
	}
	if candidate.DurationSeconds != 355 {
		t.Errorf("Expected duration 355 seconds, got %f", candidate.DurationSeconds)
	}
	if len(candidate.ArtistNames) != 1 || candidate.ArtistNames[0] != "Queen" {
		t.Errorf("Expected artist names [Queen], got %v", candidate.ArtistNames)
	}
	if len(candidate.ArtistIDs) != 1 || candidate.ArtistIDs[0] != "artist-1" {
		t.Errorf("Expected artist IDs [artist-1], got %v", candidate.ArtistIDs)
	}
	if candidate.AlbumName != "A Night at the Opera" {
		t.Errorf("Expected album 'A Night at the Opera', got %s", candidate.AlbumName)
	}
	if candidate.AlbumThumbnailURL != "https://img.example/large.jpg" {
		t.Errorf("Expected the first album image, got %s", candidate.AlbumThumbnailURL)
	}
	if candidate.IsSingleRelease {
		t.Error("Expected an album release, got a single")
	}
	if candidate.ReleaseYear != 1975 {
		t.Errorf("Expected release year 1975, got %d", candidate.ReleaseYear)
	}
}

func TestConvertTrackSingleRelease(t *testing.T) {
	track := spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{Name: "One Off"},
		Album: spotify.SimpleAlbum{
			AlbumType:   "single",
			ReleaseDate: "2020",
		},
	}

	candidate := convertTrack(track)

	if !candidate.IsSingleRelease {
		t.Error("Expected a single release")
	}
	if candidate.AlbumName != "Unknown" {
		t.Errorf("Expected 'Unknown' for a missing album name, got %s", candidate.AlbumName)
	}
	if candidate.AlbumThumbnailURL != "" || candidate.ThumbnailURL != "" {
		t.Errorf("Expected empty thumbnails without album images, got %s and %s",
			candidate.AlbumThumbnailURL, candidate.ThumbnailURL)
	}
	if candidate.ReleaseYear != 2020 {
		t.Errorf("Expected release year 2020, got %d", candidate.ReleaseYear)
	}
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"full date", "2006-07-03", 2006},
		{"year and month", "2006-07", 2006},
		{"year only", "2006", 2006},
		{"empty", "", 0},
		{"too short", "20", 0},
		{"not a number", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := releaseYear(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, result)
			}
		})
	}
}
