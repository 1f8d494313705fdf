package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/garry/wave/match"
	"github.com/garry/wave/youtube"
)

func TestBuildQuery(t *testing.T) {
	info := &youtube.VideoInfo{
		Title:      "Queen - Bohemian Rhapsody (Official Video)",
		Track:      "Bohemian Rhapsody",
		Channel:    "Queen Official",
		Duration:   355,
		UploadDate: "20091002",
	}

	// Without overrides the query comes from the video metadata, and the
	// upload date never supplies a release year.
	query := buildQuery(info, downloadOptions{})
	if query.RawTitle != "Bohemian Rhapsody" {
		t.Errorf("Expected title from the track tag, got %q", query.RawTitle)
	}
	if query.RawArtist != "Queen Official" {
		t.Errorf("Expected artist from the channel, got %q", query.RawArtist)
	}
	if query.DurationSeconds != 355 {
		t.Errorf("Expected duration 355, got %f", query.DurationSeconds)
	}
	if query.Year != "" {
		t.Errorf("Expected no year without an override, got %q", query.Year)
	}

	// Overrides win over everything inferred.
	query = buildQuery(info, downloadOptions{title: "Other Title", artist: "Other Artist", year: "1975"})
	if query.RawTitle != "Other Title" {
		t.Errorf("Expected the title override, got %q", query.RawTitle)
	}
	if query.RawArtist != "Other Artist" {
		t.Errorf("Expected the artist override, got %q", query.RawArtist)
	}
	if query.Year != "1975" {
		t.Errorf("Expected the year override, got %q", query.Year)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	expected := []string{"youtube", "get-path", "set-path", "credentials"}
	for _, name := range expected {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestWriteSongMetadata(t *testing.T) {
	dir := t.TempDir()
	info := &youtube.VideoInfo{
		ID:         "abc123",
		Title:      "Queen - Bohemian Rhapsody (Official Video)",
		Channel:    "Queen Official",
		Duration:   355,
		UploadDate: "20091002",
	}
	resolved := &match.ResolvedTrack{
		Title:       "Bohemian Rhapsody",
		ReleaseYear: 1975,
		Album:       match.Album{Name: "A Night at the Opera"},
		Artists:     []match.Artist{{Name: "Queen"}},
	}

	if err := writeSongMetadata(dir, info, resolved, resolved.Title); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta songMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatal(err)
	}

	if meta.Title != "Bohemian Rhapsody" {
		t.Errorf("Expected resolved title, got %q", meta.Title)
	}
	if meta.ReleaseYear != 1975 {
		t.Errorf("Expected release year 1975, got %d", meta.ReleaseYear)
	}
	if len(meta.Artists) != 1 || meta.Artists[0] != "Queen" {
		t.Errorf("Expected artists [Queen], got %v", meta.Artists)
	}
	if meta.Album == nil || meta.Album.Name != "A Night at the Opera" {
		t.Errorf("Expected the resolved album, got %+v", meta.Album)
	}
	if meta.VideoID != "abc123" {
		t.Errorf("Expected the video ID to be recorded, got %q", meta.VideoID)
	}
}

func TestWriteSongMetadataWithoutMatch(t *testing.T) {
	dir := t.TempDir()
	info := &youtube.VideoInfo{
		ID:       "abc123",
		Title:    "Some Obscure Upload",
		Uploader: "someone",
		Duration: 120,
	}

	if err := writeSongMetadata(dir, info, nil, info.TrackTitle()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta songMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatal(err)
	}

	if meta.Title != "Some Obscure Upload" {
		t.Errorf("Expected the video title, got %q", meta.Title)
	}
	if meta.ReleaseYear != 0 {
		t.Errorf("Expected no release year, got %d", meta.ReleaseYear)
	}
	if len(meta.Artists) != 1 || meta.Artists[0] != "someone" {
		t.Errorf("Expected the uploader as the only artist, got %v", meta.Artists)
	}
	if meta.Album != nil {
		t.Errorf("Expected no album, got %+v", meta.Album)
	}
}
