package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/garry/wave/config"
	"github.com/garry/wave/youtube"
)

// Version information - set during build
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "wave",
		Short:        "Download audio from YouTube with music metadata from Spotify",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newYoutubeCmd(),
		newGetPathCmd(),
		newSetPathCmd(),
		newCredentialsCmd(),
	)

	return root
}

func newYoutubeCmd() *cobra.Command {
	var opts downloadOptions
	var videoID, playlistID string

	cmd := &cobra.Command{
		Use:   "youtube",
		Short: "Download audio from a YouTube video or playlist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if videoID == "" && playlistID == "" {
				return fmt.Errorf("either '--id' or '--playlist-id' must be provided")
			}

			if opts.extension != "" && !youtube.ValidExtensions[opts.extension] {
				log.Printf("❌ Invalid extension %q, using %s", opts.extension, youtube.DefaultExtension)
				opts.extension = youtube.DefaultExtension
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx := cmd.Context()
			if err := youtube.Install(ctx); err != nil {
				return err
			}

			if playlistID != "" {
				return downloadPlaylist(ctx, cfg, playlistID, opts)
			}
			return downloadVideo(ctx, cfg, videoID, opts)
		},
	}

	cmd.Flags().StringVar(&videoID, "id", "", "YouTube video ID")
	cmd.Flags().StringVar(&playlistID, "playlist-id", "", "YouTube playlist ID")
	cmd.Flags().StringVar(&opts.title, "title", "", "Override track title for the Spotify search")
	cmd.Flags().StringVar(&opts.artist, "artist", "", "Override artist for the Spotify search")
	cmd.Flags().StringVar(&opts.year, "year", "", "Override release year for the Spotify search")
	cmd.Flags().BoolVar(&opts.basic, "basic", false, "Download only audio without metadata")
	cmd.Flags().StringVar(&opts.extension, "ext", youtube.DefaultExtension, "Output audio file extension (opus, m4a, mp3, flac, wav)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug output (detailed matching and similarity information)")

	return cmd
}

func newGetPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-path",
		Short: "Display the current download directory",
		RunE: func(*cobra.Command, []string) error {
			path, err := config.GetDownloadPath()
			if err != nil {
				return err
			}
			fmt.Printf("Current download path: %s\n", path)
			return nil
		},
	}
}

func newSetPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-path PATH",
		Short: "Set the download directory for media files",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path, err := config.SetDownloadPath(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Download path set to: %s\n", path)
			return nil
		},
	}
}

func newCredentialsCmd() *cobra.Command {
	var clientID, clientSecret string

	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Store the Spotify client credentials",
		RunE: func(*cobra.Command, []string) error {
			if err := config.SaveCredentials(clientID, clientSecret); err != nil {
				return err
			}
			fmt.Println("✅ Spotify credentials have been set successfully.")
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Spotify client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Spotify client secret")
	_ = cmd.MarkFlagRequired("client-id")
	_ = cmd.MarkFlagRequired("client-secret")

	return cmd
}
