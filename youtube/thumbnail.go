package youtube

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/nfnt/resize"
)

// Thumbnail widths in pixels. Track art is kept large, artist portraits
// small.
const (
	SongThumbnailWidth   = 800
	ArtistThumbnailWidth = 150
)

var thumbnailClient = &http.Client{Timeout: 30 * time.Second}

// DownloadThumbnail fetches an image, scales it down to at most maxWidth
// (never up), and writes it to filePath as a JPEG. Images in formats the
// decoder does not know are stored as fetched.
func DownloadThumbnail(ctx context.Context, url, filePath string, maxWidth uint) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail request: %w", err)
	}

	resp, err := thumbnailClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("thumbnail fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read thumbnail: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Undecodable format (e.g. webp): keep the original bytes.
		return os.WriteFile(filePath, data, 0o644)
	}

	if uint(img.Bounds().Dx()) > maxWidth {
		img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	}

	out, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}
