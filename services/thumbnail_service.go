package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sujallchaudhary/drive/config"

	"github.com/disintegration/imaging"
)

func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// GenerateThumbnail renders a JPEG preview of an uploaded image, fitted to
// the configured bounding box.
func GenerateThumbnail(content []byte) ([]byte, error) {
	cfg := config.AppConfig.Thumbnail

	img, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, cfg.Width, cfg.Height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(cfg.Quality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
