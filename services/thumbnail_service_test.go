package services

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestIsImageMime(t *testing.T) {
	if !IsImageMime("image/PNG") {
		t.Fatalf("expected image/PNG to be recognized")
	}
	if IsImageMime("text/plain") {
		t.Fatalf("expected text/plain to be rejected")
	}
}

func TestGenerateThumbnailFitsBoundingBox(t *testing.T) {
	setupTestConfig()

	src := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	for y := 0; y < 500; y++ {
		for x := 0; x < 1000; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode src image: %v", err)
	}

	thumb, err := GenerateThumbnail(buf.Bytes())
	if err != nil {
		t.Fatalf("GenerateThumbnail failed: %v", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail does not decode: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() > 320 || bounds.Dy() > 320 {
		t.Fatalf("thumbnail exceeds bounding box: %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateThumbnailRejectsGarbage(t *testing.T) {
	setupTestConfig()
	if _, err := GenerateThumbnail([]byte("not an image")); err == nil {
		t.Fatalf("expected decode error for garbage input")
	}
}
