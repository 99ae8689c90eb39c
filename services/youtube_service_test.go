package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

type blockedTransport struct{}

func (blockedTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network disabled in tests")
}

// newYouTubeServiceForTest swaps in a transport that refuses every request,
// so the oEmbed fill-in degrades the same way it does when YouTube is down.
func newYouTubeServiceForTest(files *fakeFileRepo) YouTubeService {
	svc := NewYouTubeService(files).(*youtubeService)
	svc.client = &http.Client{Transport: blockedTransport{}}
	return svc
}

func TestAddReferenceValidatesInput(t *testing.T) {
	setupTestConfig()
	svc := newYouTubeServiceForTest(newFakeFileRepo())
	ctx := context.Background()

	if _, err := svc.AddReference(ctx, 1, AddYouTubeInput{Type: "channel", URL: "https://youtube.com/x", Title: "x"}); httpCode(t, err) != 400 {
		t.Fatalf("expected 400 for bad type, got %v", err)
	}
	if _, err := svc.AddReference(ctx, 1, AddYouTubeInput{Type: "video", Title: "x"}); httpCode(t, err) != 400 {
		t.Fatalf("expected 400 for missing url, got %v", err)
	}
}

func TestAddReferenceCreatesQuotaExemptRow(t *testing.T) {
	setupTestConfig()
	files := newFakeFileRepo()
	svc := newYouTubeServiceForTest(files)

	in := AddYouTubeInput{
		Type:      "video",
		URL:       "https://youtube.com/watch?v=abc123",
		Title:     "Conference talk",
		Thumbnail: "https://i.ytimg.com/vi/abc123/default.jpg",
		VideoID:   "abc123",
	}
	view, err := svc.AddReference(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !view.IsYouTube || view.Size != 0 {
		t.Fatalf("expected quota-exempt youtube row, got %+v", view)
	}
	if view.FileType != FileTypeVideo {
		t.Fatalf("expected video type, got %q", view.FileType)
	}
	if view.YouTube == nil || view.YouTube.VideoID != "abc123" {
		t.Fatalf("youtube metadata missing: %+v", view.YouTube)
	}

	stored := files.files[view.ID]
	if stored.BlobName != "youtube-abc123" {
		t.Fatalf("unexpected synthetic blob name %q", stored.BlobName)
	}
	if stored.BlobURL != in.URL {
		t.Fatalf("blob url should hold the external url, got %q", stored.BlobURL)
	}
}

func TestAddReferenceRejectsDuplicates(t *testing.T) {
	setupTestConfig()
	files := newFakeFileRepo()
	svc := newYouTubeServiceForTest(files)
	ctx := context.Background()

	in := AddYouTubeInput{
		Type:    "video",
		URL:     "https://youtube.com/watch?v=abc123",
		Title:   "Talk",
		VideoID: "abc123",
	}
	if _, err := svc.AddReference(ctx, 1, in); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := svc.AddReference(ctx, 1, in); httpCode(t, err) != 409 {
		t.Fatalf("expected 409 for duplicate url, got %v", err)
	}

	// A trashed copy no longer trips the live-rows check, but its synthetic
	// blob name still holds the unique key; that surfaces as a conflict too.
	first := files.files[1]
	_ = files.SoftDeleteByIDAndUser(ctx, nil, first.ID, 1)
	if _, err := svc.AddReference(ctx, 1, in); httpCode(t, err) != 409 {
		t.Fatalf("expected 409 re-adding a trashed video, got %v", err)
	}

	// A different user may reference a different video with the same title.
	if _, err := svc.AddReference(ctx, 2, AddYouTubeInput{
		Type: "video", URL: "https://youtube.com/watch?v=abc124", Title: "Talk", VideoID: "abc124",
	}); err != nil {
		t.Fatalf("cross-user add failed: %v", err)
	}
}

func TestSyntheticBlobNameFallbacks(t *testing.T) {
	if got := syntheticBlobName(AddYouTubeInput{VideoID: "v1"}); got != "youtube-v1" {
		t.Fatalf("video id name: %q", got)
	}
	if got := syntheticBlobName(AddYouTubeInput{PlaylistID: "p1"}); got != "youtube-p1" {
		t.Fatalf("playlist id name: %q", got)
	}
	got := syntheticBlobName(AddYouTubeInput{})
	if !strings.HasPrefix(got, "youtube-") || len(got) <= len("youtube-") {
		t.Fatalf("timestamp fallback name: %q", got)
	}
}

func TestAddPlaylistReference(t *testing.T) {
	setupTestConfig()
	files := newFakeFileRepo()
	svc := newYouTubeServiceForTest(files)

	view, err := svc.AddReference(context.Background(), 1, AddYouTubeInput{
		Type:       "playlist",
		URL:        "https://youtube.com/playlist?list=PL123",
		Title:      "Go talks",
		PlaylistID: "PL123",
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if view.YouTube == nil || view.YouTube.Type != "playlist" || view.YouTube.PlaylistID != "PL123" {
		t.Fatalf("playlist metadata missing: %+v", view.YouTube)
	}
}
