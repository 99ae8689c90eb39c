package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sujallchaudhary/drive/logger"
	"github.com/sujallchaudhary/drive/models"
	"github.com/sujallchaudhary/drive/repositories"

	"gorm.io/gorm"
)

type AddYouTubeInput struct {
	Type       string
	URL        string
	Title      string
	Thumbnail  string
	VideoID    string
	PlaylistID string
}

type YouTubeService interface {
	// AddReference stores an external video/playlist entry. These rows
	// own no blob and never touch the quota ledger.
	AddReference(ctx context.Context, userID uint, in AddYouTubeInput) (FileView, error)
}

type youtubeService struct {
	files  repositories.FileRepository
	client *http.Client
}

func NewYouTubeService(files repositories.FileRepository) YouTubeService {
	return &youtubeService{
		files:  files,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *youtubeService) AddReference(ctx context.Context, userID uint, in AddYouTubeInput) (FileView, error) {
	if in.Type != "video" && in.Type != "playlist" {
		return FileView{}, newAppError(http.StatusBadRequest, "type must be video or playlist", nil)
	}
	if in.URL == "" {
		return FileView{}, newAppError(http.StatusBadRequest, "url is required", nil)
	}

	count, err := s.files.CountLiveByUserAndBlobURL(ctx, nil, userID, in.URL)
	if err != nil {
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to check for duplicates", err)
	}
	if count > 0 {
		return FileView{}, newAppError(http.StatusConflict, "this video is already in your drive", nil)
	}

	title, thumbnail := in.Title, in.Thumbnail
	if title == "" || thumbnail == "" {
		if oTitle, oThumb, oErr := s.fetchOEmbed(ctx, in.URL); oErr == nil {
			if title == "" {
				title = oTitle
			}
			if thumbnail == "" {
				thumbnail = oThumb
			}
		} else {
			logger.Debugf("oembed lookup failed for %s: %v", in.URL, oErr)
		}
	}
	if title == "" {
		title = in.URL
	}

	meta := models.YouTubeMeta{
		Type:       in.Type,
		VideoID:    in.VideoID,
		PlaylistID: in.PlaylistID,
		Thumbnail:  thumbnail,
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to encode video metadata", err)
	}

	record := models.File{
		UserID:       userID,
		Name:         title,
		OriginalName: title,
		Size:         0,
		FileType:     FileTypeVideo,
		BlobName:     syntheticBlobName(in),
		BlobURL:      in.URL,
		ThumbURL:     thumbnail,
		IsYouTube:    true,
		YouTubeData:  string(metaJSON),
		Tags:         "[]",
	}

	if err := s.files.Create(ctx, nil, &record); err != nil {
		// The live-rows duplicate check above misses trashed copies and
		// other users' rows; the blob_name unique key still catches them.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return FileView{}, newAppError(http.StatusConflict, "this video is already in your drive", err)
		}
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to save video reference", err)
	}
	return newFileView(record), nil
}

// syntheticBlobName keeps the blob-name uniqueness invariant for rows that
// have no real blob behind them.
func syntheticBlobName(in AddYouTubeInput) string {
	switch {
	case in.VideoID != "":
		return "youtube-" + in.VideoID
	case in.PlaylistID != "":
		return "youtube-" + in.PlaylistID
	default:
		return fmt.Sprintf("youtube-%d", time.Now().UnixNano())
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (s *youtubeService) fetchOEmbed(ctx context.Context, videoURL string) (string, string, error) {
	endpoint := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", errors.New("oembed request failed: " + resp.Status)
	}

	var payload oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", err
	}
	return payload.Title, payload.ThumbnailURL, nil
}
