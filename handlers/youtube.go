package handlers

import (
	"net/http"

	"github.com/sujallchaudhary/drive/services"
	"github.com/sujallchaudhary/drive/utils"

	"github.com/gin-gonic/gin"
)

type AddYouTubeRequest struct {
	Type       string `json:"type" binding:"required"`
	URL        string `json:"url" binding:"required"`
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
	VideoID    string `json:"video_id"`
	PlaylistID string `json:"playlist_id"`
}

func AddYouTube(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req AddYouTubeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	view, err := getServices().YouTube.AddReference(c.Request.Context(), userID, services.AddYouTubeInput{
		Type:       req.Type,
		URL:        req.URL,
		Title:      req.Title,
		Thumbnail:  req.Thumbnail,
		VideoID:    req.VideoID,
		PlaylistID: req.PlaylistID,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, view)
}
