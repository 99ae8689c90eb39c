package handlers

import (
	"net/http"

	"github.com/sujallchaudhary/drive/services"
	"github.com/sujallchaudhary/drive/utils"

	"github.com/gin-gonic/gin"
)

type SASTokenRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileSize int64  `json:"file_size" binding:"required"`
	MimeType string `json:"mime_type"`
}

type RegisterUploadRequest struct {
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
	FileSize     int64  `json:"file_size"`
	MimeType     string `json:"mime_type"`
	BlobName     string `json:"blob_name"`
	BlobURL      string `json:"blob_url"`
}

func UploadFile(c *gin.Context) {
	userID := c.GetUint("user_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	defer file.Close()

	view, svcErr := getServices().Upload.UploadFile(c.Request.Context(), userID, file, header)
	if respondServiceError(c, svcErr) {
		return
	}

	utils.Success(c, view)
}

func GetSASToken(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req SASTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	out, err := getServices().Upload.IssueUploadURL(c.Request.Context(), userID, services.SASTokenInput{
		FileName: req.FileName,
		FileSize: req.FileSize,
		MimeType: req.MimeType,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func RegisterUpload(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req RegisterUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	view, err := getServices().Upload.RegisterUpload(c.Request.Context(), userID, services.RegisterUploadInput{
		FileName:     req.FileName,
		OriginalName: req.OriginalName,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
		BlobName:     req.BlobName,
		BlobURL:      req.BlobURL,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, view)
}
