package handlers

import (
	"net/http"
	"strconv"

	"github.com/sujallchaudhary/drive/services"
	"github.com/sujallchaudhary/drive/utils"

	"github.com/gin-gonic/gin"
)

type RenameFileRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateFileMetaRequest struct {
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

func fileIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, "invalid file id")
		return 0, false
	}
	return uint(id), true
}

func ListFiles(c *gin.Context) {
	userID := c.GetUint("user_id")
	filter := c.DefaultQuery("filter", "all")
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	out, err := getServices().File.ListFiles(c.Request.Context(), userID, filter, search, page, limit)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func ListTrash(c *gin.Context) {
	userID := c.GetUint("user_id")

	out, err := getServices().File.ListTrash(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func RenameFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	var req RenameFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	view, err := getServices().File.Rename(c.Request.Context(), userID, fileID, req.Name)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, view)
}

func ToggleStar(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	starred, err := getServices().File.ToggleStar(c.Request.Context(), userID, fileID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, gin.H{"is_starred": starred})
}

func UpdateFileMeta(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	var req UpdateFileMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	view, err := getServices().File.UpdateMeta(c.Request.Context(), userID, fileID, services.UpdateFileMetaInput{
		Description: req.Description,
		Tags:        req.Tags,
		HasTags:     req.Tags != nil,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, view)
}

func DeleteFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	if respondServiceError(c, getServices().File.SoftDelete(c.Request.Context(), userID, fileID)) {
		return
	}

	utils.Success(c, gin.H{"message": "file moved to trash"})
}

func RestoreFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	if respondServiceError(c, getServices().File.Restore(c.Request.Context(), userID, fileID)) {
		return
	}

	utils.Success(c, gin.H{"message": "file restored"})
}

func PermanentDeleteFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	if respondServiceError(c, getServices().File.PermanentDelete(c.Request.Context(), userID, fileID)) {
		return
	}

	utils.Success(c, gin.H{"message": "file permanently deleted"})
}
