package handlers

import (
	"net/http"

	"github.com/sujallchaudhary/drive/utils"

	"github.com/gin-gonic/gin"
)

func ShareFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	out, err := getServices().Share.EnsureShareToken(c.Request.Context(), userID, fileID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func RevokeShare(c *gin.Context) {
	userID := c.GetUint("user_id")
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Share.RevokeShare(c.Request.Context(), userID, fileID)) {
		return
	}

	utils.Success(c, gin.H{"message": "share revoked"})
}

func ResolveShare(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		utils.Error(c, http.StatusBadRequest, "share token is required")
		return
	}

	view, err := getServices().Share.ResolveShare(c.Request.Context(), token)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, view)
}
