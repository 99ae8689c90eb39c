package handlers

import (
	"github.com/sujallchaudhary/drive/utils"

	"github.com/gin-gonic/gin"
)

func GetStorageUsage(c *gin.Context) {
	userID := c.GetUint("user_id")

	usage, err := getServices().User.GetStorageUsage(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, usage)
}
