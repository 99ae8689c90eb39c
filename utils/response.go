package utils

import "github.com/gin-gonic/gin"

type PaginationData struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

func Success(c *gin.Context, data any) {
	c.JSON(200, data)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func ErrorWithData(c *gin.Context, code int, message string, data any) {
	c.JSON(code, gin.H{"error": message, "details": data})
}
