package handlers

import (
	"net/http"

	"github.com/sujallchaudhary/drive/services"
	"github.com/sujallchaudhary/drive/utils"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := getServices().Auth.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, user)
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	out, err := getServices().Auth.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	profile, err := getServices().Auth.GetProfile(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, profile)
}
