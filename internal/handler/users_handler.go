package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Loopee-App/internal/application"
	"Loopee-App/internal/domain/model"
)

// UsersHandler ユーザープロフィールに関するHTTPハンドラー
type UsersHandler struct {
	usersService application.UsersService
}

// NewUsersHandler UsersHandlerの新しいインスタンスを作成
func NewUsersHandler(usersService application.UsersService) *UsersHandler {
	return &UsersHandler{
		usersService: usersService,
	}
}

// GetProfile GET /users/me/profile - 自分のプロフィールを取得
func (h *UsersHandler) GetProfile(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	profile, err := h.usersService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Failed to get profile: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile PUT /users/me/profile - 自分のプロフィールを更新
func (h *UsersHandler) UpdateProfile(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	var req model.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.usersService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update profile: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}
