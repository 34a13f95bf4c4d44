package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/infrastructure/analytics"
	"Loopee-App/internal/usecase"
)

// ContributionsHandler トイレ投稿フローに関するHTTPハンドラー
type ContributionsHandler struct {
	contributionUseCase usecase.ContributionUseCase
	analytics           *analytics.Client
}

// NewContributionsHandler ContributionsHandlerの新しいインスタンスを作成
func NewContributionsHandler(contributionUseCase usecase.ContributionUseCase, analyticsClient *analytics.Client) *ContributionsHandler {
	return &ContributionsHandler{
		contributionUseCase: contributionUseCase,
		analytics:           analyticsClient,
	}
}

// CreateDraft POST /contributions - 投稿下書きの作成
func (h *ContributionsHandler) CreateDraft(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	response, err := h.contributionUseCase.CreateDraft(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create draft: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdateStep PUT /contributions/:id/steps/:step - 投稿フォームのステップ更新
func (h *ContributionsHandler) UpdateStep(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	draftID := c.Param("id")
	step := c.Param("step")

	var err error
	switch step {
	case model.ContributionStepLocation:
		var req model.DraftLocationStepRequest
		if !bindJSON(c, &req) {
			return
		}
		err = h.contributionUseCase.UpdateLocationStep(c.Request.Context(), draftID, userID, &req)

	case model.ContributionStepDetails:
		var req model.DraftDetailsStepRequest
		if !bindJSON(c, &req) {
			return
		}
		err = h.contributionUseCase.UpdateDetailsStep(c.Request.Context(), draftID, userID, &req)

	case model.ContributionStepFeatures:
		var req model.DraftFeaturesStepRequest
		if !bindJSON(c, &req) {
			return
		}
		err = h.contributionUseCase.UpdateFeaturesStep(c.Request.Context(), draftID, userID, &req)

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Unknown step: " + step,
		})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update step: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// Submit POST /contributions/:id/submit - 投稿の確定
func (h *ContributionsHandler) Submit(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	draftID := c.Param("id")

	response, err := h.contributionUseCase.Submit(c.Request.Context(), draftID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to submit contribution: " + err.Error(),
		})
		return
	}

	h.analytics.Capture(userID, "contribution_submitted", map[string]interface{}{
		"toilet_id": response.ToiletID,
		"status":    response.Status,
	})

	c.JSON(http.StatusOK, response)
}

// bindJSON リクエストボディの解析（Ginが自動でContent-Type確認）
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return false
	}
	return true
}

// authenticatedUserID 認証ミドルウェアが設定したユーザーIDを取得する
func authenticatedUserID(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return ""
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return ""
	}

	return id
}
