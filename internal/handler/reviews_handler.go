package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"Loopee-App/internal/application"
	"Loopee-App/internal/domain/model"
)

// ReviewsHandler レビューに関するHTTPハンドラー
type ReviewsHandler struct {
	reviewsService application.ReviewsService
}

// NewReviewsHandler ReviewsHandlerの新しいインスタンスを作成
func NewReviewsHandler(reviewsService application.ReviewsService) *ReviewsHandler {
	return &ReviewsHandler{
		reviewsService: reviewsService,
	}
}

// CreateReview POST /toilets/:id/reviews - レビューの投稿
func (h *ReviewsHandler) CreateReview(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	toiletID := c.Param("id")

	var req model.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.reviewsService.CreateReview(c.Request.Context(), toiletID, userID, &req)
	if err != nil {
		if errors.Is(err, application.ErrDuplicateReview) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "duplicate_review",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create review: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetReviews GET /toilets/:id/reviews - レビュー一覧の取得
func (h *ReviewsHandler) GetReviews(c *gin.Context) {
	toiletID := c.Param("id")
	if toiletID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "Toilet ID is required",
		})
		return
	}

	reviews, err := h.reviewsService.GetReviews(c.Request.Context(), toiletID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get reviews: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.GetReviewsResponse{
		Reviews: reviews,
	})
}
