package model

import "time"

// Review トイレに対するユーザーレビュー
type Review struct {
	ID        string    `json:"id" db:"id"`
	ToiletID  string    `json:"toilet_id" db:"toilet_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"` // 1〜5
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type CreateReviewResponse struct {
	Status   string `json:"status"`
	ReviewID string `json:"review_id"`
}

type GetReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}
