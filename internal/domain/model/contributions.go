package model

import "time"

// ContributionDraft 複数ステップの投稿フォームの下書き
// ステップ（位置 → 詳細 → 設備）ごとに部分更新され、Submit で確定する。
type ContributionDraft struct {
	DraftID     string    `json:"draft_id"`
	CreatedBy   string    `json:"created_by"` // 投稿ユーザーID
	Location    *Location `json:"location"`   // 位置ステップの入力
	Name        string    `json:"name"`       // 詳細ステップの入力
	Floor       string    `json:"floor"`
	Description string    `json:"description"`
	Features    []string  `json:"features"` // 設備ステップの入力
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Submitted   bool      `json:"submitted"` // 二重投稿ガード用フラグ
	ToiletID    string    `json:"toilet_id"` // Submit 済みの場合の確定トイレID
	CreatedAt   time.Time `json:"created_at"`
	ExpireAt    time.Time `json:"expire_at"`
}

// IsComplete Submit に必要なステップが全て入力済みかチェック
func (d *ContributionDraft) IsComplete() bool {
	return d.Location != nil && d.Name != ""
}

// FirestoreContributionDraft Firestoreの下書きドキュメント
type FirestoreContributionDraft struct {
	CreatedBy   string    `firestore:"created_by"`
	Location    *Location `firestore:"location"`
	Name        string    `firestore:"name"`
	Floor       string    `firestore:"floor"`
	Description string    `firestore:"description"`
	Features    []string  `firestore:"features"`
	PhotoURL    *string   `firestore:"photo_url"`
	Submitted   bool      `firestore:"submitted"`
	ToiletID    string    `firestore:"toilet_id"`
	CreatedAt   time.Time `firestore:"created_at"`
	ExpireAt    time.Time `firestore:"expireAt"`
}

// ToFirestoreContributionDraft ContributionDraft を Firestore 保存用に変換
func (d *ContributionDraft) ToFirestoreContributionDraft() *FirestoreContributionDraft {
	return &FirestoreContributionDraft{
		CreatedBy:   d.CreatedBy,
		Location:    d.Location,
		Name:        d.Name,
		Floor:       d.Floor,
		Description: d.Description,
		Features:    d.Features,
		PhotoURL:    d.PhotoURL,
		Submitted:   d.Submitted,
		ToiletID:    d.ToiletID,
		CreatedAt:   d.CreatedAt,
		ExpireAt:    d.ExpireAt,
	}
}

// ToContributionDraft Firestore ドキュメントから ContributionDraft に変換
func (f *FirestoreContributionDraft) ToContributionDraft(draftID string) *ContributionDraft {
	return &ContributionDraft{
		DraftID:     draftID,
		CreatedBy:   f.CreatedBy,
		Location:    f.Location,
		Name:        f.Name,
		Floor:       f.Floor,
		Description: f.Description,
		Features:    f.Features,
		PhotoURL:    f.PhotoURL,
		Submitted:   f.Submitted,
		ToiletID:    f.ToiletID,
		CreatedAt:   f.CreatedAt,
		ExpireAt:    f.ExpireAt,
	}
}

type CreateDraftResponse struct {
	Status  string `json:"status"`
	DraftID string `json:"draft_id"`
}

// DraftLocationStepRequest 位置ステップの入力
type DraftLocationStepRequest struct {
	Latitude  float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// DraftDetailsStepRequest 詳細ステップの入力
type DraftDetailsStepRequest struct {
	Name        string `json:"name" binding:"required"`
	Floor       string `json:"floor"`
	Description string `json:"description"`
}

// DraftFeaturesStepRequest 設備ステップの入力
type DraftFeaturesStepRequest struct {
	Features []string `json:"features"`
	PhotoURL string   `json:"photo_url"`
}

type SubmitContributionResponse struct {
	Status   string `json:"status"`
	ToiletID string `json:"toilet_id"`
}
