package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
)

const draftsCollection = "contributionDrafts"

// FirestoreContributionDraftRepository Firestoreを使用した投稿下書きリポジトリ
// 下書きはexpireAtフィールドのTTLポリシーで自動削除される。
type FirestoreContributionDraftRepository struct {
	client *firestore.Client
	logger *logrus.Logger
}

// NewFirestoreContributionDraftRepository 新しいインスタンスを作成
func NewFirestoreContributionDraftRepository(client *firestore.Client, logger *logrus.Logger) repository.ContributionDraftsRepository {
	return &FirestoreContributionDraftRepository{
		client: client,
		logger: logger,
	}
}

// Save 下書きを保存（既存ドキュメントは上書き）
func (r *FirestoreContributionDraftRepository) Save(ctx context.Context, draft *model.ContributionDraft) error {
	firestoreData := draft.ToFirestoreContributionDraft()

	_, err := r.client.Collection(draftsCollection).Doc(draft.DraftID).Set(ctx, firestoreData)
	if err != nil {
		r.logger.Errorf("❌ 下書きの保存に失敗しました (%s): %v", draft.DraftID, err)
		return fmt.Errorf("下書きの保存に失敗しました: %w", err)
	}

	r.logger.Debugf("✅ 下書きを保存しました: %s", draft.DraftID)
	return nil
}

// GetByID 指定されたIDの下書きを取得
func (r *FirestoreContributionDraftRepository) GetByID(ctx context.Context, draftID string) (*model.ContributionDraft, error) {
	doc, err := r.client.Collection(draftsCollection).Doc(draftID).Get(ctx)
	if err != nil {
		// Firestoreのエラータイプをチェック
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, fmt.Errorf("下書きが見つかりません（有効期限切れまたは無効なID）: %s", draftID)
		}
		return nil, fmt.Errorf("下書きの取得に失敗しました: %w", err)
	}

	var firestoreData model.FirestoreContributionDraft
	if err := doc.DataTo(&firestoreData); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	return firestoreData.ToContributionDraft(draftID), nil
}

// ClaimSubmission 下書きをSubmit済みとしてトランザクション内でマークする
// 別のリクエストが先にSubmitしていた場合は、その確定トイレIDと false を返す。
func (r *FirestoreContributionDraftRepository) ClaimSubmission(ctx context.Context, draftID, toiletID string) (string, bool, error) {
	docRef := r.client.Collection(draftsCollection).Doc(draftID)

	claimedID := toiletID
	won := false

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return fmt.Errorf("下書きの取得に失敗しました: %w", err)
		}

		var firestoreData model.FirestoreContributionDraft
		if err := doc.DataTo(&firestoreData); err != nil {
			return fmt.Errorf("データの変換に失敗しました: %w", err)
		}

		if firestoreData.Submitted {
			// 既にSubmit済み: 確定済みのトイレIDをそのまま返す
			claimedID = firestoreData.ToiletID
			won = false
			return nil
		}

		firestoreData.Submitted = true
		firestoreData.ToiletID = toiletID
		claimedID = toiletID
		won = true
		return tx.Set(docRef, &firestoreData)
	})
	if err != nil {
		return "", false, fmt.Errorf("Submit状態の更新に失敗しました: %w", err)
	}

	if !won {
		r.logger.Warnf("⚠️ 下書き %s は既にSubmit済みです (トイレID: %s)", draftID, claimedID)
	}

	return claimedID, won, nil
}

// ReleaseSubmission Submitフラグをトランザクション内で解除する
// トイレ登録に失敗した場合に呼び出し、下書きを再Submit可能な状態に戻す。
func (r *FirestoreContributionDraftRepository) ReleaseSubmission(ctx context.Context, draftID string) error {
	docRef := r.client.Collection(draftsCollection).Doc(draftID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return fmt.Errorf("下書きの取得に失敗しました: %w", err)
		}

		var firestoreData model.FirestoreContributionDraft
		if err := doc.DataTo(&firestoreData); err != nil {
			return fmt.Errorf("データの変換に失敗しました: %w", err)
		}

		firestoreData.Submitted = false
		firestoreData.ToiletID = ""
		return tx.Set(docRef, &firestoreData)
	})
	if err != nil {
		return fmt.Errorf("Submit状態の解除に失敗しました: %w", err)
	}

	r.logger.Debugf("下書き %s のSubmitフラグを解除しました", draftID)
	return nil
}
