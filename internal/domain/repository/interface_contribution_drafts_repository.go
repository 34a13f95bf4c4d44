package repository

import (
	"context"

	"Loopee-App/internal/domain/model"
)

type ContributionDraftsRepository interface {
	Save(ctx context.Context, draft *model.ContributionDraft) error
	GetByID(ctx context.Context, draftID string) (*model.ContributionDraft, error)
	// ClaimSubmission は下書きをSubmit済みとしてマークする
	// 既にSubmit済みの場合は確定済みのトイレIDと false を返し、
	// 未Submitの場合は toiletID を記録して true を返す（二重投稿ガード）。
	ClaimSubmission(ctx context.Context, draftID, toiletID string) (string, bool, error)

	// ReleaseSubmission はClaimSubmissionで立てたSubmitフラグを解除する
	// トイレ登録に失敗した場合に呼び出し、下書きを再Submit可能な状態に戻す。
	ReleaseSubmission(ctx context.Context, draftID string) error
}
