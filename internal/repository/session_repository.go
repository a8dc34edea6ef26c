package repository

import (
	"context"

	"grocerystore/internal/domain/model"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, sessionID string) (*model.Session, error)
	//ログアウト（失効）
	Revoke(ctx context.Context, sessionID string) error
	//アカウント削除時にまとめて消す
	DeleteByUserID(ctx context.Context, userID int64) error
}
