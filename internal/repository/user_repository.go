package repository

import (
	"context"
	"errors"

	"grocerystore/internal/domain/model"
)

// username/emailのunique制約違反を統一
var ErrDuplicate = errors.New("duplicate")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。unique違反はErrDuplicate
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	//プロフィール更新。unique違反はErrDuplicate
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, userID int64) error
	//管理者用の全ユーザー一覧
	List(ctx context.Context) ([]model.User, error)
}
