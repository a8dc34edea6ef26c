package repository

import (
	"context"
	"errors"

	"grocerystore/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	CategoryID       *int64
	NameLike         string
	CategoryNameLike string
	Price            *float64
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	//行ロック付き取得。在庫チェック→書き込みの間に他の更新を入れない
	FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error)
	ListIDsByCategoryID(ctx context.Context, categoryID int64) ([]int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteByCategoryID(ctx context.Context, categoryID int64) error
}
