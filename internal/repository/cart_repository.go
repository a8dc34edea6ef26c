package repository

import (
	"context"

	"grocerystore/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.Cart, error)
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Cart, error)
	Create(ctx context.Context, c model.Cart) (model.Cart, error)
	UpdateQuantity(ctx context.Context, cartID int64, qty int64) error
	DeleteByID(ctx context.Context, cartID int64) error
	//チェックアウトで消費した行をまとめて削除
	DeleteByUserID(ctx context.Context, userID int64) error
	//商品削除時のダングリング行掃除
	DeleteByProductIDs(ctx context.Context, productIDs []int64) error
}
