package repository

import (
	"context"

	"grocerystore/internal/domain/model"
)

type OrderRepository interface {
	CreateBulk(ctx context.Context, transactionID int64, items []model.Order) error
	ListByTransactionID(ctx context.Context, transactionID int64) ([]model.Order, error)
}
