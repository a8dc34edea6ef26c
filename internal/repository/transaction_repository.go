package repository

import (
	"context"

	"grocerystore/internal/domain/model"
)

type TransactionRepository interface {
	Create(ctx context.Context, t model.Transaction) (int64, error)
	FindByID(ctx context.Context, transactionID int64) (model.Transaction, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Transaction, error)
}
