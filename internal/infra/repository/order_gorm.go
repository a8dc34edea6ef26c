package repository

import (
	"context"

	"grocerystore/internal/domain/model"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 注文明細を一括作成
func (r *OrderGormRepository) CreateBulk(ctx context.Context, transactionID int64, items []model.Order) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]model.Order, 0, len(items))
	for _, it := range items {
		it.TransactionID = transactionID
		rows = append(rows, it)
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *OrderGormRepository) ListByTransactionID(ctx context.Context, transactionID int64) ([]model.Order, error) {
	var items []model.Order
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.Order{}, err
	}
	return items, nil
}
