package repository

import (
	"context"
	"errors"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"

	"gorm.io/gorm"
)

type TransactionGormRepository struct {
	db *gorm.DB
}

// DI
func NewTransactionGormRepository(db *gorm.DB) *TransactionGormRepository {
	return &TransactionGormRepository{db: db}
}

func (r *TransactionGormRepository) Create(ctx context.Context, t model.Transaction) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (r *TransactionGormRepository) FindByID(ctx context.Context, transactionID int64) (model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).First(&t, transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Transaction{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// 新しい順で注文履歴を返す
func (r *TransactionGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Transaction, error) {
	var ts []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&ts).Error; err != nil {
		return []model.Transaction{}, err
	}
	return ts, nil
}
