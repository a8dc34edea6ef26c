package repository

import (
	"context"
	"errors"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカート行を一覧取得
func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Cart, error) {
	var rows []model.Cart
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return []model.Cart{}, err
	}
	return rows, nil
}

func (r *CartGormRepository) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var row model.Cart
	err := r.db.WithContext(ctx).First(&row, cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return row, nil
}

func (r *CartGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Cart, error) {
	var row model.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return row, nil
}

func (r *CartGormRepository) Create(ctx context.Context, c model.Cart) (model.Cart, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Cart{}, err
	}
	return c, nil
}

// 行の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) DeleteByID(ctx context.Context, cartID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Cart{}, cartID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Cart{}).Error
}

func (r *CartGormRepository) DeleteByProductIDs(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Delete(&model.Cart{}).Error
}
