package repository

import (
	"context"
	"errors"
	"strings"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 商品一覧。名前・カテゴリ名・価格の絞り込み付き。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}

	if strings.TrimSpace(q.NameLike) != "" {
		like := "%" + strings.TrimSpace(q.NameLike) + "%"
		tx = tx.Where("products.name ILIKE ?", like)
	}

	//カテゴリ名で検索するときだけjoin
	if strings.TrimSpace(q.CategoryNameLike) != "" {
		like := "%" + strings.TrimSpace(q.CategoryNameLike) + "%"
		tx = tx.
			Joins("join categories on categories.id = products.category_id").
			Where("categories.name ILIKE ?", like)
	}

	if q.Price != nil {
		tx = tx.Where("price = ?", *q.Price)
	}

	if err := tx.Order("products.id asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}

	return products, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// FOR UPDATEで行ロックして取得。在庫チェック→書き込みの競合防止。
func (r *ProductGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) ListIDsByCategoryID(ctx context.Context, categoryID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":             p.Name,
		"price":            p.Price,
		"category_id":      p.CategoryID,
		"quantity":         p.Quantity,
		"manufacture_date": p.ManufactureDate,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) DeleteByCategoryID(ctx context.Context, categoryID int64) error {
	return r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Delete(&model.Product{}).Error
}
