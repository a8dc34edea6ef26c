package repository

import (
	"context"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

// DI
func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

// 新しい順で返す
func (r *AuditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	var logs []model.AuditLog

	tx := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.Action != "" {
		tx = tx.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		tx = tx.Where("resource_type = ?", filter.ResourceType)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	if err := tx.Order("id desc").Limit(limit).Find(&logs).Error; err != nil {
		return []model.AuditLog{}, err
	}
	return logs, nil
}
