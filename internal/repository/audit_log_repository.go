package repository

import (
	"context"

	"grocerystore/internal/domain/model"
)

type AuditLogFilter struct {
	Action       string
	ResourceType string
	Limit        int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
