package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

// AuditRepository is append-only: no update or delete methods on purpose.
type AuditRepository struct {
	DB *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

func (r *AuditRepository) Create(entry *model.AuditLog) error {
	return r.DB.Create(entry).Error
}

func (r *AuditRepository) FindWithPagination(offset, limit int, resourceType string) ([]model.AuditLog, int64, error) {
	var entries []model.AuditLog
	var total int64

	query := r.DB.Model(&model.AuditLog{})
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}
