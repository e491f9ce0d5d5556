package service

import (
	"encoding/json"
	"fmt"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AuditService appends immutable records of sensitive admin actions.
type AuditService struct {
	AuditRepo *repository.AuditRepository
}

func NewAuditService(auditRepo *repository.AuditRepository) *AuditService {
	return &AuditService{AuditRepo: auditRepo}
}

// Record is best-effort by contract: an audit write failing must never block
// the mutation it describes, so failures are logged and swallowed here.
func (s *AuditService) Record(action, resourceType, resourceID string, performedBy uint, before, after interface{}) {
	entry := &model.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		PerformedBy:  performedBy,
	}

	if before != nil {
		if raw, err := json.Marshal(before); err == nil {
			entry.Before = datatypes.JSON(raw)
		}
	}
	if after != nil {
		if raw, err := json.Marshal(after); err == nil {
			entry.After = datatypes.JSON(raw)
		}
	}

	if err := s.AuditRepo.Create(entry); err != nil {
		logger.Log.Error("audit log write failed",
			zap.String("action", action),
			zap.String("resourceType", resourceType),
			zap.String("resourceId", resourceID),
			zap.Error(err),
		)
	}
}

func (s *AuditService) List(role model.UserRole, page, limit int, resourceType string) ([]model.AuditLog, int64, error) {
	if !IsAdmin(role) {
		return nil, 0, fmt.Errorf("%w: admin only", util.ErrForbidden)
	}
	return s.AuditRepo.FindWithPagination((page-1)*limit, limit, resourceType)
}
