package model

import (
	"gorm.io/datatypes"
)

// AuditLog is append-only: rows are written for sensitive admin actions and
// never updated or deleted through the API.
type AuditLog struct {
	UUIDBase
	Action       string         `gorm:"size:50;not null" json:"action"`
	ResourceType string         `gorm:"size:50;not null" json:"resourceType"`
	ResourceID   string         `gorm:"size:50;not null" json:"resourceId"`
	PerformedBy  uint           `gorm:"index;type:bigint unsigned;not null" json:"performedBy"`
	Before       datatypes.JSON `json:"before,omitempty"`
	After        datatypes.JSON `json:"after,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
