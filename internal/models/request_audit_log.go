package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions recorded against deposit/withdrawal requests.
const (
	AuditActionInsert = "insert"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// RequestAuditLog is append-only: rows are written by RequestService on
// every mutation and never updated afterwards.
type RequestAuditLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	RequestID string    `gorm:"column:request_id;size:36;not null;index:idx_audit_request" json:"request_id"`
	Action    string    `gorm:"column:action;size:20;not null" json:"action"`
	OldValues string    `gorm:"column:old_values;type:text" json:"old_values"`
	NewValues string    `gorm:"column:new_values;type:text" json:"new_values"`
	ActorID   string    `gorm:"column:actor_id;size:36" json:"actor_id"`
	Reason    string    `gorm:"column:reason;type:text" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RequestAuditLog) TableName() string {
	return "request_audit_log"
}

func (l *RequestAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
