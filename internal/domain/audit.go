package domain

import "time"

// AuditLog records an admin mutation
// Table: audit_logs
type AuditLog struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"column:user_id;index" json:"user_id"`
	Action     string    `gorm:"column:action;size:100;index" json:"action"` // e.g. POST /api/v1/admin/campaigns/:id/archive
	ResourceID string    `gorm:"column:resource_id;size:50" json:"resource_id"`
	Status     int       `gorm:"column:status" json:"status"`
	ClientIP   string    `gorm:"column:client_ip;size:45" json:"client_ip"`
	RequestID  string    `gorm:"column:request_id;size:36" json:"request_id"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
