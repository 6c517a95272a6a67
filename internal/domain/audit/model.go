package audit

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is a before/after snapshot of one successful mutation.
type AuditLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index" json:"user_id"`
	GroupID      uint           `gorm:"index" json:"group_id"`
	MemberID     uint           `json:"member_id"`
	Action       string         `gorm:"size:50;not null;index" json:"action"`
	ResourceType string         `gorm:"size:50;not null;index" json:"resource_type"`
	ResourceID   string         `gorm:"size:100" json:"resource_id"`
	OldData      datatypes.JSON `json:"old_data,omitempty" swaggertype:"object"`
	NewData      datatypes.JSON `json:"new_data,omitempty" swaggertype:"object"`
	IPAddress    string         `gorm:"size:64" json:"ip_address"`
	UserAgent    string         `gorm:"size:255" json:"user_agent"`
	Description  string         `gorm:"type:text" json:"description"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
