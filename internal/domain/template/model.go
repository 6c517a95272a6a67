package template

import (
	"time"

	"github.com/linskybing/orgflow/internal/domain/route"
	"gorm.io/datatypes"
)

// ApprovalTemplate binds a form schema to a route. Fields holds the canonical
// schema; replacing it stores a new value rather than editing the old one.
type ApprovalTemplate struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	GroupID     uint                 `gorm:"not null;index" json:"group_id"`
	Name        string               `gorm:"size:100;not null" json:"name"`
	Description string               `gorm:"type:text" json:"description"`
	Fields      datatypes.JSON       `gorm:"not null" json:"fields" swaggertype:"object"`
	RouteID     uint                 `gorm:"not null;index" json:"route_id"`
	Route       *route.ApprovalRoute `gorm:"foreignKey:RouteID;constraint:OnDelete:RESTRICT" json:"route,omitempty"`
	IsActive    bool                 `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (ApprovalTemplate) TableName() string {
	return "approval_templates"
}
