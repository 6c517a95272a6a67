package route

import (
	"time"

	"gorm.io/datatypes"
)

// ApprovalRoute is an ordered list of approval steps reusable across templates.
// Steps are numbered 1..N without gaps.
type ApprovalRoute struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	GroupID   uint        `gorm:"not null;index" json:"group_id"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	Steps     []RouteStep `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE" json:"steps"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (ApprovalRoute) TableName() string {
	return "approval_routes"
}

// RouteStep is one stage of a route. RequireAll and Conditions are stored and
// returned but never consulted by the transition engine.
type RouteStep struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RouteID      uint           `gorm:"not null;uniqueIndex:idx_route_step_order" json:"route_id"`
	StepOrder    int            `gorm:"not null;uniqueIndex:idx_route_step_order" json:"step_order"`
	ApproverRole string         `gorm:"size:50;not null" json:"approver_role"`
	RequireAll   bool           `gorm:"not null" json:"require_all"`
	Conditions   datatypes.JSON `json:"conditions,omitempty" swaggertype:"object"`
}

func (RouteStep) TableName() string {
	return "approval_route_steps"
}
