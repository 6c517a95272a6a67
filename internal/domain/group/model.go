package group

import (
	"time"

	"github.com/linskybing/orgflow/internal/domain/user"
)

// Group is an organization. Routes, templates and applications never cross
// group boundaries.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// Member binds a user to a group with a single role. Its ID is the member id
// recorded as applicant and approver.
// MaxRoleLength bounds a member role and a route step approver role.
const MaxRoleLength = 50

type Member struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	GroupID   uint       `gorm:"not null;uniqueIndex:idx_member_group_user" json:"group_id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_member_group_user" json:"user_id"`
	Role      string     `gorm:"size:50;not null" json:"role"`
	User      *user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Member) TableName() string {
	return "group_members"
}
