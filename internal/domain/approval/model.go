package approval

import (
	"time"

	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/domain/template"
	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// Terminal reports whether no further transition is possible.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type AssignmentStatus string

const (
	AssignmentWaiting    AssignmentStatus = "WAITING"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentApproved   AssignmentStatus = "APPROVED"
	AssignmentRejected   AssignmentStatus = "REJECTED"
)

// Application is one submission of a template moving through its route.
// CurrentStep is the step order of the IN_PROGRESS assignment, nil once the
// application is terminal.
type Application struct {
	ID          uint                       `gorm:"primaryKey" json:"id"`
	GroupID     uint                       `gorm:"not null;index" json:"group_id"`
	TemplateID  uint                       `gorm:"not null;index" json:"template_id"`
	Template    *template.ApprovalTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	ApplicantID uint                       `gorm:"not null;index" json:"applicant_id"`
	Applicant   *group.Member              `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Title       string                     `gorm:"size:200;not null" json:"title"`
	Data        datatypes.JSON             `gorm:"not null" json:"data" swaggertype:"object"`
	Status      ApplicationStatus          `gorm:"size:20;not null;index" json:"status"`
	CurrentStep *int                       `json:"current_step"`
	Assignments []Assignment               `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

func (Application) TableName() string {
	return "approval_applications"
}

// Assignment tracks the approval status of one route step for one application.
type Assignment struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	ApplicationID uint             `gorm:"not null;uniqueIndex:idx_assignment_app_step" json:"application_id"`
	StepID        uint             `gorm:"not null" json:"step_id"`
	StepOrder     int              `gorm:"not null;uniqueIndex:idx_assignment_app_step" json:"step_order"`
	ApproverRole  string           `gorm:"size:50;not null" json:"approver_role"`
	Status        AssignmentStatus `gorm:"size:20;not null;index" json:"status"`
	AssignedToID  *uint            `json:"assigned_to_id"`
	ActedAt       *time.Time       `json:"acted_at"`
	Comment       *string          `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (Assignment) TableName() string {
	return "approval_assignments"
}

// Current returns the assignment at CurrentStep, if any.
func (a *Application) Current() *Assignment {
	if a.CurrentStep == nil {
		return nil
	}
	for i := range a.Assignments {
		if a.Assignments[i].StepOrder == *a.CurrentStep {
			return &a.Assignments[i]
		}
	}
	return nil
}
