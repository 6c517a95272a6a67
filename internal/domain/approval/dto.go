package approval

import "encoding/json"

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

type CreateApplicationDTO struct {
	TemplateID uint            `json:"template_id" binding:"required" example:"1"`
	Title      string          `json:"title" binding:"required,max=200" example:"Flight to Osaka"`
	Data       json.RawMessage `json:"data" swaggertype:"object"`
}

type ActDTO struct {
	Action  Action  `json:"action" binding:"required,oneof=approve reject" example:"approve"`
	Comment *string `json:"comment" example:"Looks good"`
}

type ListFilter struct {
	Status *ApplicationStatus `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Limit  int                `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int                `form:"offset" binding:"omitempty,min=0"`
}
