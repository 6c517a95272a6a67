package route

import "encoding/json"

type StepInputDTO struct {
	ApproverRole string          `json:"approver_role" binding:"max=50" example:"ACCOUNTANT"`
	RequireAll   *bool           `json:"require_all" example:"true"`
	Conditions   json.RawMessage `json:"conditions,omitempty" swaggertype:"object"`
}

type CreateRouteDTO struct {
	Name  string         `json:"name" binding:"required,max=100" example:"Expense approval"`
	Steps []StepInputDTO `json:"steps" binding:"dive"`
}

type UpdateRouteDTO struct {
	Name string `json:"name" binding:"required,max=100" example:"Expense approval (2024)"`
}
