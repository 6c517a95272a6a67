package template

import "encoding/json"

type CreateTemplateDTO struct {
	Name        string          `json:"name" binding:"required,max=100" example:"Expense claim"`
	Description *string         `json:"description" example:"Reimbursement of business expenses"`
	Fields      json.RawMessage `json:"fields" binding:"required" swaggertype:"object"`
	RouteID     uint            `json:"route_id" binding:"required" example:"1"`
}

// UpdateTemplateDTO replaces only the attributes that are present.
type UpdateTemplateDTO struct {
	Name        *string         `json:"name" binding:"omitempty,max=100"`
	Description *string         `json:"description"`
	Fields      json.RawMessage `json:"fields,omitempty" swaggertype:"object"`
	RouteID     *uint           `json:"route_id"`
	IsActive    *bool           `json:"is_active"`
}
