package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/application"
	"github.com/linskybing/orgflow/internal/domain/template"
	"github.com/linskybing/orgflow/pkg/response"
)

type TemplateHandler struct {
	svc *application.TemplateService
}

func NewTemplateHandler(svc *application.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// CreateTemplate godoc
// @Summary Create an approval template
// @Tags templates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body template.CreateTemplateDTO true "Template with form schema"
// @Success 201 {object} template.ApprovalTemplate
// @Failure 400 {object} response.ErrorResponse "Invalid form schema"
// @Failure 404 {object} response.ErrorResponse "Route not found"
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var input template.CreateTemplateDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	tpl, err := h.svc.CreateTemplate(c.Request.Context(), caller, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

// ListTemplates godoc
// @Summary List approval templates
// @Description Active templates only unless an administrator passes all=true.
// @Tags templates
// @Security BearerAuth
// @Produce json
// @Param all query bool false "Include inactive templates"
// @Success 200 {array} template.ApprovalTemplate
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var query struct {
		All bool `form:"all"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	templates, err := h.svc.ListTemplates(c.Request.Context(), caller, query.All)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetTemplate godoc
// @Summary Get an approval template
// @Tags templates
// @Security BearerAuth
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} template.ApprovalTemplate
// @Failure 404 {object} response.ErrorResponse "Template not found"
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tpl, err := h.svc.GetTemplate(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// UpdateTemplate godoc
// @Summary Update an approval template
// @Tags templates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param input body template.UpdateTemplateDTO true "Attributes to replace"
// @Success 200 {object} template.ApprovalTemplate
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 404 {object} response.ErrorResponse "Template or route not found"
// @Router /templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input template.UpdateTemplateDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	tpl, err := h.svc.UpdateTemplate(c.Request.Context(), caller, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// DeleteTemplate godoc
// @Summary Delete an approval template
// @Tags templates
// @Security BearerAuth
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse "Template is referenced by applications"
// @Router /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTemplate(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Template deleted"})
}
