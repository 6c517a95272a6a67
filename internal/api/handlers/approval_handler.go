package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/application"
	"github.com/linskybing/orgflow/internal/domain/approval"
	"github.com/linskybing/orgflow/pkg/response"
)

type ApplicationHandler struct {
	svc *application.ApplicationService
}

func NewApplicationHandler(svc *application.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// CreateApplication godoc
// @Summary Submit an application
// @Description Validates data against the template's form schema and starts the route at its first step.
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body approval.CreateApplicationDTO true "Application"
// @Success 201 {object} approval.Application
// @Failure 400 {object} response.ErrorResponse "Form validation failed"
// @Failure 404 {object} response.ErrorResponse "Template not found or inactive"
// @Router /applications [post]
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var input approval.CreateApplicationDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	app, err := h.svc.CreateApplication(c.Request.Context(), caller, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListMyApplications godoc
// @Summary List applications submitted by the caller
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} approval.Application
// @Router /applications/my [get]
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var filter approval.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	apps, err := h.svc.ListMyApplications(c.Request.Context(), caller, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ListGroupApplications godoc
// @Summary List every application of the group
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} approval.Application
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Router /applications [get]
func (h *ApplicationHandler) ListGroupApplications(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var filter approval.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	apps, err := h.svc.ListGroupApplications(c.Request.Context(), caller, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ListInbox godoc
// @Summary List pending applications waiting on the caller's role
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Success 200 {array} approval.Application
// @Router /applications/inbox [get]
func (h *ApplicationHandler) ListInbox(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	apps, err := h.svc.ListInbox(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplication godoc
// @Summary Get an application with its assignments
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} approval.Application
// @Failure 403 {object} response.ErrorResponse "Not visible to the caller"
// @Failure 404 {object} response.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	app, err := h.svc.GetApplication(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Act godoc
// @Summary Approve or reject the current step
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param input body approval.ActDTO true "Decision"
// @Success 200 {object} approval.Application
// @Failure 400 {object} response.ErrorResponse "Application cannot be processed"
// @Failure 403 {object} response.ErrorResponse "Role does not match the current step"
// @Failure 404 {object} response.ErrorResponse "Application not found"
// @Router /applications/{id} [patch]
func (h *ApplicationHandler) Act(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input approval.ActDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	app, err := h.svc.Act(c.Request.Context(), caller, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
