package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/application"
	"github.com/linskybing/orgflow/internal/domain/route"
	"github.com/linskybing/orgflow/pkg/response"
)

type RouteHandler struct {
	svc *application.RouteService
}

func NewRouteHandler(svc *application.RouteService) *RouteHandler {
	return &RouteHandler{svc: svc}
}

// CreateRoute godoc
// @Summary Create an approval route
// @Tags routes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body route.CreateRouteDTO true "Route with ordered steps"
// @Success 201 {object} route.ApprovalRoute
// @Failure 400 {object} response.ErrorResponse "Invalid step list"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Router /routes [post]
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var input route.CreateRouteDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	rt, err := h.svc.CreateRoute(c.Request.Context(), caller, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// ListRoutes godoc
// @Summary List approval routes of the group
// @Tags routes
// @Security BearerAuth
// @Produce json
// @Success 200 {array} route.ApprovalRoute
// @Router /routes [get]
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	routes, err := h.svc.ListRoutes(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

// GetRoute godoc
// @Summary Get an approval route
// @Tags routes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Route ID"
// @Success 200 {object} route.ApprovalRoute
// @Failure 404 {object} response.ErrorResponse "Route not found"
// @Router /routes/{id} [get]
func (h *RouteHandler) GetRoute(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rt, err := h.svc.GetRoute(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// UpdateRoute godoc
// @Summary Rename an approval route
// @Tags routes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Route ID"
// @Param input body route.UpdateRouteDTO true "New name"
// @Success 200 {object} route.ApprovalRoute
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 404 {object} response.ErrorResponse "Route not found"
// @Router /routes/{id} [put]
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input route.UpdateRouteDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	rt, err := h.svc.UpdateRoute(c.Request.Context(), caller, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// DeleteRoute godoc
// @Summary Delete an approval route
// @Tags routes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Route ID"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse "Route is referenced by templates"
// @Failure 404 {object} response.ErrorResponse "Route not found"
// @Router /routes/{id} [delete]
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteRoute(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Route deleted"})
}
