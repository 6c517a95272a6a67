package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/application"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/response"
)

type AuditHandler struct {
	svc *application.AuditService
}

func NewAuditHandler(svc *application.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

type auditQuery struct {
	UserID       *uint      `form:"user_id"`
	ResourceType *string    `form:"resource_type"`
	Action       *string    `form:"action"`
	StartTime    *time.Time `form:"start_time" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime      *time.Time `form:"end_time" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit        int        `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset       int        `form:"offset" binding:"omitempty,min=0"`
}

// GetAuditLogs godoc
// @Summary Query audit logs of the group
// @Tags audit
// @Security BearerAuth
// @Produce json
// @Param user_id query int false "User ID"
// @Param resource_type query string false "Resource type, e.g. approval_application"
// @Param action query string false "Action, e.g. approve"
// @Param start_time query string false "RFC3339 lower bound"
// @Param end_time query string false "RFC3339 upper bound"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} audit.AuditLog
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Router /audit/logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var q auditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	logs, err := h.svc.QueryAuditLogs(c.Request.Context(), caller, repository.AuditQueryParams{
		UserID:       q.UserID,
		ResourceType: q.ResourceType,
		Action:       q.Action,
		StartTime:    q.StartTime,
		EndTime:      q.EndTime,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
