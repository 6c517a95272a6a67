package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/application"
	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/pkg/response"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
)

type GroupHandler struct {
	svc *application.GroupService
}

func NewGroupHandler(svc *application.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// claimsCaller builds a caller from the token alone, for endpoints that do
// not need a membership.
func claimsCaller(c *gin.Context) (types.Caller, bool) {
	claims, err := utils.GetClaimsFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return types.Caller{}, false
	}
	return types.Caller{
		UserID:    claims.UserID,
		GroupID:   claims.GroupID,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}, true
}

// CreateGroup godoc
// @Summary Create a group
// @Description The creator joins the new group with the first admin role.
// @Tags groups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body group.GroupCreateDTO true "Group"
// @Success 201 {object} group.Group
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Router /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	caller, ok := claimsCaller(c)
	if !ok {
		return
	}
	var input group.GroupCreateDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	g, err := h.svc.CreateGroup(c.Request.Context(), caller, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// ListMyGroups godoc
// @Summary List the groups the current user belongs to
// @Tags groups
// @Security BearerAuth
// @Produce json
// @Success 200 {array} group.Group
// @Router /groups/my [get]
func (h *GroupHandler) ListMyGroups(c *gin.Context) {
	caller, ok := claimsCaller(c)
	if !ok {
		return
	}
	groups, err := h.svc.ListMyGroups(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// AddMember godoc
// @Summary Add a user to the group with a role
// @Tags groups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param input body group.MemberInputDTO true "Member"
// @Success 201 {object} group.Member
// @Failure 400 {object} response.ErrorResponse "Invalid input or already a member"
// @Failure 403 {object} response.ErrorResponse "Admin only"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /groups/{id}/members [post]
func (h *GroupHandler) AddMember(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input group.MemberInputDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	m, err := h.svc.AddMember(c.Request.Context(), caller, groupID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMembers godoc
// @Summary List members of the group
// @Tags groups
// @Security BearerAuth
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} group.Member
// @Failure 403 {object} response.ErrorResponse "Other group"
// @Router /groups/{id}/members [get]
func (h *GroupHandler) ListMembers(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	members, err := h.svc.ListMembers(c.Request.Context(), caller, groupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
