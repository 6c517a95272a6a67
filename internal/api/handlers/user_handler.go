package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/application"
	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/internal/domain/user"
	"github.com/linskybing/orgflow/pkg/response"
)

type UserHandler struct {
	svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register godoc
// @Summary User registration
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.CreateUserInput true "User registration input"
// @Success 201 {object} user.User
// @Failure 400 {object} response.ErrorResponse "Invalid input or username taken"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input user.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	usr, err := h.svc.RegisterUser(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, usr)
}

// Login godoc
// @Summary User login
// @Description Without group_id the token can only create or list groups.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.LoginInput true "Login credentials"
// @Success 200 {object} response.TokenResponse
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials"
// @Failure 403 {object} response.ErrorResponse "Not a member of the group"
// @Router /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	usr, member, token, err := h.svc.LoginUser(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	maxAge := config.TokenTTLHours * 3600
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, maxAge, "/", "", false, true)

	resp := response.TokenResponse{
		Token:    token,
		UserID:   usr.ID,
		Username: usr.Username,
	}
	if member != nil {
		resp.GroupID = member.GroupID
		resp.Role = member.Role
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary User logout
// @Tags auth
// @Produce json
// @Success 200 {object} response.MessageResponse
// @Router /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Logged out"})
}
