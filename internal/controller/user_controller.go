package controller

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/service"
	"digital_literacy_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *service.UserService
}

func NewUserController(users *service.UserService) *UserController {
	return &UserController{users: users}
}

// List godoc
// @Summary List users
// @Tags user
// @Produce json
// @Param role query string false "Role filter"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /users [get]
func (ctl *UserController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	role := model.UserRole(c.Query("role"))

	users, total, err := ctl.users.List(role, page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Get one user
// @Tags user
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /users/{id} [get]
func (ctl *UserController) Get(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	user, err := ctl.users.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, user)
}

// UpdateSelf godoc
// @Summary Update own profile
// @Tags user
// @Accept json
// @Produce json
// @Param request body service.UpdateUserInput true "Profile fields"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /users/me [put]
func (ctl *UserController) UpdateSelf(c *gin.Context) {
	var in service.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	user, err := ctl.users.Update(claims.UserID, in)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, user)
}

type setDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// SetDisabled godoc
// @Summary Enable or disable an account
// @Tags user
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body setDisabledRequest true "Disabled flag"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /users/{id}/disabled [put]
func (ctl *UserController) SetDisabled(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	var req setDisabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctl.users.SetDisabled(id, req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

type setRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// SetRole godoc
// @Summary Change a user's role
// @Tags user
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body setRoleRequest true "New role"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /users/{id}/role [put]
func (ctl *UserController) SetRole(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	switch req.Role {
	case model.Student, model.Teacher, model.Admin:
	default:
		util.BadRequest(c, "unknown role")
		return
	}

	if err := ctl.users.SetRole(id, req.Role); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}
