package controller

import (
	"digital_literacy_backend/internal/service"
	"digital_literacy_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *service.AuthService
}

func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a student or teacher account and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /auth/register [post]
func (ctl *AuthController) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	out, err := ctl.auth.Register(in)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Conflict(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, out)
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login payload"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /auth/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	out, err := ctl.auth.Login(in)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(c, 401, "invalid email or password")
			return
		}
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, out)
}

// Profile godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Security BearerAuth
// @Router /auth/profile [get]
func (ctl *AuthController) Profile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	user, err := ctl.auth.Profile(claims.UserID)
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
