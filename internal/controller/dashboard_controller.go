package controller

import (
	"digital_literacy_backend/internal/service"
	"digital_literacy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	dashboards *service.DashboardService
}

func NewDashboardController(dashboards *service.DashboardService) *DashboardController {
	return &DashboardController{dashboards: dashboards}
}

// Student godoc
// @Summary Student dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} util.Response{data=service.StudentDashboard}
// @Security BearerAuth
// @Router /dashboard/student [get]
func (ctl *DashboardController) Student(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	dash, err := ctl.dashboards.Student(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, dash)
}

// Teacher godoc
// @Summary Teacher dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} util.Response{data=service.TeacherDashboard}
// @Security BearerAuth
// @Router /dashboard/teacher [get]
func (ctl *DashboardController) Teacher(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	dash, err := ctl.dashboards.Teacher(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, dash)
}

// Admin godoc
// @Summary Platform-wide admin dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} util.Response{data=service.AdminDashboard}
// @Security BearerAuth
// @Router /dashboard/admin [get]
func (ctl *DashboardController) Admin(c *gin.Context) {
	dash, err := ctl.dashboards.Admin(c.Request.Context())
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, dash)
}
