package app

import (
	"digital_literacy_backend/internal/config"
	"digital_literacy_backend/internal/controller"
	"digital_literacy_backend/internal/middleware"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/service"
	"digital_literacy_backend/internal/util"
	"digital_literacy_backend/pkg/monitoring"

	"digital_literacy_backend/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	assessment *controller.AssessmentController
	session    *controller.SessionController
	learning   *controller.LearningController
	dashboard  *controller.DashboardController
	result     *controller.ResultController
	health     *controller.HealthController
}

func buildRouter(cfg *config.Config, ctls controllers, userSvc *service.UserService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(securityMiddleware(cfg)...)

	r.GET("/metrics", monitoring.PrometheusHandler())

	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	if cfg.Storage.Type == util.StorageLocal {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	api := r.Group("/api")
	api.GET("/health", ctls.health.Health)

	// Public
	auth := api.Group("/auth")
	{
		auth.POST("/register", ctls.auth.Register)
		auth.POST("/login", ctls.auth.Login)
	}

	// Authenticated
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	authed.Use(middleware.ActivityMiddleware(userSvc))
	{
		authed.GET("/auth/profile", ctls.auth.Profile)
		authed.PUT("/users/me", ctls.user.UpdateSelf)

		authed.GET("/assessments", ctls.assessment.List)
		authed.GET("/assessments/:id", ctls.assessment.Get)

		authed.GET("/learning-modules", ctls.learning.List)
		authed.GET("/learning-modules/progress/me", ctls.learning.Progress)
		authed.GET("/learning-modules/:id", ctls.learning.Get)

		authed.GET("/results", ctls.result.Mine)
		authed.GET("/results/:id", ctls.result.Get)
	}

	// Student flows
	student := authed.Group("")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/assessments/:id/session", ctls.session.Start)
		student.GET("/session", ctls.session.State)
		student.POST("/session/answer", ctls.session.Answer)
		student.POST("/session/next", ctls.session.Next)
		student.POST("/session/previous", ctls.session.Previous)
		student.POST("/session/submit", ctls.session.Submit)

		student.POST("/assessments/:id/submit", ctls.assessment.Submit)

		student.POST("/learning-modules/:id/touch", ctls.learning.Touch)
		student.POST("/learning-modules/complete-lesson", ctls.learning.CompleteLesson)

		student.GET("/dashboard/student", ctls.dashboard.Student)
	}

	// Teacher flows
	teacher := authed.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/assessments", ctls.assessment.Create)
		teacher.PUT("/assessments/:id", ctls.assessment.Update)
		teacher.DELETE("/assessments/:id", ctls.assessment.Delete)
		teacher.POST("/assessments/:id/duplicate", ctls.assessment.Duplicate)
		teacher.POST("/ai-assessments/generate", ctls.assessment.Generate)
		teacher.GET("/assessments/:id/statistics", ctls.assessment.Statistics)
		teacher.GET("/assessments/:id/results", ctls.result.ByAssessment)

		teacher.POST("/learning-modules", ctls.learning.Create)
		teacher.PUT("/learning-modules/:id", ctls.learning.Update)
		teacher.DELETE("/learning-modules/:id", ctls.learning.Delete)
		teacher.POST("/learning-modules/:id/lessons", ctls.learning.AddLesson)
		teacher.PUT("/lessons/:id", ctls.learning.UpdateLesson)
		teacher.DELETE("/lessons/:id", ctls.learning.DeleteLesson)
		teacher.GET("/learning-modules/:id/statistics", ctls.learning.Statistics)
		teacher.POST("/learning-modules/media", ctls.learning.UploadMedia)

		teacher.GET("/dashboard/teacher", ctls.dashboard.Teacher)
	}

	// Admin only
	admin := authed.Group("")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", ctls.user.List)
		admin.GET("/users/:id", ctls.user.Get)
		admin.PUT("/users/:id/disabled", ctls.user.SetDisabled)
		admin.PUT("/users/:id/role", ctls.user.SetRole)

		admin.GET("/dashboard/admin", ctls.dashboard.Admin)
	}

	return r
}
