package controller

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/service"
	"digital_literacy_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	learning *service.LearningService
}

func NewLearningController(learning *service.LearningService) *LearningController {
	return &LearningController{learning: learning}
}

// List godoc
// @Summary List learning modules
// @Tags learning
// @Produce json
// @Param level query string false "Skill level filter"
// @Success 200 {object} util.Response{data=[]model.LearningModule}
// @Security BearerAuth
// @Router /learning-modules [get]
func (ctl *LearningController) List(c *gin.Context) {
	level := model.SkillCategory(c.Query("level"))
	modules, err := ctl.learning.ListModules(level)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, modules)
}

// Get godoc
// @Summary Get one learning module
// @Tags learning
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} util.Response{data=model.LearningModule}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules/{id} [get]
func (ctl *LearningController) Get(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	m, err := ctl.learning.GetModule(id)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, m)
}

// Create godoc
// @Summary Create a learning module
// @Tags learning
// @Accept json
// @Produce json
// @Param request body service.ModuleInput true "Module payload"
// @Success 201 {object} util.Response{data=model.LearningModule}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules [post]
func (ctl *LearningController) Create(c *gin.Context) {
	var in service.ModuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	m, err := ctl.learning.CreateModule(claims.UserID, in)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, m)
}

// Update godoc
// @Summary Update a learning module
// @Tags learning
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param request body service.ModuleInput true "Module payload"
// @Success 200 {object} util.Response{data=model.LearningModule}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules/{id} [put]
func (ctl *LearningController) Update(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	var in service.ModuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	m, err := ctl.learning.UpdateModule(id, in)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, m)
}

// Delete godoc
// @Summary Delete a learning module
// @Tags learning
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules/{id} [delete]
func (ctl *LearningController) Delete(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	if err := ctl.learning.DeleteModule(id); err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

// AddLesson godoc
// @Summary Add a lesson to a module
// @Tags learning
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param request body service.LessonInput true "Lesson payload"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules/{id}/lessons [post]
func (ctl *LearningController) AddLesson(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	var in service.LessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	l, err := ctl.learning.AddLesson(id, in)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, l)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags learning
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body service.LessonInput true "Lesson payload"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /lessons/{id} [put]
func (ctl *LearningController) UpdateLesson(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	var in service.LessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	l, err := ctl.learning.UpdateLesson(id, in)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, l)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags learning
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /lessons/{id} [delete]
func (ctl *LearningController) DeleteLesson(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	if err := ctl.learning.DeleteLesson(id); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

// Touch godoc
// @Summary Record that the student opened a module
// @Tags learning
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules/{id}/touch [post]
func (ctl *LearningController) Touch(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	claims := util.GetUserFromContext(c)

	p, err := ctl.learning.TouchModule(claims.UserID, id)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, p)
}

type completeLessonRequest struct {
	ModuleID uint `json:"moduleId" binding:"required"`
	LessonID uint `json:"lessonId" binding:"required"`
}

// CompleteLesson godoc
// @Summary Mark a lesson completed
// @Tags learning
// @Accept json
// @Produce json
// @Param request body completeLessonRequest true "Module and lesson"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules/complete-lesson [post]
func (ctl *LearningController) CompleteLesson(c *gin.Context) {
	var req completeLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)

	p, err := ctl.learning.CompleteLesson(claims.UserID, req.ModuleID, req.LessonID)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) || errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, p)
}

// Progress godoc
// @Summary Current student's module progress
// @Tags learning
// @Produce json
// @Success 200 {object} util.Response{data=[]model.ModuleProgress}
// @Security BearerAuth
// @Router /learning-modules/progress/me [get]
func (ctl *LearningController) Progress(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	progress, err := ctl.learning.UserProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, progress)
}

// Statistics godoc
// @Summary Module uptake statistics
// @Tags learning
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} util.Response{data=service.ModuleStatistics}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules/{id}/statistics [get]
func (ctl *LearningController) Statistics(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	stats, err := ctl.learning.Statistics(id)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, stats)
}

// UploadMedia godoc
// @Summary Upload lesson media
// @Tags learning
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Success 200 {object} util.Response{data=service.MediaUploadResult}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /learning-modules/media [post]
func (ctl *LearningController) UploadMedia(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "file is required")
		return
	}

	result, err := ctl.learning.UploadMedia(c.Request.Context(), header)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, result)
}
