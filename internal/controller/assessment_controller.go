package controller

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/service"
	"digital_literacy_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	assessments *service.AssessmentService
	ai          *service.AIAssessmentService
}

func NewAssessmentController(assessments *service.AssessmentService, ai *service.AIAssessmentService) *AssessmentController {
	return &AssessmentController{assessments: assessments, ai: ai}
}

// List godoc
// @Summary List assessments
// @Tags assessment
// @Produce json
// @Param category query string false "Skill category filter"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /assessments [get]
func (ctl *AssessmentController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	category := model.SkillCategory(c.Query("category"))

	list, total, err := ctl.assessments.List(category, page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	claims := util.GetUserFromContext(c)
	if claims != nil && claims.Role == model.Student {
		for i := range list {
			for j := range list[i].Questions {
				list[i].Questions[j].CorrectAnswer = ""
				list[i].Questions[j].Explanation = ""
			}
		}
	}

	util.Success(c, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Get one assessment
// @Tags assessment
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /assessments/{id} [get]
func (ctl *AssessmentController) Get(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	claims := util.GetUserFromContext(c)
	var (
		a   *model.Assessment
		err error
	)
	if claims != nil && claims.Role == model.Student {
		a, err = ctl.assessments.GetForStudent(id)
	} else {
		a, err = ctl.assessments.Get(id)
	}
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, a)
}

// Create godoc
// @Summary Create an assessment
// @Tags assessment
// @Accept json
// @Produce json
// @Param request body service.AssessmentInput true "Assessment payload"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /assessments [post]
func (ctl *AssessmentController) Create(c *gin.Context) {
	var in service.AssessmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	a, err := ctl.assessments.Create(claims.UserID, in)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	util.Created(c, a)
}

// Update godoc
// @Summary Update an assessment
// @Tags assessment
// @Accept json
// @Produce json
// @Param id path int true "Assessment ID"
// @Param request body service.AssessmentInput true "Assessment payload"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /assessments/{id} [put]
func (ctl *AssessmentController) Update(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	var in service.AssessmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	a, err := ctl.assessments.Update(id, in)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c)
			return
		}
		util.BadRequest(c, err.Error())
		return
	}
	util.Success(c, a)
}

// Delete godoc
// @Summary Delete an assessment
// @Description Fails with 409 when results already reference the assessment
// @Tags assessment
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /assessments/{id} [delete]
func (ctl *AssessmentController) Delete(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	err := ctl.assessments.Delete(id)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c)
			return
		}
		if errors.Is(err, util.ErrAssessmentHasResults) {
			util.Conflict(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

// Duplicate godoc
// @Summary Duplicate an assessment
// @Tags assessment
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /assessments/{id}/duplicate [post]
func (ctl *AssessmentController) Duplicate(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	claims := util.GetUserFromContext(c)

	clone, err := ctl.assessments.Duplicate(id, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, clone)
}

// Statistics godoc
// @Summary Assessment statistics
// @Tags assessment
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=service.AssessmentStatistics}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /assessments/{id}/statistics [get]
func (ctl *AssessmentController) Statistics(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	stats, err := ctl.assessments.Statistics(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, stats)
}

type submitRequest struct {
	Answers []model.QuestionAnswer `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit answers without a live session
// @Description Grades a complete answer set in one call
// @Tags assessment
// @Accept json
// @Produce json
// @Param id path int true "Assessment ID"
// @Param request body submitRequest true "Answer list"
// @Success 200 {object} util.Response{data=model.AssessmentResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /assessments/{id}/submit [post]
func (ctl *AssessmentController) Submit(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	result, err := ctl.assessments.SubmitByID(claims.UserID, id, req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, result)
}

// Generate godoc
// @Summary Generate an assessment with AI
// @Tags assessment
// @Accept json
// @Produce json
// @Param request body service.GenerateInput true "Generation parameters"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Security BearerAuth
// @Router /ai-assessments/generate [post]
func (ctl *AssessmentController) Generate(c *gin.Context) {
	var in service.GenerateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	a, err := ctl.ai.Generate(c.Request.Context(), claims.UserID, in)
	if err != nil {
		util.Error(c, 502, err.Error())
		return
	}
	util.Created(c, a)
}
