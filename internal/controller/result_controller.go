package controller

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/repository"
	"digital_literacy_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ResultController struct {
	results *repository.ResultRepository
}

func NewResultController(results *repository.ResultRepository) *ResultController {
	return &ResultController{results: results}
}

// Mine godoc
// @Summary Current user's assessment results
// @Tags result
// @Produce json
// @Success 200 {object} util.Response{data=[]model.AssessmentResult}
// @Security BearerAuth
// @Router /results [get]
func (ctl *ResultController) Mine(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	results, err := ctl.results.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, results)
}

// Get godoc
// @Summary One result with answer details
// @Description Students may only read their own results
// @Tags result
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} util.Response{data=model.AssessmentResult}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /results/{id} [get]
func (ctl *ResultController) Get(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	result, err := ctl.results.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	claims := util.GetUserFromContext(c)
	if claims.Role == model.Student && result.UserID != claims.UserID {
		util.Forbidden(c)
		return
	}
	util.Success(c, result)
}

// ByAssessment godoc
// @Summary All results for one assessment
// @Tags result
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=[]model.AssessmentResult}
// @Security BearerAuth
// @Router /assessments/{id}/results [get]
func (ctl *ResultController) ByAssessment(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	results, err := ctl.results.ListByAssessment(id)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, results)
}
