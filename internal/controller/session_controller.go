package controller

import (
	"digital_literacy_backend/internal/service"
	"digital_literacy_backend/internal/session"
	"digital_literacy_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// SessionController exposes the live assessment attempt: start, answer,
// navigate, and submit. One live session per student.
type SessionController struct {
	sessions    *session.Manager
	assessments *service.AssessmentService
}

func NewSessionController(sessions *session.Manager, assessments *service.AssessmentService) *SessionController {
	return &SessionController{sessions: sessions, assessments: assessments}
}

// Start godoc
// @Summary Start an assessment attempt
// @Description Begins a timed session; any previous session is discarded
// @Tags session
// @Produce json
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=session.Snapshot}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /assessments/{id}/session [post]
func (ctl *SessionController) Start(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))
	claims := util.GetUserFromContext(c)

	a, err := ctl.assessments.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	snap := ctl.sessions.Start(claims.UserID, a)
	util.Success(c, snap)
}

// State godoc
// @Summary Current session state
// @Tags session
// @Produce json
// @Success 200 {object} util.Response{data=session.Snapshot}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /session [get]
func (ctl *SessionController) State(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	snap, err := ctl.sessions.Snapshot(claims.UserID)
	if err != nil {
		util.Error(c, 404, err.Error())
		return
	}
	util.Success(c, snap)
}

type answerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// Answer godoc
// @Summary Record an answer
// @Tags session
// @Accept json
// @Produce json
// @Param request body answerRequest true "Answer payload"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /session/answer [post]
func (ctl *SessionController) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	err := ctl.sessions.Answer(claims.UserID, req.QuestionID, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoActiveSession):
			util.Error(c, 404, err.Error())
		case errors.Is(err, util.ErrQuestionNotFound):
			util.BadRequest(c, err.Error())
		default:
			util.BadRequest(c, err.Error())
		}
		return
	}
	util.Success(c, nil)
}

// Next godoc
// @Summary Move to the next question
// @Description Rejected once the countdown has expired
// @Tags session
// @Produce json
// @Success 200 {object} util.Response{data=session.Snapshot}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /session/next [post]
func (ctl *SessionController) Next(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	snap, err := ctl.sessions.Next(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoActiveSession) {
			util.Error(c, 404, err.Error())
			return
		}
		util.BadRequest(c, err.Error())
		return
	}
	util.Success(c, snap)
}

// Previous godoc
// @Summary Move to the previous question
// @Tags session
// @Produce json
// @Success 200 {object} util.Response{data=session.Snapshot}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /session/previous [post]
func (ctl *SessionController) Previous(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	snap, err := ctl.sessions.Previous(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoActiveSession) {
			util.Error(c, 404, err.Error())
			return
		}
		util.BadRequest(c, err.Error())
		return
	}
	util.Success(c, snap)
}

// Submit godoc
// @Summary Submit the attempt
// @Description Requires every question answered; after expiry the forced submission owns the result
// @Tags session
// @Produce json
// @Success 200 {object} util.Response{data=model.AssessmentResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /session/submit [post]
func (ctl *SessionController) Submit(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	result, err := ctl.sessions.Submit(claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoActiveSession):
			util.Error(c, 404, err.Error())
		case errors.Is(err, util.ErrSubmitInFlight):
			util.Conflict(c, err.Error())
		case errors.Is(err, util.ErrIncompleteAnswers), errors.Is(err, util.ErrTimeExpired):
			util.BadRequest(c, err.Error())
		case errors.Is(err, util.ErrSessionNotInProgress):
			util.Conflict(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, result)
}
