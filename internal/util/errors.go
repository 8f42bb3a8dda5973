package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrAssessmentHasResults = errors.New("assessment has existing results and cannot be deleted")
	ErrModuleNotFound       = errors.New("learning module not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrQuestionNotFound     = errors.New("question does not belong to this assessment")
	ErrNoActiveSession      = errors.New("no active assessment session")
	ErrSessionNotInProgress = errors.New("assessment session is not in progress")
	ErrSubmitInFlight       = errors.New("submission already in progress")
	ErrIncompleteAnswers    = errors.New("all questions must be answered before submitting")
	ErrTimeExpired          = errors.New("time is over, answers are being submitted")
)
