package service

import (
	"digital_literacy_backend/internal/model"
	"encoding/json"
)

// Literacy classification boundaries. A separate, lower threshold decides
// whether an attempt counts as passed for dashboard messaging.
const (
	LiterateThreshold     = 80
	SemiLiterateThreshold = 50
	PassThreshold         = 70
)

// Classify maps a percentage score to a literacy level. Total over 0-100:
// 80 and above is literate, 50-79 semi-literate, below 50 illiterate.
func Classify(percentage int) model.LiteracyLevel {
	switch {
	case percentage >= LiterateThreshold:
		return model.Literate
	case percentage >= SemiLiterateThreshold:
		return model.SemiLiterate
	default:
		return model.Illiterate
	}
}

// Passed reports whether a percentage meets the pass mark used in
// feedback and teacher statistics.
func Passed(percentage int) bool {
	return percentage >= PassThreshold
}

func feedbackFor(level model.LiteracyLevel) string {
	switch level {
	case model.Literate:
		return "Excellent work! You have strong digital literacy skills. Explore the advanced learning modules to keep growing."
	case model.SemiLiterate:
		return "Good effort! You have a solid foundation. Review the recommended learning modules to strengthen your weaker areas."
	default:
		return "Keep going! Start with the basic learning modules to build up your digital skills step by step."
	}
}

// Score grades a submission against an assessment. Every question is graded;
// questions without a matching answer count as incorrect and appear in the
// detail list with an empty answer. Percentage is rounded half up.
func Score(assessment *model.Assessment, answers []model.QuestionAnswer) (*model.AssessmentResult, error) {
	byQuestion := make(map[uint]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.UserAnswer
	}

	var score, maxScore int
	details := make([]model.AnswerDetail, 0, len(assessment.Questions))
	for _, q := range assessment.Questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		maxScore += points

		userAnswer := byQuestion[q.ID]
		correct := userAnswer != "" && userAnswer == q.CorrectAnswer
		if correct {
			score += points
		}
		details = append(details, model.AnswerDetail{
			QuestionID: q.ID,
			UserAnswer: userAnswer,
			IsCorrect:  correct,
		})
	}

	percentage := 0
	if maxScore > 0 {
		percentage = (score*100 + maxScore/2) / maxScore
	}

	level := Classify(percentage)
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	return &model.AssessmentResult{
		AssessmentID: assessment.ID,
		Score:        score,
		MaxScore:     maxScore,
		Percentage:   percentage,
		Level:        level,
		Feedback:     feedbackFor(level),
		Answers:      raw,
	}, nil
}
