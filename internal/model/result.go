package model

import "encoding/json"

type LiteracyLevel string

const (
	Literate     LiteracyLevel = "literate"
	SemiLiterate LiteracyLevel = "semi-literate"
	Illiterate   LiteracyLevel = "illiterate"
)

// QuestionAnswer is one entry of a submission payload. Unanswered
// questions are simply absent from the list.
type QuestionAnswer struct {
	QuestionID uint   `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
}

// AnswerDetail is the per-question correctness record stored with a result.
type AnswerDetail struct {
	QuestionID uint   `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// swagger:model AssessmentResult
type AssessmentResult struct {
	BaseModel
	UserID       uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	AssessmentID uint            `gorm:"index;type:bigint unsigned" json:"assessmentId"`
	Score        int             `gorm:"default:0" json:"score"`
	MaxScore     int             `gorm:"default:0" json:"maxScore"`
	Percentage   int             `gorm:"default:0" json:"percentage"`
	Level        LiteracyLevel   `gorm:"size:20" json:"digitalLiteracyLevel"`
	Feedback     string          `gorm:"type:text" json:"feedback"`
	Answers      json.RawMessage `gorm:"type:json" json:"answers"`

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Assessment *Assessment `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`
}

func (AssessmentResult) TableName() string {
	return "assessment_results"
}
