package model

type SkillCategory string

const (
	SkillBasic        SkillCategory = "basic"
	SkillIntermediate SkillCategory = "intermediate"
	SkillAdvanced     SkillCategory = "advanced"
)

// swagger:model Assessment
type Assessment struct {
	BaseModel
	Title         string        `gorm:"size:255;not null" json:"title"`
	Description   string        `gorm:"type:text" json:"description"`
	SkillCategory SkillCategory `gorm:"type:enum('basic','intermediate','advanced');default:'basic'" json:"skillCategory"`
	TotalPoints   int           `gorm:"default:0" json:"totalPoints"`
	TimeLimit     int           `gorm:"default:0" json:"timeLimit"` // Minutes, 0 means untimed
	CreatorID     uint          `gorm:"index;type:bigint unsigned" json:"creatorId"`
	Questions     []Question    `gorm:"foreignKey:AssessmentID" json:"questions"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// QuestionCount avoids a nil-slice special case at call sites.
func (a *Assessment) QuestionCount() int {
	return len(a.Questions)
}

// swagger:model Question
type Question struct {
	BaseModel
	AssessmentID  uint     `gorm:"index;type:bigint unsigned" json:"assessmentId"`
	Prompt        string   `gorm:"type:text;not null" json:"question"`
	Options       []string `gorm:"type:json;serializer:json" json:"options"`
	CorrectAnswer string   `gorm:"type:text;not null" json:"correctAnswer"`
	Explanation   string   `gorm:"type:text" json:"explanation,omitempty"`
	Points        int      `gorm:"default:1" json:"points"`
	Order         int      `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "assessment_questions"
}
