package model

import "time"

// swagger:model LearningModule
type LearningModule struct {
	BaseModel
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	SkillLevel  SkillCategory `gorm:"type:enum('basic','intermediate','advanced');default:'basic'" json:"skillLevel"`
	Duration    int           `gorm:"default:0" json:"duration"` // Minutes
	Order       int           `gorm:"default:0" json:"order"`
	CreatorID   uint          `gorm:"index;type:bigint unsigned" json:"creatorId"`
	Lessons     []Lesson      `gorm:"foreignKey:ModuleID" json:"lessons"`
}

func (LearningModule) TableName() string {
	return "learning_modules"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID    uint   `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Content     string `gorm:"type:text" json:"content"`
	VideoURL    string `gorm:"size:512" json:"videoUrl,omitempty"`
	ResourceURL string `gorm:"size:512" json:"resourceUrl,omitempty"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// ModuleProgress tracks one student's progress through one module.
// LessonsCompleted holds lesson IDs; completion percentage is derived
// from it against the module's lesson count.
type ModuleProgress struct {
	BaseModel
	UserID               uint       `gorm:"index:idx_progress_user_module,unique;type:bigint unsigned" json:"userId"`
	ModuleID             uint       `gorm:"index:idx_progress_user_module,unique;type:bigint unsigned" json:"moduleId"`
	LessonsCompleted     []uint     `gorm:"type:json;serializer:json" json:"lessonsCompleted"`
	CompletionPercentage int        `gorm:"default:0" json:"completionPercentage"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	LastAccessedAt       time.Time  `json:"lastAccessedAt"`

	User   *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Module *LearningModule `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}
