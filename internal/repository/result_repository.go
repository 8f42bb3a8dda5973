package repository

import (
	"digital_literacy_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Create(result *model.AssessmentResult) error {
	return r.db.Create(result).Error
}

func (r *ResultRepository) FindByID(id uint) (*model.AssessmentResult, error) {
	var result model.AssessmentResult
	err := r.db.Preload("Assessment").First(&result, id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) ListByUser(userID uint) ([]model.AssessmentResult, error) {
	var results []model.AssessmentResult
	err := r.db.Where("user_id = ?", userID).
		Preload("Assessment").
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

func (r *ResultRepository) ListByAssessment(assessmentID uint) ([]model.AssessmentResult, error) {
	var results []model.AssessmentResult
	err := r.db.Where("assessment_id = ?", assessmentID).
		Preload("User").
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

func (r *ResultRepository) CountByAssessment(assessmentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.AssessmentResult{}).
		Where("assessment_id = ?", assessmentID).
		Count(&count).Error
	return count, err
}

func (r *ResultRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.AssessmentResult{}).Count(&count).Error
	return count, err
}

// Recent returns the newest results across all students.
func (r *ResultRepository) Recent(limit int) ([]model.AssessmentResult, error) {
	var results []model.AssessmentResult
	err := r.db.Preload("User").Preload("Assessment").
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// LatestByUser returns the most recent result per assessment for a user.
func (r *ResultRepository) LatestByUser(userID uint) ([]model.AssessmentResult, error) {
	var results []model.AssessmentResult
	sub := r.db.Model(&model.AssessmentResult{}).
		Select("MAX(id)").
		Where("user_id = ?", userID).
		Group("assessment_id")
	err := r.db.Where("id IN (?)", sub).
		Preload("Assessment").
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

// AverageScores returns per-assessment averages over all stored results.
type AssessmentAverage struct {
	AssessmentID  uint    `json:"assessmentId"`
	AvgPercentage float64 `json:"avgPercentage"`
	Attempts      int64   `json:"attempts"`
}

func (r *ResultRepository) AverageScores() ([]AssessmentAverage, error) {
	var rows []AssessmentAverage
	err := r.db.Model(&model.AssessmentResult{}).
		Select("assessment_id, AVG(percentage) AS avg_percentage, COUNT(*) AS attempts").
		Group("assessment_id").
		Scan(&rows).Error
	return rows, err
}

// LevelDistribution counts stored results per literacy level.
func (r *ResultRepository) LevelDistribution() (map[model.LiteracyLevel]int64, error) {
	type row struct {
		Level model.LiteracyLevel
		Count int64
	}
	var rows []row
	err := r.db.Model(&model.AssessmentResult{}).
		Select("level, COUNT(*) AS count").
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dist := make(map[model.LiteracyLevel]int64, len(rows))
	for _, rw := range rows {
		dist[rw.Level] = rw.Count
	}
	return dist, nil
}
