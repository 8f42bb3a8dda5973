package repository

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.db.Create(a).Error
}

// FindByID loads the assessment with its questions in prompt order.
func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("assessment_questions.`order` ASC, assessment_questions.id ASC")
	}).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) List(category model.SkillCategory, page, limit int) ([]model.Assessment, int64, error) {
	var assessments []model.Assessment
	var total int64

	query := r.db.Model(&model.Assessment{})
	if category != "" {
		query = query.Where("skill_category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("assessment_questions.`order` ASC, assessment_questions.id ASC")
	}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&assessments).Error
	return assessments, total, err
}

// Update replaces the assessment and its full question set in one transaction.
func (r *AssessmentRepository) Update(a *model.Assessment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", a.ID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range a.Questions {
			a.Questions[i].ID = 0
			a.Questions[i].AssessmentID = a.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(a).Error
	})
}

func (r *AssessmentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assessment{}, id).Error
	})
}

func (r *AssessmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Assessment{}).Count(&count).Error
	return count, err
}

func (r *AssessmentRepository) CountByCreator(creatorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Assessment{}).Where("creator_id = ?", creatorID).Count(&count).Error
	return count, err
}
