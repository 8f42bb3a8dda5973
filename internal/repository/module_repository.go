package repository

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

func (r *ModuleRepository) Create(m *model.LearningModule) error {
	return r.db.Create(m).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.LearningModule, error) {
	var m model.LearningModule
	err := r.db.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order` ASC, lessons.id ASC")
	}).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ModuleRepository) List(level model.SkillCategory) ([]model.LearningModule, error) {
	var modules []model.LearningModule
	query := r.db.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order` ASC, lessons.id ASC")
	})
	if level != "" {
		query = query.Where("skill_level = ?", level)
	}
	err := query.Order("`order` ASC, id ASC").Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Update(m *model.LearningModule) error {
	return r.db.Save(m).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", id).Delete(&model.ModuleProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.LearningModule{}, id).Error
	})
}

func (r *ModuleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.LearningModule{}).Count(&count).Error
	return count, err
}

func (r *ModuleRepository) CreateLesson(l *model.Lesson) error {
	return r.db.Create(l).Error
}

func (r *ModuleRepository) FindLesson(id uint) (*model.Lesson, error) {
	var l model.Lesson
	err := r.db.First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ModuleRepository) UpdateLesson(l *model.Lesson) error {
	return r.db.Save(l).Error
}

func (r *ModuleRepository) DeleteLesson(id uint) error {
	return r.db.Delete(&model.Lesson{}, id).Error
}

// Progress

func (r *ModuleRepository) FindProgress(userID, moduleID uint) (*model.ModuleProgress, error) {
	var p model.ModuleProgress
	err := r.db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ModuleRepository) SaveProgress(p *model.ModuleProgress) error {
	return r.db.Save(p).Error
}

func (r *ModuleRepository) ListProgressByUser(userID uint) ([]model.ModuleProgress, error) {
	var progress []model.ModuleProgress
	err := r.db.Where("user_id = ?", userID).
		Preload("Module").
		Order("last_accessed_at DESC").
		Find(&progress).Error
	return progress, err
}

func (r *ModuleRepository) ListProgressByModule(moduleID uint) ([]model.ModuleProgress, error) {
	var progress []model.ModuleProgress
	err := r.db.Where("module_id = ?", moduleID).
		Preload("User").
		Find(&progress).Error
	return progress, err
}

// RecentProgress returns the most recently touched progress rows platform-wide.
func (r *ModuleRepository) RecentProgress(limit int) ([]model.ModuleProgress, error) {
	var progress []model.ModuleProgress
	err := r.db.Preload("User").Preload("Module").
		Order("last_accessed_at DESC").
		Limit(limit).
		Find(&progress).Error
	return progress, err
}

func (r *ModuleRepository) CountCompletedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.ModuleProgress{}).
		Where("completed_at IS NOT NULL AND completed_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *ModuleRepository) CountCompleted() (int64, error) {
	var count int64
	err := r.db.Model(&model.ModuleProgress{}).
		Where("completed_at IS NOT NULL").
		Count(&count).Error
	return count, err
}
