package service

import (
	"context"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/repository"
	"digital_literacy_backend/internal/util"
	"digital_literacy_backend/pkg/logger"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LearningService struct {
	modules *repository.ModuleRepository
	storage StorageProvider
}

func NewLearningService(modules *repository.ModuleRepository, storage StorageProvider) *LearningService {
	return &LearningService{modules: modules, storage: storage}
}

type ModuleInput struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	SkillLevel  model.SkillCategory `json:"skillLevel"`
	Duration    int                 `json:"duration"`
	Order       int                 `json:"order"`
}

type LessonInput struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content"`
	VideoURL    string `json:"videoUrl"`
	ResourceURL string `json:"resourceUrl"`
	Order       int    `json:"order"`
}

func (s *LearningService) CreateModule(creatorID uint, in ModuleInput) (*model.LearningModule, error) {
	level := in.SkillLevel
	if level == "" {
		level = model.SkillBasic
	}
	m := &model.LearningModule{
		Title:       in.Title,
		Description: in.Description,
		SkillLevel:  level,
		Duration:    in.Duration,
		Order:       in.Order,
		CreatorID:   creatorID,
	}
	if err := s.modules.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *LearningService) GetModule(id uint) (*model.LearningModule, error) {
	return s.modules.FindByID(id)
}

func (s *LearningService) ListModules(level model.SkillCategory) ([]model.LearningModule, error) {
	return s.modules.List(level)
}

func (s *LearningService) UpdateModule(id uint, in ModuleInput) (*model.LearningModule, error) {
	m, err := s.modules.FindByID(id)
	if err != nil {
		return nil, err
	}
	m.Title = in.Title
	m.Description = in.Description
	if in.SkillLevel != "" {
		m.SkillLevel = in.SkillLevel
	}
	m.Duration = in.Duration
	m.Order = in.Order
	if err := s.modules.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *LearningService) DeleteModule(id uint) error {
	if _, err := s.modules.FindByID(id); err != nil {
		return err
	}
	return s.modules.Delete(id)
}

func (s *LearningService) AddLesson(moduleID uint, in LessonInput) (*model.Lesson, error) {
	if _, err := s.modules.FindByID(moduleID); err != nil {
		return nil, err
	}
	l := &model.Lesson{
		ModuleID:    moduleID,
		Title:       in.Title,
		Content:     in.Content,
		VideoURL:    in.VideoURL,
		ResourceURL: in.ResourceURL,
		Order:       in.Order,
	}
	if err := s.modules.CreateLesson(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LearningService) UpdateLesson(id uint, in LessonInput) (*model.Lesson, error) {
	l, err := s.modules.FindLesson(id)
	if err != nil {
		return nil, err
	}
	l.Title = in.Title
	l.Content = in.Content
	l.VideoURL = in.VideoURL
	l.ResourceURL = in.ResourceURL
	l.Order = in.Order
	if err := s.modules.UpdateLesson(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LearningService) DeleteLesson(id uint) error {
	if _, err := s.modules.FindLesson(id); err != nil {
		return err
	}
	return s.modules.DeleteLesson(id)
}

// Progress

// CompleteLesson marks a lesson done for a student, creating the progress
// row on first touch. Completing the last lesson stamps CompletedAt.
func (s *LearningService) CompleteLesson(userID, moduleID, lessonID uint) (*model.ModuleProgress, error) {
	m, err := s.modules.FindByID(moduleID)
	if err != nil {
		return nil, err
	}

	belongs := false
	for _, l := range m.Lessons {
		if l.ID == lessonID {
			belongs = true
			break
		}
	}
	if !belongs {
		return nil, util.ErrLessonNotFound
	}

	p, err := s.modules.FindProgress(userID, moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = &model.ModuleProgress{UserID: userID, ModuleID: moduleID}
	} else if err != nil {
		return nil, err
	}

	for _, id := range p.LessonsCompleted {
		if id == lessonID {
			p.LastAccessedAt = time.Now()
			if err := s.modules.SaveProgress(p); err != nil {
				return nil, err
			}
			return p, nil
		}
	}

	p.LessonsCompleted = append(p.LessonsCompleted, lessonID)
	p.LastAccessedAt = time.Now()

	total := len(m.Lessons)
	if total > 0 {
		p.CompletionPercentage = len(p.LessonsCompleted) * 100 / total
	}
	if total > 0 && len(p.LessonsCompleted) >= total && p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
		p.CompletionPercentage = 100
	}

	if err := s.modules.SaveProgress(p); err != nil {
		return nil, err
	}
	return p, nil
}

// TouchModule records that a student opened a module.
func (s *LearningService) TouchModule(userID, moduleID uint) (*model.ModuleProgress, error) {
	if _, err := s.modules.FindByID(moduleID); err != nil {
		return nil, err
	}

	p, err := s.modules.FindProgress(userID, moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = &model.ModuleProgress{UserID: userID, ModuleID: moduleID}
	} else if err != nil {
		return nil, err
	}

	p.LastAccessedAt = time.Now()
	if err := s.modules.SaveProgress(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *LearningService) UserProgress(userID uint) ([]model.ModuleProgress, error) {
	return s.modules.ListProgressByUser(userID)
}

// ModuleStatistics summarizes one module's uptake across students.
type ModuleStatistics struct {
	ModuleID      uint                   `json:"moduleId"`
	Learners      int                    `json:"learners"`
	Completed     int                    `json:"completed"`
	InProgress    int                    `json:"inProgress"`
	AvgCompletion float64                `json:"avgCompletion"`
	Students      []model.ModuleProgress `json:"students"`
}

func (s *LearningService) Statistics(moduleID uint) (*ModuleStatistics, error) {
	if _, err := s.modules.FindByID(moduleID); err != nil {
		return nil, err
	}

	progress, err := s.modules.ListProgressByModule(moduleID)
	if err != nil {
		return nil, err
	}

	stats := &ModuleStatistics{ModuleID: moduleID, Learners: len(progress), Students: progress}
	if len(progress) > 0 {
		sum := 0
		for _, p := range progress {
			sum += p.CompletionPercentage
			if p.CompletedAt != nil {
				stats.Completed++
			} else {
				stats.InProgress++
			}
		}
		stats.AvgCompletion = float64(sum) / float64(len(progress))
	}
	return stats, nil
}

// Media

type MediaUploadResult struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
}

// UploadMedia stores a lesson attachment under a generated object name.
// The content is sniffed and restricted to video, image, and PDF. Video
// files are staged to a temp file so ffprobe can read them; probe
// failures are non-fatal since the upload itself still proceeds.
func (s *LearningService) UploadMedia(ctx context.Context, header *multipart.FileHeader) (*MediaUploadResult, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	objectName := fmt.Sprintf("lessons/%s/%s%s", time.Now().Format("2006/01"), uuid.NewString(), ext)

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeVideo, util.MimeImage, util.MimePDF})
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	result := &MediaUploadResult{}
	var upload multipart.File = file

	if util.IsVideo(mimeType) {
		tmp, err := os.CreateTemp("", "media-*"+ext)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp.Name())
		defer tmp.Close()

		if _, err := io.Copy(tmp, file); err != nil {
			return nil, err
		}
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}

		if info, err := util.GetVideoInfo(tmp.Name()); err == nil {
			result.Duration = info.Duration
			result.Width = info.Width
			result.Height = info.Height
		} else {
			logger.Log.Warn("failed to probe uploaded video", zap.String("object", objectName), zap.Error(err))
		}
		upload = tmp
	}

	url, err := s.storage.Upload(ctx, objectName, upload, header.Size, mimeType)
	if err != nil {
		return nil, err
	}
	result.URL = url
	return result, nil
}
