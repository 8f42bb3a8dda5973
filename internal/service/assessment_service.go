package service

import (
	"context"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/repository"
	"digital_literacy_backend/internal/util"
	"digital_literacy_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const statsCacheTTL = 5 * time.Minute

type AssessmentService struct {
	assessments *repository.AssessmentRepository
	results     *repository.ResultRepository
	rdb         *redis.Client
}

func NewAssessmentService(assessments *repository.AssessmentRepository, results *repository.ResultRepository, rdb *redis.Client) *AssessmentService {
	return &AssessmentService{assessments: assessments, results: results, rdb: rdb}
}

type QuestionInput struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points"`
}

type AssessmentInput struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description"`
	SkillCategory model.SkillCategory `json:"skillCategory"`
	TimeLimit     int                 `json:"timeLimit"`
	Questions     []QuestionInput     `json:"questions" binding:"required"`
}

// validate enforces the question shape: a prompt, at least two non-empty
// options, and a correct answer matching one option verbatim.
func validateQuestions(questions []QuestionInput) error {
	if len(questions) == 0 {
		return fmt.Errorf("assessment must have at least one question")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d: prompt is required", i+1)
		}
		valid := 0
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) != "" {
				valid++
			}
		}
		if valid < 2 {
			return fmt.Errorf("question %d: at least two non-empty options are required", i+1)
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: correct answer must match one of the options exactly", i+1)
		}
	}
	return nil
}

func buildQuestions(inputs []QuestionInput) ([]model.Question, int) {
	questions := make([]model.Question, 0, len(inputs))
	total := 0
	for i, q := range inputs {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		total += points
		questions = append(questions, model.Question{
			Prompt:        q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        points,
			Order:         i,
		})
	}
	return questions, total
}

func (s *AssessmentService) Create(creatorID uint, in AssessmentInput) (*model.Assessment, error) {
	if err := validateQuestions(in.Questions); err != nil {
		return nil, err
	}

	questions, total := buildQuestions(in.Questions)
	category := in.SkillCategory
	if category == "" {
		category = model.SkillBasic
	}

	a := &model.Assessment{
		Title:         in.Title,
		Description:   in.Description,
		SkillCategory: category,
		TotalPoints:   total,
		TimeLimit:     in.TimeLimit,
		CreatorID:     creatorID,
		Questions:     questions,
	}
	if err := s.assessments.Create(a); err != nil {
		return nil, err
	}
	s.invalidateStats(a.ID)
	return a, nil
}

func (s *AssessmentService) Get(id uint) (*model.Assessment, error) {
	return s.assessments.FindByID(id)
}

// GetForStudent strips answer keys so the client never sees them.
func (s *AssessmentService) GetForStudent(id uint) (*model.Assessment, error) {
	a, err := s.assessments.FindByID(id)
	if err != nil {
		return nil, err
	}
	for i := range a.Questions {
		a.Questions[i].CorrectAnswer = ""
		a.Questions[i].Explanation = ""
	}
	return a, nil
}

func (s *AssessmentService) List(category model.SkillCategory, page, limit int) ([]model.Assessment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.assessments.List(category, page, limit)
}

func (s *AssessmentService) Update(id uint, in AssessmentInput) (*model.Assessment, error) {
	if err := validateQuestions(in.Questions); err != nil {
		return nil, err
	}

	a, err := s.assessments.FindByID(id)
	if err != nil {
		return nil, err
	}

	questions, total := buildQuestions(in.Questions)
	a.Title = in.Title
	a.Description = in.Description
	if in.SkillCategory != "" {
		a.SkillCategory = in.SkillCategory
	}
	a.TimeLimit = in.TimeLimit
	a.TotalPoints = total
	a.Questions = questions

	if err := s.assessments.Update(a); err != nil {
		return nil, err
	}
	s.invalidateStats(id)
	return a, nil
}

// Delete refuses to drop an assessment that already has stored results.
func (s *AssessmentService) Delete(id uint) error {
	if _, err := s.assessments.FindByID(id); err != nil {
		return err
	}
	count, err := s.results.CountByAssessment(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.ErrAssessmentHasResults
	}
	if err := s.assessments.Delete(id); err != nil {
		return err
	}
	s.invalidateStats(id)
	return nil
}

// Duplicate clones an assessment with all questions under a new title.
func (s *AssessmentService) Duplicate(id, creatorID uint) (*model.Assessment, error) {
	src, err := s.assessments.FindByID(id)
	if err != nil {
		return nil, err
	}

	questions := make([]model.Question, 0, len(src.Questions))
	for _, q := range src.Questions {
		questions = append(questions, model.Question{
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        q.Points,
			Order:         q.Order,
		})
	}

	clone := &model.Assessment{
		Title:         src.Title + " (Copy)",
		Description:   src.Description,
		SkillCategory: src.SkillCategory,
		TotalPoints:   src.TotalPoints,
		TimeLimit:     src.TimeLimit,
		CreatorID:     creatorID,
		Questions:     questions,
	}
	if err := s.assessments.Create(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// SubmitAnswers grades a submission and stores the result. Used both by the
// live session engine and the stateless submit endpoint.
func (s *AssessmentService) SubmitAnswers(userID uint, assessment *model.Assessment, answers []model.QuestionAnswer) (*model.AssessmentResult, error) {
	result, err := Score(assessment, answers)
	if err != nil {
		return nil, err
	}
	result.UserID = userID

	if err := s.results.Create(result); err != nil {
		return nil, err
	}
	s.invalidateStats(assessment.ID)
	return result, nil
}

func (s *AssessmentService) SubmitByID(userID, assessmentID uint, answers []model.QuestionAnswer) (*model.AssessmentResult, error) {
	a, err := s.assessments.FindByID(assessmentID)
	if err != nil {
		return nil, err
	}
	return s.SubmitAnswers(userID, a, answers)
}

// Statistics

type ScoreBuckets struct {
	High int `json:"high"` // 70 and above
	Mid  int `json:"mid"`  // 50 to 69
	Low  int `json:"low"`  // below 50
}

type AssessmentStatistics struct {
	AssessmentID   uint                     `json:"assessmentId"`
	Attempts       int                      `json:"attempts"`
	AvgPercentage  float64                  `json:"avgPercentage"`
	HighPercentage int                      `json:"highPercentage"`
	LowPercentage  int                      `json:"lowPercentage"`
	PassRate       float64                  `json:"passRate"`
	Buckets        ScoreBuckets             `json:"buckets"`
	Recent         []model.AssessmentResult `json:"recent"`
}

func statsCacheKey(id uint) string {
	return fmt.Sprintf("assessment:stats:%d", id)
}

// Statistics aggregates attempts for one assessment, cached in Redis.
func (s *AssessmentService) Statistics(ctx context.Context, id uint) (*AssessmentStatistics, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, statsCacheKey(id)).Result(); err == nil {
			var cached AssessmentStatistics
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	if _, err := s.assessments.FindByID(id); err != nil {
		return nil, err
	}

	results, err := s.results.ListByAssessment(id)
	if err != nil {
		return nil, err
	}

	stats := &AssessmentStatistics{AssessmentID: id, Attempts: len(results)}
	if len(results) > 0 {
		sum := 0
		passed := 0
		stats.LowPercentage = results[0].Percentage
		for _, r := range results {
			sum += r.Percentage
			if Passed(r.Percentage) {
				passed++
			}
			if r.Percentage > stats.HighPercentage {
				stats.HighPercentage = r.Percentage
			}
			if r.Percentage < stats.LowPercentage {
				stats.LowPercentage = r.Percentage
			}
			switch {
			case r.Percentage >= PassThreshold:
				stats.Buckets.High++
			case r.Percentage >= SemiLiterateThreshold:
				stats.Buckets.Mid++
			default:
				stats.Buckets.Low++
			}
		}
		stats.AvgPercentage = float64(sum) / float64(len(results))
		stats.PassRate = float64(passed) / float64(len(results)) * 100
		stats.Recent = results
		if len(stats.Recent) > 10 {
			stats.Recent = stats.Recent[:10]
		}
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, statsCacheKey(id), raw, statsCacheTTL)
		}
	}
	return stats, nil
}

func (s *AssessmentService) invalidateStats(id uint) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.Background(), statsCacheKey(id)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate statistics cache", zap.Uint("assessmentID", id), zap.Error(err))
	}
}
