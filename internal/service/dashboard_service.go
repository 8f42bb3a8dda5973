package service

import (
	"context"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/repository"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const adminDashboardCacheKey = "dashboard:admin"
const adminDashboardCacheTTL = 2 * time.Minute

type DashboardService struct {
	users       *repository.UserRepository
	assessments *repository.AssessmentRepository
	results     *repository.ResultRepository
	modules     *repository.ModuleRepository
	rdb         *redis.Client
}

func NewDashboardService(
	users *repository.UserRepository,
	assessments *repository.AssessmentRepository,
	results *repository.ResultRepository,
	modules *repository.ModuleRepository,
	rdb *redis.Client,
) *DashboardService {
	return &DashboardService{
		users:       users,
		assessments: assessments,
		results:     results,
		modules:     modules,
		rdb:         rdb,
	}
}

// StudentDashboard is what a student sees after login: their latest
// literacy level, attempt history, and learning progress.
type StudentDashboard struct {
	Level                model.LiteracyLevel      `json:"digitalLiteracyLevel"`
	LatestPercentage     int                      `json:"latestPercentage"`
	Passed               bool                     `json:"passed"`
	Message              string                   `json:"message"`
	AssessmentsCompleted int                      `json:"assessmentsCompleted"`
	AverageScore         float64                  `json:"averageScore"`
	RecentResults        []model.AssessmentResult `json:"recentResults"`
	ModuleProgress       []model.ModuleProgress   `json:"moduleProgress"`
	ModulesInProgress    int                      `json:"modulesInProgress"`
	ModulesCompleted     int                      `json:"modulesCompleted"`
}

func (s *DashboardService) Student(userID uint) (*StudentDashboard, error) {
	results, err := s.results.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.modules.ListProgressByUser(userID)
	if err != nil {
		return nil, err
	}

	dash := &StudentDashboard{
		Level:          model.Illiterate,
		Message:        "Take your first assessment to find out your digital literacy level.",
		RecentResults:  results,
		ModuleProgress: progress,
	}
	if len(results) > 10 {
		dash.RecentResults = results[:10]
	}

	for _, p := range progress {
		if p.CompletedAt != nil {
			dash.ModulesCompleted++
		} else {
			dash.ModulesInProgress++
		}
	}

	if len(results) > 0 {
		sum := 0
		for _, r := range results {
			sum += r.Percentage
		}
		dash.AssessmentsCompleted = len(results)
		dash.AverageScore = float64(sum) / float64(len(results))

		latest := results[0]
		dash.Level = latest.Level
		dash.LatestPercentage = latest.Percentage
		dash.Passed = Passed(latest.Percentage)
		if dash.Passed {
			dash.Message = "Congratulations, you passed your latest assessment!"
		} else {
			dash.Message = "Keep practicing. Review the learning modules and try again."
		}
	}
	return dash, nil
}

// TeacherDashboard aggregates activity across a teacher's assessments.
type TeacherDashboard struct {
	AssessmentCount int64                          `json:"assessmentCount"`
	TotalAttempts   int64                          `json:"totalAttempts"`
	Averages        []repository.AssessmentAverage `json:"averages"`
	Levels          map[model.LiteracyLevel]int64  `json:"levelDistribution"`
	StudentCount    int64                          `json:"studentCount"`
	RecentResults   []model.AssessmentResult       `json:"recentResults"`
	RecentProgress  []model.ModuleProgress         `json:"recentProgress"`
}

func (s *DashboardService) Teacher(teacherID uint) (*TeacherDashboard, error) {
	assessmentCount, err := s.assessments.CountByCreator(teacherID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.results.Count()
	if err != nil {
		return nil, err
	}

	averages, err := s.results.AverageScores()
	if err != nil {
		return nil, err
	}

	levels, err := s.results.LevelDistribution()
	if err != nil {
		return nil, err
	}

	students, err := s.users.CountByRole(model.Student)
	if err != nil {
		return nil, err
	}

	recentResults, err := s.results.Recent(10)
	if err != nil {
		return nil, err
	}

	recentProgress, err := s.modules.RecentProgress(10)
	if err != nil {
		return nil, err
	}

	return &TeacherDashboard{
		AssessmentCount: assessmentCount,
		TotalAttempts:   attempts,
		Averages:        averages,
		Levels:          levels,
		StudentCount:    students,
		RecentResults:   recentResults,
		RecentProgress:  recentProgress,
	}, nil
}

// AdminDashboard is the platform-wide overview, cached briefly in Redis
// since every count hits the database.
type AdminDashboard struct {
	Students         int64                         `json:"students"`
	Teachers         int64                         `json:"teachers"`
	ActiveLastWeek   int64                         `json:"activeLastWeek"`
	Assessments      int64                         `json:"assessments"`
	TotalAttempts    int64                         `json:"totalAttempts"`
	LearningModules  int64                         `json:"learningModules"`
	ModulesCompleted int64                         `json:"modulesCompleted"`
	Levels           map[model.LiteracyLevel]int64 `json:"levelDistribution"`
	GeneratedAt      time.Time                     `json:"generatedAt"`
}

func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, adminDashboardCacheKey).Result(); err == nil {
			var cached AdminDashboard
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	dash := &AdminDashboard{GeneratedAt: time.Now()}
	var err error

	if dash.Students, err = s.users.CountByRole(model.Student); err != nil {
		return nil, err
	}
	if dash.Teachers, err = s.users.CountByRole(model.Teacher); err != nil {
		return nil, err
	}
	if dash.ActiveLastWeek, err = s.users.CountActiveSince(time.Now().AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if dash.Assessments, err = s.assessments.Count(); err != nil {
		return nil, err
	}
	if dash.TotalAttempts, err = s.results.Count(); err != nil {
		return nil, err
	}
	if dash.LearningModules, err = s.modules.Count(); err != nil {
		return nil, err
	}
	if dash.ModulesCompleted, err = s.modules.CountCompleted(); err != nil {
		return nil, err
	}
	if dash.Levels, err = s.results.LevelDistribution(); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(dash); err == nil {
			s.rdb.Set(ctx, adminDashboardCacheKey, raw, adminDashboardCacheTTL)
		}
	}
	return dash, nil
}
