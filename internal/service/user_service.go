package service

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/repository"
	"digital_literacy_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(role model.UserRole, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.users.List(role, page, limit)
}

func (s *UserService) Get(id uint) (*model.User, error) {
	return s.users.FindByID(id)
}

type UpdateUserInput struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

func (s *UserService) Update(id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Language != "" {
		user.Language = in.Language
	}
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetDisabled(id uint, disabled bool) error {
	user, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	user.Disabled = disabled
	return s.users.Update(user)
}

func (s *UserService) SetRole(id uint, role model.UserRole) error {
	user, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	user.Role = role
	return s.users.Update(user)
}

// Touch updates the last-seen timestamp; failures are logged, not surfaced.
func (s *UserService) Touch(userID uint, at time.Time) {
	if err := s.users.UpdateLastSeen(userID, at); err != nil {
		logger.Log.Warn("failed to record user activity", zap.Uint("userID", userID), zap.Error(err))
	}
}
