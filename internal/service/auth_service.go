package service

import (
	"digital_literacy_backend/internal/config"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/repository"
	"digital_literacy_backend/internal/util"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users *repository.UserRepository
	cfg   *config.Config
}

func NewAuthService(users *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

type RegisterInput struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Role     model.UserRole `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthOutput struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates a user account. Self-registration is limited to the
// student and teacher roles; admins are provisioned separately.
func (s *AuthService) Register(in RegisterInput) (*AuthOutput, error) {
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, util.ErrUserNotFound) {
		return nil, err
	}

	role := in.Role
	if role != model.Teacher {
		role = model.Student
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hash),
		Role:      role,
		LastLogin: time.Now(),
		LastSeen:  time.Now(),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthService) Login(in LoginInput) (*AuthOutput, error) {
	user, err := s.users.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Disabled {
		return nil, util.ErrPermissionDenied
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	s.users.UpdateLastLogin(user.ID, time.Now())
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthOutput, error) {
	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Token: token, User: user}, nil
}

func (s *AuthService) Profile(userID uint) (*model.User, error) {
	return s.users.FindByID(userID)
}
