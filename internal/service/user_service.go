package service

import (
	"errors"
	"fmt"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Audit    *AuditService
}

func NewUserService(userRepo *repository.UserRepository, audit *AuditService) *UserService {
	return &UserService{UserRepo: userRepo, Audit: audit}
}

type ProfileUpdateRequest struct {
	Name     string `json:"name" binding:"omitempty,max=100"`
	Avatar   string `json:"avatar" binding:"omitempty,max=255"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", util.ErrNotFound, userID)
	}
	return user, err
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	return user, s.UserRepo.Update(user)
}

func (s *UserService) ListUsers(role model.UserRole, page, limit int, search string) ([]model.User, int64, error) {
	if !IsAdmin(role) {
		return nil, 0, fmt.Errorf("%w: admin only", util.ErrForbidden)
	}
	return s.UserRepo.FindWithPagination((page-1)*limit, limit, search)
}

func (s *UserService) SetDisabled(actorID uint, role model.UserRole, userID uint, disabled bool) (*model.User, error) {
	if !IsAdmin(role) {
		return nil, fmt.Errorf("%w: admin only", util.ErrForbidden)
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	before := *user
	user.Disabled = disabled
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	s.Audit.Record("user.set_disabled", "user", fmt.Sprint(userID), actorID, before, user)
	return user, nil
}

func (s *UserService) DeleteUser(actorID uint, role model.UserRole, userID uint) error {
	if !IsAdmin(role) {
		return fmt.Errorf("%w: admin only", util.ErrForbidden)
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := s.UserRepo.Delete(userID); err != nil {
		return err
	}

	s.Audit.Record("user.delete", "user", fmt.Sprint(userID), actorID, user, nil)
	return nil
}
