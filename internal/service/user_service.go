package service

import (
	"context"
	"errors"
	"strings"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/freshfold/laundry-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService manages staff accounts. All operations are admin-only.
type UserService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *UserService) List(ctx context.Context, actor *auth.UserContext) ([]domain.UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, persistence("list users", err)
	}
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}

func (s *UserService) Create(ctx context.Context, actor *auth.UserContext, req *domain.CreateUserRequest) (*domain.UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, invalid("username", "is required")
	}
	if !req.Role.IsValid() {
		return nil, invalid("role", "must be admin or employee")
	}
	if len(req.Password) < 8 {
		return nil, invalid("password", "must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence("check username", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     username,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err), zap.String("username", username))
		return nil, persistence("create user", err)
	}

	s.logger.Info("user created",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Uint("created_by", actor.UserID),
	)
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// SetActive enables or disables an account. The last active admin cannot be
// disabled, and admins cannot disable themselves.
func (s *UserService) SetActive(ctx context.Context, actor *auth.UserContext, id uint, active bool) (*domain.UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistence("load user", err)
	}

	if !active {
		if id == actor.UserID {
			return nil, invalid("isActive", "you cannot deactivate your own account")
		}
		if user.Role == domain.RoleAdmin && user.IsActive {
			admins, err := s.userRepo.CountActiveAdmins(ctx)
			if err != nil {
				return nil, persistence("count admins", err)
			}
			if admins <= 1 {
				return nil, ErrCannotRemoveLastAdmin
			}
		}
	}

	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return nil, persistence("update user", err)
	}
	user.IsActive = active

	s.logger.Info("user activation changed",
		zap.Uint("user_id", id),
		zap.Bool("active", active),
		zap.Uint("changed_by", actor.UserID),
	)
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func requireAdmin(actor *auth.UserContext) error {
	if actor == nil {
		return ErrUserContextRequired
	}
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}
