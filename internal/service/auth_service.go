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

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenService
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login checks credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("login failed: unknown username", zap.String("username", req.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, persistence("load user", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.logger.Info("login failed: wrong password", zap.Uint("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Info("login failed: inactive account", zap.Uint("user_id", user.ID))
		return nil, ErrAccountInactive
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err), zap.Uint("user_id", user.ID))
		return nil, err
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z"),
		User:      mapper.ToUserDTO(user),
	}, nil
}

// VerifyPassword reports whether plaintext is the password of userID
func (s *AuthService) VerifyPassword(ctx context.Context, userID uint, plaintext string) (bool, error) {
	err := confirmPassword(ctx, s.userRepo, userID, plaintext)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrPasswordConfirmation):
		return false, nil
	default:
		return false, err
	}
}

// Me returns the stored profile of the caller
func (s *AuthService) Me(ctx context.Context, actor *auth.UserContext) (*domain.UserDTO, error) {
	if actor == nil {
		return nil, ErrUserContextRequired
	}
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistence("load user", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// ChangePassword replaces the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, actor *auth.UserContext, req *domain.ChangePasswordRequest) error {
	if actor == nil {
		return ErrUserContextRequired
	}
	if err := confirmPassword(ctx, s.userRepo, actor.UserID, req.CurrentPassword); err != nil {
		return err
	}
	if len(req.NewPassword) < 8 {
		return invalid("newPassword", "must be at least 8 characters")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, actor.UserID, hash); err != nil {
		return persistence("update password", err)
	}
	s.logger.Info("password changed", zap.Uint("user_id", actor.UserID))
	return nil
}

// EnsureBootstrapAdmin creates the first admin account when no users exist.
// It is a no-op once any account is present or when no credentials are configured.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return persistence("count users", err)
	}
	if count > 0 {
		return nil
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.logger.Warn("no users exist and no bootstrap admin is configured")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &domain.User{
		Username:     username,
		FullName:     "Administrator",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return persistence("create bootstrap admin", err)
	}
	s.logger.Info("bootstrap admin created", zap.String("username", username), zap.Uint("user_id", user.ID))
	return nil
}
