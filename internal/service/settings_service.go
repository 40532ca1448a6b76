package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/config"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettingsProvider reads the current shop settings at the start of an operation
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.ShopSettings, error)
}

type SettingsService struct {
	settingRepo *repository.SettingRepository
	userRepo    *repository.UserRepository
	defaults    domain.ShopSettings
	db          *gorm.DB
	logger      *zap.Logger
}

func NewSettingsService(
	settingRepo *repository.SettingRepository,
	userRepo *repository.UserRepository,
	cfg *config.LaundryConfig,
	db *gorm.DB,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		userRepo:    userRepo,
		defaults: domain.ShopSettings{
			WeightPerLoad: domain.RoundWeight(decimal.NewFromFloat(cfg.WeightPerLoad)),
			LoadLimit:     cfg.LoadLimit,
			DeliveryFee:   decimal.NewFromFloat(cfg.DeliveryFee),
		},
		db:     db,
		logger: logger,
	}
}

// Get returns stored settings, falling back to configured defaults for keys
// that are missing or hold an unusable value
func (s *SettingsService) Get(ctx context.Context) (*domain.ShopSettings, error) {
	stored, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", zap.Error(err))
		return nil, persistence("load settings", err)
	}

	result := s.defaults
	if v, ok := stored[domain.SettingWeightPerLoad]; ok {
		if d, err := decimal.NewFromString(v); err == nil && domain.RoundWeight(d).IsPositive() {
			result.WeightPerLoad = domain.RoundWeight(d)
		} else {
			s.logger.Warn("ignoring invalid stored setting", zap.String("name", domain.SettingWeightPerLoad), zap.String("value", v))
		}
	}
	if v, ok := stored[domain.SettingLoadLimit]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			result.LoadLimit = n
		} else {
			s.logger.Warn("ignoring invalid stored setting", zap.String("name", domain.SettingLoadLimit), zap.String("value", v))
		}
	}
	if v, ok := stored[domain.SettingDeliveryFee]; ok {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			result.DeliveryFee = d
		} else {
			s.logger.Warn("ignoring invalid stored setting", zap.String("name", domain.SettingDeliveryFee), zap.String("value", v))
		}
	}
	return &result, nil
}

// Update writes the supplied settings in one transaction. Only admins may call
// it, and they must confirm their password.
func (s *SettingsService) Update(ctx context.Context, actor *auth.UserContext, req *domain.UpdateSettingsRequest) (*domain.ShopSettings, error) {
	if actor == nil {
		return nil, ErrUserContextRequired
	}
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := confirmPassword(ctx, s.userRepo, actor.UserID, req.Password); err != nil {
		s.logger.Warn("settings update rejected", zap.Uint("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	updates := make(map[string]string)
	if req.WeightPerLoad != nil {
		wpl := domain.RoundWeight(decimal.NewFromFloat(*req.WeightPerLoad))
		if !wpl.IsPositive() {
			return nil, invalid("weightPerLoad", "must be at least 0.01")
		}
		updates[domain.SettingWeightPerLoad] = wpl.String()
	}
	if req.LoadLimit != nil {
		if *req.LoadLimit <= 0 {
			return nil, invalid("loadLimit", "must be greater than 0")
		}
		updates[domain.SettingLoadLimit] = strconv.Itoa(*req.LoadLimit)
	}
	if req.DeliveryFee != nil {
		if *req.DeliveryFee < 0 {
			return nil, invalid("deliveryFee", "must not be negative")
		}
		updates[domain.SettingDeliveryFee] = domain.RoundMoney(decimal.NewFromFloat(*req.DeliveryFee)).String()
	}
	if len(updates) == 0 {
		return nil, invalid("", "no settings supplied")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.settingRepo.WithTx(tx)
		for name, value := range updates {
			if err := repo.Upsert(ctx, name, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update settings", zap.Error(err))
		return nil, persistence("update settings", err)
	}

	s.logger.Info("settings updated",
		zap.Uint("user_id", actor.UserID),
		zap.Int("count", len(updates)),
	)
	return s.Get(ctx)
}

// confirmPassword re-authenticates userID with a plaintext password
func confirmPassword(ctx context.Context, users *repository.UserRepository, userID uint, password string) error {
	if password == "" {
		return invalid("password", "password confirmation is required")
	}
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return persistence("load user", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return ErrPasswordConfirmation
		}
		return err
	}
	return nil
}
