package service

import (
	"context"
	"time"

	"github.com/freshfold/laundry-api/internal/config"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/repository"
	"go.uber.org/zap"
)

// CapacityService compares the loads scheduled on a day against the daily load limit
type CapacityService struct {
	orderRepo *repository.OrderRepository
	settings  SettingsProvider
	clock     Clock
	lookahead int
	want      int
	logger    *zap.Logger
}

func NewCapacityService(
	orderRepo *repository.OrderRepository,
	settings SettingsProvider,
	clock Clock,
	cfg *config.LaundryConfig,
	logger *zap.Logger,
) *CapacityService {
	lookahead, want := cfg.SuggestionLookahead, cfg.SuggestionCount
	if lookahead <= 0 {
		lookahead = 30
	}
	if want <= 0 {
		want = 3
	}
	return &CapacityService{
		orderRepo: orderRepo,
		settings:  settings,
		clock:     clock,
		lookahead: lookahead,
		want:      want,
		logger:    logger,
	}
}

// CheckCapacity reports the loads already booked on date. Remaining goes
// negative when the day is over-booked.
func (s *CapacityService) CheckCapacity(ctx context.Context, date time.Time) (*domain.CapacityDTO, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.capacityOn(ctx, domain.CivilDate(date), settings.LoadLimit)
}

// CheckToday is CheckCapacity for the shop's current date
func (s *CapacityService) CheckToday(ctx context.Context) (*domain.CapacityDTO, error) {
	return s.CheckCapacity(ctx, Today(s.clock))
}

// SuggestAvailableDates scans forward from the day after from, skipping
// Sundays, and returns up to want dates that still have room. Zero values for
// maxLookahead and want fall back to the configured defaults. Scarce capacity
// yields a shorter list, not an error.
func (s *CapacityService) SuggestAvailableDates(ctx context.Context, from time.Time, maxLookahead, want int) ([]domain.AvailableDateDTO, error) {
	if maxLookahead <= 0 {
		maxLookahead = s.lookahead
	}
	if want <= 0 {
		want = s.want
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.AvailableDateDTO, 0, want)
	day := domain.CivilDate(from)
	for scanned := 0; scanned < maxLookahead && len(suggestions) < want; scanned++ {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == time.Sunday {
			continue
		}
		capacity, err := s.capacityOn(ctx, day, settings.LoadLimit)
		if err != nil {
			return nil, err
		}
		if capacity.Remaining > 0 {
			suggestions = append(suggestions, domain.AvailableDateDTO{
				Date:      capacity.Date,
				Remaining: capacity.Remaining,
			})
		}
	}

	s.logger.Debug("suggested available dates",
		zap.String("from", domain.FormatDate(from)),
		zap.Int("found", len(suggestions)),
		zap.Int("wanted", want),
	)
	return suggestions, nil
}

func (s *CapacityService) capacityOn(ctx context.Context, day time.Time, limit int) (*domain.CapacityDTO, error) {
	scheduled, err := s.orderRepo.SumLoadsOn(ctx, day)
	if err != nil {
		s.logger.Error("failed to sum scheduled loads", zap.Error(err), zap.String("date", domain.FormatDate(day)))
		return nil, persistence("sum scheduled loads", err)
	}
	remaining := limit - scheduled
	return &domain.CapacityDTO{
		Date:        domain.FormatDate(day),
		Scheduled:   scheduled,
		Limit:       limit,
		Remaining:   remaining,
		FullyBooked: remaining <= 0,
	}, nil
}
