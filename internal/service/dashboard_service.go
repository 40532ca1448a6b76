package service

import (
	"context"
	"fmt"
	"time"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DashboardService struct {
	orderRepo *repository.OrderRepository
	capacity  *CapacityService
	clock     Clock
	location  *time.Location
	logger    *zap.Logger
}

func NewDashboardService(
	orderRepo *repository.OrderRepository,
	capacity *CapacityService,
	clock Clock,
	loc *time.Location,
	logger *zap.Logger,
) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		orderRepo: orderRepo,
		capacity:  capacity,
		clock:     clock,
		location:  loc,
		logger:    logger,
	}
}

// GetSummary returns today's capacity, open work and month-to-date takings
func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardDTO, error) {
	today := Today(s.clock)

	capacity, err := s.capacity.CheckCapacity(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get capacity: %w", err)
	}

	pending, err := s.orderRepo.CountByStatus(ctx, domain.OrderStatusPending)
	if err != nil {
		return nil, persistence("count pending orders", err)
	}

	scheduledToday, err := s.orderRepo.CountScheduledOn(ctx, today)
	if err != nil {
		return nil, persistence("count orders scheduled today", err)
	}

	monthStart, _ := domain.MonthBounds(today)
	start, end := domain.DayBounds(monthStart, today, s.location)
	income, err := s.orderRepo.ListIncomeCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, persistence("load month-to-date income", err)
	}
	gross := decimal.Zero
	for _, o := range income {
		gross = gross.Add(o.TotalAmount)
	}

	return &domain.DashboardDTO{
		Today:                domain.FormatDate(today),
		Capacity:             *capacity,
		PendingOrders:        pending,
		OrdersScheduledToday: scheduledToday,
		MonthToDateGross:     gross,
		MonthToDateOrders:    len(income),
	}, nil
}
