package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BudgetService maintains the expense ledger that reports charge against
type BudgetService struct {
	budgetRepo *repository.BudgetEntryRepository
	clock      Clock
	logger     *zap.Logger
}

func NewBudgetService(budgetRepo *repository.BudgetEntryRepository, clock Clock, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		budgetRepo: budgetRepo,
		clock:      clock,
		logger:     logger,
	}
}

// ListEntries returns every entry with its overlap against [from, to]. Nil
// bounds default to the current calendar month.
func (s *BudgetService) ListEntries(ctx context.Context, from, to *time.Time) (*domain.BudgetViewDTO, error) {
	windowFrom, windowTo := domain.MonthBounds(Today(s.clock))
	if from != nil {
		windowFrom = domain.CivilDate(*from)
	}
	if to != nil {
		windowTo = domain.CivilDate(*to)
	}
	if windowTo.Before(windowFrom) {
		return nil, invalid("dateTo", "must not be before dateFrom")
	}

	entries, err := s.budgetRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list budget entries", zap.Error(err))
		return nil, persistence("list budget entries", err)
	}

	view := &domain.BudgetViewDTO{
		DateFrom:      domain.FormatDate(windowFrom),
		DateTo:        domain.FormatDate(windowTo),
		Entries:       make([]domain.BudgetEntryDTO, len(entries)),
		TotalExpenses: decimal.Zero,
	}
	for i := range entries {
		dto := mapper.ToBudgetEntryDTO(&entries[i], windowFrom, windowTo)
		view.Entries[i] = dto
		view.TotalExpenses = view.TotalExpenses.Add(dto.ProportionalExpense)
	}
	return view, nil
}

func (s *BudgetService) GetEntry(ctx context.Context, id uint) (*domain.BudgetEntry, error) {
	entry, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetEntryNotFound
		}
		return nil, persistence("load budget entry", err)
	}
	return entry, nil
}

func (s *BudgetService) AddEntry(ctx context.Context, actor *auth.UserContext, req *domain.BudgetEntryRequest) (*domain.BudgetEntry, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	entry := &domain.BudgetEntry{}
	if err := applyBudgetRequest(entry, req); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to create budget entry", zap.Error(err))
		return nil, persistence("create budget entry", err)
	}
	s.logger.Info("budget entry created",
		zap.Uint("budget_id", entry.ID),
		zap.String("daily_rate", entry.DailyRate.StringFixed(2)),
	)
	return entry, nil
}

func (s *BudgetService) UpdateEntry(ctx context.Context, actor *auth.UserContext, id uint, req *domain.BudgetEntryRequest) (*domain.BudgetEntry, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyBudgetRequest(entry, req); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Update(ctx, entry); err != nil {
		s.logger.Error("failed to update budget entry", zap.Error(err), zap.Uint("budget_id", id))
		return nil, persistence("update budget entry", err)
	}
	s.logger.Info("budget entry updated", zap.Uint("budget_id", id))
	return entry, nil
}

func (s *BudgetService) DeleteEntry(ctx context.Context, actor *auth.UserContext, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.budgetRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBudgetEntryNotFound
		}
		return persistence("delete budget entry", err)
	}
	s.logger.Info("budget entry deleted", zap.Uint("budget_id", id))
	return nil
}

// applyBudgetRequest validates req and copies it onto entry, recomputing the daily rate
func applyBudgetRequest(entry *domain.BudgetEntry, req *domain.BudgetEntryRequest) error {
	name := strings.TrimSpace(req.ExpenseName)
	if name == "" {
		return invalid("expenseName", "is required")
	}
	amount := domain.RoundMoney(decimal.NewFromFloat(req.AllocatedAmount))
	if !amount.IsPositive() {
		return invalid("allocatedAmount", "must be greater than 0")
	}
	start, err := domain.ParseDate(req.PeriodStart)
	if err != nil {
		return invalid("periodStart", err.Error())
	}
	end, err := domain.ParseDate(req.PeriodEnd)
	if err != nil {
		return invalid("periodEnd", err.Error())
	}
	if end.Before(start) {
		return invalid("periodEnd", "must not be before periodStart")
	}

	entry.ExpenseName = name
	entry.AllocatedAmount = amount
	entry.PeriodStart = start
	entry.PeriodEnd = end
	entry.DailyRate = domain.DailyRate(amount, domain.InclusiveDays(start, end))
	return nil
}
