package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/export"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/freshfold/laundry-api/internal/metrics"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/freshfold/laundry-api/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService computes income reports and manages their saved snapshots
type ReportService struct {
	budgetRepo   *repository.BudgetEntryRepository
	orderRepo    *repository.OrderRepository
	snapshotRepo *repository.ReportSnapshotRepository
	storage      storage.Storage
	location     *time.Location
	clock        Clock
	metrics      *metrics.Metrics
	logger       *zap.Logger
	db           *gorm.DB
}

// NewReportService wires the report engine. store may be nil, in which case
// archiving is unavailable. loc is the shop timezone used to decide which
// calendar day an order was created on.
func NewReportService(
	budgetRepo *repository.BudgetEntryRepository,
	orderRepo *repository.OrderRepository,
	snapshotRepo *repository.ReportSnapshotRepository,
	store storage.Storage,
	loc *time.Location,
	clock Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
	db *gorm.DB,
) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		budgetRepo:   budgetRepo,
		orderRepo:    orderRepo,
		snapshotRepo: snapshotRepo,
		storage:      store,
		location:     loc,
		clock:        clock,
		metrics:      m,
		logger:       logger,
		db:           db,
	}
}

// Calculate builds the report for the inclusive window [from, to]. Gross income
// counts orders by creation day; expenses prorate each overlapping budget entry
// by its daily rate.
func (s *ReportService) Calculate(ctx context.Context, from, to time.Time) (*domain.ReportResult, error) {
	from, to = domain.CivilDate(from), domain.CivilDate(to)
	if to.Before(from) {
		return nil, invalid("dateTo", "must not be before dateFrom")
	}

	entries, err := s.budgetRepo.ListOverlapping(ctx, from, to)
	if err != nil {
		s.logger.Error("failed to load budget entries for report", zap.Error(err))
		return nil, persistence("load budget entries", err)
	}

	result := &domain.ReportResult{
		DateFrom:       from,
		DateTo:         to,
		GrossIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		ExpenseDetails: make([]domain.ExpenseDetail, 0, len(entries)),
	}

	for _, entry := range entries {
		_, _, days, ok := domain.Overlap(entry.PeriodStart, entry.PeriodEnd, from, to)
		if !ok {
			continue
		}
		expense := domain.ProportionalExpense(entry.DailyRate, days)
		result.ExpenseDetails = append(result.ExpenseDetails, domain.ExpenseDetail{
			BudgetID:            entry.ID,
			ExpenseName:         entry.ExpenseName,
			BudgetAllocated:     entry.AllocatedAmount,
			DailyCost:           entry.DailyRate,
			BudgetDateStart:     entry.PeriodStart,
			BudgetDateEnd:       entry.PeriodEnd,
			OverlapDays:         days,
			ProportionalExpense: expense,
		})
		result.TotalExpenses = result.TotalExpenses.Add(expense)
	}
	result.TotalBudgetEntries = len(result.ExpenseDetails)

	start, end := domain.DayBounds(from, to, s.location)
	income, err := s.orderRepo.ListIncomeCreatedBetween(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to load order income for report", zap.Error(err))
		return nil, persistence("load order income", err)
	}
	for _, o := range income {
		result.GrossIncome = result.GrossIncome.Add(o.TotalAmount)
	}
	result.TotalOrders = len(income)
	result.NetIncome = result.GrossIncome.Sub(result.TotalExpenses)

	s.logger.Debug("report calculated",
		zap.String("date_from", domain.FormatDate(from)),
		zap.String("date_to", domain.FormatDate(to)),
		zap.Int("orders", result.TotalOrders),
		zap.Int("budget_entries", result.TotalBudgetEntries),
	)
	return result, nil
}

// SaveSnapshot persists a computed report and its expense details in one
// transaction. Only admins may save snapshots.
func (s *ReportService) SaveSnapshot(ctx context.Context, actor *auth.UserContext, reportName string, result *domain.ReportResult, notes string) (*domain.ReportSnapshot, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	reportName, err := requiredText("reportName", reportName)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, invalid("report", "is required")
	}
	if !result.IsConsistent() {
		return nil, ErrInconsistentReport
	}

	snapshot := &domain.ReportSnapshot{
		ReportName:         reportName,
		DateFrom:           result.DateFrom,
		DateTo:             result.DateTo,
		GrossIncome:        result.GrossIncome,
		TotalExpenses:      result.TotalExpenses,
		NetIncome:          result.NetIncome,
		TotalOrders:        result.TotalOrders,
		TotalBudgetEntries: result.TotalBudgetEntries,
		CreatedBy:          actor.UserID,
		Notes:              strings.TrimSpace(notes),
		CreatedAt:          s.clock.Now().UTC(),
		Details:            make([]domain.SnapshotExpenseDetail, len(result.ExpenseDetails)),
	}
	for i, d := range result.ExpenseDetails {
		snapshot.Details[i] = domain.SnapshotExpenseDetail{
			BudgetID:            d.BudgetID,
			ExpenseName:         d.ExpenseName,
			BudgetAllocated:     d.BudgetAllocated,
			DailyCost:           d.DailyCost,
			BudgetDateStart:     d.BudgetDateStart,
			BudgetDateEnd:       d.BudgetDateEnd,
			OverlapDays:         d.OverlapDays,
			ProportionalExpense: d.ProportionalExpense,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.snapshotRepo.WithTx(tx).Create(ctx, snapshot)
	})
	if err != nil {
		s.logger.Error("failed to save report snapshot", zap.Error(err), zap.String("report_name", reportName))
		return nil, persistence("save report snapshot", err)
	}

	s.metrics.SnapshotSaved()
	s.logger.Info("report snapshot saved",
		zap.Uint("snapshot_id", snapshot.ID),
		zap.Uint("created_by", actor.UserID),
		zap.String("net_income", snapshot.NetIncome.StringFixed(2)),
	)
	return snapshot, nil
}

// CalculateAndSave recomputes the report for req's window and stores it
func (s *ReportService) CalculateAndSave(ctx context.Context, actor *auth.UserContext, req *domain.SaveSnapshotRequest) (*domain.ReportSnapshot, error) {
	from, err := domain.ParseDate(req.DateFrom)
	if err != nil {
		return nil, invalid("dateFrom", err.Error())
	}
	to, err := domain.ParseDate(req.DateTo)
	if err != nil {
		return nil, invalid("dateTo", err.Error())
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	result, err := s.Calculate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.SaveSnapshot(ctx, actor, req.ReportName, result, req.Notes)
}

// ListSnapshots returns snapshot headers, newest first
func (s *ReportService) ListSnapshots(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.ClampPage(page, pageSize)

	snapshots, total, err := s.snapshotRepo.List(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("failed to list report snapshots", zap.Error(err))
		return nil, persistence("list report snapshots", err)
	}
	dtos := make([]domain.ReportSnapshotDTO, len(snapshots))
	for i := range snapshots {
		dtos[i] = mapper.ToReportSnapshotDTO(&snapshots[i])
	}
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// GetSnapshot loads a snapshot with its expense details
func (s *ReportService) GetSnapshot(ctx context.Context, id uint) (*domain.ReportSnapshot, error) {
	snapshot, err := s.snapshotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, persistence("load report snapshot", err)
	}
	return snapshot, nil
}

// DeleteSnapshot removes a snapshot and its details. An archived workbook is
// removed afterwards on a best-effort basis.
func (s *ReportService) DeleteSnapshot(ctx context.Context, actor *auth.UserContext, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	snapshot, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.snapshotRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSnapshotNotFound
		}
		s.logger.Error("failed to delete report snapshot", zap.Error(err), zap.Uint("snapshot_id", id))
		return persistence("delete report snapshot", err)
	}

	if snapshot.ArchivePath != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, snapshot.ArchivePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Warn("failed to delete snapshot archive",
				zap.Error(err),
				zap.Uint("snapshot_id", id),
				zap.String("archive_path", snapshot.ArchivePath),
			)
		}
	}

	s.logger.Info("report snapshot deleted", zap.Uint("snapshot_id", id), zap.Uint("user_id", actor.UserID))
	return nil
}

// ExportSnapshot renders a snapshot as an xlsx workbook
func (s *ReportService) ExportSnapshot(ctx context.Context, id uint) (string, io.Reader, error) {
	snapshot, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return "", nil, err
	}
	buf, err := export.SnapshotWorkbook(snapshot)
	if err != nil {
		s.logger.Error("failed to render snapshot workbook", zap.Error(err), zap.Uint("snapshot_id", id))
		return "", nil, fmt.Errorf("render snapshot workbook: %w", err)
	}
	return export.SnapshotFilename(snapshot), buf, nil
}

// ArchiveSnapshot uploads the snapshot workbook to archive storage and records
// where it was written
func (s *ReportService) ArchiveSnapshot(ctx context.Context, actor *auth.UserContext, id uint) (*domain.ArchiveResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}

	snapshot, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	buf, err := export.SnapshotWorkbook(snapshot)
	if err != nil {
		return nil, fmt.Errorf("render snapshot workbook: %w", err)
	}

	key := fmt.Sprintf("reports/%04d/%s", snapshot.CreatedAt.Year(), export.SnapshotFilename(snapshot))
	size, err := s.storage.Put(ctx, key, export.ContentTypeXLSX, buf)
	if err != nil {
		s.logger.Error("failed to upload snapshot archive", zap.Error(err), zap.Uint("snapshot_id", id))
		return nil, fmt.Errorf("upload snapshot archive: %w", err)
	}
	if err := s.snapshotRepo.SetArchivePath(ctx, id, key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, persistence("record archive path", err)
	}

	s.logger.Info("report snapshot archived",
		zap.Uint("snapshot_id", id),
		zap.String("archive_path", key),
		zap.Int64("bytes", size),
	)
	return &domain.ArchiveResponse{SnapshotID: id, Location: key}, nil
}

// DownloadArchive opens a previously archived workbook. The caller closes the reader.
func (s *ReportService) DownloadArchive(ctx context.Context, id uint) (string, io.ReadCloser, error) {
	if s.storage == nil {
		return "", nil, ErrStorageNotConfigured
	}
	snapshot, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if snapshot.ArchivePath == "" {
		return "", nil, ErrArchiveNotFound
	}
	rc, err := s.storage.Get(ctx, snapshot.ArchivePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", nil, ErrArchiveNotFound
		}
		return "", nil, fmt.Errorf("open snapshot archive: %w", err)
	}
	return export.SnapshotFilename(snapshot), rc, nil
}
