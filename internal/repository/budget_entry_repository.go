package repository

import (
	"context"
	"time"

	"github.com/freshfold/laundry-api/internal/domain"
	"gorm.io/gorm"
)

type BudgetEntryRepository struct {
	db *gorm.DB
}

func NewBudgetEntryRepository(db *gorm.DB) *BudgetEntryRepository {
	return &BudgetEntryRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *BudgetEntryRepository) WithTx(tx *gorm.DB) *BudgetEntryRepository {
	return &BudgetEntryRepository{db: tx}
}

func (r *BudgetEntryRepository) Create(ctx context.Context, entry *domain.BudgetEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *BudgetEntryRepository) GetByID(ctx context.Context, id uint) (*domain.BudgetEntry, error) {
	var entry domain.BudgetEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *BudgetEntryRepository) Update(ctx context.Context, entry *domain.BudgetEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *BudgetEntryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.BudgetEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListOverlapping returns entries whose period intersects [from, to]
func (r *BudgetEntryRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]domain.BudgetEntry, error) {
	var entries []domain.BudgetEntry
	err := r.db.WithContext(ctx).
		Where("period_start <= ? AND period_end >= ?", domain.CivilDate(to), domain.CivilDate(from)).
		Order("period_start ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// List returns every entry, earliest period first
func (r *BudgetEntryRepository) List(ctx context.Context) ([]domain.BudgetEntry, error) {
	var entries []domain.BudgetEntry
	err := r.db.WithContext(ctx).Order("period_start ASC, id ASC").Find(&entries).Error
	return entries, err
}
