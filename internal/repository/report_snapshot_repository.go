package repository

import (
	"context"

	"github.com/freshfold/laundry-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportSnapshotRepository struct {
	db *gorm.DB
}

func NewReportSnapshotRepository(db *gorm.DB) *ReportSnapshotRepository {
	return &ReportSnapshotRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *ReportSnapshotRepository) WithTx(tx *gorm.DB) *ReportSnapshotRepository {
	return &ReportSnapshotRepository{db: tx}
}

// Create writes the snapshot header followed by each detail row
func (r *ReportSnapshotRepository) Create(ctx context.Context, snapshot *domain.ReportSnapshot) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(snapshot).Error; err != nil {
		return err
	}
	for i := range snapshot.Details {
		snapshot.Details[i].ID = 0
		snapshot.Details[i].SnapshotID = snapshot.ID
		if err := r.db.WithContext(ctx).Create(&snapshot.Details[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ReportSnapshotRepository) GetByID(ctx context.Context, id uint) (*domain.ReportSnapshot, error) {
	var snapshot domain.ReportSnapshot
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// List returns snapshot headers, newest first
func (r *ReportSnapshotRepository) List(ctx context.Context, page, pageSize int) ([]domain.ReportSnapshot, int64, error) {
	var snapshots []domain.ReportSnapshot
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ReportSnapshot{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC, id DESC").Find(&snapshots).Error
	return snapshots, total, err
}

func (r *ReportSnapshotRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.ReportSnapshot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetArchivePath records where the snapshot's workbook was archived
func (r *ReportSnapshotRepository) SetArchivePath(ctx context.Context, id uint, archivePath string) error {
	result := r.db.WithContext(ctx).Model(&domain.ReportSnapshot{}).Where("id = ?", id).Update("archive_path", archivePath)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
