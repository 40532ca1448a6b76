package repository

import (
	"context"

	"github.com/freshfold/laundry-api/internal/domain"
	"gorm.io/gorm"
)

// ItemFilters narrows catalog listings
type ItemFilters struct {
	Type            *domain.ItemType
	IncludeDisabled bool
}

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *ItemRepository) WithTx(tx *gorm.DB) *ItemRepository {
	return &ItemRepository{db: tx}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) GetByID(ctx context.Context, id uint) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDs returns the items with the given ids keyed by id. Missing ids are
// simply absent from the map.
func (r *ItemRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]domain.Item, error) {
	result := make(map[uint]domain.Item, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var items []domain.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ItemRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ItemRepository) List(ctx context.Context, filters *ItemFilters) ([]domain.Item, error) {
	var items []domain.Item
	query := r.db.WithContext(ctx).Model(&domain.Item{})
	if filters != nil {
		if filters.Type != nil {
			query = query.Where("type = ?", *filters.Type)
		} else if !filters.IncludeDisabled {
			query = query.Where("type <> ?", domain.ItemTypeDisabled)
		}
	}
	err := query.Order("type ASC, name ASC").Find(&items).Error
	return items, err
}
