package service

import (
	"context"
	"errors"
	"strings"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/mapper"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService manages the services and add-ons offered at the counter
type CatalogService struct {
	itemRepo *repository.ItemRepository
	logger   *zap.Logger
}

func NewCatalogService(itemRepo *repository.ItemRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (s *CatalogService) List(ctx context.Context, filters *repository.ItemFilters) ([]domain.ItemDTO, error) {
	items, err := s.itemRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list items", zap.Error(err))
		return nil, persistence("list items", err)
	}
	dtos := make([]domain.ItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToItemDTO(&items[i])
	}
	return dtos, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id uint) (*domain.ItemDTO, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, persistence("load item", err)
	}
	dto := mapper.ToItemDTO(item)
	return &dto, nil
}

func (s *CatalogService) Create(ctx context.Context, actor *auth.UserContext, req *domain.CreateItemRequest) (*domain.ItemDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, price, err := validateItem(req.Name, req.Type, req.Price)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{Name: name, Type: req.Type, Price: price}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		s.logger.Error("failed to create item", zap.Error(err))
		return nil, persistence("create item", err)
	}

	s.logger.Info("item created", zap.Uint("item_id", item.ID), zap.String("type", string(item.Type)))
	dto := mapper.ToItemDTO(item)
	return &dto, nil
}

func (s *CatalogService) Update(ctx context.Context, actor *auth.UserContext, id uint, req *domain.UpdateItemRequest) (*domain.ItemDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, price, err := validateItem(req.Name, req.Type, req.Price)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, persistence("load item", err)
	}

	item.Name = name
	item.Type = req.Type
	item.Price = price
	if err := s.itemRepo.Update(ctx, item); err != nil {
		s.logger.Error("failed to update item", zap.Error(err), zap.Uint("item_id", id))
		return nil, persistence("update item", err)
	}

	s.logger.Info("item updated", zap.Uint("item_id", id))
	dto := mapper.ToItemDTO(item)
	return &dto, nil
}

// Delete removes an item unconditionally; past order lines keep their own copy
// of the name and price
func (s *CatalogService) Delete(ctx context.Context, actor *auth.UserContext, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return persistence("delete item", err)
	}
	s.logger.Info("item deleted", zap.Uint("item_id", id))
	return nil
}

func validateItem(name string, itemType domain.ItemType, price float64) (string, decimal.Decimal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", decimal.Zero, invalid("name", "is required")
	}
	// order lines with this name are treated as the delivery charge
	if strings.EqualFold(name, DeliveryFeeLineName) {
		return "", decimal.Zero, invalid("name", "is reserved for the delivery fee line")
	}
	if !itemType.IsValid() {
		return "", decimal.Zero, invalid("type", "must be one of service, addon, disabled")
	}
	amount := domain.RoundMoney(decimal.NewFromFloat(price))
	if !amount.IsPositive() {
		return "", decimal.Zero, invalid("price", "must be greater than 0")
	}
	return name, amount, nil
}
