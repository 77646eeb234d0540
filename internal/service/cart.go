package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ballerz-storefront/internal/cart"
	"ballerz-storefront/internal/model"
	"ballerz-storefront/internal/repository"
)

// BadgeCounter is the slice of the badge the cart flows need.
type BadgeCounter interface {
	ItemAdded(ownerKey string, productID int64)
	Set(ownerKey string, units int)
	Clear(ownerKey string)
}

// CartService orchestrates the merge engine against whichever cart backend
// the caller hands it. The repository is a parameter, not a field: the
// handler picks remote vs cookie from authentication state per request, and
// the service stays oblivious to which one it got.
type CartService interface {
	GetCart(ctx context.Context, repo repository.CartRepository, ownerKey string) ([]model.CartEntry, error)
	// AddItems merges the deltas and persists the whole cart in one commit:
	// either every delta applies or none do.
	AddItems(ctx context.Context, repo repository.CartRepository, ownerKey string, deltas []cart.Delta) ([]model.CartEntry, error)
	UpdateQuantity(ctx context.Context, repo repository.CartRepository, ownerKey string, productID int64, size string, quantity int) error
	RemoveItem(ctx context.Context, repo repository.CartRepository, ownerKey string, productID int64, size string) error
	Clear(ctx context.Context, repo repository.CartRepository, ownerKey string) error
}

type cartServiceImpl struct {
	badge  BadgeCounter
	logger *zap.Logger
}

func NewCartService(badge BadgeCounter, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		badge:  badge,
		logger: logger,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, repo repository.CartRepository, ownerKey string) ([]model.CartEntry, error) {
	entries, err := repo.Load(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	// Reading the cart is the resync point for the badge.
	s.badge.Set(ownerKey, cart.TotalUnits(entries))

	return entries, nil
}

func (s *cartServiceImpl) AddItems(ctx context.Context, repo repository.CartRepository, ownerKey string, deltas []cart.Delta) ([]model.CartEntry, error) {
	if len(deltas) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "required"}
	}
	for _, d := range deltas {
		if d.Quantity < 1 {
			return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
		if d.Size != "" && !model.ValidSize(d.Size) {
			return nil, &ValidationError{Field: "size", Reason: fmt.Sprintf("must be one of %s", strings.Join(model.Sizes, ", "))}
		}
	}

	entries, err := repo.Load(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	merged := cart.Merge(entries, deltas, time.Now())

	// Persist before notifying: a failed save means no quantity change
	// happened, so the badge must not move either.
	if err := repo.Save(ctx, ownerKey, merged); err != nil {
		s.logger.Error("cart save failed",
			zap.String("owner", ownerKey),
			zap.Error(err),
		)
		return nil, fmt.Errorf("save cart: %w", err)
	}

	for _, d := range deltas {
		for i := 0; i < d.Quantity; i++ {
			s.badge.ItemAdded(ownerKey, d.ProductID)
		}
	}

	return merged, nil
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, repo repository.CartRepository, ownerKey string, productID int64, size string, quantity int) error {
	err := repo.UpdateQuantity(ctx, ownerKey, productID, cart.NormalizedSize(size), quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}

	s.resyncBadge(ctx, repo, ownerKey)
	return nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, repo repository.CartRepository, ownerKey string, productID int64, size string) error {
	err := repo.RemoveItem(ctx, ownerKey, productID, cart.NormalizedSize(size))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	s.resyncBadge(ctx, repo, ownerKey)
	return nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, repo repository.CartRepository, ownerKey string) error {
	if err := repo.Clear(ctx, ownerKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.badge.Clear(ownerKey)
	return nil
}

func (s *cartServiceImpl) resyncBadge(ctx context.Context, repo repository.CartRepository, ownerKey string) {
	entries, err := repo.Load(ctx, ownerKey)
	if err != nil {
		s.logger.Warn("badge resync failed", zap.String("owner", ownerKey), zap.Error(err))
		return
	}
	s.badge.Set(ownerKey, cart.TotalUnits(entries))
}
