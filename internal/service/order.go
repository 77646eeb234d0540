package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ballerz-storefront/internal/invoice"
	"ballerz-storefront/internal/model"
	"ballerz-storefront/internal/replay"
	"ballerz-storefront/internal/repository"
)

// CustomerDetails is the checkout form block snapshotted onto the order for
// the invoice.
type CustomerDetails struct {
	Name    string
	Phone   string
	Address string
}

type OrderService interface {
	ListOrders(ctx context.Context, email string) ([]*model.Order, error)
	// PlaceOrder snapshots the caller's cart and the current catalog into an
	// immutable order, then clears the cart. Payment happens upstream.
	PlaceOrder(ctx context.Context, repo repository.CartRepository, ownerKey, email string, customer CustomerDetails) (*model.Order, error)
	// BuyAgain replays a past order's lines into the caller's current cart.
	// A *replay.PartialReplayError return means some lines landed and the
	// listed ones did not.
	BuyAgain(ctx context.Context, repo repository.CartRepository, ownerKey, callerEmail, orderID string) error
	Invoice(ctx context.Context, callerEmail, orderID string) (*invoice.Document, error)
	// UpdateStatus records a fulfillment-driven status change. Shoppers never
	// call this; the fulfillment system does.
	UpdateStatus(ctx context.Context, orderID, status string) error
}

type orderServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	replayer    *replay.Replayer
	reconciler  *invoice.Reconciler
	badge       BadgeCounter
	logger      *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	replayer *replay.Replayer,
	reconciler *invoice.Reconciler,
	badge BadgeCounter,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		replayer:    replayer,
		reconciler:  reconciler,
		badge:       badge,
		logger:      logger,
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, email string) ([]*model.Order, error) {
	return s.orderRepo.ListByEmail(ctx, email)
}

func (s *orderServiceImpl) PlaceOrder(ctx context.Context, repo repository.CartRepository, ownerKey, email string, customer CustomerDetails) (*model.Order, error) {
	entries, err := repo.Load(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(entries) == 0 {
		return nil, &ValidationError{Field: "cart", Reason: "is empty"}
	}

	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ProductID
	}
	products, err := s.catalogRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load catalog entries: %w", err)
	}
	byID := make(map[int64]*model.CatalogEntry, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(entries))
	for _, e := range entries {
		product, ok := byID[e.ProductID]
		if !ok {
			return nil, fmt.Errorf("cart references product %d: %w", e.ProductID, ErrNotFound)
		}

		item := model.OrderItem{
			ProductID:           product.ID,
			Quantity:            e.Quantity,
			Size:                e.Size,
			IsCustomized:        product.Customizable,
			SnapshotDescription: product.Description,
			SnapshotDisplayName: product.ProductCategory,
			SnapshotUnitPrice:   product.Price,
		}
		unitPrice := product.Price
		if product.Customizable {
			item.CustomizationText = product.CustomText
			item.CustomPrice = product.CustomPrice
			unitPrice = unitPrice.Add(product.CustomPrice)
		}

		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(e.Quantity))))
		items = append(items, item)
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		UserEmail:       email,
		Status:          model.StatusPlaced,
		Total:           total,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Items:           items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	// The order is placed either way; a cart that fails to clear is a
	// nuisance, not a lost sale.
	if err := repo.Clear(ctx, ownerKey); err != nil {
		s.logger.Warn("cart clear after checkout failed",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
	s.badge.Clear(ownerKey)

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(items)),
		zap.String("total", total.String()),
	)

	return order, nil
}

func (s *orderServiceImpl) BuyAgain(ctx context.Context, repo repository.CartRepository, ownerKey, callerEmail, orderID string) error {
	order, err := s.findOwnedOrder(ctx, callerEmail, orderID)
	if err != nil {
		return err
	}

	return s.replayer.Replay(ctx, repo, ownerKey, order)
}

func (s *orderServiceImpl) Invoice(ctx context.Context, callerEmail, orderID string) (*invoice.Document, error) {
	order, err := s.findOwnedOrder(ctx, callerEmail, orderID)
	if err != nil {
		return nil, err
	}

	return s.reconciler.Reconcile(order), nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID, status string) error {
	if !model.ValidStatus(status) {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("must be one of %s", strings.Join(model.Statuses, ", "))}
	}

	err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", status),
	)
	return nil
}

func (s *orderServiceImpl) findOwnedOrder(ctx context.Context, callerEmail, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.UserEmail != callerEmail {
		return nil, ErrPermissionDenied
	}

	return order, nil
}
