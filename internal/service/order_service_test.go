package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ballerz-storefront/internal/invoice"
	"ballerz-storefront/internal/model"
	"ballerz-storefront/internal/replay"
	"ballerz-storefront/internal/repository"
)

type mockOrderRepo struct {
	m      sync.Mutex
	orders map[string]*model.Order
}

func (m *mockOrderRepo) Create(_ context.Context, _ *gorm.DB, order *model.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.orders == nil {
		m.orders = map[string]*model.Order{}
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID string) (*model.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) ListByEmail(_ context.Context, email string) ([]*model.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []*model.Order
	for _, o := range m.orders {
		if o.UserEmail == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID, status string) error {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

func newOrderServiceForTest(t *testing.T, db *gorm.DB, orders repository.OrderRepository, catalog repository.CatalogRepository) (OrderService, *mockBadge) {
	t.Helper()
	badge := &mockBadge{}
	reconciler := invoice.NewReconciler(invoice.DefaultBranding).
		WithClock(func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) })
	svc := NewOrderService(db, orders, catalog,
		replay.NewReplayer(badge, zap.NewNop()), reconciler, badge, zap.NewNop())
	return svc, badge
}

func storedOrder() *model.Order {
	return &model.Order{
		ID:        "ord-1",
		UserEmail: owner,
		Status:    model.StatusCompleted,
		Total:     decimal.NewFromInt(800),
		Items: []model.OrderItem{
			{ProductID: 1, Quantity: 2, Size: "M", SnapshotDescription: "Home Jersey", SnapshotUnitPrice: decimal.NewFromInt(500)},
			{ProductID: 2, Quantity: 1, SnapshotDescription: "Scarf", SnapshotUnitPrice: decimal.NewFromInt(200)},
		},
		CreatedAt: time.Now().Add(-72 * time.Hour),
	}
}

func TestBuyAgainReplaysIntoCurrentCart(t *testing.T) {
	orders := &mockOrderRepo{}
	require.NoError(t, orders.Create(context.Background(), nil, storedOrder()))

	cartRepo := &mockCartRepo{entries: []model.CartEntry{
		{ProductID: 1, Size: "M", Quantity: 3, AddedAt: time.Now()},
	}}
	svc, badge := newOrderServiceForTest(t, nil, orders, nil)

	err := svc.BuyAgain(context.Background(), cartRepo, owner, owner, "ord-1")

	require.NoError(t, err)
	require.Len(t, cartRepo.entries, 2)
	assert.Equal(t, 5, cartRepo.entries[0].Quantity, "existing key sums 3+2")
	assert.Equal(t, "S", cartRepo.entries[1].Size, "size-less order line replays as S")
	assert.Equal(t, 1, cartRepo.entries[1].Quantity)
	assert.Equal(t, 3, badge.adds, "one notification per replayed unit")
}

func TestBuyAgainRejectsForeignOrder(t *testing.T) {
	orders := &mockOrderRepo{}
	require.NoError(t, orders.Create(context.Background(), nil, storedOrder()))
	svc, _ := newOrderServiceForTest(t, nil, orders, nil)

	err := svc.BuyAgain(context.Background(), &mockCartRepo{}, "other", "other@example.com", "ord-1")

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestBuyAgainMissingOrderIsNotFound(t *testing.T) {
	svc, _ := newOrderServiceForTest(t, nil, &mockOrderRepo{}, nil)

	err := svc.BuyAgain(context.Background(), &mockCartRepo{}, owner, owner, "nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceReconcilesOwnOrder(t *testing.T) {
	orders := &mockOrderRepo{}
	require.NoError(t, orders.Create(context.Background(), nil, storedOrder()))
	svc, _ := newOrderServiceForTest(t, nil, orders, nil)

	doc, err := svc.Invoice(context.Background(), owner, "ord-1")

	require.NoError(t, err)
	// reference 2*500 + 200 = 1200, paid 800 -> discount 400 = 33%.
	assert.True(t, doc.ReferenceTotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, doc.DiscountAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, int64(33), doc.DiscountPercent)
	assert.True(t, doc.HasDiscount)
}

func TestInvoiceRejectsForeignOrder(t *testing.T) {
	orders := &mockOrderRepo{}
	require.NoError(t, orders.Create(context.Background(), nil, storedOrder()))
	svc, _ := newOrderServiceForTest(t, nil, orders, nil)

	_, err := svc.Invoice(context.Background(), "other@example.com", "ord-1")

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateStatusAdvancesOrder(t *testing.T) {
	orders := &mockOrderRepo{}
	require.NoError(t, orders.Create(context.Background(), nil, storedOrder()))
	svc, _ := newOrderServiceForTest(t, nil, orders, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), "ord-1", model.StatusShipped))

	assert.Equal(t, model.StatusShipped, orders.orders["ord-1"].Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	orders := &mockOrderRepo{}
	require.NoError(t, orders.Create(context.Background(), nil, storedOrder()))
	svc, _ := newOrderServiceForTest(t, nil, orders, nil)

	err := svc.UpdateStatus(context.Background(), "ord-1", "lost")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
	assert.Equal(t, model.StatusCompleted, orders.orders["ord-1"].Status, "rejected status leaves the order untouched")
}

func TestUpdateStatusMissingOrderIsNotFound(t *testing.T) {
	svc, _ := newOrderServiceForTest(t, nil, &mockOrderRepo{}, nil)

	err := svc.UpdateStatus(context.Background(), "nope", model.StatusShipped)

	assert.ErrorIs(t, err, ErrNotFound)
}

// PlaceOrder runs against a real in-memory store so the snapshot and the
// transaction are exercised for real.
func TestPlaceOrderSnapshotsCartAndCatalog(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.CatalogEntry{}, &model.CartEntry{}, &model.Order{}, &model.OrderItem{}))

	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)

	jersey := &model.CatalogEntry{
		Description:     "Home Jersey 25/26",
		ProductCategory: "Jersey",
		Price:           decimal.NewFromInt(500),
		Size:            "M",
	}
	require.NoError(t, catalogRepo.Create(context.Background(), jersey))

	require.NoError(t, cartRepo.Save(context.Background(), owner, []model.CartEntry{
		{ProductID: jersey.ID, Size: "M", Quantity: 2, AddedAt: time.Now()},
	}))

	svc, _ := newOrderServiceForTest(t, db, orderRepo, catalogRepo)

	order, err := svc.PlaceOrder(context.Background(), cartRepo, owner, owner, CustomerDetails{
		Name:    "A Shopper",
		Phone:   "9999999999",
		Address: "42 Side Street",
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusPlaced, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(1000)))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Home Jersey 25/26", order.Items[0].SnapshotDescription)
	assert.True(t, order.Items[0].SnapshotUnitPrice.Equal(decimal.NewFromInt(500)))

	// Cart is cleared after checkout.
	left, err := cartRepo.Load(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPlaceOrderEmptyCartRejected(t *testing.T) {
	svc, _ := newOrderServiceForTest(t, nil, &mockOrderRepo{}, nil)

	_, err := svc.PlaceOrder(context.Background(), &mockCartRepo{}, owner, owner, CustomerDetails{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cart", verr.Field)
}
