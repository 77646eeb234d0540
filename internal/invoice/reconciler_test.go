package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ballerz-storefront/internal/model"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestReconciler() *Reconciler {
	return NewReconciler(DefaultBranding).WithClock(func() time.Time { return fixedNow })
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testOrder(total int64, items ...model.OrderItem) *model.Order {
	return &model.Order{
		ID:              "ord-42",
		UserEmail:       "shopper@example.com",
		Status:          model.StatusCompleted,
		Total:           d(total),
		CustomerName:    "A Shopper",
		CustomerPhone:   "9999999999",
		CustomerAddress: "42 Side Street",
		Items:           items,
		CreatedAt:       fixedNow.Add(-48 * time.Hour),
	}
}

func plainItem(qty int, unitPrice int64) model.OrderItem {
	return model.OrderItem{
		ProductID:           1,
		Quantity:            qty,
		Size:                "M",
		SnapshotDescription: "Home Jersey 25/26",
		SnapshotDisplayName: "Jersey",
		SnapshotUnitPrice:   d(unitPrice),
	}
}

func TestReconcileNoDiscount(t *testing.T) {
	doc := newTestReconciler().Reconcile(testOrder(1000, plainItem(2, 500)))

	assert.True(t, doc.ReferenceTotal.Equal(d(1000)), "got %s", doc.ReferenceTotal)
	assert.True(t, doc.PaidTotal.Equal(d(1000)))
	assert.True(t, doc.DiscountAmount.IsZero())
	assert.Zero(t, doc.DiscountPercent)
	assert.False(t, doc.HasDiscount, "no discount row for a zero discount")
}

func TestReconcileReconstructsDiscount(t *testing.T) {
	doc := newTestReconciler().Reconcile(testOrder(800, plainItem(2, 500)))

	assert.True(t, doc.DiscountAmount.Equal(d(200)), "got %s", doc.DiscountAmount)
	assert.Equal(t, int64(20), doc.DiscountPercent)
	assert.True(t, doc.HasDiscount)
}

func TestReconcileDiscountNeverNegative(t *testing.T) {
	// Paid more than the reference (price dropped after purchase).
	doc := newTestReconciler().Reconcile(testOrder(1200, plainItem(2, 500)))

	assert.True(t, doc.DiscountAmount.IsZero())
	assert.Zero(t, doc.DiscountPercent)
	assert.False(t, doc.HasDiscount)
}

func TestReconcileDiscountPercentRoundsHalfUp(t *testing.T) {
	// 125/1000 = 12.5% -> 13.
	doc := newTestReconciler().Reconcile(testOrder(875, plainItem(2, 500)))

	assert.Equal(t, int64(13), doc.DiscountPercent)
}

func TestReconcileCustomizedLine(t *testing.T) {
	item := model.OrderItem{
		ProductID:           3,
		Quantity:            1,
		Size:                "L",
		IsCustomized:        true,
		CustomizationText:   "RONALDO 7",
		CustomPrice:         d(150),
		SnapshotDescription: "Away Jersey",
		SnapshotUnitPrice:   d(500),
	}

	doc := newTestReconciler().Reconcile(testOrder(650, item))

	require.Len(t, doc.Rows, 1)
	row := doc.Rows[0]
	assert.Equal(t, `Away Jersey (Custom: "RONALDO 7")`, row.Label)
	assert.True(t, row.UnitPrice.Equal(d(650)))
	assert.True(t, row.LineTotal.Equal(d(650)))
	assert.True(t, doc.ReferenceTotal.Equal(d(650)))
	assert.False(t, doc.HasDiscount)
}

func TestReconcileCustomPriceIgnoredWhenNotCustomized(t *testing.T) {
	item := plainItem(1, 500)
	item.CustomPrice = d(150)

	doc := newTestReconciler().Reconcile(testOrder(500, item))

	assert.True(t, doc.Rows[0].UnitPrice.Equal(d(500)))
}

func TestReconcileFallsBackOnMissingSnapshot(t *testing.T) {
	doc := newTestReconciler().Reconcile(testOrder(0, model.OrderItem{
		ProductID: 9,
		Quantity:  2,
	}))

	require.Len(t, doc.Rows, 1)
	assert.Equal(t, PlaceholderLabel, doc.Rows[0].Label)
	assert.True(t, doc.Rows[0].UnitPrice.IsZero())
	assert.True(t, doc.Rows[0].LineTotal.IsZero())
	assert.True(t, doc.ReferenceTotal.IsZero())
	assert.Zero(t, doc.DiscountPercent, "zero reference total never divides")
}

func TestReconcileLabelFallsBackToDisplayName(t *testing.T) {
	doc := newTestReconciler().Reconcile(testOrder(100, model.OrderItem{
		ProductID:           9,
		Quantity:            1,
		SnapshotDisplayName: "Jersey",
		SnapshotUnitPrice:   d(100),
	}))

	assert.Equal(t, "Jersey", doc.Rows[0].Label)
}

func TestReconcileIsDeterministic(t *testing.T) {
	order := testOrder(800,
		plainItem(2, 500),
		model.OrderItem{
			ProductID:           3,
			Quantity:            1,
			IsCustomized:        true,
			CustomizationText:   "CAPTAIN",
			CustomPrice:         d(150),
			SnapshotDescription: "Third Kit",
			SnapshotUnitPrice:   d(500),
		},
	)

	r := newTestReconciler()
	first := r.Reconcile(order)
	second := r.Reconcile(order)

	// GeneratedAt is the only time-dependent field; the clock is pinned, so
	// full equality holds.
	assert.Equal(t, first, second)
}

func TestReconcileCarriesBranding(t *testing.T) {
	branding := Branding{Title: "Store Copy", Footer: "Keep this for your records.", CurrencyPrefix: "Rs."}
	doc := NewReconciler(branding).
		WithClock(func() time.Time { return fixedNow }).
		Reconcile(testOrder(500, plainItem(1, 500)))

	assert.Equal(t, "Store Copy", doc.Title)
	assert.Equal(t, "Keep this for your records.", doc.Footer)
	assert.Equal(t, fixedNow, doc.GeneratedAt)
	assert.Equal(t, "ord-42", doc.Header.OrderID)
	assert.Equal(t, model.StatusCompleted, doc.Header.Status)
	assert.Equal(t, "shopper@example.com", doc.Customer.Email)
}
