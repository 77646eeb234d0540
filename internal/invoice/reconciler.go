// Package invoice derives a printable document from a placed order. The
// order stores only what was paid; the undiscounted reference total and any
// discount are reconstructed here, fresh on every call, and the result is a
// pure data structure for an external renderer or mailer to lay out.
package invoice

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ballerz-storefront/internal/model"
)

// PlaceholderLabel is rendered for lines whose product snapshot lost its
// description. An invoice must always render, even from incomplete
// historical data.
const PlaceholderLabel = "Product"

// Branding carries the per-variant text that used to be copy-pasted across
// three near-identical invoice generators. One reconciler, three brandings.
type Branding struct {
	Title          string
	Footer         string
	CurrencyPrefix string
}

// DefaultBranding matches the storefront's own invoice.
var DefaultBranding = Branding{
	Title:          "Ballerz Invoice",
	Footer:         "Thank you for shopping with Ballerz.",
	CurrencyPrefix: "Rs.",
}

type Header struct {
	OrderID   string    `json:"orderId"`
	OrderDate time.Time `json:"orderDate"`
	Status    string    `json:"status"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Row struct {
	Label     string          `json:"label"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Document is the full invoice model. The renderer performs no business
// computation: every total, row and label it needs is already here.
type Document struct {
	Title    string   `json:"title"`
	Header   Header   `json:"header"`
	Customer Customer `json:"customer"`
	Rows     []Row    `json:"rows"`

	ReferenceTotal  decimal.Decimal `json:"referenceTotal"`
	PaidTotal       decimal.Decimal `json:"paidTotal"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountPercent int64           `json:"discountPercent"`
	// HasDiscount gates the discount row; no row is shown for a zero amount.
	HasDiscount bool `json:"hasDiscount"`

	Footer         string    `json:"footer"`
	CurrencyPrefix string    `json:"currencyPrefix"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

type Reconciler struct {
	branding Branding
	now      func() time.Time
}

func NewReconciler(branding Branding) *Reconciler {
	return &Reconciler{
		branding: branding,
		now:      time.Now,
	}
}

// WithClock fixes the GeneratedAt source. Tests pin it; everything else in
// the document is a pure function of the order.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Reconcile recomputes the undiscounted reference total from the order's
// line snapshots, trusts the stored total as the amount paid, and derives
// the implied discount from the gap between the two.
func (r *Reconciler) Reconcile(order *model.Order) *Document {
	rows := make([]Row, 0, len(order.Items))
	referenceTotal := decimal.Zero

	for _, item := range order.Items {
		row := lineRow(item)
		referenceTotal = referenceTotal.Add(row.LineTotal)
		rows = append(rows, row)
	}

	paidTotal := order.Total
	discountAmount := referenceTotal.Sub(paidTotal)
	if discountAmount.IsNegative() {
		discountAmount = decimal.Zero
	}

	var discountPercent int64
	if discountAmount.IsPositive() && referenceTotal.IsPositive() {
		// Integer percent, rounded half-up. Decimal's Round is
		// half-away-from-zero, which is the same thing for the
		// non-negative operands possible here.
		discountPercent = discountAmount.
			Div(referenceTotal).
			Mul(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	}

	return &Document{
		Title: r.branding.Title,
		Header: Header{
			OrderID:   order.ID,
			OrderDate: order.CreatedAt,
			Status:    order.Status,
		},
		Customer: Customer{
			Name:    order.CustomerName,
			Email:   order.UserEmail,
			Phone:   order.CustomerPhone,
			Address: order.CustomerAddress,
		},
		Rows:            rows,
		ReferenceTotal:  referenceTotal,
		PaidTotal:       paidTotal,
		DiscountAmount:  discountAmount,
		DiscountPercent: discountPercent,
		HasDiscount:     discountAmount.IsPositive(),
		Footer:          r.branding.Footer,
		CurrencyPrefix:  r.branding.CurrencyPrefix,
		GeneratedAt:     r.now(),
	}
}

func lineRow(item model.OrderItem) Row {
	label := item.SnapshotDescription
	if label == "" {
		label = item.SnapshotDisplayName
	}
	if label == "" {
		label = PlaceholderLabel
	}
	if item.IsCustomized && item.CustomizationText != "" {
		label = fmt.Sprintf("%s (Custom: %q)", label, item.CustomizationText)
	}

	unitPrice := item.SnapshotUnitPrice
	if item.IsCustomized && item.CustomPrice.IsPositive() {
		unitPrice = unitPrice.Add(item.CustomPrice)
	}

	quantity := item.Quantity
	if quantity < 1 {
		// Historical rows predating quantity validation render as one unit
		// rather than failing the whole invoice.
		quantity = 1
	}

	return Row{
		Label:     label,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
