// Package replay feeds a historical order's line items back into the live
// cart ("buy again"). Lines are applied one at a time so a single bad line
// cannot sink the rest of the re-order.
package replay

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ballerz-storefront/internal/cart"
	"ballerz-storefront/internal/model"
	"ballerz-storefront/internal/repository"
)

// Notifier observes cart growth. It is called once per unit replayed, not
// once per line, so a badge counting units stays consistent with the cart.
type Notifier interface {
	ItemAdded(ownerKey string, productID int64)
}

// FailedLine is one order line that could not be merged.
type FailedLine struct {
	ProductID int64
	Size      string
	Quantity  int
	Err       error
}

// PartialReplayError reports the lines that failed after a replay kept going
// past individual failures. Lines not listed were merged and stay merged.
type PartialReplayError struct {
	OrderID string
	Failed  []FailedLine
}

func (e *PartialReplayError) Error() string {
	keys := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		keys[i] = fmt.Sprintf("%d/%s", f.ProductID, f.Size)
	}
	return fmt.Sprintf("replay of order %s: %d line(s) failed: %s",
		e.OrderID, len(e.Failed), strings.Join(keys, ", "))
}

// Deltas maps an order's items to merge deltas, applying the historical "S"
// size fallback for lines recorded without one.
func Deltas(order *model.Order) []cart.Delta {
	deltas := make([]cart.Delta, 0, len(order.Items))
	for _, item := range order.Items {
		deltas = append(deltas, cart.Delta{
			ProductID: item.ProductID,
			Size:      cart.NormalizedSize(item.Size),
			Quantity:  item.Quantity,
		})
	}
	return deltas
}

type Replayer struct {
	notifier Notifier
	logger   *zap.Logger
}

func NewReplayer(notifier Notifier, logger *zap.Logger) *Replayer {
	return &Replayer{
		notifier: notifier,
		logger:   logger,
	}
}

// Replay merges every line of the order into the owner's cart through repo,
// in item order. Each line commits on its own: a failed line is recorded and
// the rest still run, and the result is a PartialReplayError naming the
// failures. Cancelling the context stops between lines; lines already merged
// are not rolled back.
func (r *Replayer) Replay(ctx context.Context, repo repository.CartRepository, ownerKey string, order *model.Order) error {
	var failed []FailedLine

	for _, delta := range Deltas(order) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := repo.AddQuantity(ctx, ownerKey, delta); err != nil {
			r.logger.Warn("buy-again line failed",
				zap.String("order_id", order.ID),
				zap.Int64("product_id", delta.ProductID),
				zap.String("size", delta.Size),
				zap.Error(err),
			)
			failed = append(failed, FailedLine{
				ProductID: delta.ProductID,
				Size:      delta.Size,
				Quantity:  delta.Quantity,
				Err:       err,
			})
			continue
		}

		for i := 0; i < delta.Quantity; i++ {
			r.notifier.ItemAdded(ownerKey, delta.ProductID)
		}
	}

	if len(failed) > 0 {
		return &PartialReplayError{OrderID: order.ID, Failed: failed}
	}

	return nil
}
