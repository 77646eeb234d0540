// Package cart holds the merge engine: a pure function that folds quantity
// deltas into an existing set of cart entries without ever duplicating a
// (product, size) key or losing quantity. Persistence lives behind
// repository.CartRepository; nothing here does I/O.
package cart

import (
	"time"

	"ballerz-storefront/internal/model"
)

// DefaultSize is the fallback used when a delta carries no size. Cart and
// replay paths have always collapsed size-less items into "S"; the catalog's
// display default is "M" and the two are deliberately not unified, because
// changing this value would change which cart row an existing shopper's
// item merges into.
const DefaultSize = "S"

// Delta is one incoming (product, size, quantity) addition.
type Delta struct {
	ProductID int64
	Size      string
	Quantity  int
}

// Key identifies the cart row a delta lands in.
type Key struct {
	ProductID int64
	Size      string
}

// NormalizedSize applies the DefaultSize fallback.
func NormalizedSize(size string) string {
	if size == "" {
		return DefaultSize
	}
	return size
}

// Merge folds incoming deltas into existing entries and returns the updated
// set. Matching (product, size) rows get their quantity summed and AddedAt
// refreshed; fresh keys are appended in incoming order. Merge is additive,
// not idempotent: applying the same deltas twice doubles the added quantity.
// The input slice is not mutated.
func Merge(existing []model.CartEntry, incoming []Delta, now time.Time) []model.CartEntry {
	merged := make([]model.CartEntry, len(existing))
	copy(merged, existing)

	index := make(map[Key]int, len(merged))
	for i, e := range merged {
		index[Key{ProductID: e.ProductID, Size: e.Size}] = i
	}

	for _, d := range incoming {
		if d.Quantity <= 0 {
			continue
		}
		k := Key{ProductID: d.ProductID, Size: NormalizedSize(d.Size)}
		if i, ok := index[k]; ok {
			merged[i].Quantity += d.Quantity
			merged[i].AddedAt = now
			continue
		}
		merged = append(merged, model.CartEntry{
			ProductID: k.ProductID,
			Size:      k.Size,
			Quantity:  d.Quantity,
			AddedAt:   now,
		})
		index[k] = len(merged) - 1
	}

	return merged
}

// TotalUnits sums the quantities across entries. The cart badge shows this.
func TotalUnits(entries []model.CartEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}
