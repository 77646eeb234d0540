package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ballerz-storefront/internal/model"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func entry(productID int64, size string, qty int, added time.Time) model.CartEntry {
	return model.CartEntry{ProductID: productID, Size: size, Quantity: qty, AddedAt: added}
}

func TestMergeFreshKeyAppends(t *testing.T) {
	existing := []model.CartEntry{entry(1, "M", 2, now.Add(-time.Hour))}

	merged := Merge(existing, []Delta{{ProductID: 2, Size: "L", Quantity: 3}}, now)

	require.Len(t, merged, 2)
	assert.Equal(t, existing[0], merged[0], "untouched rows must not change")
	assert.Equal(t, entry(2, "L", 3, now), merged[1])
}

func TestMergeExistingKeySumsQuantity(t *testing.T) {
	existing := []model.CartEntry{
		entry(1, "M", 2, now.Add(-time.Hour)),
		entry(7, "S", 1, now.Add(-time.Minute)),
	}

	merged := Merge(existing, []Delta{{ProductID: 1, Size: "M", Quantity: 4}}, now)

	require.Len(t, merged, 2)
	assert.Equal(t, 6, merged[0].Quantity)
	assert.Equal(t, now, merged[0].AddedAt, "AddedAt refreshes on merge")
	assert.Equal(t, existing[1], merged[1], "other rows unchanged")
}

func TestMergeIsAdditiveNotIdempotent(t *testing.T) {
	existing := []model.CartEntry{entry(1, "M", 2, now)}
	deltas := []Delta{{ProductID: 1, Size: "M", Quantity: 3}}

	once := Merge(existing, deltas, now)
	twice := Merge(once, deltas, now)

	require.Len(t, twice, 1)
	assert.Equal(t, 2+3+3, twice[0].Quantity,
		"repeating the same deltas must add again, not replace")
}

func TestMergeSameSizeDifferentProductStaysSeparate(t *testing.T) {
	merged := Merge(nil, []Delta{
		{ProductID: 1, Size: "M", Quantity: 1},
		{ProductID: 2, Size: "M", Quantity: 1},
	}, now)

	assert.Len(t, merged, 2)
}

func TestMergeSameProductDifferentSizeStaysSeparate(t *testing.T) {
	merged := Merge(nil, []Delta{
		{ProductID: 1, Size: "M", Quantity: 1},
		{ProductID: 1, Size: "L", Quantity: 1},
	}, now)

	assert.Len(t, merged, 2)
}

func TestMergeDefaultsMissingSizeToS(t *testing.T) {
	existing := []model.CartEntry{entry(1, "S", 2, now.Add(-time.Hour))}

	merged := Merge(existing, []Delta{{ProductID: 1, Quantity: 1}}, now)

	require.Len(t, merged, 1, `size-less deltas collapse into the "S" row`)
	assert.Equal(t, 3, merged[0].Quantity)
}

func TestMergeCollapsesRepeatedIncomingKeys(t *testing.T) {
	merged := Merge(nil, []Delta{
		{ProductID: 5, Size: "XL", Quantity: 1},
		{ProductID: 5, Size: "XL", Quantity: 2},
	}, now)

	require.Len(t, merged, 1)
	assert.Equal(t, 3, merged[0].Quantity)
}

func TestMergeIgnoresNonPositiveDeltas(t *testing.T) {
	existing := []model.CartEntry{entry(1, "M", 2, now)}

	merged := Merge(existing, []Delta{
		{ProductID: 1, Size: "M", Quantity: 0},
		{ProductID: 9, Size: "S", Quantity: -3},
	}, now)

	assert.Equal(t, existing, merged)
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	existing := []model.CartEntry{entry(1, "M", 2, now.Add(-time.Hour))}

	_ = Merge(existing, []Delta{{ProductID: 1, Size: "M", Quantity: 5}}, now)

	assert.Equal(t, 2, existing[0].Quantity)
	assert.Equal(t, now.Add(-time.Hour), existing[0].AddedAt)
}

func TestTotalUnits(t *testing.T) {
	entries := []model.CartEntry{
		entry(1, "M", 2, now),
		entry(2, "S", 3, now),
	}

	assert.Equal(t, 5, TotalUnits(entries))
	assert.Equal(t, 0, TotalUnits(nil))
}
