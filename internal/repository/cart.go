package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ballerz-storefront/internal/cart"
	"ballerz-storefront/internal/model"
)

// CartRepository is the capability interface the merge engine's callers
// persist through. Two backends implement it: this package's gorm-backed
// store keyed by the signed-in user, and cartstore's cookie-backed store for
// anonymous shoppers. Callers pick the backend from authentication state;
// the merge engine never sees either.
type CartRepository interface {
	Load(ctx context.Context, ownerKey string) ([]model.CartEntry, error)
	// Save replaces the whole cart in one commit. Either every row lands or
	// none do.
	Save(ctx context.Context, ownerKey string, entries []model.CartEntry) error
	// AddQuantity applies one delta as an atomic per-key increment, so two
	// concurrent adds to the same row both land instead of last-write-wins.
	AddQuantity(ctx context.Context, ownerKey string, delta cart.Delta) error
	// UpdateQuantity sets the row's quantity; zero or below removes the row.
	UpdateQuantity(ctx context.Context, ownerKey string, productID int64, size string, quantity int) error
	RemoveItem(ctx context.Context, ownerKey string, productID int64, size string) error
	Clear(ctx context.Context, ownerKey string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) Load(ctx context.Context, ownerKey string) ([]model.CartEntry, error) {
	var entries []model.CartEntry
	err := r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("added_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *cartRepoImpl) Save(ctx context.Context, ownerKey string, entries []model.CartEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_key = ?", ownerKey).
			Delete(&model.CartEntry{}).Error; err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		rows := make([]model.CartEntry, len(entries))
		copy(rows, entries)
		for i := range rows {
			rows[i].OwnerKey = ownerKey
		}

		return tx.Create(&rows).Error
	})
}

func (r *cartRepoImpl) AddQuantity(ctx context.Context, ownerKey string, delta cart.Delta) error {
	if delta.Quantity <= 0 {
		return nil
	}

	row := model.CartEntry{
		OwnerKey:  ownerKey,
		ProductID: delta.ProductID,
		Size:      cart.NormalizedSize(delta.Size),
		Quantity:  delta.Quantity,
		AddedAt:   time.Now(),
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_key"}, {Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", delta.Quantity),
			"added_at": time.Now(),
		}),
	}).Create(&row).Error
}

func (r *cartRepoImpl) UpdateQuantity(ctx context.Context, ownerKey string, productID int64, size string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, ownerKey, productID, size)
	}

	result := r.db.WithContext(ctx).Model(&model.CartEntry{}).
		Where("owner_key = ? AND product_id = ? AND size = ?", ownerKey, productID, size).
		Updates(map[string]interface{}{
			"quantity": quantity,
			"added_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, ownerKey string, productID int64, size string) error {
	result := r.db.WithContext(ctx).
		Where("owner_key = ? AND product_id = ? AND size = ?", ownerKey, productID, size).
		Delete(&model.CartEntry{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cartRepoImpl) Clear(ctx context.Context, ownerKey string) error {
	return r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Delete(&model.CartEntry{}).Error
}
