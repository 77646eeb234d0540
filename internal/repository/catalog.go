package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"ballerz-storefront/internal/model"
)

// Column names a single-field catalog edit may touch. The API edits one
// field per call; anything else is rejected before a write happens.
var catalogEditableColumns = map[string]string{
	"description":     "description",
	"productCategory": "product_category",
	"price":           "price",
	"originalPrice":   "original_price",
	"customPrice":     "custom_price",
	"size":            "size",
	"material":        "material",
	"tag":             "tag",
	"customText":      "custom_text",
	"customizable":    "customizable",
	"imageUrl1":       "image_url1",
	"imageUrl2":       "image_url2",
	"imageUrl3":       "image_url3",
}

// CatalogColumn resolves an API field name to its column, reporting whether
// the field is editable at all.
func CatalogColumn(field string) (string, bool) {
	col, ok := catalogEditableColumns[field]
	return col, ok
}

type CatalogRepository interface {
	List(ctx context.Context) ([]*model.CatalogEntry, error)
	SearchByTag(ctx context.Context, query string) ([]*model.CatalogEntry, error)
	FindByID(ctx context.Context, id int64) (*model.CatalogEntry, error)
	FindMany(ctx context.Context, ids []int64) ([]*model.CatalogEntry, error)
	// Create assigns the entry's id as max(existing)+1 and persists it.
	// Ids of deleted entries are never reused, so the sequence may have gaps.
	Create(ctx context.Context, entry *model.CatalogEntry) error
	// UpdateField writes exactly one already-validated column.
	UpdateField(ctx context.Context, id int64, column string, value interface{}) error
	Delete(ctx context.Context, id int64) error
}

type catalogRepoImpl struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepoImpl{
		db: db,
	}
}

func (r *catalogRepoImpl) List(ctx context.Context) ([]*model.CatalogEntry, error) {
	var entries []*model.CatalogEntry
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *catalogRepoImpl) SearchByTag(ctx context.Context, query string) ([]*model.CatalogEntry, error) {
	var entries []*model.CatalogEntry
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(tag) LIKE ?", pattern).
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *catalogRepoImpl) FindByID(ctx context.Context, id int64) (*model.CatalogEntry, error) {
	var entry model.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *catalogRepoImpl) FindMany(ctx context.Context, ids []int64) ([]*model.CatalogEntry, error) {
	var entries []*model.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *catalogRepoImpl) Create(ctx context.Context, entry *model.CatalogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		err := tx.Model(&model.CatalogEntry{}).
			Select("COALESCE(MAX(id), 0)").
			Row().Scan(&maxID)
		if err != nil {
			return err
		}

		entry.ID = maxID + 1
		return tx.Create(entry).Error
	})
}

func (r *catalogRepoImpl) UpdateField(ctx context.Context, id int64, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.CatalogEntry{}).
		Where("id = ?", id).
		Update(column, value)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *catalogRepoImpl) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CatalogEntry{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
