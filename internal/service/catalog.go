package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"ballerz-storefront/internal/model"
	"ballerz-storefront/internal/repository"
)

// DefaultDisplaySize is the size a catalog entry is created with when none
// is given. This is a display default only; the cart's merge fallback is "S"
// and the two are intentionally separate (see cart.DefaultSize).
const DefaultDisplaySize = "M"

type CatalogService interface {
	List(ctx context.Context) ([]*model.CatalogEntry, error)
	// Search filters by case-insensitive substring match on tags; an empty
	// query lists everything.
	Search(ctx context.Context, query string) ([]*model.CatalogEntry, error)
	Get(ctx context.Context, id int64) (*model.CatalogEntry, error)
	Create(ctx context.Context, entry *model.CatalogEntry) (int64, error)
	// UpdateField edits exactly one field. The raw value arrives as a string
	// and is parsed per the field's kind; bad input is rejected with no
	// write.
	UpdateField(ctx context.Context, id int64, field, value string) error
	Delete(ctx context.Context, id int64) error
}

type catalogServiceImpl struct {
	catalogRepo repository.CatalogRepository
	sfg         singleflight.Group // collapses concurrent identical reads
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogServiceImpl{
		catalogRepo: catalogRepo,
	}
}

func (s *catalogServiceImpl) List(ctx context.Context) ([]*model.CatalogEntry, error) {
	v, err, _ := s.sfg.Do("list", func() (interface{}, error) {
		return s.catalogRepo.List(ctx)
	})
	if err != nil {
		return nil, err
	}

	return v.([]*model.CatalogEntry), nil
}

func (s *catalogServiceImpl) Search(ctx context.Context, query string) ([]*model.CatalogEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}

	return s.catalogRepo.SearchByTag(ctx, query)
}

func (s *catalogServiceImpl) Get(ctx context.Context, id int64) (*model.CatalogEntry, error) {
	v, err, _ := s.sfg.Do("get:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		return s.catalogRepo.FindByID(ctx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return v.(*model.CatalogEntry), nil
}

func (s *catalogServiceImpl) Create(ctx context.Context, entry *model.CatalogEntry) (int64, error) {
	if entry.ProductCategory == "" {
		return 0, &ValidationError{Field: "productCategory", Reason: "required"}
	}
	if entry.Price.IsNegative() {
		return 0, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if entry.OriginalPrice.IsNegative() {
		return 0, &ValidationError{Field: "originalPrice", Reason: "must not be negative"}
	}
	if entry.CustomPrice.IsNegative() {
		return 0, &ValidationError{Field: "customPrice", Reason: "must not be negative"}
	}
	if entry.Size == "" {
		entry.Size = DefaultDisplaySize
	}
	if !model.ValidSize(entry.Size) {
		return 0, &ValidationError{Field: "size", Reason: fmt.Sprintf("must be one of %s", strings.Join(model.Sizes, ", "))}
	}

	if err := s.catalogRepo.Create(ctx, entry); err != nil {
		return 0, fmt.Errorf("create catalog entry: %w", err)
	}

	return entry.ID, nil
}

func (s *catalogServiceImpl) UpdateField(ctx context.Context, id int64, field, value string) error {
	column, ok := repository.CatalogColumn(field)
	if !ok {
		return &ValidationError{Field: field, Reason: "not an editable field"}
	}

	parsed, err := parseCatalogValue(field, value)
	if err != nil {
		return err
	}

	err = s.catalogRepo.UpdateField(ctx, id, column, parsed)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}

func (s *catalogServiceImpl) Delete(ctx context.Context, id int64) error {
	err := s.catalogRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	return err
}

func parseCatalogValue(field, value string) (interface{}, error) {
	switch field {
	case "price", "originalPrice", "customPrice":
		num, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, &ValidationError{Field: field, Reason: "not a valid number"}
		}
		if num.IsNegative() {
			return nil, &ValidationError{Field: field, Reason: "must not be negative"}
		}
		return num, nil
	case "customizable":
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, &ValidationError{Field: field, Reason: "not a valid boolean"}
		}
		return b, nil
	case "size":
		if !model.ValidSize(value) {
			return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("must be one of %s", strings.Join(model.Sizes, ", "))}
		}
		return value, nil
	default:
		return value, nil
	}
}
