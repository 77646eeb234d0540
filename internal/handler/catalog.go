package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ballerz-storefront/internal/dto"
	"ballerz-storefront/internal/model"
	"ballerz-storefront/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListProducts returns the catalog, filtered by ?q= tag search when given.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.catalogService.Search(ctx, c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	entry, err := h.catalogService.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if len(req.ImageURLs) > 3 {
		return echo.NewHTTPError(http.StatusBadRequest, "at most 3 image urls")
	}

	entry := &model.CatalogEntry{
		Description:     req.Description,
		ProductCategory: req.ProductCategory,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		Size:            req.Size,
		Material:        req.Material,
		Tag:             req.Tag,
		Customizable:    req.Customizable,
		CustomText:      req.CustomText,
		CustomPrice:     req.CustomPrice,
	}
	urls := []*string{&entry.ImageURL1, &entry.ImageURL2, &entry.ImageURL3}
	for i, u := range req.ImageURLs {
		*urls[i] = u
	}

	id, err := h.catalogService.Create(ctx, entry)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{
		"id": id,
	})
}

// UpdateProductField applies a single-field edit.
func (h *CatalogHandler) UpdateProductField(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req dto.UpdateProductFieldRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := h.catalogService.UpdateField(ctx, id, req.Field, req.Value); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "updated",
	})
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.catalogService.Delete(ctx, id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "deleted",
	})
}
