package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ballerz-storefront/internal/badge"
	"ballerz-storefront/internal/cart"
	"ballerz-storefront/internal/cartstore"
	"ballerz-storefront/internal/dto"
	"ballerz-storefront/internal/middleware"
	"ballerz-storefront/internal/repository"
	"ballerz-storefront/internal/service"
)

type CartHandler struct {
	cartService service.CartService
	remoteCarts repository.CartRepository
	badge       *badge.Counter
}

func NewCartHandler(cartService service.CartService, remoteCarts repository.CartRepository, badge *badge.Counter) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		remoteCarts: remoteCarts,
		badge:       badge,
	}
}

// repoFor picks the cart backend from authentication state: signed-in
// shoppers get the remote store, everyone else the request's cookie cart.
func (h *CartHandler) repoFor(c echo.Context, id middleware.Identity) repository.CartRepository {
	if id.Authenticated() {
		return h.remoteCarts
	}
	return cartstore.NewCookieRepository(c)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	id := middleware.From(c)

	entries, err := h.cartService.GetCart(ctx, h.repoFor(c, id), id.OwnerKey())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.CartResponse{
		Items:      entries,
		TotalUnits: cart.TotalUnits(entries),
	})
}

func (h *CartHandler) AddItems(c echo.Context) error {
	ctx := c.Request().Context()
	id := middleware.From(c)

	var req dto.AddCartItemsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	deltas := make([]cart.Delta, len(req.Items))
	for i, item := range req.Items {
		deltas[i] = cart.Delta{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		}
	}

	entries, err := h.cartService.AddItems(ctx, h.repoFor(c, id), id.OwnerKey(), deltas)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.CartResponse{
		Items:      entries,
		TotalUnits: cart.TotalUnits(entries),
	})
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	id := middleware.From(c)

	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	err := h.cartService.UpdateQuantity(ctx, h.repoFor(c, id), id.OwnerKey(), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "updated",
	})
}

// RemoveItem deletes one (product, size) row; productId and size arrive as
// query parameters.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	id := middleware.From(c)

	productID, err := strconv.ParseInt(c.QueryParam("productId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err = h.cartService.RemoveItem(ctx, h.repoFor(c, id), id.OwnerKey(), productID, c.QueryParam("size"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "removed",
	})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	id := middleware.From(c)

	if err := h.cartService.Clear(ctx, h.repoFor(c, id), id.OwnerKey()); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "cleared",
	})
}

// Badge returns the unit count the navbar shows.
func (h *CartHandler) Badge(c echo.Context) error {
	id := middleware.From(c)

	return c.JSON(http.StatusOK, dto.BadgeResponse{
		Units: h.badge.Total(id.OwnerKey()),
	})
}
