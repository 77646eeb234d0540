package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ballerz-storefront/internal/dto"
	"ballerz-storefront/internal/middleware"
	"ballerz-storefront/internal/replay"
	"ballerz-storefront/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
	cartHandler  *CartHandler
}

func NewOrderHandler(orderService service.OrderService, cartHandler *CartHandler) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cartHandler:  cartHandler,
	}
}

func (h *OrderHandler) requireEmail(c echo.Context) (middleware.Identity, error) {
	id := middleware.From(c)
	if !id.Authenticated() {
		return id, echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
	}
	return id, nil
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := h.requireEmail(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListOrders(ctx, id.Email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := h.requireEmail(c)
	if err != nil {
		return err
	}

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	repo := h.cartHandler.repoFor(c, id)
	order, err := h.orderService.PlaceOrder(ctx, repo, id.OwnerKey(), id.Email, service.CustomerDetails{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, order)
}

// BuyAgain replays a past order into the current cart. Partial success is a
// real outcome here: merged lines stay merged and the failed ones come back
// in the response instead of being swallowed.
func (h *OrderHandler) BuyAgain(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := h.requireEmail(c)
	if err != nil {
		return err
	}

	repo := h.cartHandler.repoFor(c, id)
	err = h.orderService.BuyAgain(ctx, repo, id.OwnerKey(), id.Email, c.Param("id"))

	var partial *replay.PartialReplayError
	if errors.As(err, &partial) {
		failed := make([]dto.FailedReplayLine, len(partial.Failed))
		for i, f := range partial.Failed {
			failed[i] = dto.FailedReplayLine{
				ProductID: f.ProductID,
				Size:      f.Size,
				Quantity:  f.Quantity,
				Error:     f.Err.Error(),
			}
		}
		return c.JSON(http.StatusMultiStatus, dto.BuyAgainResponse{
			Status:      "partial",
			FailedLines: failed,
		})
	}
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.BuyAgainResponse{
		Status: "ok",
	})
}

// UpdateStatus is the fulfillment system's hook for advancing an order.
// It carries no shopper identity; the route is mounted for the internal
// deployment surface, not the storefront client.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := h.orderService.UpdateStatus(ctx, c.Param("id"), req.Status); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "updated",
	})
}

// Invoice returns the reconciled document model; rendering it to a file is
// the download client's job.
func (h *OrderHandler) Invoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := h.requireEmail(c)
	if err != nil {
		return err
	}

	doc, err := h.orderService.Invoice(ctx, id.Email, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, doc)
}
