package dto

import (
	"github.com/shopspring/decimal"

	"ballerz-storefront/internal/model"
)

type CartItemInput struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type AddCartItemsRequest struct {
	Items []CartItemInput `json:"items"`
}

type UpdateCartItemRequest struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type CartResponse struct {
	Items      []model.CartEntry `json:"items"`
	TotalUnits int               `json:"totalUnits"`
}

type BadgeResponse struct {
	Units int `json:"units"`
}

type CreateProductRequest struct {
	Description     string          `json:"description"`
	ProductCategory string          `json:"productCategory"`
	Price           decimal.Decimal `json:"price"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	Size            string          `json:"size"`
	Material        string          `json:"material"`
	Tag             string          `json:"tag"`
	Customizable    bool            `json:"customizable"`
	CustomText      string          `json:"customText"`
	CustomPrice     decimal.Decimal `json:"customPrice"`
	ImageURLs       []string        `json:"imageUrls"`
}

// UpdateProductFieldRequest edits one field per call; Value arrives as text
// and is parsed per the field's kind server-side.
type UpdateProductFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateOrderStatusRequest is the fulfillment system's status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type PlaceOrderRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type FailedReplayLine struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Error     string `json:"error"`
}

type BuyAgainResponse struct {
	Status      string             `json:"status"`
	FailedLines []FailedReplayLine `json:"failedLines,omitempty"`
}
