package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogEntry is one purchasable product variant. The storefront stores up
// to three image URLs per entry and a single Tag column holding
// semicolon-separated tags.
type CatalogEntry struct {
	ID              int64           `gorm:"primaryKey" json:"id"`
	Description     string          `gorm:"size:512" json:"description"`
	ProductCategory string          `gorm:"size:64;index" json:"productCategory"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice   decimal.Decimal `gorm:"type:decimal(10,2)" json:"originalPrice"`
	Size            string          `gorm:"size:8" json:"size"`
	Material        string          `gorm:"size:64" json:"material"`
	Tag             string          `gorm:"size:256" json:"tag"`
	Customizable    bool            `json:"customizable"`
	CustomText      string          `gorm:"size:256" json:"customText"`
	CustomPrice     decimal.Decimal `gorm:"type:decimal(10,2)" json:"customPrice"`
	ImageURL1       string          `gorm:"size:512" json:"imageUrl1"`
	ImageURL2       string          `gorm:"size:512" json:"imageUrl2"`
	ImageURL3       string          `gorm:"size:512" json:"imageUrl3"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ImageURLs returns the non-empty image URLs in slot order.
func (e *CatalogEntry) ImageURLs() []string {
	urls := make([]string, 0, 3)
	for _, u := range []string{e.ImageURL1, e.ImageURL2, e.ImageURL3} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// CartEntry is one cart row. At most one row exists per
// (owner, product, size); quantity is always >= 1 once stored.
//
// The JSON field names match the guest-cart cookie format the web client
// has always written, so existing cookies keep decoding.
type CartEntry struct {
	OwnerKey  string    `gorm:"primaryKey;size:128" json:"-"`
	ProductID int64     `gorm:"primaryKey" json:"ID"`
	Size      string    `gorm:"primaryKey;size:8" json:"Size"`
	Quantity  int       `gorm:"not null" json:"Quantity"`
	AddedAt   time.Time `json:"AddedOn"`
}

// Order is the immutable record written at checkout. Total is the amount
// actually paid and may be below the sum of line prices when a discount was
// applied upstream; the discount itself is never stored.
type Order struct {
	ID              string          `gorm:"primaryKey;size:64" json:"id"`
	UserEmail       string          `gorm:"size:128;index" json:"userEmail"`
	Status          string          `gorm:"size:32;index" json:"status"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	CustomerName    string          `gorm:"size:128" json:"customerName"`
	CustomerPhone   string          `gorm:"size:32" json:"customerPhone"`
	CustomerAddress string          `gorm:"size:512" json:"customerAddress"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderItem snapshots the catalog entry at purchase time. Later catalog
// edits must not change historical orders, so the description, display name
// and unit price are copied in rather than joined.
type OrderItem struct {
	ID                uint            `gorm:"primaryKey" json:"-"`
	OrderID           string          `gorm:"size:64;index;not null" json:"-"`
	ProductID         int64           `gorm:"index;not null" json:"productId"`
	Quantity          int             `gorm:"not null" json:"quantity"`
	Size              string          `gorm:"size:8" json:"size"`
	IsCustomized      bool            `json:"isCustomized"`
	CustomizationText string          `gorm:"size:256" json:"customizationText"`
	CustomPrice       decimal.Decimal `gorm:"type:decimal(10,2)" json:"customPrice"`

	SnapshotDescription string          `gorm:"size:512" json:"snapshotDescription"`
	SnapshotDisplayName string          `gorm:"size:128" json:"snapshotDisplayName"`
	SnapshotUnitPrice   decimal.Decimal `gorm:"type:decimal(10,2)" json:"snapshotUnitPrice"`

	CreatedAt time.Time `json:"-"`
}
