// Package cartstore holds the anonymous-cart backend: the whole cart lives
// client-side in one cookie, so every operation is a read-modify-replace of
// that single value. The cookie is the same JSON list the web client has
// always written, percent-encoded, with a 30-day expiry.
package cartstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ballerz-storefront/internal/cart"
	"ballerz-storefront/internal/model"
	"ballerz-storefront/internal/repository"
)

const (
	CookieName = "guest_cart"
	CookieTTL  = 30 * 24 * time.Hour
)

// CookieRepository adapts a request's guest_cart cookie to
// repository.CartRepository. It is built per request and bound to that
// request's echo context; the owner key parameter is ignored because the
// cookie itself is the identity. A cookie has a single writer (the browser
// that sent it), so read-merge-write needs no concurrency control.
//
// The request's Cookie header never changes mid-request, so writes are kept
// on the repository as well as in the response Set-Cookie; later reads in the
// same request see earlier writes.
type CookieRepository struct {
	c echo.Context

	written    []model.CartEntry
	hasWritten bool
}

var _ repository.CartRepository = (*CookieRepository)(nil)

func NewCookieRepository(c echo.Context) *CookieRepository {
	return &CookieRepository{c: c}
}

func (r *CookieRepository) Load(_ context.Context, _ string) ([]model.CartEntry, error) {
	if r.hasWritten {
		return r.written, nil
	}

	ck, err := r.c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil, nil
	}

	raw, err := url.QueryUnescape(ck.Value)
	if err != nil {
		// Unreadable cookie: treat as empty rather than wedging the cart.
		return nil, nil
	}

	var entries []model.CartEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, nil
	}

	return entries, nil
}

func (r *CookieRepository) Save(_ context.Context, _ string, entries []model.CartEntry) error {
	if len(entries) == 0 {
		return r.Clear(context.Background(), "")
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	r.c.SetCookie(&http.Cookie{
		Name:    CookieName,
		Value:   url.QueryEscape(string(raw)),
		Path:    "/",
		Expires: time.Now().Add(CookieTTL),
	})

	r.written = entries
	r.hasWritten = true
	return nil
}

func (r *CookieRepository) AddQuantity(ctx context.Context, ownerKey string, delta cart.Delta) error {
	entries, err := r.Load(ctx, ownerKey)
	if err != nil {
		return err
	}

	return r.Save(ctx, ownerKey, cart.Merge(entries, []cart.Delta{delta}, time.Now()))
}

func (r *CookieRepository) UpdateQuantity(ctx context.Context, ownerKey string, productID int64, size string, quantity int) error {
	entries, err := r.Load(ctx, ownerKey)
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].ProductID == productID && entries[i].Size == size {
			if quantity <= 0 {
				entries = append(entries[:i], entries[i+1:]...)
			} else {
				entries[i].Quantity = quantity
				entries[i].AddedAt = time.Now()
			}
			return r.Save(ctx, ownerKey, entries)
		}
	}

	return gorm.ErrRecordNotFound
}

func (r *CookieRepository) RemoveItem(ctx context.Context, ownerKey string, productID int64, size string) error {
	return r.UpdateQuantity(ctx, ownerKey, productID, size, 0)
}

func (r *CookieRepository) Clear(_ context.Context, _ string) error {
	r.c.SetCookie(&http.Cookie{
		Name:    CookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
	})

	r.written = nil
	r.hasWritten = true
	return nil
}
