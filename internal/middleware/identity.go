// Package middleware resolves who a request is shopping as. Authentication
// itself happens upstream; here a bearer token only yields the signed-in
// email, and everyone else gets a durable guest id cookie so their cart has
// a stable owner.
package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	GuestCookieName = "guest_id"
	guestCookieTTL  = 30 * 24 * time.Hour

	identityContextKey = "identity"
)

type Identity struct {
	Email   string
	GuestID string
}

func (id Identity) Authenticated() bool {
	return id.Email != ""
}

// OwnerKey is the cart owner key this identity's rows live under.
func (id Identity) OwnerKey() string {
	if id.Authenticated() {
		return id.Email
	}
	return "guest:" + id.GuestID
}

// ResolveIdentity extracts the identity for every request and stores it on
// the context. A bad or absent token is not an error, it just means guest.
func ResolveIdentity(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := Identity{Email: emailFromToken(c, jwtSecret)}

			if !id.Authenticated() {
				if ck, err := c.Cookie(GuestCookieName); err == nil && ck.Value != "" {
					id.GuestID = ck.Value
				} else {
					id.GuestID = uuid.NewString()
					c.SetCookie(&http.Cookie{
						Name:    GuestCookieName,
						Value:   id.GuestID,
						Path:    "/",
						Expires: time.Now().Add(guestCookieTTL),
					})
				}
			}

			c.Set(identityContextKey, id)
			return next(c)
		}
	}
}

// From returns the identity ResolveIdentity stored on the context.
func From(c echo.Context) Identity {
	id, _ := c.Get(identityContextKey).(Identity)
	return id
}

func emailFromToken(c echo.Context, secret string) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") || secret == "" {
		return ""
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	email, _ := claims["email"].(string)
	return email
}
