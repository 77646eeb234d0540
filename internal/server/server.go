package server

import (
	"ballerz-storefront/internal/badge"
	"ballerz-storefront/internal/handler"
	mw "ballerz-storefront/internal/middleware"
	"ballerz-storefront/internal/repository"
	"ballerz-storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	catalogHandler *handler.CatalogHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
}

func NewServer(
	catalogService service.CatalogService,
	cartService service.CartService,
	orderService service.OrderService,
	remoteCarts repository.CartRepository,
	badgeCounter *badge.Counter,
	jwtSecret string,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mw.ResolveIdentity(jwtSecret))

	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService, remoteCarts, badgeCounter)
	orderHandler := handler.NewOrderHandler(orderService, cartHandler)

	s := &Server{
		echo:           e,
		catalogHandler: catalogHandler,
		cartHandler:    cartHandler,
		orderHandler:   orderHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:id", s.catalogHandler.GetProduct)
	api.POST("/products", s.catalogHandler.CreateProduct)
	api.PATCH("/products/:id", s.catalogHandler.UpdateProductField)
	api.DELETE("/products/:id", s.catalogHandler.DeleteProduct)

	// -------- cart --------
	cart := api.Group("/cart")
	cart.GET("", s.cartHandler.GetCart)
	cart.GET("/badge", s.cartHandler.Badge)
	cart.POST("/items", s.cartHandler.AddItems)
	cart.PUT("/items", s.cartHandler.UpdateItem)
	cart.DELETE("/items", s.cartHandler.RemoveItem)
	cart.DELETE("", s.cartHandler.ClearCart)

	// -------- orders --------
	orders := api.Group("/orders")
	orders.GET("", s.orderHandler.ListOrders)
	orders.POST("", s.orderHandler.PlaceOrder)
	orders.POST("/:id/buy-again", s.orderHandler.BuyAgain)
	orders.GET("/:id/invoice", s.orderHandler.Invoice)
	orders.PATCH("/:id/status", s.orderHandler.UpdateStatus)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
