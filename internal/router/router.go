package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/repository"
)

// Register wires routes and middleware. Catalog reads are public; catalog
// writes and order status transitions require admin; order placement and
// order reads require any authenticated user.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
) {
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// 60 requests per minute per client address, with a small burst.
	limiter := middleware.NewRateLimiter(rate.Limit(1), 10)
	e.Use(limiter.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	bearer := []echo.MiddlewareFunc{
		middleware.JWT(cfg.JWTSecret),
		middleware.LoadUser(userRepo),
	}
	admin := append(append([]echo.MiddlewareFunc{}, bearer...), middleware.RequireAdmin)

	// Auth
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/me", authHandler.Me, bearer...)
	e.POST("/logout", authHandler.Logout, bearer...)

	// Categories: public reads, admin writes
	e.GET("/categories", categoryHandler.List)
	e.GET("/categories/:id", categoryHandler.Get)
	e.POST("/categories", categoryHandler.Create, admin...)
	e.PUT("/categories/:id", categoryHandler.Update, admin...)
	e.DELETE("/categories/:id", categoryHandler.Delete, admin...)

	// Products: public reads, admin writes
	e.GET("/products", productHandler.List)
	e.GET("/products/:id", productHandler.Get)
	e.POST("/products", productHandler.Create, admin...)
	e.PUT("/products/:id", productHandler.Update, admin...)
	e.DELETE("/products/:id", productHandler.Delete, admin...)

	// Orders
	e.POST("/orders", orderHandler.Place, bearer...)
	e.GET("/orders", orderHandler.List, bearer...)
	e.GET("/orders/:id", orderHandler.Get, bearer...)
	e.PUT("/orders/:id/status", orderHandler.SetStatus, admin...)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
