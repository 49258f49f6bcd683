// Package router builds the echo instance: global middleware first, then
// every route with the policy that protects it.
package router

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/unrolled/secure"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/handler"
	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/middleware"
	"github.com/iliyamo/storefront-api/internal/validation"
)

// Deps carries everything the routes need.
type Deps struct {
	Logger     *slog.Logger
	Production bool

	Authn    auth.Authenticator
	Sessions *auth.Sessions
	Guard    *auth.Guard

	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Products   *handler.ProductHandler
	Orders     *handler.OrderHandler
	OrderItems *handler.OrderItemHandler
	Cart       *handler.CartHandler
	Reviews    *handler.ReviewHandler
}

// New returns a configured echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = httpx.HTTPErrorHandler

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echo.WrapMiddleware(secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'",
		IsDevelopment:         !d.Production,
		STSSeconds:            31536000,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}).Handler))
	e.Use(middleware.Authenticate(d.Authn, d.Sessions.Transport()))

	RegisterRoutes(e)
	api := e.Group("/api")
	RegisterAuth(api, d)
	RegisterUsers(api, d)
	RegisterCatalog(api, d)
	RegisterOrders(api, d)
	RegisterCart(api, d)
	return e
}

// RegisterRoutes registers routes that live outside the API prefix.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 || v.Error != nil {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if id := middleware.Identity(c); id.Authenticated() {
				attrs = append(attrs, slog.String("user", id.SubjectID))
			}
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
