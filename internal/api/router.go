package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/buscaroli/shifts-api/internal/api/handler"
	"github.com/buscaroli/shifts-api/internal/api/middleware"
	"github.com/buscaroli/shifts-api/internal/core/ports"
	"github.com/buscaroli/shifts-api/internal/infrastructure/http/handlers"
)

// Deps holds what the router needs. Registerer and Gatherer default to the
// global Prometheus registry.
type Deps struct {
	Accounts  ports.AccountService
	Shifts    ports.ShiftService
	Gate      ports.Authenticator
	Readiness *handlers.ReadinessHandler
	Logger    zerolog.Logger

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.Readiness == nil {
		deps.Readiness = handlers.NewReadinessHandler()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, "Idempotency-Key"},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "shifts",
		Subsystem:  "http",
		Registerer: deps.Registerer,
	}))

	// --- Public routes ---
	e.GET("/", handler.Home)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handlers.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", deps.Readiness.Readiness)

	auth := middleware.Auth(deps.Gate)

	// --- Users ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	users := e.Group("/users")
	users.POST("/signup", accountHandler.Signup)
	users.POST("/login", accountHandler.Login)
	users.POST("/logout", accountHandler.Logout, auth)
	users.POST("/logoutAll", accountHandler.LogoutAll, auth)
	users.GET("/me", accountHandler.Me, auth)
	users.PATCH("/me", accountHandler.UpdateMe, auth)
	users.DELETE("/me", accountHandler.DeleteMe, auth)

	// --- Shifts (all owner-scoped) ---
	shiftHandler := handler.NewShiftHandler(deps.Shifts)
	shifts := e.Group("/shifts", auth)
	shifts.POST("", shiftHandler.Create)
	shifts.POST("/add", shiftHandler.Create)
	shifts.GET("", shiftHandler.List)
	shifts.GET("/:id", shiftHandler.Get)
	shifts.PATCH("/:id", shiftHandler.Update)
	shifts.DELETE("/:id", shiftHandler.Delete)

	return e
}

// requestLogger writes one structured zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
