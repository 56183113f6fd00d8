package http

import (
	"net/http"
	"strconv"
	"time"

	"mcredit-backend/internal/adapter/middleware"
	"mcredit-backend/internal/domain/user"
	"mcredit-backend/internal/usecase/auth"
	docuc "mcredit-backend/internal/usecase/document"
	loanuc "mcredit-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MetricsSink is the request recorder plus the scrape endpoint.
type MetricsSink interface {
	middleware.HTTPRecorder
	Handler() http.Handler
}

type RouterConfig struct {
	Auth      *auth.Usecase
	Loans     *loanuc.Usecase
	Documents *docuc.Usecase
	Log       *zap.Logger

	StoreName    string
	SessionTTL   time.Duration
	SecureCookie bool

	// Optional. Without Redis, Idempotency-Key headers are ignored.
	Metrics        MetricsSink
	Redis          *redis.Client
	IdempotencyTTL time.Duration

	LoginRatePerMinute int
	AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *echo.Echo {
	log := cfg.Log
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP))
			return nil
		},
	}))
	e.Use(echomw.Recover())
	if len(cfg.AllowOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.AllowOrigins,
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderContentType, middleware.HeaderIdempotencyKey},
		}))
	}
	if cfg.Metrics != nil {
		e.Use(middleware.Metrics(cfg.Metrics))
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	}
	e.Use(middleware.LoadSession(cfg.Auth, log))

	h := NewHandler(cfg.StoreName)
	ah := NewAuthHandler(cfg.Auth, cfg.SessionTTL, cfg.SecureCookie, log)
	lh := NewLoanHandler(cfg.Loans, cfg.Documents, log)
	dh := NewDocumentHandler(cfg.Documents, log)

	e.GET("/health", h.Health)

	api := e.Group("/api", echomw.BodyLimit("64K"))
	authed := middleware.RequireAuth()
	staff := middleware.RequireRole(user.RoleAgent, user.RoleAdmin)
	admin := middleware.RequireRole(user.RoleAdmin)

	a := api.Group("/auth")
	a.POST("/register", ah.Register)
	a.POST("/login", ah.Login, loginLimiter(cfg.LoginRatePerMinute)...)
	a.GET("/me", ah.Me, authed)
	a.POST("/logout", ah.Logout)

	api.GET("/calculator", lh.Calculate)

	la := api.Group("/loan-applications")
	create := []echo.MiddlewareFunc{authed}
	if cfg.Redis != nil {
		create = append(create, middleware.Idempotency(cfg.Redis, cfg.IdempotencyTTL, log))
	}
	la.POST("", lh.Create, create...)
	la.GET("", lh.List, authed)
	la.GET("/by-application-id/:applicationId", lh.Track)
	la.GET("/:id", lh.Get, authed)
	la.PATCH("/:id/status", lh.UpdateStatus, staff)
	la.PATCH("/:id/assign", lh.Assign, admin)
	la.PATCH("/:id/kyc", lh.UpdateKYC, staff)
	la.GET("/:id/documents", lh.Documents, authed)

	// uploads skip the /api group limit; the usecase enforces the exact file size
	uploadLimit := echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{
		Limit: formatBytes(cfg.Documents.MaxFileSize() + 1<<20),
	})
	e.POST("/api/documents/upload", dh.Upload, uploadLimit, authed)
	api.PATCH("/documents/:id/verification", dh.Verify, staff)

	api.GET("/admin/stats", lh.Stats, admin)

	return e
}

func loginLimiter(perMinute int) []echo.MiddlewareFunc {
	if perMinute <= 0 {
		return nil
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "unable to identify client"})
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many login attempts"})
		},
	})}
}

// formatBytes renders n in the unit syntax echo's BodyLimit expects.
func formatBytes(n int64) string {
	return strconv.FormatInt(n/1024, 10) + "K"
}
