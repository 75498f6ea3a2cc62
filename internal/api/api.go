// Package api exposes the record operations as a JSON HTTP API.
package api

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/observability"
	"github.com/ecoparque/residuos-go/internal/records"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	Settings *conf.Settings

	records records.Interface
	backups *backup.Manager
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates the controller and registers all routes on a fresh echo
// instance.
func New(settings *conf.Settings, svc records.Interface, backups *backup.Manager,
	metrics *observability.Metrics, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	c := &Controller{
		Echo:     e,
		Settings: settings,
		records:  svc,
		backups:  backups,
		metrics:  metrics,
		logger:   logger.With("service", "api"),
	}
	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Group = c.Echo.Group("/api/v1")

	// static segments are registered before the :entity parameter so
	// echo resolves them first
	c.Group.GET("/summary", c.GetSummary)
	c.Group.POST("/backup", c.RunBackup)
	c.Group.GET("/backup/stats", c.GetBackupStats)

	c.Group.GET("/:entity", c.ListRecords)
	c.Group.POST("/:entity", c.CreateRecord)
	c.Group.GET("/:entity/stats", c.GetEntityStats)
	c.Group.GET("/:entity/:id", c.GetRecord)
	c.Group.PATCH("/:entity/:id", c.UpdateRecord)
	c.Group.DELETE("/:entity/:id", c.DeleteRecord)

	if c.metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	}
	c.Echo.GET("/healthz", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error         string `json:"error"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// HandleError maps an error to its HTTP status and logs it with a
// correlation id for tracking.
func (c *Controller) HandleError(ctx echo.Context, err error) error {
	code := statusFor(err)
	resp := ErrorResponse{
		Error:         err.Error(),
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
	c.logger.Error("request failed",
		"correlation_id", resp.CorrelationID,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"error", err)
	return ctx.JSON(code, resp)
}

func statusFor(err error) int {
	switch {
	case errors.HasCategory(err, errors.CategoryValidation):
		return http.StatusBadRequest
	case errors.HasCategory(err, errors.CategoryNotFound):
		return http.StatusNotFound
	case errors.HasCategory(err, errors.CategoryConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func generateCorrelationID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
